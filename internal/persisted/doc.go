// Package persisted provides reactive value cells backed by a durable
// key-value medium. A cell hydrates itself once at construction, accepting
// the stored value only when it decodes and passes the cell's validator, and
// writes every explicit assignment back to the medium before observers see it.
//
// Any failure while hydrating falls back to the cell's default value. Such
// failures are never returned to the caller; they are logged and reported
// through the registry's hydrate hook.
package persisted
