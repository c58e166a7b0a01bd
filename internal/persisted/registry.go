package persisted

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Outcome describes what happened when a cell tried to hydrate.
type Outcome int

const (
	// OutcomeUnavailable means no medium was available, hydration was skipped.
	OutcomeUnavailable Outcome = iota
	// OutcomeAbsent means nothing was stored under the key.
	OutcomeAbsent
	// OutcomeReadFailed means the medium returned an error on read.
	OutcomeReadFailed
	// OutcomeDecodeFailed means the stored payload was malformed.
	OutcomeDecodeFailed
	// OutcomeNull means the stored payload decoded to JSON null.
	OutcomeNull
	// OutcomeRejected means the validator refused the stored value.
	OutcomeRejected
	// OutcomeAdopted means the stored value became the cell's value.
	OutcomeAdopted
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeAbsent:
		return "absent"
	case OutcomeReadFailed:
		return "read-failed"
	case OutcomeDecodeFailed:
		return "decode-failed"
	case OutcomeNull:
		return "null"
	case OutcomeRejected:
		return "rejected"
	case OutcomeAdopted:
		return "adopted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// HydrateEvent reports the hydration result of one cell.
type HydrateEvent struct {
	Key     string
	Outcome Outcome
	Err     error // set for OutcomeReadFailed and OutcomeDecodeFailed
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. Cells log through it.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHydrateHook registers a callback invoked once per cell construction.
func WithHydrateHook(hook func(HydrateEvent)) Option {
	return func(r *Registry) {
		r.hook = hook
	}
}

// Registry owns a durable medium and the set of keys bound to it.
// A nil medium means no durable storage is reachable: cells keep their
// defaults and never persist.
type Registry struct {
	mu     sync.Mutex
	medium Medium
	logger *slog.Logger
	hook   func(HydrateEvent)
	keys   []string
	seen   map[string]bool
	closed bool
}

// NewRegistry creates a registry over m. m may be nil.
func NewRegistry(m Medium, opts ...Option) *Registry {
	r := &Registry{
		medium: m,
		logger: slog.Default(),
		seen:   make(map[string]bool),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Available reports whether a durable medium is reachable.
func (r *Registry) Available() bool {
	return r.medium != nil
}

// Medium returns the underlying medium, or nil.
func (r *Registry) Medium() Medium {
	return r.medium
}

// Logger returns the registry logger.
func (r *Registry) Logger() *slog.Logger {
	return r.logger
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Close releases the medium if it holds resources.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if c, ok := r.medium.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// claim reserves key for a new cell.
func (r *Registry) claim(key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seen[key] {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	r.seen[key] = true
	r.keys = append(r.keys, key)
	return nil
}

// report logs a hydration result and forwards it to the hook.
func (r *Registry) report(ev HydrateEvent) {
	switch ev.Outcome {
	case OutcomeReadFailed:
		r.logger.Warn("failed to read setting, using default", "key", ev.Key, "error", ev.Err)
	case OutcomeDecodeFailed, OutcomeRejected:
		r.logger.Info("discarding stored setting, using default",
			"key", ev.Key, "outcome", ev.Outcome.String(), "error", ev.Err)
	default:
		r.logger.Debug("hydrated setting", "key", ev.Key, "outcome", ev.Outcome.String())
	}

	if r.hook != nil {
		r.hook(ev)
	}
}
