// Package settings is the catalog of persisted user preferences. It owns
// every setting's key, default and validator, and offers an untyped Entry
// view for callers that address settings by name.
package settings
