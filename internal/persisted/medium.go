package persisted

import "errors"

// Medium is a durable key-value store of strings.
type Medium interface {
	// Get returns the raw payload stored under key.
	// ok is false when nothing is stored.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key.
	Set(key, value string) error
}

// Deleter is implemented by media that can remove a key.
type Deleter interface {
	Delete(key string) error
}

// Lister is implemented by media that can enumerate their keys.
type Lister interface {
	Keys() ([]string, error)
}

var (
	// ErrEmptyKey is returned when a cell is created without a key.
	ErrEmptyKey = errors.New("persisted: key must not be empty")

	// ErrDuplicateKey is returned when a key is registered twice on one registry.
	ErrDuplicateKey = errors.New("persisted: key already registered")

	// ErrEncode is returned by Set when the value cannot be serialized.
	ErrEncode = errors.New("persisted: encode value")

	// ErrPersist is returned by Set when the medium rejected the write.
	// The in-memory value has still been updated.
	ErrPersist = errors.New("persisted: write to medium")
)
