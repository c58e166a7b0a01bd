package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmylchreest/linkuprefs/internal/persisted"
)

var (
	// ErrUnknownKey is returned when a setting name is not in the catalog.
	ErrUnknownKey = errors.New("unknown setting")

	// ErrInvalidValue is returned when a value does not decode into the
	// setting's type or fails its validator.
	ErrInvalidValue = errors.New("invalid setting value")
)

// Entry is an untyped view of one setting.
type Entry interface {
	Key() string
	Value() any
	DefaultValue() any

	// SetJSON decodes raw into the setting's type, validates it and stores it.
	SetJSON(raw string) error
	Reset() error
	Subscribe(fn func(any)) (unsubscribe func())
}

type entry[T any] struct {
	cell     *persisted.Cell[T]
	validate persisted.Validator[T]
}

func newEntry[T any](cell *persisted.Cell[T], validate persisted.Validator[T]) Entry {
	return &entry[T]{cell: cell, validate: validate}
}

func (e *entry[T]) Key() string {
	return e.cell.Key()
}

func (e *entry[T]) Value() any {
	return e.cell.Get()
}

func (e *entry[T]) DefaultValue() any {
	return e.cell.Default()
}

func (e *entry[T]) SetJSON(raw string) error {
	data := bytes.TrimSpace([]byte(raw))
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: %s: null", ErrInvalidValue, e.Key())
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var v T
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidValue, e.Key(), err)
	}
	if dec.More() {
		return fmt.Errorf("%w: %s: trailing data", ErrInvalidValue, e.Key())
	}
	if e.validate != nil && !e.validate(v) {
		return fmt.Errorf("%w: %s: rejected %s", ErrInvalidValue, e.Key(), data)
	}

	return e.cell.Set(v)
}

func (e *entry[T]) Reset() error {
	return e.cell.Reset()
}

func (e *entry[T]) Subscribe(fn func(any)) func() {
	return e.cell.Subscribe(func(v T) { fn(v) })
}

// RawJSON turns user input into a JSON payload. Input that is not valid
// JSON is taken as a bare string, so `dark` and `"dark"` are equivalent.
func RawJSON(input string) string {
	trimmed := bytes.TrimSpace([]byte(input))
	if json.Valid(trimmed) {
		return string(trimmed)
	}
	data, _ := json.Marshal(string(trimmed))
	return string(data)
}
