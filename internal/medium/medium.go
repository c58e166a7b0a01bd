// Package medium provides durable key-value stores for persisted settings.
package medium

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/linkuprefs/internal/config"
	"github.com/jmylchreest/linkuprefs/internal/persisted"
)

var (
	// ErrQuotaExceeded is returned when a write would grow the medium past its quota.
	ErrQuotaExceeded = errors.New("medium: quota exceeded")

	// ErrClosed is returned when a closed medium is used.
	ErrClosed = errors.New("medium: closed")

	// ErrNewerSchema is returned when a write would replace a document
	// written by a newer version of the program.
	ErrNewerSchema = errors.New("medium: document has a newer schema")

	// ErrCorrupt is returned when a write would replace a document that
	// cannot be parsed.
	ErrCorrupt = errors.New("medium: document is corrupted")
)

// Entry is a stored payload with its write metadata.
type Entry struct {
	Value     string `json:"value"`
	Revision  string `json:"revision,omitempty"`   // ULID of the write that produced Value
	UpdatedAt int64  `json:"updated_at,omitempty"` // Unix timestamp
}

// Updated returns the write time, or the zero time when unknown.
func (e Entry) Updated() time.Time {
	if e.UpdatedAt == 0 {
		return time.Time{}
	}
	return time.Unix(e.UpdatedAt, 0)
}

// Describer is implemented by media that keep write metadata.
type Describer interface {
	Entry(key string) (Entry, bool, error)
}

// newEntry stamps value with a fresh revision.
func newEntry(value string) (Entry, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to generate revision: %w", err)
	}
	return Entry{
		Value:     value,
		Revision:  id.String(),
		UpdatedAt: now.Unix(),
	}, nil
}

// usage counts the bytes held by entries, with key replaced by value.
func usage(entries map[string]Entry, key, value string) int {
	total := len(key) + len(value)
	for k, e := range entries {
		if k == key {
			continue
		}
		total += len(k) + len(e.Value)
	}
	return total
}

// Open returns the medium selected by cfg.
// The "none" backend yields a nil medium: settings keep their defaults.
func Open(cfg config.StorageConfig, logger *slog.Logger) (persisted.Medium, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case config.BackendNone:
		logger.Debug("durable storage disabled")
		return nil, nil
	case config.BackendMemory:
		return NewMemory(cfg.QuotaBytes), nil
	case config.BackendSQLite:
		db, err := NewSQLite(cfg.ResolvedPath(), cfg.QuotaBytes)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.BackendFile, "":
		f, err := NewFile(cfg.ResolvedPath(), cfg.QuotaBytes, logger)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
