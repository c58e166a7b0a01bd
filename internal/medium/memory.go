package medium

import (
	"sort"
	"sync"
)

// Memory is an in-process medium. It is durable only for the life of the
// process and is intended for tests and the "memory" backend.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
	quota   int
	closed  bool
}

// NewMemory creates an empty Memory. quota limits the total bytes
// of keys and values; 0 means unlimited.
func NewMemory(quota int) *Memory {
	return &Memory{
		entries: make(map[string]Entry),
		quota:   quota,
	}
}

// Get returns the payload stored under key.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, ErrClosed
	}
	e, ok := m.entries[key]
	return e.Value, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.quota > 0 && usage(m.entries, key, value) > m.quota {
		return ErrQuotaExceeded
	}

	e, err := newEntry(value)
	if err != nil {
		return err
	}
	m.entries[key] = e
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.entries, key)
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Entry returns the stored entry for key.
func (m *Memory) Entry(key string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, false, ErrClosed
	}
	e, ok := m.entries[key]
	return e, ok, nil
}

// Close marks the medium closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
