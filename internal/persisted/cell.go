package persisted

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// Validator gates acceptance of a hydrated value. It must be pure.
// A nil Validator accepts every value.
type Validator[T any] func(T) bool

// Cell is a reactive value persisted under a key.
type Cell[T any] struct {
	reg      *Registry
	key      string
	initial  T
	mu       sync.Mutex
	value    T
	watchers []*watcher[T]

	// pending holds notifications in the order their values were set.
	// Only the goroutine that set delivering drains it.
	pending    []notice[T]
	delivering bool
}

type watcher[T any] struct {
	fn      func(T)
	removed atomic.Bool
}

// notice is one value owed to a fixed set of watchers.
type notice[T any] struct {
	value   T
	targets []*watcher[T]
}

// New creates the cell for key on reg, hydrating it from the registry's
// medium when one is available.
func New[T any](reg *Registry, key string, initial T, validate Validator[T]) (*Cell[T], error) {
	if err := reg.claim(key); err != nil {
		return nil, err
	}

	c := &Cell[T]{
		reg:     reg,
		key:     key,
		initial: initial,
		value:   initial,
	}
	c.hydrate(validate)
	return c, nil
}

// MustNew is like New but panics on error. Intended for fixed catalogs
// whose keys are known to be unique.
func MustNew[T any](reg *Registry, key string, initial T, validate Validator[T]) *Cell[T] {
	c, err := New(reg, key, initial, validate)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Cell[T]) hydrate(validate Validator[T]) {
	ev := HydrateEvent{Key: c.key}
	defer func() { c.reg.report(ev) }()

	if c.reg.medium == nil {
		ev.Outcome = OutcomeUnavailable
		return
	}

	raw, ok, err := c.reg.medium.Get(c.key)
	if err != nil {
		ev.Outcome, ev.Err = OutcomeReadFailed, err
		return
	}
	if !ok {
		ev.Outcome = OutcomeAbsent
		return
	}

	data := []byte(raw)
	if !json.Valid(data) {
		ev.Outcome, ev.Err = OutcomeDecodeFailed, fmt.Errorf("malformed payload for %q", c.key)
		return
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		ev.Outcome = OutcomeNull
		return
	}

	var parsed T
	if err := json.Unmarshal(data, &parsed); err != nil {
		ev.Outcome, ev.Err = OutcomeDecodeFailed, err
		return
	}

	if validate != nil && !validate(parsed) {
		ev.Outcome = OutcomeRejected
		return
	}

	c.value = parsed
	ev.Outcome = OutcomeAdopted
}

// Key returns the storage key.
func (c *Cell[T]) Key() string {
	return c.key
}

// Default returns the value the cell was declared with.
func (c *Cell[T]) Default() T {
	return c.initial
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Subscribe registers fn and calls it with the current value.
// fn is then called on every change, after observers registered before it.
// Calls to fn never overlap and arrive in the order the values were set.
// The returned function removes the subscription; calling it again is a no-op.
func (c *Cell[T]) Subscribe(fn func(T)) func() {
	w := &watcher[T]{fn: fn}

	c.mu.Lock()
	c.watchers = append(c.watchers, w)
	c.enqueue(notice[T]{value: c.value, targets: []*watcher[T]{w}})

	return func() {
		if w.removed.Swap(true) {
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, other := range c.watchers {
			if other == w {
				c.watchers = append(c.watchers[:i], c.watchers[i+1:]...)
				break
			}
		}
	}
}

// Set writes v to the medium, replaces the current value and notifies
// observers.
//
// Observers are notified before Set returns unless a notification is
// already being delivered, by an observer calling Set or by another
// goroutine. Then v is queued behind it and delivered by that caller.
//
// If v cannot be encoded nothing changes and an error wrapping ErrEncode is
// returned. If the medium rejects the write the value still changes, the
// failure is logged and an error wrapping ErrPersist is returned.
func (c *Cell[T]) Set(v T) error {
	var persistErr error

	c.mu.Lock()
	if m := c.reg.medium; m != nil {
		data, err := json.Marshal(v)
		if err != nil {
			c.mu.Unlock()
			return fmt.Errorf("%w %q: %w", ErrEncode, c.key, err)
		}
		if err := m.Set(c.key, string(data)); err != nil {
			persistErr = fmt.Errorf("%w %q: %w", ErrPersist, c.key, err)
			c.reg.logger.Warn("failed to persist setting", "key", c.key, "error", err)
		}
	}
	c.value = v
	c.enqueue(notice[T]{value: v, targets: slices.Clone(c.watchers)})
	return persistErr
}

// enqueue queues n and, unless another caller is already delivering,
// drains the queue. It is called with c.mu held and returns with it released.
func (c *Cell[T]) enqueue(n notice[T]) {
	c.pending = append(c.pending, n)
	if c.delivering {
		c.mu.Unlock()
		return
	}

	c.delivering = true
	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending[0] = notice[T]{}
		c.pending = c.pending[1:]
		c.mu.Unlock()

		for _, w := range next.targets {
			if !w.removed.Load() {
				w.fn(next.value)
			}
		}

		c.mu.Lock()
	}
	c.pending = nil
	c.delivering = false
	c.mu.Unlock()
}

// Update computes the next value from a copy of the current one and stores
// it with Set. fn may modify its argument in place; the cell only sees the
// result once it has been written.
func (c *Cell[T]) Update(fn func(T) T) error {
	current, err := c.clone()
	if err != nil {
		return err
	}
	return c.Set(fn(current))
}

// clone returns a deep copy of the current value made through its JSON form.
func (c *Cell[T]) clone() (T, error) {
	v := c.Get()
	data, err := json.Marshal(v)
	if err != nil {
		return v, fmt.Errorf("%w %q: %w", ErrEncode, c.key, err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return v, fmt.Errorf("%w %q: %w", ErrEncode, c.key, err)
	}
	return out, nil
}

// Reset stores the default value.
func (c *Cell[T]) Reset() error {
	return c.Set(c.initial)
}
