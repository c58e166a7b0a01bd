package theme

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoPreference is returned by detectors that cannot tell which color
// scheme the desktop prefers.
var ErrNoPreference = errors.New("theme: no color scheme preference available")

// Detector queries the platform's color scheme preference.
type Detector interface {
	// Name identifies the detector in logs and status output.
	Name() string

	// PrefersDark reports whether a dark color scheme is preferred.
	PrefersDark() (bool, error)
}

// ChangeSource delivers platform color scheme changes.
type ChangeSource interface {
	// Subscribe registers fn for preference changes and returns a function
	// that removes it.
	Subscribe(fn func(prefersDark bool)) (cancel func())
}

// StaticDetector is a detector with a fixed, settable preference.
// It is used for configuration overrides and tests.
type StaticDetector struct {
	mu       sync.Mutex
	dark     bool
	nextID   int
	watchers map[int]func(bool)
}

// NewStaticDetector creates a StaticDetector.
func NewStaticDetector(prefersDark bool) *StaticDetector {
	return &StaticDetector{
		dark:     prefersDark,
		watchers: make(map[int]func(bool)),
	}
}

// Name returns "static".
func (s *StaticDetector) Name() string {
	return "static"
}

// PrefersDark returns the configured preference.
func (s *StaticDetector) PrefersDark() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark, nil
}

// Set changes the preference and notifies subscribers when it differs.
func (s *StaticDetector) Set(prefersDark bool) {
	s.mu.Lock()
	if s.dark == prefersDark {
		s.mu.Unlock()
		return
	}
	s.dark = prefersDark
	watchers := make([]func(bool), 0, len(s.watchers))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.watchers[i]; ok {
			watchers = append(watchers, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(prefersDark)
	}
}

// Subscribe registers fn for preference changes.
func (s *StaticDetector) Subscribe(fn func(prefersDark bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.watchers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
}

// Unavailable is a detector for platforms without a color scheme signal.
type Unavailable struct{}

// Name returns "none".
func (Unavailable) Name() string {
	return "none"
}

// PrefersDark always fails with ErrNoPreference.
func (Unavailable) PrefersDark() (bool, error) {
	return false, ErrNoPreference
}

// Chain tries detectors in order and uses the first that answers.
type Chain []Detector

// Name lists the chained detector names.
func (c Chain) Name() string {
	name := "chain("
	for i, d := range c {
		if i > 0 {
			name += ","
		}
		name += d.Name()
	}
	return name + ")"
}

// PrefersDark returns the first successful answer.
func (c Chain) PrefersDark() (bool, error) {
	var errs []error
	for _, d := range c {
		dark, err := d.PrefersDark()
		if err == nil {
			return dark, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
	}
	if len(errs) == 0 {
		return false, ErrNoPreference
	}
	return false, errors.Join(errs...)
}

// Resolve expands System to Dark or Light using d. Any detector failure
// resolves to Light. Other themes are returned unchanged.
func Resolve(t Theme, d Detector) (Theme, error) {
	if t != System {
		return t, nil
	}
	if d == nil {
		return Light, ErrNoPreference
	}
	dark, err := d.PrefersDark()
	if err != nil {
		return Light, err
	}
	if dark {
		return Dark, nil
	}
	return Light, nil
}
