package theme

import (
	"context"
	"log/slog"
	"sync"
)

// NoTransitionClass suppresses style transitions while it is present on
// the document root.
const NoTransitionClass = "no-transition"

// Source delivers theme preference values, starting with the current one.
// *persisted.Cell[Theme] satisfies it.
type Source interface {
	Subscribe(fn func(Theme)) (unsubscribe func())
}

// Applier mirrors the theme preference onto a Document.
type Applier struct {
	mu       sync.Mutex
	doc      Document
	detector Detector
	logger   *slog.Logger

	last     Theme
	hasLast  bool
	resolved Theme
}

// NewApplier creates an applier for doc. A nil detector resolves the
// system preference to Light.
func NewApplier(doc Document, det Detector, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{
		doc:      doc,
		detector: det,
		logger:   logger,
	}
}

// Register subscribes the applier to src. The current value is applied
// immediately.
func (a *Applier) Register(src Source) func() {
	return src.Subscribe(a.Apply)
}

// Apply switches the document to the theme resolved from v.
func (a *Applier) Apply(v Theme) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.applyLocked(v)
}

// applyLocked is Apply with a.mu held.
func (a *Applier) applyLocked(v Theme) {
	if !Valid(v) {
		a.logger.Warn("unknown theme, following system", "theme", string(v))
		v = System
	}
	a.last, a.hasLast = v, true

	resolved := a.resolve(v)
	if a.consistent(resolved) {
		a.resolved = resolved
		return
	}

	a.doc.AddClass(NoTransitionClass)
	for _, m := range Themes {
		a.doc.ToggleClass(string(m), m == resolved)
	}
	a.doc.Flush()
	a.doc.RemoveClass(NoTransitionClass)

	a.resolved = resolved
	a.logger.Debug("applied theme", "theme", string(v), "resolved", string(resolved))
}

// Watch re-applies the system preference whenever src reports a platform
// color scheme change. The preference is checked and re-applied under one
// lock, so a concurrent Apply is never overwritten. It stops when ctx is
// done.
func (a *Applier) Watch(ctx context.Context, src ChangeSource) {
	cancel := src.Subscribe(func(prefersDark bool) {
		a.mu.Lock()
		defer a.mu.Unlock()

		if !a.hasLast || a.last != System {
			return
		}
		a.logger.Debug("platform color scheme changed", "prefers_dark", prefersDark)
		a.applyLocked(System)
	})

	go func() {
		<-ctx.Done()
		cancel()
	}()
}

// Resolved returns the last applied concrete theme, or "" before the
// first application.
func (a *Applier) Resolved() Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resolved
}

// Preference returns the last applied preference, or "" before the first
// application.
func (a *Applier) Preference() Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// DetectorName returns the configured detector's name.
func (a *Applier) DetectorName() string {
	if a.detector == nil {
		return "none"
	}
	return a.detector.Name()
}

func (a *Applier) resolve(v Theme) Theme {
	resolved, err := Resolve(v, a.detector)
	if err != nil {
		a.logger.Debug("color scheme detection failed, using light", "detector", a.DetectorName(), "error", err)
	}
	return resolved
}

// consistent reports whether the document already shows resolved and is
// not mid-transition.
func (a *Applier) consistent(resolved Theme) bool {
	if a.doc.HasClass(NoTransitionClass) {
		return false
	}
	for _, m := range Themes {
		if a.doc.HasClass(string(m)) != (m == resolved) {
			return false
		}
	}
	return true
}
