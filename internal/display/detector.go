package display

import (
	"errors"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/linkuprefs/internal/theme"
)

// errNoStyleManager is returned before libadwaita has been initialized.
var errNoStyleManager = errors.New("libadwaita style manager not available")

// AdwDetector reads the color scheme from the libadwaita style manager.
// It is only usable once the application has started.
type AdwDetector struct{}

// NewAdwDetector creates a detector backed by the default style manager.
func NewAdwDetector() *AdwDetector {
	return &AdwDetector{}
}

// Name returns "adwaita".
func (d *AdwDetector) Name() string {
	return "adwaita"
}

// PrefersDark reports whether libadwaita is using a dark style.
func (d *AdwDetector) PrefersDark() (bool, error) {
	sm := adw.StyleManagerGetDefault()
	if sm == nil {
		return false, errNoStyleManager
	}
	return sm.Dark(), nil
}

// Subscribe calls fn on the main thread whenever the dark property
// changes.
func (d *AdwDetector) Subscribe(fn func(prefersDark bool)) func() {
	sm := adw.StyleManagerGetDefault()
	if sm == nil {
		return func() {}
	}

	handle := sm.NotifyProperty("dark", func() {
		fn(sm.Dark())
	})
	return func() {
		sm.HandlerDisconnect(handle)
	}
}

// MainThread re-delivers changes from a source that fires on other
// goroutines onto the GTK main loop.
type MainThread struct {
	Source theme.ChangeSource
}

// Subscribe registers fn with the wrapped source.
func (m MainThread) Subscribe(fn func(prefersDark bool)) func() {
	return m.Source.Subscribe(func(prefersDark bool) {
		glib.IdleAdd(func() {
			fn(prefersDark)
		})
	})
}
