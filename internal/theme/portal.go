package theme

import (
	"log/slog"

	"github.com/jmylchreest/linkuprefs/internal/dbus"
)

// PortalDetector reads the color scheme from the freedesktop settings
// portal and follows its change signal.
type PortalDetector struct {
	portal *dbus.SettingsPortal
	logger *slog.Logger
}

// NewPortalDetector connects to the session bus.
func NewPortalDetector(logger *slog.Logger) (*PortalDetector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := dbus.NewSettingsPortal(logger)
	if err := p.Connect(); err != nil {
		return nil, err
	}
	return &PortalDetector{portal: p, logger: logger}, nil
}

// Name returns "portal".
func (d *PortalDetector) Name() string {
	return "portal"
}

// PrefersDark reports whether the portal asks for a dark color scheme.
// No preference reads as light.
func (d *PortalDetector) PrefersDark() (bool, error) {
	scheme, err := d.portal.ColorScheme()
	if err != nil {
		return false, err
	}
	return scheme.Dark(), nil
}

// Subscribe registers fn for color scheme changes. If the signal cannot be
// matched the returned function does nothing and fn is never called.
func (d *PortalDetector) Subscribe(fn func(prefersDark bool)) func() {
	cancel, err := d.portal.Subscribe(func(scheme dbus.ColorScheme) {
		fn(scheme.Dark())
	})
	if err != nil {
		d.logger.Warn("color scheme changes unavailable", "error", err)
		return func() {}
	}
	return cancel
}

// Close closes the bus connection.
func (d *PortalDetector) Close() error {
	return d.portal.Close()
}
