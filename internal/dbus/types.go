package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	// PortalBusName is the desktop portal's bus name.
	PortalBusName = "org.freedesktop.portal.Desktop"
	// PortalPath is the desktop portal's object path.
	PortalPath = "/org/freedesktop/portal/desktop"
	// SettingsInterface is the portal settings interface.
	SettingsInterface = "org.freedesktop.portal.Settings"

	// AppearanceNamespace holds the appearance settings.
	AppearanceNamespace = "org.freedesktop.appearance"
	// ColorSchemeKey is the color scheme setting within AppearanceNamespace.
	ColorSchemeKey = "color-scheme"
)

// ColorScheme is the org.freedesktop.appearance color-scheme value.
type ColorScheme uint32

const (
	// NoPreference indicates the user has not chosen a color scheme.
	NoPreference ColorScheme = 0
	// PreferDark indicates a dark color scheme is preferred.
	PreferDark ColorScheme = 1
	// PreferLight indicates a light color scheme is preferred.
	PreferLight ColorScheme = 2
)

// String returns the string representation of the color scheme.
func (c ColorScheme) String() string {
	switch c {
	case NoPreference:
		return "no-preference"
	case PreferDark:
		return "prefer-dark"
	case PreferLight:
		return "prefer-light"
	default:
		return "unknown"
	}
}

// Dark reports whether c asks for a dark color scheme.
func (c ColorScheme) Dark() bool {
	return c == PreferDark
}

// ParseColorScheme converts a portal setting value to a ColorScheme.
// Read wraps the value in a second variant, so nested variants are
// unwrapped. Values outside the defined range are treated as NoPreference.
func ParseColorScheme(value any) (ColorScheme, error) {
	for {
		v, ok := value.(dbus.Variant)
		if !ok {
			break
		}
		value = v.Value()
	}

	var n uint64
	switch v := value.(type) {
	case uint32:
		n = uint64(v)
	case int32:
		if v < 0 {
			return NoPreference, nil
		}
		n = uint64(v)
	case uint8:
		n = uint64(v)
	default:
		return NoPreference, fmt.Errorf("unexpected color-scheme value type %T", value)
	}

	if n > uint64(PreferLight) {
		return NoPreference, nil
	}
	return ColorScheme(n), nil
}

// SettingChange is a decoded SettingChanged signal.
type SettingChange struct {
	Namespace string
	Key       string
	Value     dbus.Variant
}

// parseSettingChanged decodes the body of a SettingChanged signal.
// SettingChanged(namespace s, key s, value v)
func parseSettingChanged(sig *dbus.Signal) (SettingChange, bool) {
	if sig == nil || sig.Name != SettingsInterface+".SettingChanged" {
		return SettingChange{}, false
	}
	if len(sig.Body) < 3 {
		return SettingChange{}, false
	}

	var change SettingChange
	var ok bool
	if change.Namespace, ok = sig.Body[0].(string); !ok {
		return SettingChange{}, false
	}
	if change.Key, ok = sig.Body[1].(string); !ok {
		return SettingChange{}, false
	}
	switch v := sig.Body[2].(type) {
	case dbus.Variant:
		change.Value = v
	default:
		change.Value = dbus.MakeVariant(v)
	}
	return change, true
}
