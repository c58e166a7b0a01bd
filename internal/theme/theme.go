package theme

import (
	"fmt"
	"slices"
)

// Theme is a theme preference.
type Theme string

const (
	// System follows the desktop color scheme. It is resolved to Dark or
	// Light whenever it is applied and is never applied itself.
	System Theme = "system"
	Dark   Theme = "dark"
	Light  Theme = "light"
	Dim    Theme = "dim"
)

// Themes lists every theme preference in presentation order.
var Themes = []Theme{System, Dark, Light, Dim}

// Valid reports whether t is a known theme.
func Valid(t Theme) bool {
	return slices.Contains(Themes, t)
}

// Parse converts s to a Theme.
func Parse(s string) (Theme, error) {
	t := Theme(s)
	if !Valid(t) {
		return "", fmt.Errorf("invalid theme %q, must be one of: %v", s, Themes)
	}
	return t, nil
}

// String returns the theme name.
func (t Theme) String() string {
	return string(t)
}
