// Package theme applies the theme preference to a presentation surface.
// It resolves the "system" preference against the desktop color scheme and
// suppresses style transitions while the theme classes are switched.
package theme
