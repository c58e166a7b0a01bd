// Package display presents the preferences in a GTK4/libadwaita window.
// The window's root widget is the document the theme is applied to, and
// the libadwaita style manager serves as a color scheme detector.
package display
