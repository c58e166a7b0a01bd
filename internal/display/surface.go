package display

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Surface exposes a widget's CSS classes as a theme document.
// It must only be used from the GTK main thread.
type Surface struct {
	widget *gtk.Widget
}

// NewSurface wraps w.
func NewSurface(w gtk.Widgetter) *Surface {
	return &Surface{widget: gtk.BaseWidget(w)}
}

// HasClass reports whether the widget carries the CSS class.
func (s *Surface) HasClass(name string) bool {
	return s.widget.HasCSSClass(name)
}

// AddClass adds a CSS class to the widget.
func (s *Surface) AddClass(name string) {
	s.widget.AddCSSClass(name)
}

// RemoveClass removes a CSS class from the widget.
func (s *Surface) RemoveClass(name string) {
	s.widget.RemoveCSSClass(name)
}

// ToggleClass adds or removes a CSS class.
func (s *Surface) ToggleClass(name string, on bool) {
	if on {
		s.widget.AddCSSClass(name)
	} else {
		s.widget.RemoveCSSClass(name)
	}
}

// Flush measures the widget, which makes GTK validate its CSS node with
// the current classes before returning.
func (s *Surface) Flush() {
	s.widget.Measure(gtk.OrientationHorizontal, -1)
}

// Classes returns the widget's CSS classes.
func (s *Surface) Classes() []string {
	return s.widget.CSSClasses()
}
