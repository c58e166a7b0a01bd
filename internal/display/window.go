package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/linkuprefs/internal/adapter/output"
	"github.com/jmylchreest/linkuprefs/internal/settings"
	"github.com/jmylchreest/linkuprefs/internal/theme"
)

// Window shows the preferences and lets the theme be changed. The window
// itself is the theme document, so the stylesheet targets window.dark,
// window.light and window.dim.
type Window struct {
	window   *adw.ApplicationWindow
	surface  *Surface
	dropdown *gtk.DropDown
	resolved *gtk.Label
	values   map[string]*gtk.Label

	settings *settings.Settings
	applier  *theme.Applier
	cleanup  []func()
	logger   *slog.Logger
}

// NewWindow builds the preferences window for s.
func NewWindow(app *gtk.Application, s *settings.Settings, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}

	w := &Window{
		window:   adw.NewApplicationWindow(app),
		values:   make(map[string]*gtk.Label),
		settings: s,
		logger:   logger,
	}
	w.window.SetTitle("linku preferences")
	w.window.SetDefaultSize(420, 360)
	w.surface = NewSurface(w.window)

	content := gtk.NewBox(gtk.OrientationVertical, 0)
	content.Append(adw.NewHeaderBar())

	body := gtk.NewBox(gtk.OrientationVertical, 8)
	body.SetMarginTop(12)
	body.SetMarginBottom(12)
	body.SetMarginStart(12)
	body.SetMarginEnd(12)
	content.Append(body)

	names := make([]string, len(theme.Themes))
	for i, t := range theme.Themes {
		names[i] = string(t)
	}
	w.dropdown = gtk.NewDropDownFromStrings(names)
	w.dropdown.NotifyProperty("selected", w.onThemeSelected)
	body.Append(row("theme", w.dropdown))

	w.resolved = gtk.NewLabel("")
	w.resolved.AddCSSClass("dim-label")
	w.resolved.SetXAlign(1)
	body.Append(w.resolved)

	for _, e := range s.Entries() {
		if e.Key() == settings.KeyTheme {
			continue
		}
		value := gtk.NewLabel("")
		value.SetXAlign(1)
		value.SetWrap(true)
		value.AddCSSClass("glyph")
		w.values[e.Key()] = value
		body.Append(row(e.Key(), value))
	}

	w.window.SetContent(content)
	return w
}

func row(name string, value gtk.Widgetter) *gtk.Box {
	box := gtk.NewBox(gtk.OrientationHorizontal, 12)
	label := gtk.NewLabel(name)
	label.SetXAlign(0)
	label.SetHExpand(true)
	label.AddCSSClass("category")
	box.Append(label)
	box.Append(value)
	return box
}

// Surface returns the window's theme document.
func (w *Window) Surface() *Surface {
	return w.surface
}

// Bind shows the current values and follows their changes. The applier
// must already be registered with the theme cell so it runs first. When
// changes is set, the resolved theme label follows platform changes.
func (w *Window) Bind(applier *theme.Applier, changes theme.ChangeSource) {
	w.applier = applier

	for _, e := range w.settings.Entries() {
		label, ok := w.values[e.Key()]
		if !ok {
			continue
		}
		w.cleanup = append(w.cleanup, e.Subscribe(func(v any) {
			label.SetText(output.FormatValue(v))
		}))
	}

	w.cleanup = append(w.cleanup, w.settings.Theme.Subscribe(func(t theme.Theme) {
		for i, m := range theme.Themes {
			if m == t && w.dropdown.Selected() != uint(i) {
				w.dropdown.SetSelected(uint(i))
			}
		}
		w.showResolved()
	}))

	if changes != nil {
		w.cleanup = append(w.cleanup, changes.Subscribe(func(bool) {
			w.showResolved()
		}))
	}
}

func (w *Window) onThemeSelected() {
	i := int(w.dropdown.Selected())
	if i < 0 || i >= len(theme.Themes) {
		return
	}
	t := theme.Themes[i]
	if t == w.settings.Theme.Get() {
		return
	}
	if err := w.settings.Theme.Set(t); err != nil {
		w.logger.Warn("theme changed for this session only", "theme", string(t), "error", err)
	}
}

func (w *Window) showResolved() {
	if w.applier == nil {
		return
	}
	w.resolved.SetText("shown as " + string(w.applier.Resolved()))
}

// Present shows the window.
func (w *Window) Present() {
	w.window.Present()
}

// Close stops following setting changes and closes the window.
func (w *Window) Close() {
	for _, fn := range w.cleanup {
		fn()
	}
	w.cleanup = nil
	w.window.Close()
}
