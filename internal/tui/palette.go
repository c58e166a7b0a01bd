package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/linkuprefs/internal/theme"
)

// Palette holds the colors the TUI renders with.
type Palette struct {
	Title    lipgloss.Color
	Value    lipgloss.Color
	Muted    lipgloss.Color
	Accent   lipgloss.Color
	Modified lipgloss.Color
	Error    lipgloss.Color
}

var palettes = map[theme.Theme]Palette{
	theme.Light: {
		Title:    lipgloss.Color("#1e1e2e"),
		Value:    lipgloss.Color("#4c4f69"),
		Muted:    lipgloss.Color("#8c8fa1"),
		Accent:   lipgloss.Color("#1e66f5"),
		Modified: lipgloss.Color("#df8e1d"),
		Error:    lipgloss.Color("#d20f39"),
	},
	theme.Dark: {
		Title:    lipgloss.Color("#cdd6f4"),
		Value:    lipgloss.Color("#bac2de"),
		Muted:    lipgloss.Color("#6c7086"),
		Accent:   lipgloss.Color("#89b4fa"),
		Modified: lipgloss.Color("#f9e2af"),
		Error:    lipgloss.Color("#f38ba8"),
	},
	theme.Dim: {
		Title:    lipgloss.Color("#d8dae5"),
		Value:    lipgloss.Color("#b5b9cc"),
		Muted:    lipgloss.Color("#7f849c"),
		Accent:   lipgloss.Color("#8aadf4"),
		Modified: lipgloss.Color("#eed49f"),
		Error:    lipgloss.Color("#ed8796"),
	},
}

// PaletteFor picks the palette matching the theme class on doc.
// A document without a theme class gets the light palette.
func PaletteFor(doc theme.Document) (theme.Theme, Palette) {
	for _, t := range []theme.Theme{theme.Dark, theme.Dim, theme.Light} {
		if doc.HasClass(string(t)) {
			return t, palettes[t]
		}
	}
	return theme.Light, palettes[theme.Light]
}
