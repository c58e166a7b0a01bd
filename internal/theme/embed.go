package theme

import (
	"embed"
	"io/fs"
	"strings"
)

// EmbeddedStyles contains the bundled stylesheets.
//
//go:embed styles/*.css
var EmbeddedStyles embed.FS

// DefaultStylesheet is the name of the bundled stylesheet defining the
// theme classes.
const DefaultStylesheet = "linku"

// GetStylesheet retrieves a bundled stylesheet by name.
// Returns the CSS content and whether it was found.
func GetStylesheet(name string) (string, bool) {
	data, err := EmbeddedStyles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ListStylesheets returns the names of all bundled stylesheets.
func ListStylesheets() []string {
	entries, err := fs.ReadDir(EmbeddedStyles, "styles")
	if err != nil {
		return []string{DefaultStylesheet}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".css"); ok {
			names = append(names, name)
		}
	}
	return names
}
