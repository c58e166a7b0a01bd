package settings

import (
	"slices"
)

// Category is a word usage category and whether words in it are listed.
type Category struct {
	Name  string `json:"name" yaml:"name"`
	Shown bool   `json:"shown" yaml:"shown"`
}

// SandboxCategory is never part of the category preference.
const SandboxCategory = "sandbox"

// shownByDefault lists the categories enabled out of the box.
var shownByDefault = []string{"core", "common"}

// DefaultCategories builds the default category preference from the
// category universe: every category except sandbox, shown only when it is
// core or common.
func DefaultCategories(universe []string) []Category {
	categories := make([]Category, 0, len(universe))
	for _, name := range universe {
		if name == SandboxCategory {
			continue
		}
		categories = append(categories, Category{
			Name:  name,
			Shown: slices.Contains(shownByDefault, name),
		})
	}
	return categories
}

// validCategories accepts a category preference that shows at least one
// category and has one entry per non-sandbox category in the universe.
func validCategories(universe []string) func([]Category) bool {
	want := 0
	for _, name := range universe {
		if name != SandboxCategory {
			want++
		}
	}

	return func(categories []Category) bool {
		if len(categories) != want {
			return false
		}
		return slices.ContainsFunc(categories, func(c Category) bool { return c.Shown })
	}
}

// ShownNames returns the names of the shown categories.
func ShownNames(categories []Category) []string {
	var names []string
	for _, c := range categories {
		if c.Shown {
			names = append(names, c.Name)
		}
	}
	return names
}
