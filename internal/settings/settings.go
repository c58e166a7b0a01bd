package settings

import (
	"fmt"
	"slices"

	"github.com/jmylchreest/linkuprefs/internal/config"
	"github.com/jmylchreest/linkuprefs/internal/persisted"
	"github.com/jmylchreest/linkuprefs/internal/theme"
	"github.com/jmylchreest/linkuprefs/internal/validate"
)

// Setting keys as stored in the durable medium.
const (
	KeyTheme         = "theme"
	KeyCategories    = "categories"
	KeySortingMethod = "sortingMethod"
	KeyLanguage      = "language"
	KeySitelenMode   = "sitelenMode"
	KeyViewMode      = "viewMode"
	KeyScreenWidth   = "screenWidth"
	KeyAutoplay      = "autoplay"
)

// Keys lists every setting key in catalog order.
var Keys = []string{
	KeyTheme,
	KeyCategories,
	KeySortingMethod,
	KeyLanguage,
	KeySitelenMode,
	KeyViewMode,
	KeyScreenWidth,
	KeyAutoplay,
}

// DefaultLanguage is the language words are glossed in.
const DefaultLanguage = "en"

// Settings holds one cell per user preference.
type Settings struct {
	Theme         *persisted.Cell[theme.Theme]
	Categories    *persisted.Cell[[]Category]
	SortingMethod *persisted.Cell[SortingMethod]
	Language      *persisted.Cell[string]
	SitelenMode   *persisted.Cell[SitelenMode]
	ViewMode      *persisted.Cell[ViewMode]
	ScreenWidth   *persisted.Cell[ScreenWidth]
	Autoplay      *persisted.Cell[bool]

	registry *persisted.Registry
	entries  []Entry
}

// Open creates every setting against reg, hydrating from its medium.
// Validator expressions in cfg are combined with the built-in validators.
func Open(reg *persisted.Registry, cfg config.CatalogConfig) (*Settings, error) {
	for key := range cfg.Validators {
		if !slices.Contains(Keys, key) {
			return nil, fmt.Errorf("validator for %q: %w", key, ErrUnknownKey)
		}
	}

	universe := cfg.Categories
	if len(universe) == 0 {
		universe = config.DefaultCategories
	}

	s := &Settings{registry: reg}
	var err error

	if s.Theme, err = add(s, reg, cfg, KeyTheme, theme.System, theme.Valid); err != nil {
		return nil, err
	}
	if s.Categories, err = add(s, reg, cfg, KeyCategories, DefaultCategories(universe), validCategories(universe)); err != nil {
		return nil, err
	}
	if s.SortingMethod, err = add(s, reg, cfg, KeySortingMethod, SortCombined, validate.OneOf(SortingMethods...)); err != nil {
		return nil, err
	}
	if s.Language, err = add(s, reg, cfg, KeyLanguage, DefaultLanguage, validLanguage); err != nil {
		return nil, err
	}
	if s.SitelenMode, err = add(s, reg, cfg, KeySitelenMode, SitelenPona, validate.OneOf(SitelenModes...)); err != nil {
		return nil, err
	}
	if s.ViewMode, err = add(s, reg, cfg, KeyViewMode, ViewNormal, validate.OneOf(ViewModes...)); err != nil {
		return nil, err
	}
	if s.ScreenWidth, err = add(s, reg, cfg, KeyScreenWidth, WidthLarge, validate.OneOf(ScreenWidths...)); err != nil {
		return nil, err
	}
	if s.Autoplay, err = add[bool](s, reg, cfg, KeyAutoplay, false, nil); err != nil {
		return nil, err
	}

	return s, nil
}

// add creates a cell and records its Entry.
func add[T any](s *Settings, reg *persisted.Registry, cfg config.CatalogConfig, key string, initial T, builtin persisted.Validator[T]) (*persisted.Cell[T], error) {
	v := builtin
	if source, ok := cfg.Validators[key]; ok {
		custom, err := validate.Expr[T](source)
		if err != nil {
			return nil, fmt.Errorf("validator for %q: %w", key, err)
		}
		v = validate.All(builtin, custom)
	}

	cell, err := persisted.New(reg, key, initial, v)
	if err != nil {
		return nil, err
	}
	s.entries = append(s.entries, newEntry(cell, v))
	return cell, nil
}

func validLanguage(lang string) bool {
	return lang != "eng"
}

// Entries returns every setting in catalog order.
func (s *Settings) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Lookup returns the setting named key.
func (s *Settings) Lookup(key string) (Entry, error) {
	for _, e := range s.entries {
		if e.Key() == key {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// ResetAll restores every setting to its default. It keeps going after a
// failure and returns the first error.
func (s *Settings) ResetAll() error {
	var first error
	for _, e := range s.entries {
		if err := e.Reset(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Registry returns the registry the settings were created against.
func (s *Settings) Registry() *persisted.Registry {
	return s.registry
}
