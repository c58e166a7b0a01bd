package settings

import (
	"github.com/jmylchreest/linkuprefs/internal/theme"
)

// Choices returns the values an enumerated setting accepts, in display
// order, or nil for free-form settings.
func Choices(key string) []any {
	switch key {
	case KeyTheme:
		return toAny(theme.Themes)
	case KeySortingMethod:
		return toAny(SortingMethods)
	case KeySitelenMode:
		return toAny(SitelenModes)
	case KeyViewMode:
		return toAny(ViewModes)
	case KeyScreenWidth:
		return toAny(ScreenWidths)
	case KeyAutoplay:
		return []any{false, true}
	default:
		return nil
	}
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
