package settings

// SortingMethod orders the word list.
type SortingMethod string

const (
	SortAlphabetical SortingMethod = "alphabetical"
	SortRecognition  SortingMethod = "recognition"
	SortCombined     SortingMethod = "combined"
)

// SortingMethods lists the valid sorting methods.
var SortingMethods = []SortingMethod{SortAlphabetical, SortRecognition, SortCombined}

// SitelenMode selects the writing system words are rendered in.
type SitelenMode string

const (
	SitelenPona    SitelenMode = "pona"
	SitelenSitelen SitelenMode = "sitelen"
	SitelenJelo    SitelenMode = "jelo"
	SitelenEmosi   SitelenMode = "emosi"
)

// SitelenModes lists the valid writing systems.
var SitelenModes = []SitelenMode{SitelenPona, SitelenSitelen, SitelenJelo, SitelenEmosi}

// ViewMode selects how much detail each word shows.
type ViewMode string

const (
	ViewNormal   ViewMode = "normal"
	ViewDetailed ViewMode = "detailed"
	ViewCompact  ViewMode = "compact"
	ViewGlyphs   ViewMode = "glyphs"
)

// ViewModes lists the valid view modes.
var ViewModes = []ViewMode{ViewNormal, ViewDetailed, ViewCompact, ViewGlyphs}

// ScreenWidth selects the content width.
type ScreenWidth string

const (
	WidthFull  ScreenWidth = "full"
	WidthLarge ScreenWidth = "large"
)

// ScreenWidths lists the valid content widths.
var ScreenWidths = []ScreenWidth{WidthFull, WidthLarge}
