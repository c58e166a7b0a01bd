package settings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/linkuprefs/internal/config"
	"github.com/jmylchreest/linkuprefs/internal/medium"
	"github.com/jmylchreest/linkuprefs/internal/persisted"
	"github.com/jmylchreest/linkuprefs/internal/theme"
)

func openWith(t *testing.T, stored map[string]string, cfg config.CatalogConfig) (*Settings, *medium.Memory) {
	t.Helper()
	m := medium.NewMemory(0)
	for k, v := range stored {
		require.NoError(t, m.Set(k, v))
	}
	s, err := Open(persisted.NewRegistry(m), cfg)
	require.NoError(t, err)
	return s, m
}

func TestOpen_Defaults(t *testing.T) {
	s, _ := openWith(t, nil, config.CatalogConfig{})

	assert.Equal(t, theme.System, s.Theme.Get())
	assert.Equal(t, SortCombined, s.SortingMethod.Get())
	assert.Equal(t, "en", s.Language.Get())
	assert.Equal(t, SitelenPona, s.SitelenMode.Get())
	assert.Equal(t, ViewNormal, s.ViewMode.Get())
	assert.Equal(t, WidthLarge, s.ScreenWidth.Get())
	assert.False(t, s.Autoplay.Get())

	categories := s.Categories.Get()
	assert.Len(t, categories, len(config.DefaultCategories)-1)
	assert.Equal(t, []string{"core", "common"}, ShownNames(categories))
	for _, c := range categories {
		assert.NotEqual(t, SandboxCategory, c.Name)
	}
}

func TestOpen_WithoutMedium(t *testing.T) {
	s, err := Open(persisted.NewRegistry(nil), config.CatalogConfig{})
	require.NoError(t, err)

	assert.Equal(t, theme.System, s.Theme.Get())
	require.NoError(t, s.Theme.Set(theme.Dark))
	assert.Equal(t, theme.Dark, s.Theme.Get())
}

func TestOpen_Hydrates(t *testing.T) {
	s, _ := openWith(t, map[string]string{
		"theme":         `"dim"`,
		"sortingMethod": `"alphabetical"`,
		"language":      `"tok"`,
		"sitelenMode":   `"emosi"`,
		"viewMode":      `"glyphs"`,
		"screenWidth":   `"full"`,
		"autoplay":      `true`,
		"categories": `[{"name":"core","shown":false},{"name":"common","shown":false},
			{"name":"uncommon","shown":true},{"name":"obscure","shown":false}]`,
	}, config.CatalogConfig{})

	assert.Equal(t, theme.Dim, s.Theme.Get())
	assert.Equal(t, SortAlphabetical, s.SortingMethod.Get())
	assert.Equal(t, "tok", s.Language.Get())
	assert.Equal(t, SitelenEmosi, s.SitelenMode.Get())
	assert.Equal(t, ViewGlyphs, s.ViewMode.Get())
	assert.Equal(t, WidthFull, s.ScreenWidth.Get())
	assert.True(t, s.Autoplay.Get())
	assert.Equal(t, []string{"uncommon"}, ShownNames(s.Categories.Get()))
}

func TestOpen_RejectsInvalidStored(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, s *Settings)
	}{
		{"not json", "theme", "not json", func(t *testing.T, s *Settings) {
			assert.Equal(t, theme.System, s.Theme.Get())
		}},
		{"unknown theme", "theme", `"sepia"`, func(t *testing.T, s *Settings) {
			assert.Equal(t, theme.System, s.Theme.Get())
		}},
		{"eng language", "language", `"eng"`, func(t *testing.T, s *Settings) {
			assert.Equal(t, "en", s.Language.Get())
		}},
		{"wrong type", "autoplay", `"yes"`, func(t *testing.T, s *Settings) {
			assert.False(t, s.Autoplay.Get())
		}},
		{"unknown view mode", "viewMode", `"huge"`, func(t *testing.T, s *Settings) {
			assert.Equal(t, ViewNormal, s.ViewMode.Get())
		}},
		{"no category shown", "categories", `[{"name":"core","shown":false},{"name":"common","shown":false},
			{"name":"uncommon","shown":false},{"name":"obscure","shown":false}]`, func(t *testing.T, s *Settings) {
			assert.Equal(t, []string{"core", "common"}, ShownNames(s.Categories.Get()))
		}},
		{"stale category list", "categories", `[{"name":"core","shown":true}]`, func(t *testing.T, s *Settings) {
			assert.Len(t, s.Categories.Get(), 4)
		}},
		{"null", "sitelenMode", `null`, func(t *testing.T, s *Settings) {
			assert.Equal(t, SitelenPona, s.SitelenMode.Get())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := openWith(t, map[string]string{tt.key: tt.value}, config.CatalogConfig{})
			tt.check(t, s)

			// hydration never writes back
			stored, _, err := m.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, stored)
		})
	}
}

func TestOpen_CustomUniverse(t *testing.T) {
	s, _ := openWith(t, nil, config.CatalogConfig{
		Categories: []string{"core", "common", "sandbox"},
	})
	assert.Equal(t, []Category{{"core", true}, {"common", true}}, s.Categories.Get())
}

func TestOpen_ExprValidators(t *testing.T) {
	s, _ := openWith(t, map[string]string{
		"language": `"toki"`,
		"autoplay": `true`,
	}, config.CatalogConfig{
		Validators: map[string]string{
			"language": `len(value) <= 3`,
			"autoplay": `value == false`,
		},
	})

	assert.Equal(t, "en", s.Language.Get())
	assert.False(t, s.Autoplay.Get())

	e, err := s.Lookup(KeyLanguage)
	require.NoError(t, err)
	assert.ErrorIs(t, e.SetJSON(`"toki"`), ErrInvalidValue)
	// built-in validator still applies
	assert.ErrorIs(t, e.SetJSON(`"eng"`), ErrInvalidValue)
	require.NoError(t, e.SetJSON(`"tok"`))
}

func TestOpen_ValidatorErrors(t *testing.T) {
	_, err := Open(persisted.NewRegistry(nil), config.CatalogConfig{
		Validators: map[string]string{"fontSize": `value > 1`},
	})
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = Open(persisted.NewRegistry(nil), config.CatalogConfig{
		Validators: map[string]string{"language": `value ==`},
	})
	assert.Error(t, err)
}

func TestOpen_DuplicateRegistry(t *testing.T) {
	reg := persisted.NewRegistry(medium.NewMemory(0))
	_, err := Open(reg, config.CatalogConfig{})
	require.NoError(t, err)

	_, err = Open(reg, config.CatalogConfig{})
	assert.ErrorIs(t, err, persisted.ErrDuplicateKey)
}

func TestEntries(t *testing.T) {
	s, _ := openWith(t, nil, config.CatalogConfig{})

	var keys []string
	for _, e := range s.Entries() {
		keys = append(keys, e.Key())
	}
	assert.Equal(t, Keys, keys)

	_, err := s.Lookup("fontSize")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestEntry_SetJSON(t *testing.T) {
	s, m := openWith(t, nil, config.CatalogConfig{})

	tests := []struct {
		key     string
		raw     string
		wantErr bool
	}{
		{KeyTheme, `"dark"`, false},
		{KeyTheme, `"sepia"`, true},
		{KeyAutoplay, `true`, false},
		{KeyAutoplay, `"true"`, true},
		{KeyScreenWidth, ` "full" `, false},
		{KeyLanguage, `null`, true},
		{KeyLanguage, `"tok" "en"`, true},
		{KeyCategories, `[{"name":"core","shown":true},{"name":"common","shown":true},{"name":"uncommon","shown":true},{"name":"obscure","shown":true}]`, false},
		{KeyCategories, `[{"name":"core","shown":true,"extra":1}]`, true},
		{KeyCategories, `[]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+" "+tt.raw, func(t *testing.T) {
			e, err := s.Lookup(tt.key)
			require.NoError(t, err)

			before, _, _ := m.Get(tt.key)
			err = e.SetJSON(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidValue)
				after, _, _ := m.Get(tt.key)
				assert.Equal(t, before, after)
				return
			}
			require.NoError(t, err)

			stored, ok, err := m.Get(tt.key)
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, tt.raw, stored)
		})
	}
}

func TestEntry_SubscribeAndReset(t *testing.T) {
	s, m := openWith(t, map[string]string{"viewMode": `"compact"`}, config.CatalogConfig{})

	e, err := s.Lookup(KeyViewMode)
	require.NoError(t, err)
	assert.Equal(t, ViewCompact, e.Value())
	assert.Equal(t, ViewNormal, e.DefaultValue())

	var seen []any
	unsubscribe := e.Subscribe(func(v any) { seen = append(seen, v) })
	defer unsubscribe()

	require.NoError(t, e.Reset())
	assert.Equal(t, []any{ViewCompact, ViewNormal}, seen)

	stored, _, _ := m.Get(KeyViewMode)
	assert.Equal(t, `"normal"`, stored)
}

func TestResetAll(t *testing.T) {
	s, _ := openWith(t, map[string]string{"theme": `"dark"`, "autoplay": `true`}, config.CatalogConfig{})

	require.NoError(t, s.ResetAll())
	assert.Equal(t, theme.System, s.Theme.Get())
	assert.False(t, s.Autoplay.Get())
}

func TestCategoryJSON(t *testing.T) {
	data, err := json.Marshal(DefaultCategories([]string{"core", "obscure"}))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"core","shown":true},{"name":"obscure","shown":false}]`, string(data))
}

func TestChoices(t *testing.T) {
	assert.Equal(t, []any{theme.System, theme.Dark, theme.Light, theme.Dim}, Choices(KeyTheme))
	assert.Equal(t, []any{WidthFull, WidthLarge}, Choices(KeyScreenWidth))
	assert.Equal(t, []any{false, true}, Choices(KeyAutoplay))
	assert.Nil(t, Choices(KeyLanguage))
	assert.Nil(t, Choices(KeyCategories))
}

func TestRawJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`dark`, `"dark"`},
		{` "dark" `, `"dark"`},
		{`true`, `true`},
		{`toki pona`, `"toki pona"`},
		{`[{"name":"core","shown":true}]`, `[{"name":"core","shown":true}]`},
		{`say "hi"`, `"say \"hi\""`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, RawJSON(tt.input))
		})
	}
}
