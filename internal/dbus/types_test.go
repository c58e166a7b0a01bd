package dbus

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorSchemeString(t *testing.T) {
	tests := []struct {
		scheme   ColorScheme
		expected string
	}{
		{NoPreference, "no-preference"},
		{PreferDark, "prefer-dark"},
		{PreferLight, "prefer-light"},
		{ColorScheme(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.scheme.String())
		})
	}
}

func TestParseColorScheme(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected ColorScheme
		wantErr  bool
	}{
		{name: "dark", value: uint32(1), expected: PreferDark},
		{name: "light", value: uint32(2), expected: PreferLight},
		{name: "no preference", value: uint32(0), expected: NoPreference},
		{name: "out of range", value: uint32(7), expected: NoPreference},
		{name: "int32", value: int32(1), expected: PreferDark},
		{name: "negative", value: int32(-1), expected: NoPreference},
		{name: "ReadOne variant", value: dbus.MakeVariant(uint32(1)), expected: PreferDark},
		{name: "Read nested variant", value: dbus.MakeVariant(dbus.MakeVariant(uint32(2))), expected: PreferLight},
		{name: "wrong type", value: "dark", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColorScheme(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestColorSchemeDark(t *testing.T) {
	assert.True(t, PreferDark.Dark())
	assert.False(t, PreferLight.Dark())
	assert.False(t, NoPreference.Dark())
}

func TestParseSettingChanged(t *testing.T) {
	name := SettingsInterface + ".SettingChanged"

	tests := []struct {
		name   string
		sig    *dbus.Signal
		ok     bool
		expect SettingChange
	}{
		{
			name: "color scheme",
			sig: &dbus.Signal{
				Name: name,
				Body: []any{AppearanceNamespace, ColorSchemeKey, dbus.MakeVariant(uint32(1))},
			},
			ok: true,
			expect: SettingChange{
				Namespace: AppearanceNamespace,
				Key:       ColorSchemeKey,
				Value:     dbus.MakeVariant(uint32(1)),
			},
		},
		{
			name: "bare value is wrapped",
			sig: &dbus.Signal{
				Name: name,
				Body: []any{AppearanceNamespace, "accent-color", uint32(3)},
			},
			ok: true,
			expect: SettingChange{
				Namespace: AppearanceNamespace,
				Key:       "accent-color",
				Value:     dbus.MakeVariant(uint32(3)),
			},
		},
		{
			name: "other member",
			sig:  &dbus.Signal{Name: SettingsInterface + ".Other", Body: []any{"a", "b", uint32(1)}},
		},
		{
			name: "short body",
			sig:  &dbus.Signal{Name: name, Body: []any{AppearanceNamespace}},
		},
		{
			name: "wrong namespace type",
			sig:  &dbus.Signal{Name: name, Body: []any{1, ColorSchemeKey, uint32(1)}},
		},
		{
			name: "nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseSettingChanged(tt.sig)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expect, got)
			}
		})
	}
}

func TestSettingsPortal_HandleSignal(t *testing.T) {
	p := NewSettingsPortal(nil)

	var got []ColorScheme
	p.handlers[0] = func(s ColorScheme) { got = append(got, s) }
	p.nextID = 1

	name := SettingsInterface + ".SettingChanged"
	p.handleSignal(&dbus.Signal{Name: name, Body: []any{AppearanceNamespace, ColorSchemeKey, dbus.MakeVariant(uint32(1))}})
	p.handleSignal(&dbus.Signal{Name: name, Body: []any{AppearanceNamespace, "contrast", dbus.MakeVariant(uint32(1))}})
	p.handleSignal(&dbus.Signal{Name: name, Body: []any{AppearanceNamespace, ColorSchemeKey, dbus.MakeVariant("bad")}})
	p.handleSignal(&dbus.Signal{Name: name, Body: []any{AppearanceNamespace, ColorSchemeKey, dbus.MakeVariant(uint32(2))}})

	assert.Equal(t, []ColorScheme{PreferDark, PreferLight}, got)
}

func TestSettingsPortal_NotConnected(t *testing.T) {
	p := NewSettingsPortal(nil)

	_, err := p.ColorScheme()
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = p.Subscribe(func(ColorScheme) {})
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.NoError(t, p.Close())
}
