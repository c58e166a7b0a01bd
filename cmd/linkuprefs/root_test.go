package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/linkuprefs/internal/config"
	"github.com/jmylchreest/linkuprefs/internal/settings"
	"github.com/jmylchreest/linkuprefs/internal/theme"
)

// setupConfig writes a config using a file medium under a temp dir.
func setupConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	cfg := config.DefaultConfig()
	cfg.Storage.Path = filepath.Join(dir, "settings.json")
	cfg.Theme.Detector = config.DetectorStatic
	cfg.Theme.PrefersDark = true

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, cfg.Save(path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	getOpts.format, getOpts.template = "plain", ""
	listOpts.format = "plain"
	resetOpts.all = false
	globalOpts.store = ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSetAndGet(t *testing.T) {
	cfgPath := setupConfig(t)

	_, err := execute(t, "--config", cfgPath, "set", "theme", "dim")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfgPath, "get", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dim\n", out)

	_, err = execute(t, "--config", cfgPath, "set", "categories",
		`[{"name":"core","shown":true},{"name":"common","shown":false},{"name":"uncommon","shown":false},{"name":"obscure","shown":false}]`)
	require.NoError(t, err)

	out, err = execute(t, "--config", cfgPath, "get", "categories", "--format", "json")
	require.NoError(t, err)
	var categories []settings.Category
	require.NoError(t, json.Unmarshal([]byte(out), &categories))
	assert.Equal(t, []string{"core"}, settings.ShownNames(categories))
}

func TestSetRejectsInvalid(t *testing.T) {
	cfgPath := setupConfig(t)

	_, err := execute(t, "--config", cfgPath, "set", "theme", "sepia")
	assert.ErrorIs(t, err, settings.ErrInvalidValue)

	_, err = execute(t, "--config", cfgPath, "set", "fontSize", "12")
	assert.ErrorIs(t, err, settings.ErrUnknownKey)

	out, err := execute(t, "--config", cfgPath, "get", "theme")
	require.NoError(t, err)
	assert.Equal(t, "system\n", out)
}

func TestReset(t *testing.T) {
	cfgPath := setupConfig(t)

	for _, args := range [][]string{{"theme", "dark"}, {"autoplay", "true"}} {
		_, err := execute(t, "--config", cfgPath, "set", args[0], args[1])
		require.NoError(t, err)
	}

	_, err := execute(t, "--config", cfgPath, "reset", "autoplay")
	require.NoError(t, err)
	out, err := execute(t, "--config", cfgPath, "get", "autoplay")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, err = execute(t, "--config", cfgPath, "reset")
	assert.Error(t, err)

	_, err = execute(t, "--config", cfgPath, "reset", "--all")
	require.NoError(t, err)
	out, err = execute(t, "--config", cfgPath, "get", "theme")
	require.NoError(t, err)
	assert.Equal(t, "system\n", out)
}

func TestList(t *testing.T) {
	cfgPath := setupConfig(t)

	_, err := execute(t, "--config", cfgPath, "set", "viewMode", "compact")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfgPath, "list", "--format", "json")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, len(settings.Keys))

	for _, r := range records {
		if r["key"] == settings.KeyViewMode {
			assert.Equal(t, "compact", r["value"])
			assert.Equal(t, true, r["stored"])
			assert.NotEmpty(t, r["revision"])
		} else {
			assert.NotContains(t, r, "revision")
		}
	}
}

func TestTheme(t *testing.T) {
	cfgPath := setupConfig(t)

	out, err := execute(t, "--config", cfgPath, "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "stored:   system")
	assert.Contains(t, out, "resolved: dark")
	assert.Contains(t, out, "detector: static")
}

func TestStoreNone(t *testing.T) {
	cfgPath := setupConfig(t)

	_, err := execute(t, "--config", cfgPath, "--store", "none", "set", "theme", "dark")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfgPath, "get", "theme")
	require.NoError(t, err)
	assert.Equal(t, "system\n", out)

	_, err = os.Stat(filepath.Join(filepath.Dir(cfgPath), "settings.json"))
	assert.True(t, os.IsNotExist(err))

	_, err = execute(t, "--config", cfgPath, "--store", "bogus", "get")
	assert.Error(t, err)
}

func TestOpenDetector(t *testing.T) {
	det, changes, closeFn := openDetector(config.ThemeConfig{Detector: config.DetectorNone})
	assert.Equal(t, theme.Unavailable{}, det)
	assert.Nil(t, changes)
	assert.Nil(t, closeFn)

	det, _, _ = openDetector(config.ThemeConfig{Detector: config.DetectorStatic, PrefersDark: true})
	dark, err := det.PrefersDark()
	require.NoError(t, err)
	assert.True(t, dark)
}
