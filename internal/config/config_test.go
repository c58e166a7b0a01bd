package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Empty(t, cfg.Storage.Path)
	assert.Equal(t, DefaultQuotaBytes, cfg.Storage.QuotaBytes)
	assert.Equal(t, []string{"core", "common", "uncommon", "obscure", "sandbox"}, cfg.Catalog.Categories)
	assert.Empty(t, cfg.Catalog.Validators)
	assert.Equal(t, DetectorPortal, cfg.Theme.Detector)
	assert.False(t, cfg.Theme.PrefersDark)
	assert.True(t, cfg.TUI.ShowHelp)
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfig_CategoriesAreCopied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalog.Categories[0] = "changed"
	assert.Equal(t, "core", DefaultCategories[0])
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Storage.Backend, cfg.Storage.Backend)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[storage]
backend = "sqlite"
path = "/tmp/prefs.db"
quota_bytes = 1024

[catalog]
categories = ["core", "common", "uncommon", "sandbox"]

[catalog.validators]
language = "len(value) == 2"

[theme]
detector = "static"
prefers_dark = true

[tui]
show_help = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/prefs.db", cfg.Storage.Path)
	assert.Equal(t, 1024, cfg.Storage.QuotaBytes)
	assert.Equal(t, []string{"core", "common", "uncommon", "sandbox"}, cfg.Catalog.Categories)
	assert.Equal(t, "len(value) == 2", cfg.Catalog.Validators["language"])
	assert.Equal(t, DetectorStatic, cfg.Theme.Detector)
	assert.True(t, cfg.Theme.PrefersDark)
	assert.False(t, cfg.TUI.ShowHelp)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[theme]
detector = "none"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DetectorNone, cfg.Theme.Detector)

	// Unchanged fields keep defaults
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Len(t, cfg.Catalog.Categories, 5)
	assert.NotNil(t, cfg.Catalog.Validators)
	assert.True(t, cfg.TUI.ShowHelp)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"backend", "[storage]\nbackend = \"cloud\"\n"},
		{"quota", "[storage]\nquota_bytes = -1\n"},
		{"detector", "[theme]\ndetector = \"guess\"\n"},
		{"too few categories", "[catalog]\ncategories = [\"core\"]\n"},
		{"duplicate category", "[catalog]\ncategories = [\"core\", \"core\"]\n"},
		{"empty category", "[catalog]\ncategories = [\"core\", \"\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Storage.Backend = BackendMemory
	cfg.Catalog.Validators["language"] = `value != "eng"`

	require.NoError(t, cfg.Save(path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, loaded.Storage.Backend)
	assert.Equal(t, `value != "eng"`, loaded.Catalog.Validators["language"])
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/linkuprefs/config.toml", ConfigPath())
}

func TestDataPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	assert.Equal(t, "/custom/data/linkuprefs", DataPath())
}

func TestStorageConfig_ResolvedPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	tests := []struct {
		name     string
		storage  StorageConfig
		expected string
	}{
		{"file default", StorageConfig{Backend: BackendFile}, "/custom/data/linkuprefs/settings.json"},
		{"sqlite default", StorageConfig{Backend: BackendSQLite}, "/custom/data/linkuprefs/settings.db"},
		{"explicit", StorageConfig{Backend: BackendSQLite, Path: "/x/y.db"}, "/x/y.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.storage.ResolvedPath())
		})
	}
}

func TestEnsureDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	require.NoError(t, EnsureDataDir())

	info, err := os.Stat(filepath.Join(dir, "linkuprefs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
