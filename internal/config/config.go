// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Color scheme detectors.
const (
	DetectorPortal = "portal"
	DetectorStatic = "static"
	DetectorNone   = "none"
)

// Default configuration values.
const (
	DefaultBackend    = BackendFile
	DefaultDetector   = DetectorPortal
	DefaultQuotaBytes = 5 * 1024 * 1024 // browser localStorage budget
)

// DefaultCategories is the word usage category universe.
var DefaultCategories = []string{"core", "common", "uncommon", "obscure", "sandbox"}

// Config represents the linkuprefs configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Catalog CatalogConfig `toml:"catalog"`
	Theme   ThemeConfig   `toml:"theme"`
	TUI     TUIConfig     `toml:"tui"`
}

// StorageConfig selects the durable medium.
type StorageConfig struct {
	Backend    string `toml:"backend"`     // file, sqlite, memory, none
	Path       string `toml:"path"`        // Empty = default under DataPath
	QuotaBytes int    `toml:"quota_bytes"` // 0 = unlimited
}

// CatalogConfig customizes the settings catalog.
type CatalogConfig struct {
	Categories []string          `toml:"categories"` // Category universe
	Validators map[string]string `toml:"validators"` // key -> expression over `value`
}

// ThemeConfig controls how the "system" theme is resolved.
type ThemeConfig struct {
	Detector    string `toml:"detector"`     // portal, static, none
	PrefersDark bool   `toml:"prefers_dark"` // Used by the static detector
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	ShowHelp  bool   `toml:"show_help"`
	Clipboard string `toml:"clipboard"` // Clipboard command, empty = auto-detect
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:    DefaultBackend,
			Path:       "",
			QuotaBytes: DefaultQuotaBytes,
		},
		Catalog: CatalogConfig{
			Categories: slices.Clone(DefaultCategories),
			Validators: make(map[string]string),
		},
		Theme: ThemeConfig{
			Detector:    DefaultDetector,
			PrefersDark: false,
		},
		TUI: TUIConfig{
			ShowHelp: true,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "linkuprefs", "config.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "linkuprefs")
}

// ResolvedPath returns the storage path, falling back to the backend's
// default location under DataPath.
func (s StorageConfig) ResolvedPath() string {
	if s.Path != "" {
		return s.Path
	}
	switch s.Backend {
	case BackendSQLite:
		return filepath.Join(DataPath(), "settings.db")
	default:
		return filepath.Join(DataPath(), "settings.json")
	}
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Catalog.Validators == nil {
		cfg.Catalog.Validators = make(map[string]string)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory, BackendNone:
	default:
		return fmt.Errorf("invalid storage backend %q, must be one of: %v",
			c.Storage.Backend, []string{BackendFile, BackendSQLite, BackendMemory, BackendNone})
	}

	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("quota_bytes must not be negative, got %d", c.Storage.QuotaBytes)
	}

	switch c.Theme.Detector {
	case DetectorPortal, DetectorStatic, DetectorNone:
	default:
		return fmt.Errorf("invalid theme detector %q, must be one of: %v",
			c.Theme.Detector, []string{DetectorPortal, DetectorStatic, DetectorNone})
	}

	if len(c.Catalog.Categories) < 2 {
		return fmt.Errorf("catalog needs at least two categories, got %d", len(c.Catalog.Categories))
	}
	seen := make(map[string]bool, len(c.Catalog.Categories))
	for _, name := range c.Catalog.Categories {
		if name == "" {
			return errors.New("catalog categories must not be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate catalog category %q", name)
		}
		seen[name] = true
	}

	return nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}
