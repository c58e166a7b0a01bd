// Package main provides the CLI entrypoint for linkuprefs.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/linkuprefs/internal/config"
	"github.com/jmylchreest/linkuprefs/internal/medium"
	"github.com/jmylchreest/linkuprefs/internal/persisted"
	"github.com/jmylchreest/linkuprefs/internal/settings"
	"github.com/jmylchreest/linkuprefs/internal/theme"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		store      string
	}
	logger *slog.Logger

	registry *persisted.Registry
	prefs    *settings.Settings

	// detector resolves the "system" theme; changes is non-nil when the
	// detector can report platform changes.
	detector      theme.Detector
	changes       theme.ChangeSource
	closeDetector func()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "linkuprefs",
	Short: "Persisted preferences for the linku dictionary",
	Long: `linkuprefs reads and writes the linku dictionary preferences.

Every preference is stored as JSON in the configured medium (a JSON file
by default, or SQLite) and falls back to its default when the stored
value is missing or invalid.

Running linkuprefs without a subcommand launches the interactive TUI.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if globalOpts.store != "" {
			cfg.Storage.Backend = globalOpts.store
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		if cfg.Storage.Path == "" && cfg.Storage.Backend != config.BackendNone && cfg.Storage.Backend != config.BackendMemory {
			if err := config.EnsureDataDir(); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
		}

		m, err := medium.Open(cfg.Storage, logger)
		if err != nil {
			// Settings still work for this session, only without durability
			logger.Warn("durable storage unavailable, using defaults", "backend", cfg.Storage.Backend, "error", err)
			m = nil
		}

		registry = persisted.NewRegistry(m, persisted.WithLogger(logger))
		prefs, err = settings.Open(registry, cfg.Catalog)
		if err != nil {
			return fmt.Errorf("failed to open settings: %w", err)
		}

		detector, changes, closeDetector = openDetector(cfg.Theme)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeDetector != nil {
			closeDetector()
			closeDetector = nil
		}
		if registry != nil {
			err := registry.Close()
			registry = nil
			return err
		}
		return nil
	},
	// Default to TUI when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/linkuprefs/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.store, "store", "",
		"Storage backend override (file, sqlite, memory, none)")
}

// setupLogger installs a charm log handler on stderr so stdout is clean
// for output.
func setupLogger() {
	level := log.WarnLevel
	if globalOpts.verbose {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: globalOpts.verbose,
		TimeFormat:      time.Kitchen,
		Level:           level,
		Prefix:          "linkuprefs",
	})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// openDetector builds the "system" theme detector named by cfg. The
// portal detector falls back to the configured static preference when
// the desktop does not answer.
func openDetector(tc config.ThemeConfig) (theme.Detector, theme.ChangeSource, func()) {
	switch tc.Detector {
	case config.DetectorNone:
		return theme.Unavailable{}, nil, nil
	case config.DetectorStatic:
		return theme.NewStaticDetector(tc.PrefersDark), nil, nil
	}

	portal, err := theme.NewPortalDetector(logger)
	if err != nil {
		logger.Debug("settings portal unavailable", "error", err)
		return theme.NewStaticDetector(tc.PrefersDark), nil, nil
	}

	chain := theme.Chain{portal, theme.NewStaticDetector(tc.PrefersDark)}
	return chain, portal, func() {
		if err := portal.Close(); err != nil {
			logger.Debug("failed to close settings portal", "error", err)
		}
	}
}
