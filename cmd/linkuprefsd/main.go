// Package main is the entry point for the linkuprefsd preferences window.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/linkuprefs/internal/config"
	"github.com/jmylchreest/linkuprefs/internal/display"
	"github.com/jmylchreest/linkuprefs/internal/medium"
	"github.com/jmylchreest/linkuprefs/internal/persisted"
	"github.com/jmylchreest/linkuprefs/internal/settings"
	"github.com/jmylchreest/linkuprefs/internal/theme"
)

const (
	appID   = "io.github.jmylchreest.linkuprefsd"
	appName = "linkuprefsd"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/linkuprefs/config.toml)")
	stylesheet := flag.String("stylesheet", theme.DefaultStylesheet, "Stylesheet name, embedded or under ~/.config/linkuprefs/styles")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println(appName, "version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting linkuprefsd", "version", version)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	m, err := medium.Open(cfg.Storage, logger)
	if err != nil {
		logger.Warn("durable storage unavailable, using defaults", "backend", cfg.Storage.Backend, "error", err)
		m = nil
	}
	registry := persisted.NewRegistry(m, persisted.WithLogger(logger))
	prefs, err := settings.Open(registry, cfg.Catalog)
	if err != nil {
		logger.Error("failed to open settings", "error", err)
		os.Exit(1)
	}

	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		window      *display.Window
		unsubscribe func()
		portal      *theme.PortalDetector
		running     atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())

	stop := func() {
		cancel()
		if unsubscribe != nil {
			unsubscribe()
			unsubscribe = nil
		}
		if portal != nil {
			_ = portal.Close()
			portal = nil
		}
		if err := registry.Close(); err != nil {
			logger.Warn("failed to close storage", "error", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Stop components in GTK main loop context
		glib.IdleAdd(func() {
			if running.Load() && window != nil {
				window.Close()
			}
			app.Quit()
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			window.Present()
			return
		}
		running.Store(true)

		styles := display.NewStylesheet(*stylesheet, logger)
		if err := styles.Load(); err != nil {
			logger.Warn("failed to load stylesheet", "name", *stylesheet, "error", err)
		} else if err := styles.Watch(ctx); err != nil {
			logger.Warn("failed to watch stylesheet", "error", err)
		}

		var (
			det     theme.Detector
			changes theme.ChangeSource
		)
		switch cfg.Theme.Detector {
		case config.DetectorNone:
			det = theme.Unavailable{}
		case config.DetectorStatic:
			det = theme.NewStaticDetector(cfg.Theme.PrefersDark)
		default:
			// Portal signals arrive on the D-Bus goroutine. Without the
			// portal, libadwaita's own view of the desktop is used.
			adwDet := display.NewAdwDetector()
			det, changes = adwDet, adwDet
			if p, err := theme.NewPortalDetector(logger); err == nil {
				portal = p
				det = theme.Chain{p, adwDet}
				changes = display.MainThread{Source: p}
			} else {
				logger.Debug("settings portal unavailable, using libadwaita", "error", err)
			}
		}

		window = display.NewWindow(&app.Application, prefs, logger)
		applier := theme.NewApplier(window.Surface(), det, logger)
		unsubscribe = applier.Register(prefs.Theme)
		if changes != nil {
			applier.Watch(ctx, changes)
		}
		window.Bind(applier, changes)

		logger.Info("preferences window ready",
			"theme", string(prefs.Theme.Get()),
			"resolved", string(applier.Resolved()),
			"detector", applier.DetectorName())
		window.Present()
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		stop()
		running.Store(false)
	})

	status := app.Run(os.Args)
	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("linkuprefsd stopped")
}
