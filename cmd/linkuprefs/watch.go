package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/linkuprefs/internal/medium"
	"github.com/jmylchreest/linkuprefs/internal/theme"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow preference changes",
	Long: `Print preferences as other processes change them, and the resolved
theme as the desktop color scheme changes. Requires the file backend.

Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	f, ok := registry.Medium().(*medium.File)
	if !ok {
		return fmt.Errorf("watch requires the %q storage backend", "file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := f.Watch(ctx, func(key string) {
		value, ok, err := f.Get(key)
		switch {
		case err != nil:
			logger.Warn("failed to read changed preference", "key", key, "error", err)
		case !ok:
			printf(cmd, "%s removed\n", key)
		default:
			printf(cmd, "%s = %s\n", key, value)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", f.Path(), err)
	}

	if changes != nil {
		doc := theme.NewClassList()
		applier := theme.NewApplier(doc, detector, logger)
		unsubscribe := applier.Register(prefs.Theme)
		defer unsubscribe()

		// Flush runs under the applier's lock, so read the class list
		// rather than asking the applier.
		doc.SetChangeCallback(func(classes []string) {
			for _, c := range classes {
				if t := theme.Theme(c); t != theme.System && theme.Valid(t) {
					printf(cmd, "theme resolved to %s\n", t)
				}
			}
		})
		applier.Watch(ctx, changes)
	}

	logger.Debug("watching preferences", "path", f.Path())
	<-ctx.Done()
	return nil
}
