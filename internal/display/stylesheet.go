package display

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/jmylchreest/linkuprefs/internal/theme"
)

// StylesDir returns the directory user stylesheets are read from.
func StylesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "linkuprefs", "styles"), nil
}

// resolveStylesheet finds the CSS for name. A file in dir overrides the
// bundled stylesheet of the same name.
func resolveStylesheet(name, dir string) (css, source string, err error) {
	if name == "" {
		name = theme.DefaultStylesheet
	}

	if dir != "" {
		path := filepath.Join(dir, name+".css")
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), path, nil
		}
		if !os.IsNotExist(err) {
			return "", "", fmt.Errorf("failed to read stylesheet: %w", err)
		}
	}

	css, ok := theme.GetStylesheet(name)
	if !ok {
		return "", "", fmt.Errorf("stylesheet %q not found", name)
	}
	return css, "embedded", nil
}

// Stylesheet installs a named stylesheet on the default display and
// reloads it when the user's copy changes.
type Stylesheet struct {
	name     string
	dir      string
	provider *gtk.CSSProvider
	logger   *slog.Logger
}

// NewStylesheet creates a stylesheet for name. It must be called on the
// GTK main thread.
func NewStylesheet(name string, logger *slog.Logger) *Stylesheet {
	if logger == nil {
		logger = slog.Default()
	}

	dir, err := StylesDir()
	if err != nil {
		logger.Warn("failed to get styles directory", "error", err)
	}

	return &Stylesheet{
		name:     name,
		dir:      dir,
		provider: gtk.NewCSSProvider(),
		logger:   logger,
	}
}

// Load reads the stylesheet and attaches it to the default display.
func (s *Stylesheet) Load() error {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return fmt.Errorf("no display available")
	}

	if err := s.Reload(); err != nil {
		return err
	}
	gtk.StyleContextAddProviderForDisplay(display, s.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	return nil
}

// Reload re-reads the stylesheet into the installed provider.
func (s *Stylesheet) Reload() error {
	css, source, err := resolveStylesheet(s.name, s.dir)
	if err != nil {
		return err
	}
	s.provider.LoadFromString(css)
	s.logger.Debug("loaded stylesheet", "name", s.name, "source", source)
	return nil
}

// Watch reloads the stylesheet on the main thread whenever the user
// styles directory changes. It stops when ctx is done.
func (s *Stylesheet) Watch(ctx context.Context) error {
	if s.dir == "" {
		return nil
	}
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.logger.Debug("no user styles directory, not watching", "path", s.dir)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return err
	}

	filename := s.name + ".css"
	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filename {
					continue
				}
				glib.IdleAdd(func() {
					if err := s.Reload(); err != nil {
						s.logger.Warn("failed to reload stylesheet", "name", s.name, "error", err)
						return
					}
					s.logger.Info("hot-reloaded stylesheet", "name", s.name)
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("stylesheet watcher error", "error", err)

			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
