package medium

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileSchemaVersion is the current version of the settings file layout.
const FileSchemaVersion = 1

// fileDocument is the on-disk layout of a File medium.
type fileDocument struct {
	SchemaVersion int              `json:"schema_version"`
	Entries       map[string]Entry `json:"entries"`
}

// File is a medium backed by a single JSON document.
// Writes go through a temp file and rename so readers never see a partial file.
// A corrupted, unreadable or newer document reads as empty and is never
// overwritten.
type File struct {
	mu      sync.RWMutex
	path    string
	quota   int
	logger  *slog.Logger
	entries map[string]Entry
	closed  bool
}

// NewFile opens the settings document at path, creating its directory.
// quota limits the total bytes of keys and values; 0 means unlimited.
func NewFile(path string, quota int, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	f := &File{
		path:   path,
		quota:  quota,
		logger: logger,
	}
	f.entries, _ = f.load()
	return f, nil
}

// Path returns the document path.
func (f *File) Path() string {
	return f.path
}

// load reads the document from disk. A missing file yields no entries and
// no error. Unreadable, corrupted or newer documents yield no entries and
// an error that makes writers leave the file alone.
func (f *File) load() (map[string]Entry, error) {
	entries := make(map[string]Entry)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		f.logger.Warn("failed to read settings file", "path", f.path, "error", err)
		return entries, fmt.Errorf("failed to read settings file: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		f.logger.Warn("settings file is corrupted, ignoring it", "path", f.path, "error", err)
		return entries, fmt.Errorf("%w: %s: %w", ErrCorrupt, f.path, err)
	}
	if doc.SchemaVersion > FileSchemaVersion {
		f.logger.Warn("settings file has a newer schema, ignoring it",
			"path", f.path, "version", doc.SchemaVersion, "max", FileSchemaVersion)
		return entries, fmt.Errorf("%w: %s is version %d, max %d",
			ErrNewerSchema, f.path, doc.SchemaVersion, FileSchemaVersion)
	}

	for k, e := range doc.Entries {
		entries[k] = e
	}
	return entries, nil
}

// save writes entries atomically via a temp file.
func (f *File) save(entries map[string]Entry) error {
	doc := fileDocument{
		SchemaVersion: FileSchemaVersion,
		Entries:       entries,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return os.Rename(tmpPath, f.path)
}

// Get returns the payload stored under key.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return "", false, ErrClosed
	}
	e, ok := f.entries[key]
	return e.Value, ok, nil
}

// Set stores value under key. Entries written by other processes since
// the last read are kept. A document that cannot be read back is left
// untouched and the error is returned.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	current, err := f.load()
	if err != nil {
		return err
	}
	if f.quota > 0 && usage(current, key, value) > f.quota {
		return ErrQuotaExceeded
	}

	e, err := newEntry(value)
	if err != nil {
		return err
	}
	current[key] = e

	if err := f.save(current); err != nil {
		return err
	}
	f.entries = current
	return nil
}

// Delete removes key.
func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	current, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := current[key]; !ok {
		f.entries = current
		return nil
	}
	delete(current, key)

	if err := f.save(current); err != nil {
		return err
	}
	f.entries = current
	return nil
}

// Keys returns the stored keys in sorted order.
func (f *File) Keys() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(f.entries))
	for k := range f.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Entry returns the stored entry for key.
func (f *File) Entry(key string) (Entry, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return Entry{}, false, ErrClosed
	}
	e, ok := f.entries[key]
	return e, ok, nil
}

// Reload re-reads the document and returns the keys whose entries changed
// or disappeared since the last read.
func (f *File) Reload() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}

	fresh, _ := f.load()
	var changed []string
	for k, e := range fresh {
		if old, ok := f.entries[k]; !ok || old != e {
			changed = append(changed, k)
		}
	}
	for k := range f.entries {
		if _, ok := fresh[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)

	f.entries = fresh
	return changed
}

// Watch follows writes to the document by other processes. fn is called
// with each changed key after the cached entries have been refreshed.
// Watching stops when ctx is cancelled.
func (f *File) Watch(ctx context.Context, fn func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory; the document is replaced by rename on every write.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		filename := filepath.Base(f.path)

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filename {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}

				changed := f.Reload()
				if len(changed) > 0 {
					f.logger.Debug("settings file changed", "path", f.path, "keys", changed)
				}
				for _, key := range changed {
					fn(key)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Warn("settings file watcher error", "error", err)

			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Close marks the medium closed.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
