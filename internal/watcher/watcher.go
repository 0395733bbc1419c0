// Package watcher re-runs a callback when any of a set of files changes.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches files for changes
type Watcher struct {
	paths    []string
	onChange func(paths []string)
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher for paths. onChange runs on the watch goroutine, so
// successive calls never overlap.
func New(paths []string, onChange func(paths []string)) *Watcher {
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// WithLogger sets the logger
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	w.logger = l
	return w
}

// Watch blocks until ctx is cancelled or the underlying watcher fails. A burst
// of events across any of the files produces one onChange call carrying every
// file that changed in the burst, sorted.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Directories are watched so files replaced by editors are still seen
	watchedDirs := make(map[string]bool)
	fileSet := make(map[string]bool)
	for _, path := range w.paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		dir := filepath.Dir(absPath)
		if !watchedDirs[dir] {
			if err := fw.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			watchedDirs[dir] = true
		}
		fileSet[absPath] = true
		w.logger.Debug("Watching file", "path", absPath)
	}
	w.logger.Info("Watching for changes", "files", len(fileSet), "dirs", len(watchedDirs))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			absPath, err := filepath.Abs(event.Name)
			if err != nil || !fileSet[absPath] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending[absPath] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			w.logger.Info("Files changed", "paths", changed)
			w.onChange(changed)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
