package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// configWatcher reports changes to the config file and its includes.
// Directories are watched rather than files so editors that replace the file
// through a rename are still seen.
type configWatcher struct {
	fs       *fsnotify.Watcher
	logger   *slog.Logger
	debounce *debouncer

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}
}

func newConfigWatcher(delay time.Duration, logger *slog.Logger, onChange func()) (*configWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &configWatcher{
		fs:       fsw,
		logger:   logger,
		debounce: newDebouncer(delay, onChange),
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// Watch replaces the set of files whose changes trigger a reload.
func (w *configWatcher) Watch(files []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.files = make(map[string]struct{}, len(files))
	for _, f := range files {
		path := normalizePath(f)
		w.files[path] = struct{}{}

		dir := filepath.Dir(path)
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			w.logger.Debug("cannot watch config directory", "dir", dir, "error", err)
			continue
		}
		w.dirs[dir] = struct{}{}
		w.logger.Debug("watching config directory", "dir", dir)
	}
}

func (w *configWatcher) relevant(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[normalizePath(name)]
	return ok
}

// Run processes notifications until ctx is cancelled.
func (w *configWatcher) Run(ctx context.Context) {
	defer w.debounce.Stop()
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
				!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.logger.Debug("config file changed", "file", event.Name, "op", event.Op.String())
			w.debounce.Trigger()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fsnotify watcher error", "error", err)
		}
	}
}

func normalizePath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
