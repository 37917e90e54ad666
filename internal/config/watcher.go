package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultReloadDebounce = 150 * time.Millisecond

// Watcher reloads the config file whenever it changes on disk.
type Watcher struct {
	path     string
	logger   *log.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for path. A nil logger uses log.Default().
func NewWatcher(path string, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{path: path, logger: logger, debounce: defaultReloadDebounce}
}

// Run watches until ctx is cancelled. onChange receives every config that
// loads and validates; invalid edits are logged and the previous config
// stays in effect.
//
// The parent directory is watched rather than the file itself so editors
// that save via rename keep triggering reloads.
func (w *Watcher) Run(ctx context.Context, onChange func(*LoadResult)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer fw.Close()

	target, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", w.path, err)
	}
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	w.logger.Debug("watching config", "path", target)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("config change detected", "op", ev.Op.String(), "file", ev.Name)
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "err", err)
		case <-timer.C:
			res, err := LoadFromPath(target)
			if err != nil {
				w.logger.Warn("config reload failed; keeping previous config", "err", err)
				continue
			}
			w.logger.Info("config reloaded", "path", target)
			onChange(res)
		}
	}
}
