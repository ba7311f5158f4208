package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/logger"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a ConfigStore whenever its file changes and reports the
// new feeds to a callback.
type Watcher struct {
	store    *ConfigStore
	debounce time.Duration
	onChange func([]domain.Feed)
}

// NewWatcher creates a watcher for store.
func NewWatcher(store *ConfigStore, onChange func([]domain.Feed)) *Watcher {
	return &Watcher{
		store:    store,
		debounce: DefaultDebounce,
		onChange: onChange,
	}
}

// Run watches until ctx is cancelled.
// The parent directory is watched so editors that replace the file by
// rename are still observed.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.store.Path())
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}

	target := filepath.Clean(w.store.Path())
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Load(); err != nil {
		logger.Warn("config watcher: keeping previous configuration: %v", err)
		return
	}
	logger.Info("config watcher: reloaded %s", w.store.Path())
	if w.onChange != nil {
		w.onChange(w.store.Feeds())
	}
}
