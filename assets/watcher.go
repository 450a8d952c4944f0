package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the bursts of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Watcher rebuilds the public dir whenever a file below the source dir changes.
type Watcher struct {
	srcDir   string
	rebuild  func() error
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher creates a Watcher that calls rebuild after changes settle.
func NewWatcher(srcDir string, rebuild func() error, debounce time.Duration, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		srcDir:   srcDir,
		rebuild:  rebuild,
		debounce: debounce,
		logger:   logger.Named("AssetWatcher"),
	}
}

// Run watches until ctx is cancelled. Directories created while running are
// watched as well. ready, if not nil, is closed once the initial tree is watched.
func (w *Watcher) Run(ctx context.Context, ready chan<- struct{}) error {
	if _, err := os.Stat(w.srcDir); err != nil {
		return fmt.Errorf("source dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.srcDir); err != nil {
		return err
	}
	w.logger.Info("watching sources", zap.String("src", w.srcDir))
	if ready != nil {
		close(ready)
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("source changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))

			if event.Op&fsnotify.Create != 0 {
				if err := w.addTree(fw, event.Name); err != nil {
					w.logger.Warn("failed to watch new path", zap.String("path", event.Name), zap.Error(err))
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))

		case <-timer.C:
			if err := w.rebuild(); err != nil {
				w.logger.Error("rebuild failed", zap.Error(err))
			}
		}
	}
}

// addTree watches root and every directory below it. Non-directories are ignored.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// the path may have vanished between the event and the walk
			if p == root && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}
