package routes

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch calls fn each time the contents of dir change, once events have been
// quiet for the debounce interval. It returns when ctx is done, or with the
// first watcher error. Errors returned by fn are logged and watching continues.
func Watch(ctx context.Context, dir string, debounce time.Duration, fn func() error, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Watch: %w", err)
	}
	defer watcher.Close()
	if err = watcher.Add(dir); err != nil {
		return fmt.Errorf("Watch: %w", err)
	}
	logger.Info("Watching for changes", zap.String("dir", dir))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			// temporary and editor files
			if strings.HasPrefix(filepath.Base(ev.Name), ".") {
				continue
			}
			logger.Debug("Change detected", zap.String("name", ev.Name), zap.Stringer("op", ev.Op))
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("Watch: %w", err)
		case <-timer.C:
			if err := fn(); err != nil {
				logger.Error("Regeneration failed", zap.Error(err))
			}
		}
	}
}
