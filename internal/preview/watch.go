package preview

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange, debounced by delay, whenever the file at path is
// written or recreated. The parent directory is watched so editors that
// replace the file on save are still seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, delay time.Duration, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	debouncer := NewDebouncer(delay, onChange)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debouncer.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", "error", err)
		}
	}
}

// Rebuild keeps slot in sync with the description at path until ctx is done.
// A failed rebuild is logged and the previous artifact keeps being served.
func Rebuild(ctx context.Context, b *Builder, path string, slot *Slot) error {
	slog.Info("Watching for changes", "path", path)
	return Watch(ctx, path, DefaultDebounce, func() {
		slog.Info("File change detected, rebuilding", "path", path)
		a, err := b.Build(ctx, path)
		if err != nil {
			slog.Error("Rebuild failed", "path", path, "error", err)
			return
		}
		slot.Set(a)
		slog.Info("Local server is updated", "etag", a.ETag)
	})
}
