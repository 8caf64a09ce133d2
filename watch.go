// File: themekit/watch.go
package themekit

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of file events into a single reload.
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions configures file watching for a FileStore.
type WatchOptions struct {
	// Debounce is the quiet period required before a reload fires.
	Debounce time.Duration

	// Logger receives watch diagnostics. Nil falls back to slog.Default.
	Logger *slog.Logger
}

// DefaultWatchOptions returns the standard watch configuration.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{Debounce: DefaultDebounce}
}

// Watch reloads the store when its backing file changes and sends the file
// path on the returned channel after each successful reload. The watch stops
// when ctx is cancelled and the channel is closed. The parent directory is
// watched rather than the file itself so atomic rename-replace writes are
// observed.
func (fs *FileStore) Watch(ctx context.Context, opts WatchOptions) (<-chan string, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(fs.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Clean(fs.path)
	reloads := make(chan string, 1)

	go func() {
		defer watcher.Close()
		defer close(reloads)

		// The debounce timer is drained inside this loop so the reload and
		// the channel send happen on the goroutine that owns close(reloads).
		debounce := time.NewTimer(opts.Debounce)
		debounce.Stop()
		defer debounce.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case <-debounce.C:
				if err := fs.Reload(); err != nil {
					logger.Warn("store reload failed", "path", fs.path, "error", err)
					continue
				}
				select {
				case reloads <- fs.path:
				default:
				}

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				debounce.Reset(opts.Debounce)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("store watch error", "path", fs.path, "error", err)
			}
		}
	}()

	return reloads, nil
}
