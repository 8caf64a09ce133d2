// File: themekit/watch_test.go
package themekit

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFileStoreWatch tests debounced reload on file changes
func TestFileStoreWatch(t *testing.T) {
	t.Run("ReloadOnChange", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")
		require.NoError(t, os.WriteFile(path, []byte("title = \"one\"\n"), 0644))

		fs, err := NewFileStore(path)
		require.NoError(t, err)
		require.Equal(t, "one", fs.Read("title").Interface())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reloads, err := fs.Watch(ctx, WatchOptions{Debounce: 50 * time.Millisecond})
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("title = \"two\"\n"), 0644))

		assert.Eventually(t, func() bool {
			v := fs.Read("title")
			return v.Defined() && v.Interface() == "two"
		}, 5*time.Second, 20*time.Millisecond)

		select {
		case got := <-reloads:
			assert.Equal(t, path, got)
		case <-time.After(5 * time.Second):
			t.Fatal("no reload notification received")
		}
	})

	t.Run("AtomicReplaceObserved", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "settings.toml")
		require.NoError(t, os.WriteFile(path, []byte("title = \"one\"\n"), 0644))

		fs, err := NewFileStore(path)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		_, err = fs.Watch(ctx, WatchOptions{Debounce: 50 * time.Millisecond})
		require.NoError(t, err)

		// Write to a temp file and rename over the target, the same sequence
		// Save uses.
		tmp := filepath.Join(dir, "settings.toml.new")
		require.NoError(t, os.WriteFile(tmp, []byte("title = \"replaced\"\n"), 0644))
		require.NoError(t, os.Rename(tmp, path))

		assert.Eventually(t, func() bool {
			v := fs.Read("title")
			return v.Defined() && v.Interface() == "replaced"
		}, 5*time.Second, 20*time.Millisecond)
	})

	t.Run("CancelDuringSlowReload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")

		// A file large enough that reloading it outlasts the debounce window,
		// so cancellation lands while a reload is still in flight.
		var big []byte
		for i := 0; i < 50000; i++ {
			big = append(big, []byte("key"+strconv.Itoa(i)+" = \"some padding value to slow parsing down\"\n")...)
		}
		require.NoError(t, os.WriteFile(path, big, 0644))

		fs, err := NewFileStore(path)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		reloads, err := fs.Watch(ctx, WatchOptions{Debounce: 10 * time.Millisecond})
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, big, 0644))
		time.Sleep(15 * time.Millisecond)
		cancel()

		// Drain any reload that completed before the cancel, then expect the
		// channel to close without panicking.
		deadline := time.After(5 * time.Second)
		for {
			select {
			case _, open := <-reloads:
				if !open {
					return
				}
			case <-deadline:
				t.Fatal("reload channel not closed after cancel")
			}
		}
	})

	t.Run("CancelStopsWatch", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")
		require.NoError(t, os.WriteFile(path, []byte("title = \"one\"\n"), 0644))

		fs, err := NewFileStore(path)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		reloads, err := fs.Watch(ctx, DefaultWatchOptions())
		require.NoError(t, err)

		cancel()

		select {
		case _, open := <-reloads:
			assert.False(t, open)
		case <-time.After(5 * time.Second):
			t.Fatal("reload channel not closed after cancel")
		}
	})
}
