/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package roster

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 250 * time.Millisecond

// Watch calls onChange whenever the file at path is written, replaced or
// removed, coalescing bursts of events. It watches the parent directory so
// editors that save by renaming are still noticed. The watch ends with ctx.
func Watch(ctx context.Context, path string, onChange func()) error {
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	go func() {
		defer w.Close()

		var (
			mu    sync.Mutex
			timer *time.Timer
		)

		defer func() {
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				if filepath.Clean(ev.Name) != path {
					continue
				}

				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
					continue
				}

				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, onChange)
				mu.Unlock()
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}
