package jsonl

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces rapid file events (editors and atomic renames
// produce several per logical change) into a single change signal.
const debounceDelay = 100 * time.Millisecond

// Changes watches the workspace directory and signals whenever the issues
// file is rewritten, by this process or any other. The returned channel has
// a one-slot buffer and is closed when the context is cancelled.
func (s *Store) Changes(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory, not the file: atomic renames replace the inode,
	// which would silently end a file-level watch.
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer func() { _ = watcher.Close() }()

		debounce := time.NewTimer(debounceDelay)
		if !debounce.Stop() {
			<-debounce.C
		}
		defer debounce.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if filepath.Base(event.Name) != IssuesFileName {
					continue
				}
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(debounceDelay)
			case <-debounce.C:
				// Non-blocking: a pending signal already covers this change.
				select {
				case ch <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are transient here; the subscription layer
				// re-establishes the watch with backoff if the channel dies.
			}
		}
	}()

	return ch, nil
}
