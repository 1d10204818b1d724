package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"housekeeper/internal/confluence"
)

// Editors often write a file in several bursts; pushes are coalesced.
const watchDebounce = 500 * time.Millisecond

// PushFunc receives the outcome of each push made while watching.
type PushFunc func(page *confluence.Page, created bool, err error)

// Watch pushes path once, then again every time it is written, until ctx is
// cancelled. The parent directory is watched so editors that replace the file
// on save are still seen.
func (s *PageSync) Watch(ctx context.Context, path, title string, onPush PushFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := ReadContent(abs); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	push := func() {
		page, created, err := s.PushFile(ctx, abs, title)
		if onPush != nil {
			onPush(page, created, err)
		}
	}
	push()

	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(watchDebounce)
			fire = debounce.C
		case <-fire:
			fire = nil
			push()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)
		}
	}
}
