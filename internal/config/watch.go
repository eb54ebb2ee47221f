package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alexander-akhmetov/pomodoro/internal/debug"
)

// settleDelay absorbs the burst of events editors produce for one save.
const settleDelay = 100 * time.Millisecond

// Watcher reports changes to a set of config files. It watches their
// directories so that files replaced by rename are still seen.
type Watcher struct {
	w     *fsnotify.Watcher
	files map[string]bool
}

// NewWatcher watches paths. Directories that do not exist are skipped.
func NewWatcher(paths []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	cw := &Watcher{w: w, files: make(map[string]bool)}
	added := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		cw.files[p] = true
		dir := filepath.Dir(p)
		if added[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			debug.Logf("config: not watching %s: %v", dir, err)
			continue
		}
		added[dir] = true
	}
	return cw, nil
}

// Next blocks until one of the watched files changed and returns its path.
func (cw *Watcher) Next(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-cw.w.Events:
			if !ok {
				return "", fmt.Errorf("watcher closed")
			}
			if !cw.files[filepath.Clean(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			cw.drain(ctx)
			debug.Logf("config: %s changed (%s)", ev.Name, ev.Op)
			return ev.Name, nil
		case err, ok := <-cw.w.Errors:
			if !ok {
				return "", fmt.Errorf("watcher closed")
			}
			return "", fmt.Errorf("watch config: %w", err)
		}
	}
}

func (cw *Watcher) drain(ctx context.Context) {
	t := time.NewTimer(settleDelay)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			return
		case _, ok := <-cw.w.Events:
			if !ok {
				return
			}
		}
	}
}

// Close stops watching.
func (cw *Watcher) Close() error {
	return cw.w.Close()
}
