package runsource

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher signals when a single file changes. The parent directory is
// watched so editors that save by rename are still seen.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
}

// NewFileWatcher starts watching path. The watch is active when this
// returns; call Run to receive changes.
func NewFileWatcher(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("runsource: resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("runsource: create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("runsource: watch %s: %w", filepath.Dir(abs), err)
	}
	return &FileWatcher{watcher: w, path: abs}, nil
}

// Run forwards change notifications to changed until ctx is done, then
// closes the watcher. Sends never block; a pending notification absorbs
// later ones.
func (fw *FileWatcher) Run(ctx context.Context, changed chan<- struct{}) error {
	defer func() { _ = fw.watcher.Close() }()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != fw.path || !modifies(ev) {
				continue
			}
			select {
			case changed <- struct{}{}:
			default:
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("runsource: watch %s: %w", fw.path, err)
		}
	}
}

func modifies(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
