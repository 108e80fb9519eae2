// Package watcher implements a modified-file tracker backed by file system
// notifications, used in watch mode where no VCS query is wanted per build.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/ports"
)

var _ ports.ModifiedFileTracker = (*Tracker)(nil)

// shouldSkipDirectories are directories that should not be watched.
var shouldSkipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
	"bazel-bin":    true,
	"bazel-out":    true,
}

// Tracker accumulates file write events between queries. ModifiedFiles
// drains the accumulated set, so every query returns exactly the files
// changed since the previous one.
type Tracker struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger

	mu      sync.Mutex
	pending domain.FileSet
	notify  chan struct{}
}

// NewTracker creates a new Tracker.
func NewTracker(logger ports.Logger) (*Tracker, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Tracker{
		fsWatcher: fsWatcher,
		logger:    logger,
		pending:   make(domain.FileSet),
		notify:    make(chan struct{}, 1),
	}, nil
}

// Start begins watching root recursively.
func (t *Tracker) Start(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable directories
		}
		if d.IsDir() {
			if shouldSkipDirectories[d.Name()] {
				return fs.SkipDir
			}
			return t.fsWatcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	go t.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (t *Tracker) Stop() error {
	return t.fsWatcher.Close()
}

// ModifiedFiles drains and returns the files changed since the last call.
func (t *Tracker) ModifiedFiles(_ context.Context) (domain.FileSet, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set := t.pending
	t.pending = make(domain.FileSet)
	return set, nil
}

// Changes returns a channel that receives a signal whenever new changes are
// pending. The channel is buffered; coalesced signals are intentional.
func (t *Tracker) Changes() <-chan struct{} {
	return t.notify
}

func (t *Tracker) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-t.fsWatcher.Events:
			if !ok {
				return
			}
			t.handleEvent(event)
		case err, ok := <-t.fsWatcher.Errors:
			if !ok {
				return
			}
			t.logger.Error(err)
		}
	}
}

func (t *Tracker) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !shouldSkipDirectories[filepath.Base(event.Name)] {
				_ = t.fsWatcher.Add(event.Name)
			}
			return
		}
	}

	t.record(event.Name)
}

func (t *Tracker) record(path string) {
	t.mu.Lock()
	t.pending[path] = struct{}{}
	t.mu.Unlock()

	select {
	case t.notify <- struct{}{}:
	default:
	}
}
