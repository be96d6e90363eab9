package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/wanderly/wanderly/pkg/logger"
)

// Watcher reports writes to individual files. It watches the parent
// directory rather than the file, so saves that replace the file through a
// rename keep being observed.
type Watcher struct {
	watcher   *fsnotify.Watcher
	log       logger.Logger
	callbacks []func()
	mu        sync.RWMutex
	// watched maps absolute paths to the context of the Watch call.
	watched   map[string]context.Context
	// dirs counts watched files per directory.
	dirs      map[string]int
	stopCh    chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

// NewWatcher creates a new configuration file watcher.
func NewWatcher() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		watcher:   fsWatcher,
		log:       logger.GetDefault(),
		callbacks: make([]func(), 0),
		watched:   make(map[string]context.Context),
		dirs:      make(map[string]int),
		stopCh:    make(chan struct{}),
	}, nil
}

// SetLogger replaces the logger used for watcher errors.
func (w *Watcher) SetLogger(log logger.Logger) {
	if log != nil {
		w.log = log
	}
}

// Watch starts watching the specified file until ctx is done or the watcher
// is closed.
func (w *Watcher) Watch(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("failed to watch file: %w", err)
	}
	dir := filepath.Dir(absPath)
	w.mu.Lock()
	if _, ok := w.watched[absPath]; !ok {
		if w.dirs[dir] == 0 {
			if err := w.watcher.Add(dir); err != nil {
				w.mu.Unlock()
				return fmt.Errorf("failed to watch file: %w", err)
			}
		}
		w.dirs[dir]++
	}
	w.watched[absPath] = ctx
	w.mu.Unlock()
	if done := ctx.Done(); done != nil {
		go func() {
			select {
			case <-done:
			case <-w.stopCh:
			}
			w.unwatch(absPath)
		}()
	}
	w.startOnce.Do(func() {
		go w.handleEvents()
	})
	return nil
}

func (w *Watcher) unwatch(path string) {
	dir := filepath.Dir(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watched[path]; !ok {
		return
	}
	delete(w.watched, path)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return
	}
	delete(w.dirs, dir)
	if err := w.watcher.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
		w.log.Debug("Failed to stop watching directory", "dir", dir, "error", err)
	}
}

// OnChange registers a callback invoked after any watched file is written or
// replaced.
func (w *Watcher) OnChange(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// handleEvents processes file system events until the watcher is closed.
func (w *Watcher) handleEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.mu.RLock()
			pathCtx, stillWatched := w.watched[filepath.Clean(event.Name)]
			w.mu.RUnlock()
			if !stillWatched {
				continue
			}
			if pathCtx != nil && pathCtx.Err() != nil {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.notifyCallbacks()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.log.Warn("File watcher error", "error", err)
			}
		}
	}
}

// notifyCallbacks invokes all registered callbacks.
func (w *Watcher) notifyCallbacks() {
	w.mu.RLock()
	callbacks := make([]func(), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()
	for _, callback := range callbacks {
		if callback != nil {
			callback()
		}
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	var closeErr error
	w.closeOnce.Do(func() {
		close(w.stopCh)
		if err := w.watcher.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close watcher: %w", err)
		}
	})
	return closeErr
}
