// Package watcher re-runs work when files on disk change. Bursts of events
// for one file are collapsed into a single callback.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used by the CLI.
const DefaultDebounce = 150 * time.Millisecond

// FileWatcher calls a per-file callback after the file has been written.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	debounce  time.Duration
	pending   map[string]func(func())
	closed    bool
	done      chan struct{}
}

// New creates a watcher with the given quiet period.
func New(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	return &FileWatcher{
		watcher:   w,
		callbacks: make(map[string]func(string)),
		debounce:  debounce,
		pending:   make(map[string]func(func())),
		done:      make(chan struct{}),
	}, nil
}

// Watch registers callback for each file. The callback receives the
// absolute path of the file that changed.
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("watcher: resolve %s: %w", file, err)
		}
		if err := fw.watcher.Add(abs); err != nil {
			return fmt.Errorf("watcher: watch %s: %w", abs, err)
		}
		fw.callbacks[abs] = callback
	}
	return nil
}

// Start consumes file events until Close is called.
func (fw *FileWatcher) Start() {
	go func() {
		defer close(fw.done)
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					fw.changed(event.Name)
				}
			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				logging.Logger().Warn("watcher error", "err", err)
			}
		}
	}()
}

func (fw *FileWatcher) changed(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, ok := fw.callbacks[path]
	if !ok || fw.closed {
		return
	}
	debounced, ok := fw.pending[path]
	if !ok {
		debounced = debounce.New(fw.debounce)
		fw.pending[path] = debounced
	}
	debounced(func() {
		fw.mu.Lock()
		closed := fw.closed
		fw.mu.Unlock()
		if closed {
			return
		}
		logging.Logger().Debug("file changed", "path", path)
		callback(path)
	})
}

// Close drops pending callbacks and releases the underlying watcher.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	fw.closed = true
	fw.mu.Unlock()
	return fw.watcher.Close()
}

// Done is closed once the event loop started by Start has exited.
func (fw *FileWatcher) Done() <-chan struct{} { return fw.done }
