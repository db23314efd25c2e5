// Package watch reloads the country file when it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"policyexplorer/internal/country"
	"policyexplorer/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the file must be quiet before a reload.
const DefaultDebounce = 300 * time.Millisecond

// ReloadFunc receives the reparsed file, or the error that stopped it.
type ReloadFunc func(*country.File, error)

// Stats counts watcher activity.
type Stats struct {
	Events        int
	Reloads       int
	Failures      int
	LastEventTime time.Time
	LastEventType string
}

// Watcher watches a single country file. Editors often replace files by
// rename, so the parent directory is watched and events are filtered by name.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	path        string
	dir         string
	onReload    ReloadFunc
	load        func(string) (*country.File, error)
	debounceDur time.Duration
	pendingAt   time.Time
	pending     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	stats       Stats
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before reloading.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounceDur = d
		}
	}
}

// WithLoader replaces country.LoadFile.
func WithLoader(load func(string) (*country.File, error)) Option {
	return func(w *Watcher) { w.load = load }
}

// New creates a watcher for path that calls onReload after each settled change.
func New(path string, onReload ReloadFunc, opts ...Option) (*Watcher, error) {
	if onReload == nil {
		return nil, errors.New("reload callback required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		watcher:     fw,
		path:        abs,
		dir:         filepath.Dir(abs),
		onReload:    onReload,
		load:        country.LoadFile,
		debounceDur: DefaultDebounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.running = true
	w.mu.Unlock()

	logging.Watch("watching %s", w.path)
	go w.run(ctx)
	return nil
}

// Stop ends the loop and waits for it to exit. It is safe to call more than
// once, and before Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
	w.mu.Unlock()

	if wasRunning {
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		logging.WatchError("error closing watcher: %v", err)
	}
	logging.WatchDebug("watcher stopped")
}

// Stats returns a copy of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounceDur / 3
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.WatchDebug("context cancelled")
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.WatchError("watcher error: %v", err)
			w.mu.Lock()
			w.stats.Failures++
			w.mu.Unlock()
		case <-ticker.C:
			w.processDebounced()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	var kind string
	switch {
	case event.Has(fsnotify.Create):
		kind = "create"
	case event.Has(fsnotify.Write):
		kind = "modify"
	case event.Has(fsnotify.Rename):
		kind = "rename"
	case event.Has(fsnotify.Remove):
		kind = "delete"
	default:
		return
	}
	logging.WatchDebug("%s event for %s", kind, event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventType = kind
	w.pending = true
	w.pendingAt = time.Now()
}

func (w *Watcher) processDebounced() {
	w.mu.Lock()
	if !w.pending || time.Since(w.pendingAt) < w.debounceDur {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	if _, err := os.Stat(w.path); errors.Is(err, os.ErrNotExist) {
		// Mid-replace; the create that follows triggers the reload.
		logging.WatchDebug("%s is gone, waiting for it to return", w.path)
		return
	}

	f, err := w.load(w.path)
	w.mu.Lock()
	if err != nil {
		w.stats.Failures++
	} else {
		w.stats.Reloads++
	}
	w.mu.Unlock()

	if err != nil {
		logging.WatchError("reload of %s failed: %v", w.path, err)
	} else {
		logging.Watch("reloaded %s", w.path)
	}
	w.onReload(f, err)
}
