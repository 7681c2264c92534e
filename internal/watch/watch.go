// Package watch re-runs validation when item files or the master list change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a path must be quiet before it is reported.
const DefaultDebounce = 300 * time.Millisecond

// Change is a batch of settled paths.
type Change struct {
	Paths []string
	// ListsChanged is set when the master list is among Paths.
	ListsChanged bool
}

// Handler is called from the watcher goroutine, one Change at a time.
type Handler func(ctx context.Context, c Change)

// Options tune a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher watches an items folder and the master list file.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	itemsDir string
	lists    string
	handle   Handler
	log      *zap.Logger
	debounce time.Duration
	pending  map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// New creates a Watcher. Nothing is watched until Start.
func New(itemsDir, listsFile string, h Handler, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	d := opts.Debounce
	if d <= 0 {
		d = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fs:       fw,
		itemsDir: filepath.Clean(itemsDir),
		lists:    filepath.Clean(listsFile),
		handle:   h,
		log:      log,
		debounce: d,
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start adds the watches and begins delivering changes. It does not block.
// The lists file is watched through its directory so editors that replace
// the file on save are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.fs.Add(w.itemsDir); err != nil {
		return fmt.Errorf("failed to watch items folder %s: %w", w.itemsDir, err)
	}
	if dir := filepath.Dir(w.lists); dir != w.itemsDir {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch lists folder %s: %w", dir, err)
		}
	}
	w.running = true
	w.log.Info("watching for changes", zap.String("items", w.itemsDir), zap.String("lists", w.lists))
	go w.run(ctx)
	return nil
}

// Stop ends the watch and waits for the goroutine to exit. Safe to call more
// than once, and before Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.fs.Close(); err != nil {
		w.log.Warn("failed to close file watcher", zap.Error(err))
	}
}

// Done is closed once the watcher goroutine has exited.
func (w *Watcher) Done() <-chan struct{} { return w.doneCh }

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(w.debounce / 3)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.record(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))
		case <-tick.C:
			if c, ok := w.settled(time.Now()); ok {
				w.handle(ctx, c)
			}
		}
	}
}

func (w *Watcher) record(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	p := filepath.Clean(ev.Name)
	if p != w.lists && filepath.Dir(p) != w.itemsDir {
		return
	}
	w.log.Debug("file changed", zap.String("file", p), zap.String("op", ev.Op.String()))
	w.mu.Lock()
	w.pending[p] = time.Now()
	w.mu.Unlock()
}

// settled removes and returns the paths that have been quiet for the
// debounce window.
func (w *Watcher) settled(now time.Time) (Change, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var c Change
	for p, at := range w.pending {
		if now.Sub(at) < w.debounce {
			continue
		}
		delete(w.pending, p)
		c.Paths = append(c.Paths, p)
		if p == w.lists {
			c.ListsChanged = true
		}
	}
	sort.Strings(c.Paths)
	return c, len(c.Paths) > 0
}
