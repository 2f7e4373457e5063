// Package watcher reloads managed documents when an operator edits them.
package watcher

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"fyrxlab.net/solvermotd/internal/application/ports"
)

// DefaultDebounce is the quiet period required before a change is reported.
const DefaultDebounce = 250 * time.Millisecond

// ChangeFunc receives the base names of files whose content changed. It runs
// on the watcher goroutine; files it rewrites are not reported again.
type ChangeFunc func(files []string)

// Options configures a Watcher.
type Options struct {
	Dir      string
	Files    []string // base names inside Dir
	Debounce time.Duration
	OnChange ChangeFunc
}

type fileState struct {
	exists bool
	sum    [sha256.Size]byte
}

// Watcher watches a data directory and reports edits to a fixed set of files.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	logger   ports.LoggingGateway
	dir      string
	files    map[string]struct{}
	onChange ChangeFunc
	debounce time.Duration
	pending  map[string]time.Time
	known    map[string]fileState
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	started  bool
}

// New creates a watcher. Nothing is watched until Start.
func New(opts Options, logger ports.LoggingGateway) (*Watcher, error) {
	if opts.Dir == "" {
		return nil, errors.New("watcher: directory is required")
	}
	if opts.OnChange == nil {
		return nil, errors.New("watcher: change callback is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		logger:   logger,
		dir:      opts.Dir,
		files:    make(map[string]struct{}, len(opts.Files)),
		onChange: opts.OnChange,
		debounce: opts.Debounce,
		pending:  make(map[string]time.Time),
		known:    make(map[string]fileState),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, f := range opts.Files {
		w.files[filepath.Base(f)] = struct{}{}
	}
	return w, nil
}

// Start begins watching. It returns once the directory is registered; events
// are handled on a background goroutine until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return errors.New("watcher: already started")
	}
	w.started = true
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		w.abort()
		return fmt.Errorf("watcher: ensure %s: %w", w.dir, err)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		w.abort()
		return fmt.Errorf("watcher: watch %s: %w", w.dir, err)
	}
	w.Remember()

	w.logger.Log(ports.LogLevelInfo, "Watching data directory", map[string]interface{}{
		"dir":   w.dir,
		"files": w.names(),
	})

	go w.run(ctx)
	return nil
}

func (w *Watcher) abort() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	_ = w.watcher.Close()
	close(w.doneCh)
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		if w.started {
			<-w.doneCh
		} else {
			_ = w.watcher.Close()
		}
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
}

// Done is closed when the watcher goroutine has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

// Remember records the current content of every watched file as known, so
// that only later edits are reported.
func (w *Watcher) Remember() {
	for name := range w.files {
		state := w.stat(name)
		w.mu.Lock()
		w.known[name] = state
		w.mu.Unlock()
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.LogError(err, "Error closing file watcher", nil)
		}
	}()

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
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
			w.logger.LogError(err, "File watcher error", map[string]interface{}{"dir": w.dir})

		case <-ticker.C:
			w.processSettled()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if _, ok := w.files[name]; !ok {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.Log(ports.LogLevelDebug, "File event", map[string]interface{}{
		"file": name,
		"op":   event.Op.String(),
	})

	w.mu.Lock()
	w.pending[name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processSettled() {
	now := time.Now()
	var settled []string

	w.mu.Lock()
	for name, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, name)
			delete(w.pending, name)
		}
	}
	w.mu.Unlock()

	var changed []string
	for _, name := range settled {
		state := w.stat(name)
		w.mu.Lock()
		prev, seen := w.known[name]
		w.known[name] = state
		w.mu.Unlock()
		if seen && prev == state {
			continue
		}
		changed = append(changed, name)
	}
	if len(changed) == 0 {
		return
	}

	sort.Strings(changed)
	w.logger.Log(ports.LogLevelInfo, "Managed files changed", map[string]interface{}{"files": changed})
	w.onChange(changed)
	w.Remember()
}

func (w *Watcher) stat(name string) fileState {
	data, err := os.ReadFile(filepath.Join(w.dir, name))
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, sum: sha256.Sum256(data)}
}

func (w *Watcher) names() []string {
	names := make([]string, 0, len(w.files))
	for name := range w.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
