// Package watcher reloads state documents into a manager when the files
// backing them change.
//
// The watcher monitors document files with fsnotify, debounces write bursts,
// and merges each reloaded document through the manager's full validation
// and event pipeline.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/statepath"
	"github.com/dshills/statepath/document"
)

// Errors returned by watcher operations.
var (
	// ErrWatcherClosed indicates use after Close.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrAlreadyWatching indicates the path is already watched.
	ErrAlreadyWatching = errors.New("path is already being watched")

	// ErrUnsupportedFormat indicates a document extension with no loader.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// LoaderFactory builds a document loader for a file path. The default
// factory picks by extension: .json and .toml are supported.
type LoaderFactory func(path string) (document.Loader, error)

// DefaultLoaderFactory selects a loader by file extension.
func DefaultLoaderFactory(path string) (document.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return document.NewJSONLoader(path), nil
	case ".toml":
		return document.NewTOMLLoader(path), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Watcher merges watched document files into a manager on change.
type Watcher struct {
	mu sync.Mutex

	manager *statepath.Manager
	fsw     *fsnotify.Watcher
	loaders LoaderFactory

	// Watched file paths
	paths map[string]bool

	// Reload errors, delivered without blocking
	errs chan error

	// Debounce window for write bursts
	debounce time.Duration
	pending  map[string]*time.Timer

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period required after the last write before a
// reload runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLoaderFactory replaces the extension-based loader selection.
func WithLoaderFactory(f LoaderFactory) Option {
	return func(w *Watcher) {
		if f != nil {
			w.loaders = f
		}
	}
}

// New creates a watcher that merges reloaded documents into m.
// Reloads run on the watcher's own goroutine, so other access to m must be
// coordinated while a watch is active; the manager itself stays
// single-owner.
func New(m *statepath.Manager, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		manager:  m,
		fsw:      fsw,
		loaders:  DefaultLoaderFactory,
		paths:    make(map[string]bool),
		errs:     make(chan error, 16),
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*time.Timer),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Watch starts watching a document file. The file's format must have a
// loader, and the first load happens only on change; call Apply for an
// initial load.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := w.loaders(absPath); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.paths[absPath] {
		return ErrAlreadyWatching
	}
	if err := w.fsw.Add(absPath); err != nil {
		return err
	}
	w.paths[absPath] = true
	return nil
}

// Errors returns the channel reload errors are delivered on.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, timer := range w.pending {
		timer.Stop()
	}
	w.mu.Unlock()

	close(w.closeCh)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// loop receives fsnotify events and schedules debounced reloads.
func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule(ev.Name)
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				// An atomic save renames a temp file over the watched
				// path, replacing the inode and killing the kernel watch.
				w.rewatch(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-w.closeCh:
			return
		}
	}
}

// rewatch re-adds the watch on a replaced path and schedules a reload.
// The new file may not be in place yet when the rename event arrives, so
// the re-add retries briefly; a persistent failure is reported.
func (w *Watcher) rewatch(path string) {
	w.mu.Lock()
	watched := !w.closed && w.paths[path]
	w.mu.Unlock()
	if !watched {
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		var err error
		for i := 0; i < 20; i++ {
			if err = w.fsw.Add(path); err == nil {
				w.schedule(path)
				return
			}
			select {
			case <-w.closeCh:
				return
			case <-time.After(50 * time.Millisecond):
			}
		}
		w.report(fmt.Errorf("re-watching %s: %w", path, err))
	}()
}

// schedule arms (or re-arms) the debounce timer for a path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		closed := w.closed
		w.mu.Unlock()
		if !closed {
			w.reload(path)
		}
	})
}

// reload loads the document at path and merges it into the manager.
func (w *Watcher) reload(path string) {
	loader, err := w.loaders(path)
	if err != nil {
		w.report(err)
		return
	}
	if err := document.Apply(w.manager, loader); err != nil {
		w.report(err)
	}
}

// report delivers an error without blocking the event loop.
func (w *Watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
