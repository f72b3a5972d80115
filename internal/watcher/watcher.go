// Package watcher observes the filesystem paths environment checks read and
// reports debounced change batches so watch mode can re-validate.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures the watcher behavior.
type Options struct {
	// DebounceWindow is the time to wait before emitting coalesced events.
	// Default: 200ms
	DebounceWindow time.Duration
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		DebounceWindow: 200 * time.Millisecond,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	if o.DebounceWindow == 0 {
		o.DebounceWindow = DefaultOptions().DebounceWindow
	}
	return o
}

// Watcher watches a fixed set of paths. fsnotify cannot watch files that do
// not exist yet (a missing php binary is exactly what we care about), so the
// parent directories are registered and events filtered to the paths of
// interest.
type Watcher struct {
	paths   map[string]struct{}
	dirs    map[string]struct{}
	opts    Options
	fsw     *fsnotify.Watcher
	deb     *Debouncer
	errs    chan error
	started bool
}

// New creates a watcher for the given paths.
func New(paths []string, opts Options) *Watcher {
	w := &Watcher{
		paths: make(map[string]struct{}, len(paths)),
		dirs:  make(map[string]struct{}),
		opts:  opts.WithDefaults(),
		errs:  make(chan error, 10),
	}
	for _, p := range paths {
		w.paths[p] = struct{}{}
		w.dirs[filepath.Dir(p)] = struct{}{}
		// A watched directory (the opt dir) registers itself too
		w.dirs[p] = struct{}{}
	}
	return w
}

// Start begins watching. It returns once the underlying watcher is
// registered; events flow until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if w.started {
		return fmt.Errorf("watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w.fsw = fsw
	w.deb = NewDebouncer(w.opts.DebounceWindow)
	w.started = true

	registered := 0
	for dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			// Missing directories are expected (the check for them failing
			// is the point); log and continue
			slog.Debug("watch path unavailable",
				slog.String("path", dir),
				slog.String("error", err.Error()))
			continue
		}
		registered++
	}
	if registered == 0 {
		_ = fsw.Close()
		w.deb.Stop()
		return fmt.Errorf("no watchable paths")
	}

	go w.loop(ctx)
	return nil
}

// Batches returns debounced batches of changed paths.
// The channel is closed when the watcher stops.
func (w *Watcher) Batches() <-chan []string {
	return w.deb.Batches()
}

// Errors returns non-fatal watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

func (w *Watcher) loop(ctx context.Context) {
	defer func() {
		_ = w.fsw.Close()
		w.deb.Stop()
		close(w.errs)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(event.Name) {
				w.deb.Add(event.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// relevant reports whether an event path is one of the watched paths or
// lives directly under one of the watched directories.
func (w *Watcher) relevant(path string) bool {
	if _, ok := w.paths[path]; ok {
		return true
	}
	if _, ok := w.paths[filepath.Dir(path)]; ok {
		return true
	}
	return false
}
