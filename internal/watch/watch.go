// Package watch reports changes to a single file, coalescing bursts of
// filesystem events.
//
// The parent directory is watched rather than the file itself, so
// editors that save by writing a temporary file and renaming it over
// the original are still seen.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/piecetree/internal/logging"
)

// DefaultDelay is how long the file must stay quiet before an event is
// delivered.
const DefaultDelay = 100 * time.Millisecond

// ErrNotWatchable is returned when the file's directory cannot be watched.
var ErrNotWatchable = errors.New("path cannot be watched")

// Op is a bit set of the operations seen during one quiet period.
type Op uint8

const (
	OpWrite Op = 1 << iota
	OpCreate
	OpRemove
	OpRename
)

// Has reports whether all bits of other are set.
func (op Op) Has(other Op) bool {
	return op&other == other
}

// String returns the operation names joined with "|".
func (op Op) String() string {
	var s string
	for _, n := range []struct {
		op   Op
		name string
	}{{OpCreate, "create"}, {OpWrite, "write"}, {OpRemove, "remove"}, {OpRename, "rename"}} {
		if op.Has(n.op) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// Event is one coalesced change to the watched file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Handler is called on the watching goroutine for every event.
type Handler func(Event)

// Option configures File.
type Option func(*watcher)

// WithDelay sets the quiet period. Non-positive values are ignored.
func WithDelay(d time.Duration) Option {
	return func(w *watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

type watcher struct {
	path  string
	delay time.Duration
}

// File watches path until ctx is done and calls fn after every burst of
// changes. It returns nil when ctx is cancelled.
func File(ctx context.Context, path string, fn Handler, opts ...Option) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w := &watcher{path: abs, delay: DefaultDelay}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWatchable, path, err)
	}
	logging.FromContext(ctx).Debug("watching file", logging.FieldFile, abs, "delay", w.delay)
	return w.loop(ctx, fsw, fn)
}

func (w *watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, fn Handler) error {
	timer := time.NewTimer(w.delay)
	timer.Stop()
	var pending Op

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			op := convertOp(ev.Op)
			if op == 0 {
				continue
			}
			pending |= op
			timer.Reset(w.delay)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", w.path, err)

		case <-timer.C:
			if pending != 0 {
				fn(Event{Path: w.path, Op: pending, Time: time.Now()})
				pending = 0
			}
		}
	}
}

// convertOp maps fsnotify operations. Chmod is dropped.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
