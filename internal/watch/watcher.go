// Package watch turns a directory into a drop target: chat exports written
// into it are handed to the upload flow once they stop changing.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/janekbaraniewski/chatwrapped/internal/core"
)

const DefaultSettle = 500 * time.Millisecond

type Watcher struct {
	dir    string
	settle time.Duration
	log    zerolog.Logger

	fsw *fsnotify.Watcher
	out chan core.Transcript

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func New(dir string, settle time.Duration, log zerolog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolving %s: %w", dir, err)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: creating watcher: %w", err)
	}
	if err := fsw.Add(abs); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch: adding %s: %w", abs, err)
	}
	return &Watcher{
		dir:    abs,
		settle: settle,
		log:    log,
		fsw:    fsw,
		out:    make(chan core.Transcript, 4),
		timers: make(map[string]*time.Timer),
	}, nil
}

func (w *Watcher) Dir() string { return w.dir }

// Files delivers each settled plain-text file once per burst of writes.
func (w *Watcher) Files() <-chan core.Transcript { return w.out }

// Run consumes filesystem events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimers()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename) {
				w.schedule(ctx, ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Str("dir", w.dir).Msg("watch error")
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// schedule restarts the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.emit(ctx, path)
	})
}

func (w *Watcher) emit(ctx context.Context, path string) {
	t, err := core.OpenTranscript(path)
	if err != nil {
		w.log.Debug().Err(err).Str("path", path).Msg("skipping dropped file")
		return
	}
	w.log.Debug().Str("path", path).Msg("file dropped")
	select {
	case w.out <- t:
	case <-ctx.Done():
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for p, t := range w.timers {
		t.Stop()
		delete(w.timers, p)
	}
}
