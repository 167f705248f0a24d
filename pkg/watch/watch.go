// Package watch composes wallpapers for images as they land in a folder.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Fepozopo/artwall/pkg/batch"
	"github.com/Fepozopo/artwall/pkg/logx"
)

// DefaultDebounce is how long a file must stay quiet before it is processed.
const DefaultDebounce = 500 * time.Millisecond

// Processor handles one settled file. *batch.Runner implements it.
type Processor interface {
	Process(src string) batch.Result
}

// Watcher monitors folders for new or rewritten images.
type Watcher struct {
	proc     Processor
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   logx.LoggerProvider
	results  chan batch.Result

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// New creates a watcher that hands settled images to proc.
func New(proc Processor, debounce time.Duration, logger logx.LoggerProvider) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		proc:     proc,
		watcher:  fsWatcher,
		debounce: debounce,
		logger:   logger,
		results:  make(chan batch.Result, 100),
		pending:  map[string]*time.Timer{},
	}, nil
}

// Add starts monitoring dir.
func (w *Watcher) Add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch folder %s: %w", dir, err)
	}
	logx.Info("watching folder", w.logger, "dir", dir)
	return nil
}

// Results delivers the outcome of every processed file. It is closed when Run
// returns. Results are dropped when nobody reads them.
func (w *Watcher) Results() <-chan batch.Result { return w.results }

// Run processes events until ctx is done, then waits for in-flight work.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.stopPending()
		w.wg.Wait()
		close(w.results)
	}()
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logx.IsErr(err, w.logger, slog.LevelWarn)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	name := event.Name
	if !batch.IsImage(name) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, exists := w.pending[name]; exists && timer.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.pending[name] == timer {
			delete(w.pending, name)
		}
		w.mu.Unlock()

		logx.Debug("processing", w.logger, "file", filepath.Base(name))
		res := w.proc.Process(name)
		select {
		case w.results <- res:
		default:
		}
	})
	w.pending[name] = timer
}

// stopPending cancels timers that have not fired yet.
func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for name, timer := range w.pending {
		if timer.Stop() {
			w.wg.Done()
		}
		delete(w.pending, name)
	}
}
