package server

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"promptdex/internal/dataset"
	"promptdex/internal/logging"
	"promptdex/internal/query"
)

// reloadDebounce coalesces the burst of filesystem events a publish swap
// produces into one snapshot reload.
const reloadDebounce = 250 * time.Millisecond

// datasetWatcher reloads the engine snapshot whenever a new dataset is
// published under the watched directory.
type datasetWatcher struct {
	dir    string
	engine *query.Engine
	logger *slog.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	pending *time.Timer
	done    chan struct{}
}

func newDatasetWatcher(dir string, engine *query.Engine, logger *slog.Logger) *datasetWatcher {
	return &datasetWatcher{dir: dir, engine: engine, logger: logger}
}

func (w *datasetWatcher) start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		return err
	}
	w.mu.Lock()
	w.watcher = watcher
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.run(ctx, watcher)
	return nil
}

func (w *datasetWatcher) run(ctx context.Context, watcher *fsnotify.Watcher) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != dataset.CurrentDir {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.scheduleReload(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("dataset watch error", logging.Error(err))
		}
	}
}

func (w *datasetWatcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(reloadDebounce, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.engine.Load(ctx); err != nil {
			w.logger.Warn("snapshot reload failed", logging.Error(err))
			return
		}
		w.logger.Info("snapshot reloaded after publish")
	})
}

func (w *datasetWatcher) stop() {
	w.mu.Lock()
	watcher := w.watcher
	pending := w.pending
	done := w.done
	w.watcher = nil
	w.mu.Unlock()

	if pending != nil {
		pending.Stop()
	}
	if watcher != nil {
		_ = watcher.Close()
		<-done
	}
}
