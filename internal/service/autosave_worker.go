package service

import (
	"context"
	"sync"
	"time"

	"emojiart-be/internal/pkg/logger"
)

// autosaveWorker writes snapshots on its own goroutine so a slow store never
// holds up the document loop. Only the newest unwritten snapshot is kept.
type autosaveWorker struct {
	key     string
	writer  ISnapshotWriter
	timeout time.Duration
	logger  logger.ILogger

	mu       sync.Mutex
	pending  []byte
	waiters  []chan error // resolved by the write of pending
	inflight []chan error // resolved by the write in progress
	busy     bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

func newAutosaveWorker(key string, writer ISnapshotWriter, timeout time.Duration, log logger.ILogger) *autosaveWorker {
	w := &autosaveWorker{
		key:     key,
		writer:  writer,
		timeout: timeout,
		logger:  log,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// submit replaces the pending snapshot with data. It never blocks.
func (w *autosaveWorker) submit(data []byte) {
	w.mu.Lock()
	w.pending = data
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// settled returns a channel that receives the result of the last write
// covering everything submitted so far, or nil when nothing is outstanding.
func (w *autosaveWorker) settled() <-chan error {
	ch := make(chan error, 1)
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case w.pending != nil:
		w.waiters = append(w.waiters, ch)
	case w.busy:
		w.inflight = append(w.inflight, ch)
	default:
		ch <- nil
	}
	return ch
}

func (w *autosaveWorker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.quit:
			return
		}
	}
}

func (w *autosaveWorker) drain() {
	for {
		w.mu.Lock()
		if w.pending == nil {
			w.busy = false
			w.mu.Unlock()
			return
		}
		data := w.pending
		w.pending = nil
		w.inflight = append(w.inflight, w.waiters...)
		w.waiters = nil
		w.busy = true
		w.mu.Unlock()

		err := w.write(data)

		w.mu.Lock()
		waiters := w.inflight
		w.inflight = nil
		w.mu.Unlock()
		for _, ch := range waiters {
			ch <- err
		}
	}
}

func (w *autosaveWorker) write(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.writer.Write(ctx, w.key, data); err != nil {
		w.logger.Error(documentModule, "Autosave failed", map[string]interface{}{
			"key":   w.key,
			"error": err,
		})
		return err
	}
	w.logger.Debug(documentModule, "Autosaved", map[string]interface{}{
		"key":   w.key,
		"bytes": len(data),
	})
	return nil
}

// stop ends the worker once the write in progress, if any, returns or ctx
// expires. Unwritten snapshots are dropped; callers wait on settled first.
func (w *autosaveWorker) stop(ctx context.Context) error {
	close(w.quit)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
