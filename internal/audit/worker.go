package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const defaultSaveTimeout = 5 * time.Second

// Counter is the part of a Prometheus counter the worker reports to.
type Counter interface {
	Inc()
}

type nopCounter struct{}

func (nopCounter) Inc() {}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithDropCounter counts events that never reached the queue.
func WithDropCounter(c Counter) WorkerOption {
	return func(w *Worker) { w.drops = c }
}

// WithFailureCounter counts events the EventLogger refused.
func WithFailureCounter(c Counter) WorkerOption {
	return func(w *Worker) { w.failures = c }
}

// WithSaveTimeout bounds a single Save call.
func WithSaveTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) { w.timeout = d }
}

var _ Sink = (*Worker)(nil)

// Worker is the Sink the ledger writes to in production. Events are queued
// and saved one at a time on a background goroutine, so a slow or failing
// audit table never holds up a ledger operation.
type Worker struct {
	logger   EventLogger
	queue    chan Event
	timeout  time.Duration
	drops    Counter
	failures Counter
	dropped  atomic.Int64

	// mu guards closed against Log racing the close of queue.
	mu     sync.RWMutex
	closed bool

	start sync.Once
	done  chan struct{}
}

// NewWorker returns a stopped worker holding up to bufferSize queued events.
func NewWorker(logger EventLogger, bufferSize int, opts ...WorkerOption) *Worker {
	w := &Worker{
		logger:   logger,
		queue:    make(chan Event, bufferSize),
		timeout:  defaultSaveTimeout,
		drops:    nopCounter{},
		failures: nopCounter{},
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the saving goroutine. Later calls do nothing.
func (w *Worker) Start() {
	w.start.Do(func() { go w.run() })
}

func (w *Worker) run() {
	defer close(w.done)
	for event := range w.queue {
		w.save(event)
	}
}

func (w *Worker) save(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.logger.Save(ctx, event); err != nil {
		w.failures.Inc()
		slog.Error("failed to save audit event", "event_type", event.Type, "event_id", event.ID, "error", err)
	}
}

// Log queues event without blocking. A full queue or a worker that was shut
// down drops the event and counts it.
func (w *Worker) Log(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.drop(event, "worker stopped")
		return
	}
	select {
	case w.queue <- event:
	default:
		w.drop(event, "queue full")
	}
}

func (w *Worker) drop(event Event, reason string) {
	w.dropped.Add(1)
	w.drops.Inc()
	slog.Warn("dropping audit event", "event_type", event.Type, "reason", reason)
}

// Dropped reports how many events Log has dropped so far.
func (w *Worker) Dropped() int64 {
	return w.dropped.Load()
}

// Shutdown stops accepting events and returns once every queued event was
// saved. It starts the goroutine if Start was never called, so nothing
// queued is lost.
func (w *Worker) Shutdown() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
		slog.Info("draining audit events", "remaining_events", len(w.queue))
	}
	w.mu.Unlock()

	w.Start()
	<-w.done
}
