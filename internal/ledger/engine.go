// Package ledger implements the horse ownership ledger: shares, installment
// schedules, transaction effects, reconciliation and the background sweeps.
//
// Every exported operation runs in one atomic scope of the store. Composite
// steps that are reused across operations (schedule generation,
// reconciliation) run in nested scopes inside it.
package ledger

import (
	"context"
	"time"

	"github.com/linqfy/horsesShit/internal/audit"
	"github.com/linqfy/horsesShit/internal/storage"
)

// Engine executes ledger operations against a store.
type Engine struct {
	store  storage.Store
	now    func() time.Time
	events audit.Sink
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now. Tests use it to move through maturation windows
// and due dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithEvents sends audit events to sink after each committed operation.
func WithEvents(sink audit.Sink) Option {
	return func(e *Engine) {
		e.events = sink
	}
}

// New creates an Engine.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		now:    time.Now,
		events: audit.Discard{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// emit records an audit event. Call it only after the scope committed.
func (e *Engine) emit(eventType string, data any, meta ...string) {
	opts := []audit.EventOption{audit.WithType(eventType), audit.WithData(data)}
	for i := 0; i+1 < len(meta); i += 2 {
		opts = append(opts, audit.WithMetadata(meta[i], meta[i+1]))
	}
	e.events.Log(audit.NewEvent(opts...))
}

// read runs fn in a scope that is only used for lookups.
func (e *Engine) read(ctx context.Context, fn func(tx storage.Tx) error) error {
	return e.store.Atomic(ctx, fn)
}
