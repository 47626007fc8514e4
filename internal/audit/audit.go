// Package audit records what the ledger did, asynchronously and after commit.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types written by the ledger.
const (
	HorseCreated       = "horse.created"
	HorseUpdated       = "horse.updated"
	HorseDeleted       = "horse.deleted"
	ShareChanged       = "share.changed"
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
	PrizeApplied       = "transaction.prize_applied"
	InstallmentPaid    = "installment.paid"
	InstallmentOverdue = "installment.overdue"
	ExpenseMarkedPaid  = "expense.marked_paid"
)

type Event struct {
	ID        uuid.UUID         `json:"id,omitempty"`
	Type      string            `json:"event_type,omitempty"`
	Data      any               `json:"event_data,omitempty"`
	Metadata  map[string]string `json:"event_metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type EventOption func(*Event)

func WithType(eventType string) EventOption {
	return func(e *Event) {
		e.Type = eventType
	}
}

func WithData(data any) EventOption {
	return func(e *Event) {
		e.Data = data
	}
}

// WithMetadata adds one metadata entry.
func WithMetadata(key, value string) EventOption {
	return func(e *Event) {
		e.Metadata[key] = value
	}
}

func NewEvent(opts ...EventOption) Event {
	e := Event{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Metadata:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// EventLogger persists events.
type EventLogger interface {
	Save(ctx context.Context, e Event) error
	GetByType(ctx context.Context, eventType string) ([]Event, error)
}

// Sink accepts events without blocking the caller.
type Sink interface {
	Log(event Event)
}

// Discard is a Sink that drops every event.
type Discard struct{}

func (Discard) Log(Event) {}
