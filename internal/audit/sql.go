package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type sqlEventLogger struct {
	db *sql.DB
}

// NewSQLEventLogger stores events in the events table of db.
func NewSQLEventLogger(db *sql.DB) EventLogger {
	return &sqlEventLogger{
		db: db,
	}
}

func (el *sqlEventLogger) Save(ctx context.Context, e Event) error {
	jsonData, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}
	jsonMetadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode event metadata: %w", err)
	}

	statement := `INSERT INTO events (id, event_type, event_data, event_metadata, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err = el.db.ExecContext(ctx, statement, e.ID.String(), e.Type, string(jsonData), string(jsonMetadata), e.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// GetByType returns events of one type, oldest first. Data is left as raw JSON.
func (el *sqlEventLogger) GetByType(ctx context.Context, eventType string) ([]Event, error) {
	query := `SELECT id, event_type, event_data, event_metadata, created_at FROM events WHERE event_type = ? ORDER BY created_at, id`
	result, err := el.db.QueryContext(ctx, query, eventType)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer result.Close()

	events := make([]Event, 0)
	for result.Next() {
		var event Event
		var id, data, metadata string
		var created int64
		if err := result.Scan(&id, &event.Type, &data, &metadata, &created); err != nil {
			return events, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := event.ID.UnmarshalText([]byte(id)); err != nil {
			return events, fmt.Errorf("failed to parse event id: %w", err)
		}
		event.Data = json.RawMessage(data)
		if err := json.Unmarshal([]byte(metadata), &event.Metadata); err != nil {
			return events, fmt.Errorf("failed to decode event metadata: %w", err)
		}
		event.CreatedAt = time.Unix(created, 0).UTC()

		events = append(events, event)
	}

	if err := result.Err(); err != nil {
		return events, err
	}

	return events, nil
}
