package audit

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linqfy/horsesShit/internal/storage/sqlite"
)

type memoryLogger struct {
	mu     sync.Mutex
	events []Event
}

func (m *memoryLogger) Save(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memoryLogger) GetByType(_ context.Context, eventType string) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(
		WithType(TransactionCreated),
		WithData(map[string]int64{"transaction_id": 4}),
		WithMetadata("type", "EGRESO"),
	)

	assert.Equal(t, TransactionCreated, e.Type)
	assert.Equal(t, "EGRESO", e.Metadata["type"])
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestWorkerDrainsOnShutdown(t *testing.T) {
	logger := &memoryLogger{}
	w := NewWorker(logger, 64)
	w.Start()

	for i := 0; i < 20; i++ {
		w.Log(NewEvent(WithType(InstallmentPaid)))
	}
	w.Shutdown()

	got, err := logger.GetByType(context.Background(), InstallmentPaid)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

type failingLogger struct{ memoryLogger }

func (f *failingLogger) Save(context.Context, Event) error {
	return errors.New("database is locked")
}

type counter struct{ n atomic.Int64 }

func (c *counter) Inc() { c.n.Add(1) }

func TestWorkerCountsDrops(t *testing.T) {
	logger := &memoryLogger{}
	drops := &counter{}
	w := NewWorker(logger, 1, WithDropCounter(drops))

	// Not started, so only the first event fits.
	for i := 0; i < 3; i++ {
		w.Log(NewEvent(WithType(HorseCreated)))
	}
	assert.Equal(t, int64(2), w.Dropped())
	assert.Equal(t, int64(2), drops.n.Load())

	w.Shutdown()
	got, err := logger.GetByType(context.Background(), HorseCreated)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	t.Run("log after shutdown", func(t *testing.T) {
		assert.NotPanics(t, func() { w.Log(NewEvent(WithType(HorseDeleted))) })
		assert.Equal(t, int64(3), w.Dropped())
		assert.Equal(t, int64(3), drops.n.Load())
		w.Shutdown()
	})
}

func TestWorkerCountsSaveFailures(t *testing.T) {
	failures := &counter{}
	w := NewWorker(&failingLogger{}, 8, WithFailureCounter(failures), WithSaveTimeout(time.Second))
	w.Start()
	w.Log(NewEvent(WithType(InstallmentPaid)))
	w.Log(NewEvent(WithType(InstallmentPaid)))
	w.Shutdown()

	assert.Equal(t, int64(2), failures.n.Load())
	assert.Zero(t, w.Dropped())
}

func TestSQLEventLogger(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	logger := NewSQLEventLogger(store.DB())

	e := NewEvent(WithType(HorseCreated), WithData(map[string]int64{"horse_id": 1}), WithMetadata("name", "Trueno"))
	require.NoError(t, logger.Save(ctx, e))
	require.NoError(t, logger.Save(ctx, NewEvent(WithType(HorseDeleted))))

	got, err := logger.GetByType(ctx, HorseCreated)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, e.ID, got[0].ID)
	assert.Equal(t, "Trueno", got[0].Metadata["name"])

	var data map[string]int64
	require.NoError(t, json.Unmarshal(got[0].Data.(json.RawMessage), &data))
	assert.Equal(t, int64(1), data["horse_id"])
}
