package ledger

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage"
)

var errDiskFull = errors.New("disk full")

// faultyStore fails writes for one chosen share installment or transaction.
type faultyStore struct {
	storage.Store
	rowID   atomic.Int64
	prizeID atomic.Int64
}

func (s *faultyStore) Atomic(ctx context.Context, fn func(tx storage.Tx) error) error {
	return s.Store.Atomic(ctx, func(tx storage.Tx) error {
		return fn(&faultyTx{Tx: tx, s: s})
	})
}

type faultyTx struct {
	storage.Tx
	s *faultyStore
}

func (t *faultyTx) Atomic(ctx context.Context, fn func(tx storage.Tx) error) error {
	return t.Tx.Atomic(ctx, func(inner storage.Tx) error {
		return fn(&faultyTx{Tx: inner, s: t.s})
	})
}

func (t *faultyTx) UpdateShareInstallment(ctx context.Context, row *models.ShareInstallment) error {
	if row.ID == t.s.rowID.Load() {
		return errDiskFull
	}
	return t.Tx.UpdateShareInstallment(ctx, row)
}

// UpdateTransaction fails when the prize is being marked applied, after its
// postings were written.
func (t *faultyTx) UpdateTransaction(ctx context.Context, tr *models.Transaction) error {
	if tr.ID == t.s.prizeID.Load() && tr.Applied() {
		return errDiskFull
	}
	return t.Tx.UpdateTransaction(ctx, tr)
}

func newFaultyFixture(t *testing.T) (*fixture, *faultyStore) {
	var faulty *faultyStore
	f := newFixtureWith(t, func(s storage.Store) storage.Store {
		faulty = &faultyStore{Store: s}
		return faulty
	})
	return f, faulty
}

func TestCheckOverdueIsolatesFailingRow(t *testing.T) {
	f, faulty := newFaultyFixture(t)
	a, b := f.buyer("ana", false), f.buyer("bruno", false)
	h := f.horse("12000", 12, pct(a.ID, "60"), pct(b.ID, "40"))

	broken := f.row(h.ID, 1, a.ID)
	faulty.rowID.Store(broken.ID)

	f.now = time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	res, err := f.engine.CheckOverdue(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Selected: 4, Processed: 3, Failed: 1}, res)

	assert.Equal(t, models.StatusPending, f.row(h.ID, 1, a.ID).Status)
	assert.Equal(t, models.StatusOverdue, f.row(h.ID, 1, b.ID).Status)
	assert.Equal(t, models.StatusOverdue, f.row(h.ID, 2, a.ID).Status)
	assert.Equal(t, models.StatusOverdue, f.row(h.ID, 2, b.ID).Status)

	faulty.rowID.Store(0)
	res, err = f.engine.CheckOverdue(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Selected: 1, Processed: 1}, res)
	assert.Equal(t, models.StatusOverdue, f.row(h.ID, 1, a.ID).Status)
}

func TestProcessQueueIsolatesFailingPrize(t *testing.T) {
	f, faulty := newFaultyFixture(t)
	a, b := f.buyer("ana", false), f.buyer("bruno", false)
	h := f.horse("12000", 12, pct(a.ID, "60"), pct(b.ID, "40"))

	var prizes []*models.Transaction
	for i := 0; i < 3; i++ {
		tr, err := f.engine.CreateTransaction(f.ctx, &models.Transaction{
			Type: models.Prize, TotalAmount: d("1000"), HorseID: h.ID,
			EffectiveDate: time.Date(2024, time.January, 1+i, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		prizes = append(prizes, tr)
	}
	faulty.prizeID.Store(prizes[1].ID)

	f.now = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	res, err := f.engine.ProcessQueuedTransactions(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Selected: 3, Processed: 2, Failed: 1}, res)

	// The failed prize rolled back together with its postings.
	assertAmount(t, "1200", f.balance(a.ID))
	assertAmount(t, "800", f.balance(b.ID))
	for i, tr := range prizes {
		got, err := f.engine.GetTransaction(f.ctx, tr.ID)
		require.NoError(t, err)
		assert.Equal(t, i != 1, got.Applied(), "prize %d", i)
	}

	faulty.prizeID.Store(0)
	res, err = f.engine.ProcessQueuedTransactions(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Selected: 1, Processed: 1}, res)
	assertAmount(t, "1800", f.balance(a.ID))
	assertAmount(t, "1200", f.balance(b.ID))
}
