package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateBuyer(t *testing.T, store *SQLiteStore, email string) *models.Buyer {
	t.Helper()
	b := &models.Buyer{Name: email, Email: email}
	require.NoError(t, store.Atomic(context.Background(), func(tx storage.Tx) error {
		return tx.CreateBuyer(context.Background(), b)
	}))
	return b
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("buyer round trip keeps exact decimal balance", func(t *testing.T) {
		b := mustCreateBuyer(t, store, "ana@example.com")
		require.NotZero(t, b.ID)

		err := store.Atomic(ctx, func(tx storage.Tx) error {
			if err := tx.AdjustBuyerBalance(ctx, b.ID, decimal.RequireFromString("0.10")); err != nil {
				return err
			}
			return tx.AdjustBuyerBalance(ctx, b.ID, decimal.RequireFromString("0.20"))
		})
		require.NoError(t, err)

		var got *models.Buyer
		require.NoError(t, store.Atomic(ctx, func(tx storage.Tx) error {
			var err error
			got, err = tx.GetBuyer(ctx, b.ID)
			return err
		}))
		assert.Equal(t, "0.3", got.Balance.String())
		assert.Equal(t, "ana@example.com", got.Email)
	})

	t.Run("missing buyer is not found", func(t *testing.T) {
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			_, err := tx.GetBuyer(ctx, 9999)
			return err
		})
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
		assert.False(t, apperr.IsStorage(err))
	})

	t.Run("duplicate email fails as storage error", func(t *testing.T) {
		mustCreateBuyer(t, store, "dup@example.com")
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			return tx.CreateBuyer(ctx, &models.Buyer{Name: "dup", Email: "dup@example.com"})
		})
		require.Error(t, err)
		assert.True(t, apperr.IsStorage(err))
	})

	t.Run("outer scope rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		var id int64
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			b := &models.Buyer{Name: "ghost", Email: "ghost@example.com"}
			if err := tx.CreateBuyer(ctx, b); err != nil {
				return err
			}
			id = b.ID
			return boom
		})
		require.ErrorIs(t, err, boom)

		err = store.Atomic(ctx, func(tx storage.Tx) error {
			_, err := tx.GetBuyer(ctx, id)
			return err
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("nested scope failure keeps outer writes", func(t *testing.T) {
		var keptID, droppedID int64
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			kept := &models.Buyer{Name: "kept", Email: "kept@example.com"}
			if err := tx.CreateBuyer(ctx, kept); err != nil {
				return err
			}
			keptID = kept.ID

			nestedErr := tx.Atomic(ctx, func(inner storage.Tx) error {
				dropped := &models.Buyer{Name: "dropped", Email: "dropped@example.com"}
				if err := inner.CreateBuyer(ctx, dropped); err != nil {
					return err
				}
				droppedID = dropped.ID
				return apperr.Validation("inner failure")
			})
			assert.True(t, apperr.IsValidation(nestedErr))

			// The enclosing scope decides to carry on.
			return nil
		})
		require.NoError(t, err)

		require.NoError(t, store.Atomic(ctx, func(tx storage.Tx) error {
			_, err := tx.GetBuyer(ctx, keptID)
			return err
		}))
		err = store.Atomic(ctx, func(tx storage.Tx) error {
			_, err := tx.GetBuyer(ctx, droppedID)
			return err
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("nested scope success is undone by outer rollback", func(t *testing.T) {
		var id int64
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			if err := tx.Atomic(ctx, func(inner storage.Tx) error {
				b := &models.Buyer{Name: "inner", Email: "inner@example.com"}
				err := inner.CreateBuyer(ctx, b)
				id = b.ID
				return err
			}); err != nil {
				return err
			}
			return apperr.Validation("outer failure")
		})
		require.Error(t, err)

		err = store.Atomic(ctx, func(tx storage.Tx) error {
			_, err := tx.GetBuyer(ctx, id)
			return err
		})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestScheduleQueries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	buyer := mustCreateBuyer(t, store, "owner@example.com")
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	var siPast, siFuture, siPartial int64
	require.NoError(t, store.Atomic(ctx, func(tx storage.Tx) error {
		h := &models.Horse{
			Name:             "Relámpago",
			TotalValue:       decimal.NewFromInt(3000),
			InstallmentCount: 3,
			BillingStart:     models.BillingPeriod{Month: time.April, Year: 2024},
			CreatedAt:        time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, tx.CreateHorse(ctx, h))

		sh := &models.Share{HorseID: h.ID, BuyerID: buyer.ID, Percentage: decimal.NewFromInt(100), Active: true}
		require.NoError(t, tx.CreateShare(ctx, sh))

		dues := []time.Time{
			time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC),
		}
		ids := make([]int64, len(dues))
		for i, due := range dues {
			inst := &models.Installment{
				HorseID: h.ID, Number: i + 1, DueDate: due, Amount: decimal.NewFromInt(1000),
				Period: models.BillingPeriod{Month: due.Month(), Year: due.Year()},
			}
			require.NoError(t, tx.CreateInstallment(ctx, inst))
			si := &models.ShareInstallment{
				ShareID: sh.ID, InstallmentID: inst.ID, Amount: inst.Amount, AmountPaid: decimal.Zero,
				Period: inst.Period,
			}
			if i == 1 {
				si.AmountPaid = decimal.NewFromInt(10)
			}
			require.NoError(t, tx.CreateShareInstallment(ctx, si))
			ids[i] = si.ID
		}
		siPast, siPartial, siFuture = ids[0], ids[1], ids[2]
		return nil
	}))

	t.Run("overdue candidates are pending and past due", func(t *testing.T) {
		var ids []int64
		require.NoError(t, store.Atomic(ctx, func(tx storage.Tx) error {
			var err error
			ids, err = tx.ListOverdueCandidates(ctx, now)
			return err
		}))
		assert.Equal(t, []int64{siPast}, ids)
		assert.NotContains(t, ids, siPartial)
		assert.NotContains(t, ids, siFuture)
	})

	t.Run("share installment status derived on insert", func(t *testing.T) {
		require.NoError(t, store.Atomic(ctx, func(tx storage.Tx) error {
			si, err := tx.GetShareInstallment(ctx, siPartial)
			if err != nil {
				return err
			}
			assert.Equal(t, models.StatusPartial, si.Status)
			assert.True(t, si.LastPaymentAt.IsZero())
			return nil
		}))
	})

	t.Run("installments by period", func(t *testing.T) {
		require.NoError(t, store.Atomic(ctx, func(tx storage.Tx) error {
			june, err := tx.ListInstallmentsByPeriod(ctx, models.BillingPeriod{Month: time.June, Year: 2024})
			if err != nil {
				return err
			}
			assert.Len(t, june, 1)

			all, err := tx.ListInstallmentsByPeriod(ctx, models.BillingPeriod{})
			if err != nil {
				return err
			}
			assert.Len(t, all, 3)
			return nil
		}))
	})
}

func TestMaturedPrizesAndMarks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	buyer := mustCreateBuyer(t, store, "prize@example.com")

	var early, late, applied int64
	require.NoError(t, store.Atomic(ctx, func(tx storage.Tx) error {
		h := &models.Horse{Name: "Trueno", TotalValue: decimal.Zero, BillingStart: models.BillingPeriod{Month: time.January, Year: 2024}}
		require.NoError(t, tx.CreateHorse(ctx, h))

		mk := func(eff time.Time, appliedAt time.Time) int64 {
			tr := &models.Transaction{
				Type: models.Prize, TotalAmount: decimal.NewFromInt(100), HorseID: h.ID,
				Period: models.BillingPeriod{Month: eff.Month(), Year: eff.Year()}, Date: eff,
				EffectiveDate: eff, AppliedAt: appliedAt,
			}
			require.NoError(t, tx.CreateTransaction(ctx, tr))
			return tr.ID
		}
		early = mk(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), time.Time{})
		late = mk(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), time.Time{})
		applied = mk(time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC))

		return tx.SetExpensePaid(ctx, &models.ExpensePaidMark{TransactionID: early, BuyerID: buyer.ID, Paid: true})
	}))

	require.NoError(t, store.Atomic(ctx, func(tx storage.Tx) error {
		ids, err := tx.ListMaturedPrizes(ctx, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, []int64{early}, ids)
		assert.NotContains(t, ids, late)
		assert.NotContains(t, ids, applied)

		paid, err := tx.ExpensePaid(ctx, early, buyer.ID)
		require.NoError(t, err)
		assert.True(t, paid)

		require.NoError(t, tx.SetExpensePaid(ctx, &models.ExpensePaidMark{TransactionID: early, BuyerID: buyer.ID, Paid: false}))
		paid, err = tx.ExpensePaid(ctx, early, buyer.ID)
		require.NoError(t, err)
		assert.False(t, paid)

		paid, err = tx.ExpensePaid(ctx, late, buyer.ID)
		require.NoError(t, err)
		assert.False(t, paid)
		return nil
	}))
}

func TestOperators(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	op := models.NewOperator("admin@example.com", "Admin", "hash")
	require.NoError(t, store.CreateOperator(ctx, op))

	got, err := store.GetOperatorByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, op.ID, got.ID)

	got, err = store.GetOperatorByID(ctx, op.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Admin", got.DisplayName)

	missing, err := store.GetOperatorByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBackup(t *testing.T) {
	store := newTestStore(t)
	mustCreateBuyer(t, store, "backup@example.com")

	dest := filepath.Join(t.TempDir(), "backups", "copy.db")
	require.NoError(t, store.Backup(context.Background(), dest))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	copied, err := New(dest)
	require.NoError(t, err)
	defer copied.Close()
	require.NoError(t, copied.Atomic(context.Background(), func(tx storage.Tx) error {
		b, err := tx.GetBuyerByEmail(context.Background(), "backup@example.com")
		require.NotNil(t, b)
		return err
	}))
}
