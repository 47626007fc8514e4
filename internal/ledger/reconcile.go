package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/calculator"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage"
)

// reconcileStats counts what one reconciliation changed.
type reconcileStats struct {
	frozen   int
	repriced int
	appended int
	removed  int
	created  int
	updated  int
	deleted  int
	// dropped is amount_paid that no longer belongs to any row. It is only
	// logged; balances never move during reconciliation.
	dropped decimal.Decimal
}

// reconcile brings the not-yet-due part of a horse's schedule in line with the
// horse and its active shares.
//
// Installments due before now are never touched. Future installments are
// re-priced from the horse, appended or removed when the count changed, and
// their rows are re-prorated keeping amount_paid, capped at the new amount.
// Rows of shares that left are deleted. Share and buyer balances are not
// touched: whatever a payment credited stays credited exactly once.
func reconcile(ctx context.Context, tx storage.Tx, horseID int64, now time.Time) error {
	horse, err := tx.GetHorse(ctx, horseID)
	if err != nil {
		return err
	}
	installments, err := tx.ListInstallments(ctx, horseID)
	if err != nil {
		return err
	}
	shares, err := tx.ListActiveShares(ctx, horseID)
	if err != nil {
		return err
	}

	stats := reconcileStats{dropped: decimal.Zero}
	entries := calculator.Schedule(horse)

	existing := make(map[int]bool, len(installments))
	var future []*models.Installment
	for _, inst := range installments {
		existing[inst.Number] = true
		if inst.Frozen(now) {
			stats.frozen++
			continue
		}
		future = append(future, inst)
	}

	if horse.InstallmentCount < stats.frozen {
		return apperr.Validation("installment count %d is below the %d installments already due", horse.InstallmentCount, stats.frozen)
	}

	var keep []*models.Installment
	for _, inst := range future {
		if inst.Number > horse.InstallmentCount {
			paid, err := dropInstallment(ctx, tx, inst)
			if err != nil {
				return err
			}
			stats.removed++
			stats.dropped = stats.dropped.Add(paid)
			continue
		}

		entry := entries[inst.Number-1]
		if !inst.Amount.Equal(entry.Amount) || !inst.DueDate.Equal(entry.DueDate) {
			inst.Amount = entry.Amount
			inst.DueDate = entry.DueDate
			inst.Period = entry.Period
			if err := tx.UpdateInstallment(ctx, inst); err != nil {
				return err
			}
			stats.repriced++
		}
		keep = append(keep, inst)
	}

	for _, entry := range entries {
		if existing[entry.Number] {
			continue
		}
		inst := &models.Installment{
			HorseID: horseID,
			Number:  entry.Number,
			DueDate: entry.DueDate,
			Amount:  entry.Amount,
			Period:  entry.Period,
		}
		if err := tx.CreateInstallment(ctx, inst); err != nil {
			return err
		}
		stats.appended++
		keep = append(keep, inst)
	}

	for _, inst := range keep {
		if err := reconcileRows(ctx, tx, inst, shares, &stats); err != nil {
			return err
		}
	}

	slog.Debug("reconciled horse",
		"horse_id", horseID,
		"frozen", stats.frozen,
		"repriced", stats.repriced,
		"appended", stats.appended,
		"removed", stats.removed,
		"rows_created", stats.created,
		"rows_updated", stats.updated,
		"rows_deleted", stats.deleted,
		"dropped_paid", stats.dropped.String(),
	)
	return nil
}

// reconcileRows re-prorates one future installment across the active shares.
func reconcileRows(ctx context.Context, tx storage.Tx, inst *models.Installment, shares []*models.Share, stats *reconcileStats) error {
	rows, err := tx.ListShareInstallmentsByInstallment(ctx, inst.ID)
	if err != nil {
		return err
	}
	byShare := make(map[int64]*models.ShareInstallment, len(rows))
	for _, row := range rows {
		byShare[row.ShareID] = row
	}

	for _, sh := range shares {
		row, ok := byShare[sh.ID]
		if !ok {
			if err := createRow(ctx, tx, inst, sh); err != nil {
				return err
			}
			stats.created++
			continue
		}
		delete(byShare, sh.ID)

		amount := calculator.Prorate(inst.Amount, sh.Percentage)
		if row.Amount.Equal(amount) && row.Period == inst.Period {
			continue
		}
		row.Amount = amount
		row.Period = inst.Period

		if row.AmountPaid.GreaterThan(amount) {
			stats.dropped = stats.dropped.Add(row.AmountPaid.Sub(amount))
			row.AmountPaid = amount
		}
		row.Refresh()
		if err := tx.UpdateShareInstallment(ctx, row); err != nil {
			return err
		}
		stats.updated++
	}

	for _, row := range byShare {
		if err := tx.DeleteShareInstallment(ctx, row.ID); err != nil {
			return err
		}
		stats.deleted++
		stats.dropped = stats.dropped.Add(row.AmountPaid)
	}
	return nil
}

// dropInstallment deletes an installment with its rows and returns what had
// been paid on them.
func dropInstallment(ctx context.Context, tx storage.Tx, inst *models.Installment) (decimal.Decimal, error) {
	rows, err := tx.ListShareInstallmentsByInstallment(ctx, inst.ID)
	if err != nil {
		return decimal.Zero, err
	}
	paid := decimal.Zero
	for _, row := range rows {
		paid = paid.Add(row.AmountPaid)
	}
	return paid, tx.DeleteInstallment(ctx, inst.ID)
}

// Reconcile re-runs schedule reconciliation for a horse.
func (e *Engine) Reconcile(ctx context.Context, horseID int64) error {
	now := e.now()
	return e.store.Atomic(ctx, func(tx storage.Tx) error {
		return reconcile(ctx, tx, horseID, now)
	})
}
