package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/linqfy/horsesShit/internal/audit"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage"
)

// SweepResult summarizes one sweep run.
type SweepResult struct {
	// Selected is how many units matched when the sweep started.
	Selected int
	// Processed units were changed and committed.
	Processed int
	// Skipped units no longer matched when their own scope opened.
	Skipped int
	// Failed units were rolled back and logged.
	Failed int
}

// CheckOverdue moves PENDING rows of installments due before now to OVERDUE.
// PARTIAL rows are left alone and balances do not move. Each row commits in
// its own scope, so a failing row never undoes the others.
func (e *Engine) CheckOverdue(ctx context.Context) (SweepResult, error) {
	now := e.now()
	var res SweepResult

	var ids []int64
	err := e.read(ctx, func(tx storage.Tx) error {
		var err error
		ids, err = tx.ListOverdueCandidates(ctx, now)
		return err
	})
	if err != nil {
		return res, err
	}
	res.Selected = len(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var changed bool
		err := e.store.Atomic(ctx, func(tx storage.Tx) error {
			row, err := tx.GetShareInstallment(ctx, id)
			if err != nil {
				return err
			}
			if row.Status != models.StatusPending {
				return nil
			}
			inst, err := tx.GetInstallment(ctx, row.InstallmentID)
			if err != nil {
				return err
			}
			if !inst.Frozen(now) {
				return nil
			}
			row.Status = models.StatusOverdue
			changed = true
			return tx.UpdateShareInstallment(ctx, row)
		})
		switch {
		case err != nil:
			res.Failed++
			slog.Error("failed to mark installment overdue", "share_installment_id", id, "error", err)
		case changed:
			res.Processed++
			e.emit(audit.InstallmentOverdue, map[string]int64{"share_installment_id": id})
		default:
			res.Skipped++
		}
	}

	slog.Info("overdue check finished",
		"selected", res.Selected,
		"marked", res.Processed,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res, nil
}

// ProcessQueuedTransactions applies every PREMIO whose maturation window has
// passed and that was not applied yet. Each transaction is applied in its own
// scope and marked with applied_at, so repeated runs credit it only once.
func (e *Engine) ProcessQueuedTransactions(ctx context.Context) (SweepResult, error) {
	now := e.now()
	var res SweepResult

	var ids []int64
	err := e.read(ctx, func(tx storage.Tx) error {
		var err error
		ids, err = tx.ListMaturedPrizes(ctx, now.Add(-models.MaturationWindow))
		return err
	})
	if err != nil {
		return res, err
	}
	res.Selected = len(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var applied *models.Transaction
		err := e.store.Atomic(ctx, func(tx storage.Tx) error {
			t, err := tx.GetTransaction(ctx, id)
			if err != nil {
				return err
			}
			if t.Type != models.Prize || t.Applied() || !t.Matured(now) {
				return nil
			}
			if err := applyEffect(ctx, tx, t, now); err != nil {
				return err
			}
			applied = t
			return nil
		})
		switch {
		case err != nil:
			res.Failed++
			slog.Error("failed to apply queued transaction", "transaction_id", id, "error", err)
		case applied != nil:
			res.Processed++
			e.emit(audit.PrizeApplied, applied, "matured_at", applied.MaturesAt().Format(time.RFC3339))
		default:
			res.Skipped++
		}
	}

	slog.Info("queued transactions processed",
		"selected", res.Selected,
		"applied", res.Processed,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res, nil
}
