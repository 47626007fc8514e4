package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/calculator"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage"
)

// credit moves a share balance and its buyer's balance together.
func credit(ctx context.Context, tx storage.Tx, shareID, buyerID int64, amount decimal.Decimal) error {
	if err := tx.AdjustShareBalance(ctx, shareID, amount); err != nil {
		return err
	}
	return tx.AdjustBuyerBalance(ctx, buyerID, amount)
}

// post applies one signed movement of a transaction and records it.
func post(ctx context.Context, tx storage.Tx, t *models.Transaction, shareID, buyerID int64, amount decimal.Decimal, now time.Time) error {
	if err := credit(ctx, tx, shareID, buyerID, amount); err != nil {
		return err
	}
	return tx.CreatePosting(ctx, &models.Posting{
		TransactionID: t.ID,
		ShareID:       shareID,
		BuyerID:       buyerID,
		Amount:        amount,
		CreatedAt:     now,
	})
}

// applyEffect runs the balance effect of a stored transaction.
//
//	INGRESO  credit the buyer's active share of the horse
//	EGRESO   debit every active share by its part, reset expense marks
//	PREMIO   once matured, credit every active share by its part
//	PAGO     nothing
func applyEffect(ctx context.Context, tx storage.Tx, t *models.Transaction, now time.Time) error {
	switch t.Type {
	case models.Income:
		share, err := tx.FindShare(ctx, t.HorseID, t.BuyerID)
		if err != nil {
			return err
		}
		if share == nil || !share.Active {
			return apperr.Validation("buyer %d holds no active share of horse %d", t.BuyerID, t.HorseID)
		}
		return post(ctx, tx, t, share.ID, share.BuyerID, t.TotalAmount, now)

	case models.Expense:
		shares, err := activeSharesOf(ctx, tx, t.HorseID)
		if err != nil {
			return err
		}
		for _, part := range calculator.SplitByShare(t.TotalAmount, shares) {
			if err := post(ctx, tx, t, part.ShareID, part.BuyerID, part.Amount.Neg(), now); err != nil {
				return err
			}
			mark := &models.ExpensePaidMark{TransactionID: t.ID, BuyerID: part.BuyerID, Paid: false, UpdatedAt: now}
			if err := tx.SetExpensePaid(ctx, mark); err != nil {
				return err
			}
		}
		return nil

	case models.Prize:
		if t.Applied() || !t.Matured(now) {
			return nil
		}
		shares, err := activeSharesOf(ctx, tx, t.HorseID)
		if err != nil {
			return err
		}
		for _, part := range calculator.SplitByShare(t.TotalAmount, shares) {
			if err := post(ctx, tx, t, part.ShareID, part.BuyerID, part.Amount, now); err != nil {
				return err
			}
		}
		t.AppliedAt = now
		return tx.UpdateTransaction(ctx, t)

	case models.AdminPayment:
		return nil
	}
	return apperr.Validation("unknown transaction type %q", t.Type)
}

// revertEffect replays the inverse of every posting of a transaction and
// clears its applied marker. The caller persists t.
func revertEffect(ctx context.Context, tx storage.Tx, t *models.Transaction) error {
	postings, err := tx.ListPostings(ctx, t.ID)
	if err != nil {
		return err
	}
	for _, p := range postings {
		if err := credit(ctx, tx, p.ShareID, p.BuyerID, p.Amount.Neg()); err != nil {
			return err
		}
	}
	if err := tx.DeletePostings(ctx, t.ID); err != nil {
		return err
	}
	// Marks belong to the applied effect; a re-applied EGRESO seeds its own.
	if err := tx.DeleteExpenseMarks(ctx, t.ID); err != nil {
		return err
	}
	t.AppliedAt = time.Time{}
	return nil
}

func activeSharesOf(ctx context.Context, tx storage.Tx, horseID int64) ([]*models.Share, error) {
	shares, err := tx.ListActiveShares(ctx, horseID)
	if err != nil {
		return nil, err
	}
	if len(shares) == 0 {
		return nil, apperr.Validation("horse %d has no active shares", horseID)
	}
	return shares, nil
}
