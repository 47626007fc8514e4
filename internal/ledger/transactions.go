package ledger

import (
	"context"
	"strconv"
	"time"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/audit"
	"github.com/linqfy/horsesShit/internal/calculator"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage"
)

// prepareTransaction fills defaults and checks the required fields and
// preconditions of t's type. It does not write.
func prepareTransaction(ctx context.Context, tx storage.Tx, t *models.Transaction, now time.Time) error {
	if !t.Type.Valid() {
		return apperr.Validation("unknown transaction type %q", t.Type)
	}
	if !t.TotalAmount.IsPositive() {
		return apperr.Validation("total amount must be positive")
	}
	if !t.TotalAmount.Equal(calculator.Round(t.TotalAmount)) {
		return apperr.Validation("total amount %s has more than two decimals", t.TotalAmount)
	}

	if t.Date.IsZero() {
		t.Date = now
	}
	if t.Period == (models.BillingPeriod{}) {
		t.Period = calculator.PeriodOf(t.Date)
	}
	if !t.Period.Valid() {
		return apperr.Validation("invalid billing period %s", t.Period)
	}

	switch t.Type {
	case models.Income:
		if t.BuyerID == 0 || t.HorseID == 0 {
			return apperr.Validation("INGRESO requires buyer_id and horse_id")
		}
		if t.PaymentDate.IsZero() {
			t.PaymentDate = t.Date
		}
		t.EffectiveDate = time.Time{}

	case models.Expense:
		if t.HorseID == 0 {
			return apperr.Validation("EGRESO requires horse_id")
		}
		t.EffectiveDate = time.Time{}

	case models.Prize:
		if t.HorseID == 0 {
			return apperr.Validation("PREMIO requires horse_id")
		}
		if t.EffectiveDate.IsZero() {
			return apperr.Validation("PREMIO requires effective_date")
		}

	case models.AdminPayment:
		if t.BuyerID == 0 {
			return apperr.Validation("PAGO requires buyer_id")
		}
		t.EffectiveDate = time.Time{}
	}

	if t.HorseID != 0 {
		if _, err := tx.GetHorse(ctx, t.HorseID); err != nil {
			return err
		}
	}
	if t.BuyerID != 0 {
		buyer, err := tx.GetBuyer(ctx, t.BuyerID)
		if err != nil {
			return err
		}
		if t.Type == models.AdminPayment && !buyer.IsAdmin {
			return apperr.Permission("buyer %d is not an administrator", t.BuyerID)
		}
	}
	return nil
}

// CreateTransaction stores t and applies its effect. A PREMIO that has not
// matured yet is stored without effect and picked up by ProcessQueuedTransactions.
func (e *Engine) CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	now := e.now()
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		t.AppliedAt = time.Time{}
		if err := prepareTransaction(ctx, tx, t, now); err != nil {
			return err
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if err := tx.CreateTransaction(ctx, t); err != nil {
			return err
		}
		return applyEffect(ctx, tx, t, now)
	})
	if err != nil {
		return nil, err
	}

	e.emit(audit.TransactionCreated, t, "type", string(t.Type))
	return t, nil
}

// UpdateTransaction changes a transaction.
//
// With revert the current effect is undone, the fields applied and the effect
// run again, so the result equals creating the transaction with the new
// fields. Without revert only descriptive fields may change.
//
// On an EGRESO, Paid together with BuyerID sets that buyer's expense mark
// instead of changing the transaction's buyer.
func (e *Engine) UpdateTransaction(ctx context.Context, id int64, upd models.TransactionUpdate, revert bool) (*models.Transaction, error) {
	now := e.now()
	var t *models.Transaction
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		var err error
		t, err = tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}

		var markBuyer int64
		if upd.Paid != nil {
			if t.Type != models.Expense {
				return apperr.Validation("only EGRESO transactions carry a paid mark")
			}
			if upd.BuyerID == nil {
				return apperr.Validation("paid requires buyer_id")
			}
			markBuyer = *upd.BuyerID
			upd.BuyerID = nil
		}

		if upd.Financial() && !revert {
			return apperr.Validation("changing type, amount, horse, buyer or effective date requires reverting the original")
		}

		if revert {
			if err := revertEffect(ctx, tx, t); err != nil {
				return err
			}
		}

		applyUpdate(t, upd)
		if err := prepareTransaction(ctx, tx, t, now); err != nil {
			return err
		}
		if err := tx.UpdateTransaction(ctx, t); err != nil {
			return err
		}
		if revert {
			if err := applyEffect(ctx, tx, t, now); err != nil {
				return err
			}
		}

		if markBuyer != 0 {
			if _, err := tx.GetBuyer(ctx, markBuyer); err != nil {
				return err
			}
			mark := &models.ExpensePaidMark{TransactionID: t.ID, BuyerID: markBuyer, Paid: *upd.Paid, UpdatedAt: now}
			if err := tx.SetExpensePaid(ctx, mark); err != nil {
				return err
			}
			t.Paid = *upd.Paid
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.emit(audit.TransactionUpdated, t, "type", string(t.Type), "reverted", strconv.FormatBool(revert))
	return t, nil
}

func applyUpdate(t *models.Transaction, upd models.TransactionUpdate) {
	if upd.Type != nil {
		t.Type = *upd.Type
	}
	if upd.Concept != nil {
		t.Concept = *upd.Concept
	}
	if upd.Notes != nil {
		t.Notes = *upd.Notes
	}
	if upd.TotalAmount != nil {
		t.TotalAmount = *upd.TotalAmount
	}
	if upd.HorseID != nil {
		t.HorseID = *upd.HorseID
	}
	if upd.BuyerID != nil {
		t.BuyerID = *upd.BuyerID
	}
	if upd.Period != nil {
		t.Period = *upd.Period
	}
	if upd.Date != nil {
		t.Date = *upd.Date
	}
	if upd.PaymentDate != nil {
		t.PaymentDate = *upd.PaymentDate
	}
	if upd.EffectiveDate != nil {
		t.EffectiveDate = *upd.EffectiveDate
	}
}

// DeleteTransaction reverts a transaction's effect and removes it.
func (e *Engine) DeleteTransaction(ctx context.Context, id int64) error {
	var t *models.Transaction
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		var err error
		t, err = tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if err := revertEffect(ctx, tx, t); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, id)
	})
	if err != nil {
		return err
	}

	e.emit(audit.TransactionDeleted, t, "type", string(t.Type))
	return nil
}

// GetTransaction returns one transaction.
func (e *Engine) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	var t *models.Transaction
	err := e.read(ctx, func(tx storage.Tx) error {
		var err error
		t, err = tx.GetTransaction(ctx, id)
		return err
	})
	return t, err
}

// ListTransactions lists transactions matching filter. When buyerID is set,
// each EGRESO carries that buyer's paid mark.
func (e *Engine) ListTransactions(ctx context.Context, filter models.TransactionFilter, buyerID int64) ([]*models.Transaction, error) {
	var out []*models.Transaction
	err := e.read(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ListTransactions(ctx, filter)
		if err != nil || buyerID == 0 {
			return err
		}
		for _, t := range out {
			if t.Type != models.Expense {
				continue
			}
			if t.Paid, err = tx.ExpensePaid(ctx, t.ID, buyerID); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// MarkExpensePaid records that a buyer settled their part of an EGRESO.
func (e *Engine) MarkExpensePaid(ctx context.Context, transactionID, buyerID int64) (bool, error) {
	now := e.now()
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		t, err := tx.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		if t.Type != models.Expense {
			return apperr.Validation("transaction %d is %s, only EGRESO can be marked paid", transactionID, t.Type)
		}
		if _, err := tx.GetBuyer(ctx, buyerID); err != nil {
			return err
		}
		return tx.SetExpensePaid(ctx, &models.ExpensePaidMark{
			TransactionID: transactionID,
			BuyerID:       buyerID,
			Paid:          true,
			UpdatedAt:     now,
		})
	})
	if err != nil {
		return false, err
	}

	e.emit(audit.ExpenseMarkedPaid, map[string]int64{"transaction_id": transactionID, "buyer_id": buyerID})
	return true, nil
}
