package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/audit"
	"github.com/linqfy/horsesShit/internal/calculator"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage"
)

// PayInstallment records a payment against a share installment.
//
// When creditBalance is set the same amount is also credited to the share and
// buyer balances. The credit mirrors the payment rather than offsetting a
// debit, so callers decide whether the money came from outside the ledger.
func (e *Engine) PayInstallment(ctx context.Context, shareInstallmentID int64, amount decimal.Decimal, creditBalance bool) (*models.ShareInstallment, error) {
	now := e.now()
	var row *models.ShareInstallment
	var payment *models.Payment
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		var err error
		row, err = tx.GetShareInstallment(ctx, shareInstallmentID)
		if err != nil {
			return err
		}

		if !amount.IsPositive() {
			return apperr.Validation("payment amount must be positive")
		}
		if !amount.Equal(calculator.Round(amount)) {
			return apperr.Validation("payment amount %s has more than two decimals", amount)
		}
		if row.Status == models.StatusPaid {
			return apperr.Validation("installment %d is already paid", row.ID)
		}
		if remaining := row.Remaining(); amount.GreaterThan(remaining) {
			return apperr.Validation("payment of %s exceeds remaining balance of %s", amount, remaining)
		}

		share, err := tx.GetShare(ctx, row.ShareID)
		if err != nil {
			return err
		}

		row.AmountPaid = row.AmountPaid.Add(amount)
		row.LastPaymentAt = now
		row.Refresh()
		if err := tx.UpdateShareInstallment(ctx, row); err != nil {
			return err
		}

		payment = &models.Payment{
			ShareInstallmentID: row.ID,
			BuyerID:            share.BuyerID,
			Amount:             amount,
			PaidAt:             now,
		}
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return err
		}

		if creditBalance {
			return credit(ctx, tx, share.ID, share.BuyerID, amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.emit(audit.InstallmentPaid, payment, "status", string(row.Status))
	return row, nil
}

// ListInstallments lists installments of every horse due in period. A zero
// period lists all of them.
func (e *Engine) ListInstallments(ctx context.Context, period models.BillingPeriod) ([]*models.Installment, error) {
	if period != (models.BillingPeriod{}) && !period.Valid() {
		return nil, apperr.Validation("invalid billing period %s", period)
	}
	var out []*models.Installment
	err := e.read(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ListInstallmentsByPeriod(ctx, period)
		return err
	})
	return out, err
}

// ListShareInstallments lists the rows of one share, optionally for one period.
func (e *Engine) ListShareInstallments(ctx context.Context, shareID int64, period models.BillingPeriod) ([]*models.ShareInstallment, error) {
	var out []*models.ShareInstallment
	err := e.read(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetShare(ctx, shareID); err != nil {
			return err
		}
		var err error
		out, err = tx.ListShareInstallmentsByShare(ctx, shareID, period)
		return err
	})
	return out, err
}
