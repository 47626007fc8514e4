package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/linqfy/horsesShit/internal/models"
)

const paymentColumns = `id, share_installment_id, buyer_id, transaction_id, amount, paid_at`

// CreatePayment persists a new installment payment.
func (s scope) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}

	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO payments (share_installment_id, buyer_id, transaction_id, amount, paid_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ShareInstallmentID, p.BuyerID, nullID(p.TransactionID), p.Amount, unix(p.PaidAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read payment id: %w", err)
	}
	return nil
}

func (s scope) ListPaymentsByBuyer(ctx context.Context, buyerID int64) ([]*models.Payment, error) {
	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE buyer_id = ? ORDER BY paid_at, id", buyerID)
}

func (s scope) ListPaymentsByShareInstallment(ctx context.Context, siID int64) ([]*models.Payment, error) {
	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE share_installment_id = ? ORDER BY paid_at, id", siID)
}

func (s scope) queryPayments(ctx context.Context, query string, args ...any) ([]*models.Payment, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		var txID sql.NullInt64
		var paidAt int64
		if err := rows.Scan(&p.ID, &p.ShareInstallmentID, &p.BuyerID, &txID, &p.Amount, &paidAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.TransactionID = fromNullID(txID)
		p.PaidAt = fromUnix(paidAt)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}
