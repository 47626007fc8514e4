package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/models"
)

const transactionColumns = `id, type, concept, notes, total_amount, horse_id, buyer_id, month, year,
	date, payment_date, effective_date, applied_at, created_at, updated_at`

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var typ string
	var horseID, buyerID, paymentDate, effectiveDate, appliedAt sql.NullInt64
	var month int
	var date, created, updated int64
	err := row.Scan(&t.ID, &typ, &t.Concept, &t.Notes, &t.TotalAmount, &horseID, &buyerID,
		&month, &t.Period.Year, &date, &paymentDate, &effectiveDate, &appliedAt, &created, &updated)
	if err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(typ)
	t.HorseID = fromNullID(horseID)
	t.BuyerID = fromNullID(buyerID)
	t.Period.Month = time.Month(month)
	t.Date = fromUnix(date)
	t.PaymentDate = fromNullUnix(paymentDate)
	t.EffectiveDate = fromNullUnix(effectiveDate)
	t.AppliedAt = fromNullUnix(appliedAt)
	t.CreatedAt = fromUnix(created)
	t.UpdatedAt = fromUnix(updated)
	return t, nil
}

// CreateTransaction inserts a transaction record. Its effect is applied by the ledger.
func (s scope) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = t.CreatedAt

	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO transactions (type, concept, notes, total_amount, horse_id, buyer_id, month, year,
			date, payment_date, effective_date, applied_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(t.Type), t.Concept, t.Notes, t.TotalAmount, nullID(t.HorseID), nullID(t.BuyerID),
		int(t.Period.Month), t.Period.Year, unix(t.Date), nullUnix(t.PaymentDate),
		nullUnix(t.EffectiveDate), nullUnix(t.AppliedAt), unix(t.CreatedAt), unix(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transaction id: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s scope) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	t, err := scanTransaction(s.tx.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("transaction", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns transactions matching the filter, newest first.
func (s scope) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE 1 = 1"
	var args []any
	if filter.Month != 0 {
		query += " AND month = ?"
		args = append(args, int(filter.Month))
	}
	if filter.Year != 0 {
		query += " AND year = ?"
		args = append(args, filter.Year)
	}
	if filter.HorseID != 0 {
		query += " AND horse_id = ?"
		args = append(args, filter.HorseID)
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return out, nil
}

// UpdateTransaction rewrites every stored field of the transaction.
func (s scope) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	t.UpdatedAt = time.Now()
	res, err := s.tx.ExecContext(ctx,
		`UPDATE transactions SET type = ?, concept = ?, notes = ?, total_amount = ?, horse_id = ?,
			buyer_id = ?, month = ?, year = ?, date = ?, payment_date = ?, effective_date = ?,
			applied_at = ?, updated_at = ?
		 WHERE id = ?`,
		string(t.Type), t.Concept, t.Notes, t.TotalAmount, nullID(t.HorseID), nullID(t.BuyerID),
		int(t.Period.Month), t.Period.Year, unix(t.Date), nullUnix(t.PaymentDate),
		nullUnix(t.EffectiveDate), nullUnix(t.AppliedAt), unix(t.UpdatedAt), t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return expectOne(res, "transaction", t.ID)
}

func (s scope) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.tx.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return expectOne(res, "transaction", id)
}

// ListMaturedPrizes finds PREMIO transactions that are due and not yet applied.
func (s scope) ListMaturedPrizes(ctx context.Context, cutoff time.Time) ([]int64, error) {
	rows, err := s.tx.QueryContext(ctx,
		`SELECT id FROM transactions
		 WHERE type = ? AND applied_at IS NULL AND effective_date IS NOT NULL AND effective_date <= ?
		 ORDER BY effective_date, id`,
		string(models.Prize), unix(cutoff),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matured prizes: %w", err)
	}
	return scanIDs(rows)
}

// CreatePosting records one balance movement of a transaction.
func (s scope) CreatePosting(ctx context.Context, p *models.Posting) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO postings (transaction_id, share_id, buyer_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.TransactionID, p.ShareID, p.BuyerID, p.Amount, unix(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert posting: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read posting id: %w", err)
	}
	return nil
}

func (s scope) ListPostings(ctx context.Context, transactionID int64) ([]*models.Posting, error) {
	rows, err := s.tx.QueryContext(ctx,
		`SELECT id, transaction_id, share_id, buyer_id, amount, created_at
		 FROM postings WHERE transaction_id = ? ORDER BY id`,
		transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	var out []*models.Posting
	for rows.Next() {
		p := &models.Posting{}
		var created int64
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.ShareID, &p.BuyerID, &p.Amount, &created); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		p.CreatedAt = fromUnix(created)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating postings: %w", err)
	}
	return out, nil
}

func (s scope) DeletePostings(ctx context.Context, transactionID int64) error {
	if _, err := s.tx.ExecContext(ctx, "DELETE FROM postings WHERE transaction_id = ?", transactionID); err != nil {
		return fmt.Errorf("failed to delete postings: %w", err)
	}
	return nil
}

// SetExpensePaid upserts a buyer's acknowledgement of an EGRESO.
func (s scope) SetExpensePaid(ctx context.Context, mark *models.ExpensePaidMark) error {
	if mark.UpdatedAt.IsZero() {
		mark.UpdatedAt = time.Now()
	}
	_, err := s.tx.ExecContext(ctx,
		`INSERT INTO expense_marks (transaction_id, buyer_id, paid, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (transaction_id, buyer_id) DO UPDATE SET paid = excluded.paid, updated_at = excluded.updated_at`,
		mark.TransactionID, mark.BuyerID, boolInt(mark.Paid), unix(mark.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to set expense mark: %w", err)
	}
	return nil
}

func (s scope) DeleteExpenseMarks(ctx context.Context, transactionID int64) error {
	if _, err := s.tx.ExecContext(ctx, "DELETE FROM expense_marks WHERE transaction_id = ?", transactionID); err != nil {
		return fmt.Errorf("failed to delete expense marks: %w", err)
	}
	return nil
}

func (s scope) ExpensePaid(ctx context.Context, transactionID, buyerID int64) (bool, error) {
	var paid int
	err := s.tx.QueryRowContext(ctx,
		"SELECT paid FROM expense_marks WHERE transaction_id = ? AND buyer_id = ?",
		transactionID, buyerID,
	).Scan(&paid)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read expense mark: %w", err)
	}
	return paid == 1, nil
}
