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

const installmentColumns = `id, horse_id, number, due_date, amount, month, year, created_at, updated_at`

func scanInstallment(row rowScanner) (*models.Installment, error) {
	inst := &models.Installment{}
	var due, created, updated int64
	var month int
	err := row.Scan(&inst.ID, &inst.HorseID, &inst.Number, &due, &inst.Amount, &month, &inst.Period.Year, &created, &updated)
	if err != nil {
		return nil, err
	}
	inst.DueDate = fromUnix(due)
	inst.Period.Month = time.Month(month)
	inst.CreatedAt = fromUnix(created)
	inst.UpdatedAt = fromUnix(updated)
	return inst, nil
}

func (s scope) queryInstallments(ctx context.Context, query string, args ...any) ([]*models.Installment, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	var out []*models.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installments: %w", err)
	}
	return out, nil
}

// CreateInstallment inserts an installment.
func (s scope) CreateInstallment(ctx context.Context, inst *models.Installment) error {
	now := time.Now()
	inst.CreatedAt, inst.UpdatedAt = now, now

	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO installments (horse_id, number, due_date, amount, month, year, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inst.HorseID, inst.Number, unix(inst.DueDate), inst.Amount,
		int(inst.Period.Month), inst.Period.Year, unix(now), unix(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create installment: %w", err)
	}
	inst.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read installment id: %w", err)
	}
	return nil
}

// GetInstallment retrieves an installment by ID.
func (s scope) GetInstallment(ctx context.Context, id int64) (*models.Installment, error) {
	inst, err := scanInstallment(s.tx.QueryRowContext(ctx,
		"SELECT "+installmentColumns+" FROM installments WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("installment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}
	return inst, nil
}

func (s scope) ListInstallments(ctx context.Context, horseID int64) ([]*models.Installment, error) {
	return s.queryInstallments(ctx,
		"SELECT "+installmentColumns+" FROM installments WHERE horse_id = ? ORDER BY number", horseID)
}

func (s scope) ListInstallmentsByPeriod(ctx context.Context, period models.BillingPeriod) ([]*models.Installment, error) {
	if period == (models.BillingPeriod{}) {
		return s.queryInstallments(ctx,
			"SELECT "+installmentColumns+" FROM installments ORDER BY due_date, horse_id, number")
	}
	return s.queryInstallments(ctx,
		"SELECT "+installmentColumns+" FROM installments WHERE month = ? AND year = ? ORDER BY due_date, horse_id, number",
		int(period.Month), period.Year)
}

// UpdateInstallment writes due date, amount and period.
func (s scope) UpdateInstallment(ctx context.Context, inst *models.Installment) error {
	inst.UpdatedAt = time.Now()
	res, err := s.tx.ExecContext(ctx,
		"UPDATE installments SET due_date = ?, amount = ?, month = ?, year = ?, updated_at = ? WHERE id = ?",
		unix(inst.DueDate), inst.Amount, int(inst.Period.Month), inst.Period.Year, unix(inst.UpdatedAt), inst.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update installment: %w", err)
	}
	return expectOne(res, "installment", inst.ID)
}

func (s scope) DeleteInstallment(ctx context.Context, id int64) error {
	res, err := s.tx.ExecContext(ctx, "DELETE FROM installments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete installment: %w", err)
	}
	return expectOne(res, "installment", id)
}

const shareInstallmentColumns = `si.id, si.share_id, si.installment_id, si.amount, si.amount_paid, si.status,
	si.last_payment_at, si.month, si.year, si.created_at, si.updated_at`

func scanShareInstallment(row rowScanner) (*models.ShareInstallment, error) {
	si := &models.ShareInstallment{}
	var status string
	var lastPayment sql.NullInt64
	var month int
	var created, updated int64
	err := row.Scan(&si.ID, &si.ShareID, &si.InstallmentID, &si.Amount, &si.AmountPaid, &status,
		&lastPayment, &month, &si.Period.Year, &created, &updated)
	if err != nil {
		return nil, err
	}
	si.Status = models.PaymentStatus(status)
	si.LastPaymentAt = fromNullUnix(lastPayment)
	si.Period.Month = time.Month(month)
	si.CreatedAt = fromUnix(created)
	si.UpdatedAt = fromUnix(updated)
	return si, nil
}

func (s scope) queryShareInstallments(ctx context.Context, query string, args ...any) ([]*models.ShareInstallment, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list share installments: %w", err)
	}
	defer rows.Close()

	var out []*models.ShareInstallment
	for rows.Next() {
		si, err := scanShareInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share installment: %w", err)
		}
		out = append(out, si)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating share installments: %w", err)
	}
	return out, nil
}

// CreateShareInstallment inserts a per-share row.
func (s scope) CreateShareInstallment(ctx context.Context, si *models.ShareInstallment) error {
	now := time.Now()
	si.CreatedAt, si.UpdatedAt = now, now
	if si.Status == "" {
		si.Refresh()
	}

	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO share_installments (share_id, installment_id, amount, amount_paid, status,
			last_payment_at, month, year, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		si.ShareID, si.InstallmentID, si.Amount, si.AmountPaid, string(si.Status),
		nullUnix(si.LastPaymentAt), int(si.Period.Month), si.Period.Year, unix(now), unix(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create share installment: %w", err)
	}
	si.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read share installment id: %w", err)
	}
	return nil
}

// GetShareInstallment retrieves a per-share row by ID.
func (s scope) GetShareInstallment(ctx context.Context, id int64) (*models.ShareInstallment, error) {
	si, err := scanShareInstallment(s.tx.QueryRowContext(ctx,
		"SELECT "+shareInstallmentColumns+" FROM share_installments si WHERE si.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("share installment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share installment: %w", err)
	}
	return si, nil
}

func (s scope) ListShareInstallmentsByInstallment(ctx context.Context, installmentID int64) ([]*models.ShareInstallment, error) {
	return s.queryShareInstallments(ctx,
		"SELECT "+shareInstallmentColumns+" FROM share_installments si WHERE si.installment_id = ? ORDER BY si.share_id",
		installmentID)
}

func (s scope) ListShareInstallmentsByShare(ctx context.Context, shareID int64, period models.BillingPeriod) ([]*models.ShareInstallment, error) {
	query := "SELECT " + shareInstallmentColumns + ` FROM share_installments si
		JOIN installments i ON i.id = si.installment_id
		WHERE si.share_id = ?`
	args := []any{shareID}
	if period.Month != 0 {
		query += " AND si.month = ?"
		args = append(args, int(period.Month))
	}
	if period.Year != 0 {
		query += " AND si.year = ?"
		args = append(args, period.Year)
	}
	query += " ORDER BY i.number"
	return s.queryShareInstallments(ctx, query, args...)
}

func (s scope) ListShareInstallmentsByBuyer(ctx context.Context, buyerID int64) ([]*models.ShareInstallment, error) {
	return s.queryShareInstallments(ctx,
		"SELECT "+shareInstallmentColumns+` FROM share_installments si
		 JOIN shares sh ON sh.id = si.share_id
		 JOIN installments i ON i.id = si.installment_id
		 WHERE sh.buyer_id = ?
		 ORDER BY i.due_date, si.id`,
		buyerID)
}

// UpdateShareInstallment writes amount, amount paid, status and last payment time.
func (s scope) UpdateShareInstallment(ctx context.Context, si *models.ShareInstallment) error {
	si.UpdatedAt = time.Now()
	res, err := s.tx.ExecContext(ctx,
		`UPDATE share_installments SET amount = ?, amount_paid = ?, status = ?, last_payment_at = ?,
			month = ?, year = ?, updated_at = ?
		 WHERE id = ?`,
		si.Amount, si.AmountPaid, string(si.Status), nullUnix(si.LastPaymentAt),
		int(si.Period.Month), si.Period.Year, unix(si.UpdatedAt), si.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update share installment: %w", err)
	}
	return expectOne(res, "share installment", si.ID)
}

func (s scope) DeleteShareInstallment(ctx context.Context, id int64) error {
	res, err := s.tx.ExecContext(ctx, "DELETE FROM share_installments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete share installment: %w", err)
	}
	return expectOne(res, "share installment", id)
}

// ListOverdueCandidates finds PENDING rows whose installment is already due.
func (s scope) ListOverdueCandidates(ctx context.Context, now time.Time) ([]int64, error) {
	rows, err := s.tx.QueryContext(ctx,
		`SELECT si.id FROM share_installments si
		 JOIN installments i ON i.id = si.installment_id
		 WHERE si.status = ? AND i.due_date < ?
		 ORDER BY si.id`,
		string(models.StatusPending), unix(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue candidates: %w", err)
	}
	return scanIDs(rows)
}

// scanIDs drains a single-column ID result set and closes it.
func scanIDs(rows *sql.Rows) ([]int64, error) {
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ids: %w", err)
	}
	return ids, nil
}
