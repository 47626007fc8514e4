package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/models"
)

const buyerColumns = `id, name, email, dni, is_admin, balance, created_at, updated_at`

func scanBuyer(row rowScanner) (*models.Buyer, error) {
	b := &models.Buyer{}
	var created, updated int64
	var admin int
	if err := row.Scan(&b.ID, &b.Name, &b.Email, &b.DNI, &admin, &b.Balance, &created, &updated); err != nil {
		return nil, err
	}
	b.IsAdmin = admin == 1
	b.CreatedAt = fromUnix(created)
	b.UpdatedAt = fromUnix(updated)
	return b, nil
}

// CreateBuyer inserts a new buyer with a zero balance.
func (s scope) CreateBuyer(ctx context.Context, buyer *models.Buyer) error {
	if buyer.CreatedAt.IsZero() {
		buyer.CreatedAt = time.Now()
	}
	buyer.UpdatedAt = buyer.CreatedAt
	buyer.Balance = decimal.Zero

	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO buyers (name, email, dni, is_admin, balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		buyer.Name, buyer.Email, buyer.DNI, boolInt(buyer.IsAdmin), buyer.Balance,
		unix(buyer.CreatedAt), unix(buyer.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create buyer: %w", err)
	}
	buyer.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read buyer id: %w", err)
	}
	return nil
}

// GetBuyer retrieves a buyer by ID.
func (s scope) GetBuyer(ctx context.Context, id int64) (*models.Buyer, error) {
	b, err := scanBuyer(s.tx.QueryRowContext(ctx,
		"SELECT "+buyerColumns+" FROM buyers WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("buyer", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer: %w", err)
	}
	return b, nil
}

// GetBuyerByEmail retrieves a buyer by email address.
func (s scope) GetBuyerByEmail(ctx context.Context, email string) (*models.Buyer, error) {
	b, err := scanBuyer(s.tx.QueryRowContext(ctx,
		"SELECT "+buyerColumns+" FROM buyers WHERE email = ?", email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Buyer not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer by email: %w", err)
	}
	return b, nil
}

// ListBuyers returns all buyers ordered by name.
func (s scope) ListBuyers(ctx context.Context) ([]*models.Buyer, error) {
	rows, err := s.tx.QueryContext(ctx, "SELECT "+buyerColumns+" FROM buyers ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list buyers: %w", err)
	}
	defer rows.Close()

	var buyers []*models.Buyer
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan buyer: %w", err)
		}
		buyers = append(buyers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buyers: %w", err)
	}
	return buyers, nil
}

// UpdateBuyer writes name, email, dni and admin flag.
func (s scope) UpdateBuyer(ctx context.Context, buyer *models.Buyer) error {
	buyer.UpdatedAt = time.Now()
	res, err := s.tx.ExecContext(ctx,
		`UPDATE buyers SET name = ?, email = ?, dni = ?, is_admin = ?, updated_at = ? WHERE id = ?`,
		buyer.Name, buyer.Email, buyer.DNI, boolInt(buyer.IsAdmin), unix(buyer.UpdatedAt), buyer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update buyer: %w", err)
	}
	return expectOne(res, "buyer", buyer.ID)
}

// DeleteBuyer removes a buyer. Shares, payments and marks cascade.
func (s scope) DeleteBuyer(ctx context.Context, id int64) error {
	res, err := s.tx.ExecContext(ctx, "DELETE FROM buyers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete buyer: %w", err)
	}
	return expectOne(res, "buyer", id)
}

// AdjustBuyerBalance adds delta to the stored balance.
func (s scope) AdjustBuyerBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	var balance decimal.Decimal
	err := s.tx.QueryRowContext(ctx, "SELECT balance FROM buyers WHERE id = ?", id).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("buyer", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read buyer balance: %w", err)
	}

	_, err = s.tx.ExecContext(ctx,
		"UPDATE buyers SET balance = ?, updated_at = ? WHERE id = ?",
		balance.Add(delta), unix(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update buyer balance: %w", err)
	}
	return nil
}

// expectOne turns an update or delete that matched nothing into a NotFoundError.
func expectOne(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}
