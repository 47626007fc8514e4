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

const shareColumns = `id, horse_id, buyer_id, percentage, active, balance, joined_at, updated_at`

func scanShare(row rowScanner) (*models.Share, error) {
	sh := &models.Share{}
	var active int
	var joined, updated int64
	if err := row.Scan(&sh.ID, &sh.HorseID, &sh.BuyerID, &sh.Percentage, &active, &sh.Balance, &joined, &updated); err != nil {
		return nil, err
	}
	sh.Active = active == 1
	sh.JoinedAt = fromUnix(joined)
	sh.UpdatedAt = fromUnix(updated)
	return sh, nil
}

func (s scope) queryShares(ctx context.Context, query string, args ...any) ([]*models.Share, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var shares []*models.Share
	for rows.Next() {
		sh, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shares: %w", err)
	}
	return shares, nil
}

// CreateShare inserts a share with a zero balance.
func (s scope) CreateShare(ctx context.Context, share *models.Share) error {
	if share.JoinedAt.IsZero() {
		share.JoinedAt = time.Now()
	}
	share.UpdatedAt = share.JoinedAt
	share.Balance = decimal.Zero

	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO shares (horse_id, buyer_id, percentage, active, balance, joined_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		share.HorseID, share.BuyerID, share.Percentage, boolInt(share.Active), share.Balance,
		unix(share.JoinedAt), unix(share.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create share: %w", err)
	}
	share.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read share id: %w", err)
	}
	return nil
}

// GetShare retrieves a share by ID.
func (s scope) GetShare(ctx context.Context, id int64) (*models.Share, error) {
	sh, err := scanShare(s.tx.QueryRowContext(ctx,
		"SELECT "+shareColumns+" FROM shares WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("share", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return sh, nil
}

// FindShare looks up the share of a buyer in a horse.
func (s scope) FindShare(ctx context.Context, horseID, buyerID int64) (*models.Share, error) {
	sh, err := scanShare(s.tx.QueryRowContext(ctx,
		"SELECT "+shareColumns+" FROM shares WHERE horse_id = ? AND buyer_id = ?", horseID, buyerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find share: %w", err)
	}
	return sh, nil
}

func (s scope) ListShares(ctx context.Context, horseID int64) ([]*models.Share, error) {
	return s.queryShares(ctx, "SELECT "+shareColumns+" FROM shares WHERE horse_id = ? ORDER BY id", horseID)
}

func (s scope) ListActiveShares(ctx context.Context, horseID int64) ([]*models.Share, error) {
	return s.queryShares(ctx, "SELECT "+shareColumns+" FROM shares WHERE horse_id = ? AND active = 1 ORDER BY id", horseID)
}

func (s scope) ListSharesByBuyer(ctx context.Context, buyerID int64) ([]*models.Share, error) {
	return s.queryShares(ctx, "SELECT "+shareColumns+" FROM shares WHERE buyer_id = ? ORDER BY horse_id", buyerID)
}

// UpdateShare writes percentage and active flag.
func (s scope) UpdateShare(ctx context.Context, share *models.Share) error {
	share.UpdatedAt = time.Now()
	res, err := s.tx.ExecContext(ctx,
		"UPDATE shares SET percentage = ?, active = ?, updated_at = ? WHERE id = ?",
		share.Percentage, boolInt(share.Active), unix(share.UpdatedAt), share.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update share: %w", err)
	}
	return expectOne(res, "share", share.ID)
}

// AdjustShareBalance adds delta to the stored share balance.
func (s scope) AdjustShareBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	var balance decimal.Decimal
	err := s.tx.QueryRowContext(ctx, "SELECT balance FROM shares WHERE id = ?", id).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("share", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read share balance: %w", err)
	}

	_, err = s.tx.ExecContext(ctx,
		"UPDATE shares SET balance = ?, updated_at = ? WHERE id = ?",
		balance.Add(delta), unix(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update share balance: %w", err)
	}
	return nil
}
