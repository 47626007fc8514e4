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

const horseColumns = `id, name, information, image_url, total_value, installment_count,
	billing_start_month, billing_start_year, archived, created_at, updated_at`

func scanHorse(row rowScanner) (*models.Horse, error) {
	h := &models.Horse{}
	var month, archived int
	var created, updated int64
	err := row.Scan(&h.ID, &h.Name, &h.Information, &h.ImageURL, &h.TotalValue, &h.InstallmentCount,
		&month, &h.BillingStart.Year, &archived, &created, &updated)
	if err != nil {
		return nil, err
	}
	h.BillingStart.Month = time.Month(month)
	h.Archived = archived == 1
	h.CreatedAt = fromUnix(created)
	h.UpdatedAt = fromUnix(updated)
	return h, nil
}

// CreateHorse inserts a horse. CreatedAt is kept when set by the caller since
// it anchors the due day of the schedule.
func (s scope) CreateHorse(ctx context.Context, horse *models.Horse) error {
	if horse.CreatedAt.IsZero() {
		horse.CreatedAt = time.Now()
	}
	horse.UpdatedAt = horse.CreatedAt

	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO horses (name, information, image_url, total_value, installment_count,
			billing_start_month, billing_start_year, archived, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		horse.Name, horse.Information, horse.ImageURL, horse.TotalValue, horse.InstallmentCount,
		int(horse.BillingStart.Month), horse.BillingStart.Year, boolInt(horse.Archived),
		unix(horse.CreatedAt), unix(horse.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create horse: %w", err)
	}
	horse.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read horse id: %w", err)
	}
	return nil
}

// GetHorse retrieves a horse by ID.
func (s scope) GetHorse(ctx context.Context, id int64) (*models.Horse, error) {
	h, err := scanHorse(s.tx.QueryRowContext(ctx,
		"SELECT "+horseColumns+" FROM horses WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("horse", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get horse: %w", err)
	}
	return h, nil
}

// ListHorses returns horses ordered by ID.
func (s scope) ListHorses(ctx context.Context, includeArchived bool) ([]*models.Horse, error) {
	query := "SELECT " + horseColumns + " FROM horses"
	if !includeArchived {
		query += " WHERE archived = 0"
	}
	query += " ORDER BY id"

	rows, err := s.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list horses: %w", err)
	}
	defer rows.Close()

	var horses []*models.Horse
	for rows.Next() {
		h, err := scanHorse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan horse: %w", err)
		}
		horses = append(horses, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating horses: %w", err)
	}
	return horses, nil
}

// UpdateHorse writes every mutable field of the horse.
func (s scope) UpdateHorse(ctx context.Context, horse *models.Horse) error {
	horse.UpdatedAt = time.Now()
	res, err := s.tx.ExecContext(ctx,
		`UPDATE horses SET name = ?, information = ?, image_url = ?, total_value = ?,
			installment_count = ?, billing_start_month = ?, billing_start_year = ?,
			archived = ?, updated_at = ?
		 WHERE id = ?`,
		horse.Name, horse.Information, horse.ImageURL, horse.TotalValue, horse.InstallmentCount,
		int(horse.BillingStart.Month), horse.BillingStart.Year, boolInt(horse.Archived),
		unix(horse.UpdatedAt), horse.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update horse: %w", err)
	}
	return expectOne(res, "horse", horse.ID)
}

// DeleteHorse removes a horse. Its shares, schedule, payments and transactions cascade.
func (s scope) DeleteHorse(ctx context.Context, id int64) error {
	res, err := s.tx.ExecContext(ctx, "DELETE FROM horses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete horse: %w", err)
	}
	return expectOne(res, "horse", id)
}
