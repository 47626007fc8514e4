package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linqfy/horsesShit/internal/models"
)

// CreateOperator inserts a new operator account.
func (s *SQLiteStore) CreateOperator(ctx context.Context, op *models.Operator) error {
	query := `
		INSERT INTO operators (id, email, display_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		op.ID,
		op.Email,
		op.DisplayName,
		op.PasswordHash,
		op.CreatedAt,
		op.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create operator: %w", err)
	}

	return nil
}

// GetOperatorByEmail retrieves an operator by email address.
func (s *SQLiteStore) GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	return s.getOperator(ctx, "email", email)
}

// GetOperatorByID retrieves an operator by ID.
func (s *SQLiteStore) GetOperatorByID(ctx context.Context, id string) (*models.Operator, error) {
	return s.getOperator(ctx, "id", id)
}

// getOperator returns nil, nil when no operator matches.
func (s *SQLiteStore) getOperator(ctx context.Context, column, value string) (*models.Operator, error) {
	query := `
		SELECT id, email, display_name, password_hash, created_at, updated_at
		FROM operators
		WHERE ` + column + ` = ?`

	op := &models.Operator{}
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&op.ID,
		&op.Email,
		&op.DisplayName,
		&op.PasswordHash,
		&op.CreatedAt,
		&op.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Operator not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operator by %s: %w", column, err)
	}

	return op, nil
}
