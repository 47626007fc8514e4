package models

import (
	"time"

	"github.com/google/uuid"
)

// Operator is an account allowed to call the API.
//
// Operators are not buyers: they manage the ledger on behalf of the owners.
type Operator struct {
	// ID is the unique identifier for the operator (UUID format).
	ID string

	// Email is the login name (unique).
	Email string

	// DisplayName is shown in the UI.
	DisplayName string

	// PasswordHash is the bcrypt hash of the operator's password.
	PasswordHash string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewOperator builds an operator with a fresh ID and timestamps.
func NewOperator(email, displayName, passwordHash string) *Operator {
	now := time.Now().Unix()
	return &Operator{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
