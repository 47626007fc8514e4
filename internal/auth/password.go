package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/linqfy/horsesShit/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
)

// OperatorStorage is the persistence the authenticator needs. Lookups return
// nil, nil when nothing matches.
type OperatorStorage interface {
	CreateOperator(ctx context.Context, op *models.Operator) error
	GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error)
	GetOperatorByID(ctx context.Context, id string) (*models.Operator, error)
}

// PasswordAuthenticator authenticates operators with bcrypt password hashes.
type PasswordAuthenticator struct {
	storage OperatorStorage
	cost    int
}

// NewPasswordAuthenticator creates a password-based authenticator.
func NewPasswordAuthenticator(storage OperatorStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
		cost:    bcrypt.DefaultCost,
	}
}

// ValidateCredential checks the minimum password length.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates an operator with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, displayName, credential string) (*models.Operator, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := a.storage.GetOperatorByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	op := models.NewOperator(email, displayName, string(hashed))
	if err := a.storage.CreateOperator(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}
	return op, nil
}

// Authenticate verifies the email and password.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.Operator, error) {
	op, err := a.storage.GetOperatorByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || op == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return op, nil
}

// Lookup returns the operator with id, or nil when it does not exist.
func (a *PasswordAuthenticator) Lookup(ctx context.Context, id string) (*models.Operator, error) {
	return a.storage.GetOperatorByID(ctx, id)
}
