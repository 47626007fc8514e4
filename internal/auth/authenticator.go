package auth

import (
	"context"

	"github.com/linqfy/horsesShit/internal/models"
)

// Authenticator verifies operator credentials. The service layer only sees this
// interface, so another credential scheme can replace passwords later.
type Authenticator interface {
	// Register creates an operator account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.Operator, error)

	// Authenticate returns the operator when the credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.Operator, error)

	// ValidateCredential checks the credential before it is stored.
	ValidateCredential(credential string) error
}
