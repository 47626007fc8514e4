package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage/sqlite"
)

func newAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	a := NewPasswordAuthenticator(store)
	a.cost = bcrypt.MinCost
	return a
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newAuthenticator(t)

	op, err := a.Register(ctx, " Admin@Example.com ", "Admin", "caballo123")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", op.Email)
	assert.NotEqual(t, "caballo123", op.PasswordHash)

	_, err = a.Register(ctx, "admin@example.com", "Again", "caballo123")
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = a.Register(ctx, "short@example.com", "Short", "corto")
	assert.ErrorIs(t, err, ErrWeakPassword)

	got, err := a.Authenticate(ctx, "ADMIN@example.com", "caballo123")
	require.NoError(t, err)
	assert.Equal(t, op.ID, got.ID)

	_, err = a.Authenticate(ctx, "admin@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = a.Authenticate(ctx, "nobody@example.com", "caballo123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	found, err := a.Lookup(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", found.DisplayName)
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	op := models.NewOperator("admin@example.com", "Admin", "hash")

	token, err := m.Generate(op)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, op.ID, claims.OperatorID())
	assert.Equal(t, op.Email, claims.Email)

	_, err = NewJWTManager("other-secret", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewJWTManager("test-secret", -time.Minute).Generate(op)
	require.NoError(t, err)
	_, err = m.Validate(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	later := NewJWTManager("test-secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer: issuer, Subject: op.ID, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
