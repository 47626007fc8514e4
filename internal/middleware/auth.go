package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// OperatorIDKey holds the authenticated operator's ID.
	OperatorIDKey contextKey = "operator_id"
	// EmailKey holds the authenticated operator's email.
	EmailKey contextKey = "email"
)

// GetOperatorID returns the operator ID from ctx, or "" before authentication.
func GetOperatorID(ctx context.Context) string {
	id, _ := ctx.Value(OperatorIDKey).(string)
	return id
}

// GetEmail returns the operator email from ctx, or "".
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithOperator returns ctx carrying the operator identity.
func WithOperator(ctx context.Context, id, email string) context.Context {
	ctx = context.WithValue(ctx, OperatorIDKey, id)
	return context.WithValue(ctx, EmailKey, email)
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects calls without a valid Bearer token and puts the
// operator identity in the context of the ones that have it.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			header := req.Header().Get("Authorization")
			if header == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}
			token, ok := bearerToken(header)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			return next(WithOperator(ctx, claims.OperatorID(), claims.Email), req)
		}
	}
}

// OptionalAuth reads a valid token when present and lets every call through.
// Used on the auth service, where login happens before any token exists.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token, ok := bearerToken(req.Header().Get("Authorization")); ok {
				if claims, err := jwtManager.Validate(token); err == nil {
					ctx = WithOperator(ctx, claims.OperatorID(), claims.Email)
				}
			}
			return next(ctx, req)
		}
	}
}
