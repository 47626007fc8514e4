package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/internal/auth"
	"github.com/linqfy/horsesShit/internal/middleware"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/pkg/api"
)

// OperatorLookup loads an operator by ID. It returns nil, nil when none exists.
type OperatorLookup interface {
	Lookup(ctx context.Context, id string) (*models.Operator, error)
}

// AuthService implements the Connect AuthService.
type AuthService struct {
	authenticator auth.Authenticator
	operators     OperatorLookup
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, operators OperatorLookup, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		operators:     operators,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

func toAPIOperator(op *models.Operator) *api.Operator {
	return &api.Operator{
		ID:          op.ID,
		Email:       op.Email,
		DisplayName: op.DisplayName,
		CreatedAt:   time.Unix(op.CreatedAt, 0).UTC(),
	}
}

// Register creates another operator account. Only a logged-in operator may do
// it; the first account is created with horsectl.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	caller := middleware.GetOperatorID(ctx)
	s.logger.Info("Register request", "email", req.Msg.Email, "caller", caller)

	if caller == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	if req.Msg.Email == "" || req.Msg.DisplayName == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	op, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, errInternal)
	}

	token, err := s.jwtManager.Generate(op)
	if err != nil {
		s.logger.Error("Failed to generate token", "operator_id", op.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errInternal)
	}

	s.logger.Info("Operator registered", "operator_id", op.ID, "email", op.Email)
	return connect.NewResponse(&api.RegisterResponse{Operator: toAPIOperator(op), Token: token}), nil
}

// Login authenticates an operator and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	op, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(op)
	if err != nil {
		s.logger.Error("Failed to generate token", "operator_id", op.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errInternal)
	}

	s.logger.Info("Operator logged in", "operator_id", op.ID)
	return connect.NewResponse(&api.LoginResponse{Operator: toAPIOperator(op), Token: token}), nil
}

// Logout is a no-op: tokens are stateless and the client discards its copy.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	s.logger.Info("Logout request", "operator_id", middleware.GetOperatorID(ctx))
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetCurrentOperator returns the operator behind the request's token.
func (s *AuthService) GetCurrentOperator(ctx context.Context, req *connect.Request[api.GetCurrentOperatorRequest]) (*connect.Response[api.GetCurrentOperatorResponse], error) {
	id := middleware.GetOperatorID(ctx)
	if id == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	op, err := s.operators.Lookup(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load operator", "operator_id", id, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errInternal)
	}
	if op == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	return connect.NewResponse(&api.GetCurrentOperatorResponse{Operator: toAPIOperator(op)}), nil
}
