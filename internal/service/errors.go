package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/internal/apperr"
)

var errInternal = errors.New("internal error")

// connectError maps ledger errors to Connect codes. Storage and unexpected
// errors are logged and replaced by a generic message.
func connectError(op string, err error) error {
	switch {
	case apperr.IsPermission(err):
		return connect.NewError(connect.CodePermissionDenied, err)
	case apperr.IsValidation(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case apperr.IsNotFound(err):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	slog.Error("operation failed", "op", op, "error", err)
	return connect.NewError(connect.CodeInternal, errInternal)
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, apperr.Validation(format, args...))
}
