package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/internal/metrics"
)

// LoggingInterceptor logs every RPC with its procedure, operator, duration and
// error code. With m set it also records the RPC latency.
func LoggingInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			took := time.Since(start)
			// The auth interceptor runs inside this one, so the operator is only
			// known from the context it was given.
			operatorID := GetOperatorID(ctx)
			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			if m != nil {
				m.ObserveRPC(procedure, code, took)
			}

			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal {
					slog.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"operator_id", operatorID,
						"duration_ms", took.Milliseconds(),
					)
				} else {
					slog.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"operator_id", operatorID,
						"duration_ms", took.Milliseconds(),
					)
				}
				return resp, err
			}

			slog.Info("RPC ok",
				"procedure", procedure,
				"operator_id", operatorID,
				"duration_ms", took.Milliseconds(),
			)
			return resp, nil
		}
	}
}
