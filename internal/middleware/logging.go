package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that writes one record per
// RPC with the procedure, caller, duration and result code. Domain rejections
// log at Warn, internal failures at Error. It must run after the auth
// interceptor to see the principal.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("caller", callerOf(ctx, req)),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if err == nil {
				slog.LogAttrs(ctx, slog.LevelInfo, "RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeInternal
			msg := err.Error()
			var connectErr *connect.Error
			if errors.As(err, &connectErr) {
				code = connectErr.Code()
				msg = connectErr.Message()
			}
			attrs = append(attrs, slog.String("code", code.String()), slog.String("error", msg))
			slog.LogAttrs(ctx, levelFor(code), "RPC error", attrs...)
			return resp, err
		}
	}
}

// callerOf names the principal, or the peer address for anonymous calls.
func callerOf(ctx context.Context, req connect.AnyRequest) string {
	if p := GetPrincipal(ctx); p != "" {
		return p
	}
	if addr := req.Peer().Addr; addr != "" {
		return "anonymous@" + addr
	}
	return "anonymous"
}

func levelFor(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
