// Package service exposes the ledger over Connect RPC.
package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/circlefund/internal/middleware"
	"github.com/mmynk/circlefund/internal/models"
)

// ErrAnonymous is returned when an operation needs a caller principal and the
// request carried none.
var ErrAnonymous = errors.New("operation requires an authenticated principal")

// connectCode maps a ledger error kind onto the RPC status code.
func connectCode(err error) connect.Code {
	switch models.KindOf(err) {
	case models.KindValidation:
		return connect.CodeInvalidArgument
	case models.KindState:
		return connect.CodeFailedPrecondition
	case models.KindAuthorization:
		return connect.CodePermissionDenied
	case models.KindNotFound:
		return connect.CodeNotFound
	default:
		return connect.CodeInternal
	}
}

// toConnectError logs a failed operation and converts err into a Connect
// error. Domain rejections log at warn, everything else at error.
func toConnectError(op string, err error, attrs ...any) error {
	code := connectCode(err)
	attrs = append(attrs, "error", err)
	if code == connect.CodeInternal {
		slog.Error(op+" failed", attrs...)
	} else {
		slog.Warn(op+" failed", append(attrs, "code", models.CodeOf(err))...)
	}
	return connect.NewError(code, err)
}

// caller returns the authenticated principal of the request.
func caller(ctx context.Context) (string, error) {
	principal := middleware.GetPrincipal(ctx)
	if principal == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, ErrAnonymous)
	}
	return principal, nil
}
