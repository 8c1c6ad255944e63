package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/claimwise/internal/observability"
)

// toConnectError maps domain and storage errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	switch observability.ErrorKind(err) {
	case "invalid_transition":
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case "not_found":
		return connect.NewError(connect.CodeNotFound, err)
	case "duplicate_payment":
		return connect.NewError(connect.CodeAlreadyExists, err)
	case "validation":
		return connect.NewError(connect.CodeInvalidArgument, err)
	case "conflict":
		return connect.NewError(connect.CodeAborted, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fail logs a failed operation, counts it and returns the Connect error for it.
// Internal errors are logged at error level, rule violations at warn.
func fail(op string, err error, args ...any) error {
	cerr := toConnectError(err)
	if cerr.Code() == connect.CodePermissionDenied || cerr.Code() == connect.CodeUnauthenticated {
		slog.Warn(op+" denied", append(args, "error", err)...)
		return cerr
	}

	observability.LifecycleError(err)
	if cerr.Code() == connect.CodeInternal {
		slog.Error(op+" failed", append(args, "error", err)...)
	} else {
		slog.Warn(op+" rejected", append(args, "code", cerr.Code(), "error", err)...)
	}
	return cerr
}
