package grpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/workhub/settlement/internal/domain/payerr"
)

// statusFromError translates a settlement error into a gRPC status. Internal
// details are not exposed to callers; domain failures keep their message.
func statusFromError(err error) error {
	kind := payerr.KindOf(err)
	switch kind {
	case payerr.BadRequest:
		return status.Error(codes.InvalidArgument, err.Error())
	case payerr.Unauthorized:
		return status.Error(codes.Unauthenticated, "authentication required")
	case payerr.Forbidden:
		return status.Error(codes.PermissionDenied, "insufficient permissions")
	case payerr.NotFound:
		return status.Error(codes.NotFound, err.Error())
	case payerr.Conflict:
		return status.Error(codes.Aborted, err.Error())
	case payerr.Provider:
		return status.Error(codes.FailedPrecondition, err.Error())
	case payerr.Unavailable:
		return status.Error(codes.Unavailable, "a downstream dependency is unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
