// Package payerr classifies settlement failures so that callers can branch on
// failure class without string matching. The gRPC layer maps kinds to status
// codes; everything below it deals in kinds.
package payerr

import (
	"errors"
	"fmt"
)

// Kind is the failure class of a settlement error.
type Kind int

const (
	// Internal is the zero value: an unclassified failure.
	Internal Kind = iota
	// BadRequest marks malformed input, such as an invalid payment method id.
	BadRequest
	// Unauthorized marks a missing or invalid caller identity.
	Unauthorized
	// Forbidden marks an ownership or role violation.
	Forbidden
	// NotFound marks a missing project, user, account or intent.
	NotFound
	// Conflict marks an invariant violation: a duplicate active intent,
	// cancelling a captured intent, or a second transfer for a project.
	Conflict
	// Provider marks a gateway rejection that reflects real-world state,
	// such as a declined card. Not retried automatically.
	Provider
	// Unavailable marks a transient network or gateway failure. The whole
	// step is safe to retry because steps are idempotent at the state level.
	Unavailable
	// Propagation marks a committed local mutation whose event publish
	// failed. The outbox relay retries delivery; the mutation is never
	// rolled back.
	Propagation
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Provider:
		return "provider"
	case Unavailable:
		return "unavailable"
	case Propagation:
		return "propagation"
	default:
		return "internal"
	}
}

// Error is a classified settlement error.
type Error struct {
	kind Kind
	msg  string
	err  error
}

// E creates an error of the given kind with a formatted message.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a kind and message. The wrapped error remains
// reachable through errors.Is / errors.As.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), err: err}
}

// Kind returns the failure class.
func (e *Error) Kind() Kind {
	return e.kind
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// KindOf walks the error chain and returns the kind of the outermost
// classified error, or Internal if none is found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
