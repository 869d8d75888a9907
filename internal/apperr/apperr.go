package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch without string matching.
type Kind int

const (
	// KindUnknown is the zero value for errors that were not classified.
	KindUnknown Kind = iota
	// KindNotFound means the entity id has no record. Navigation-worthy,
	// not a crash.
	KindNotFound
	// KindValidationFailed means the caller can correct the request.
	KindValidationFailed
	// KindPermissionDenied is an access policy veto. The message must not
	// reveal anything about the resource beyond the denial.
	KindPermissionDenied
	// KindQuotaExceeded is a plan limit veto. Distinct from permission
	// denial; carries an upgrade affordance for the caller.
	KindQuotaExceeded
	// KindConstraintViolation covers uniqueness and referential failures,
	// e.g. a duplicate email.
	KindConstraintViolation
	// KindTransportUnavailable means the realtime channel is disconnected.
	KindTransportUnavailable
	// KindBackendUnavailable means the store is unreachable. Reads may be
	// retried; writes must not be blindly retried.
	KindBackendUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidationFailed:
		return "validation_failed"
	case KindPermissionDenied:
		return "permission_denied"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindConstraintViolation:
		return "constraint_violation"
	case KindTransportUnavailable:
		return "transport_unavailable"
	case KindBackendUnavailable:
		return "backend_unavailable"
	default:
		return "unknown"
	}
}

// Error carries a kind plus a caller-facing message. The wrapped cause, if
// any, is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain, KindUnknown if absent.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
