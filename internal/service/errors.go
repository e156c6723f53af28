// Package service implements the booking core: seat availability
// resolution, atomic seat reservation, cancellation policy enforcement and
// payment settlement.  This file defines the error taxonomy shared by the
// engines.  Every precondition failure is terminal and carries enough
// detail for the caller to act (which seat codes collided, which ticket
// IDs are ineligible); nothing is retried internally.
package service

import "errors"

// Kind classifies an engine failure.  Handlers map kinds to HTTP statuses;
// KindInternal covers unexpected persistence failures after rollback.
type Kind int

const (
	KindInternal        Kind = iota // unexpected failure, atomic unit rolled back
	KindNotFound                    // referenced entity absent
	KindInvalidArgument             // malformed or out-of-domain input
	KindInvalidState                // timing or status precondition violated
	KindForbidden                   // actor does not own the resource
	KindConflict                    // concurrent claim collision on a shared resource
)

// String names the kind for logs and responses.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidState:
		return "invalid_state"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the typed failure returned by every engine operation.  Details
// lists the offending seat codes or ticket IDs when the failure concerns
// specific entries of the request.
type Error struct {
	Kind    Kind
	Message string
	Details []string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// NotFound builds a KindNotFound error.
func NotFound(msg string, details ...string) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Details: details}
}

// InvalidArgument builds a KindInvalidArgument error.
func InvalidArgument(msg string, details ...string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: msg, Details: details}
}

// InvalidState builds a KindInvalidState error.
func InvalidState(msg string, details ...string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg, Details: details}
}

// Forbidden builds a KindForbidden error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Conflict builds a KindConflict error.
func Conflict(msg string, details ...string) *Error {
	return &Error{Kind: KindConflict, Message: msg, Details: details}
}

// KindOf extracts the Kind from an error.  Errors that are not taxonomy
// errors classify as KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// DetailsOf extracts the detail list from a taxonomy error, or nil.
func DetailsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}
