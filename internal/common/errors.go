// Package common defines shared constants and sentinel errors used across
// client and server layers of Tillpoint. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors: malformed input, never retried.
	ErrValidation = errors.New("validation error")

	// Conflict errors: a terminal already has an open session, or the
	// session lock could not be acquired. Never retried automatically.
	ErrConflict = errors.New("conflict")

	// Authorization errors: missing, invalid or insufficiently privileged
	// credential or supervisor token.
	ErrAuthorization = errors.New("authorization error")

	// ErrUnavailable means the backend could not be reached. This is the
	// only error class that triggers the client's durable outbox fallback.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrRejected marks a domain-level rejection of an otherwise well-formed
	// request during replay. The outbox must fail the entry immediately
	// instead of retrying.
	ErrRejected = errors.New("rejected")

	// ErrInvariantViolation signals an internal consistency failure, e.g.
	// a cash split that does not sum to the declared amount. Never
	// suppressed; the operation aborts with no partial commit.
	ErrInvariantViolation = errors.New("invariant violation")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Auth token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
