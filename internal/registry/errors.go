package registry

import (
	"context"
	"errors"
)

// Domain errors for the registry package.
//
// Client implementations must wrap their failures in one of these
// classes so the executor's retry policy can distinguish transient
// from permanent failure:
//
//	if errors.Is(err, registry.ErrTransient) {
//	    // retry with backoff
//	}
var (
	// ErrTransient classifies network and timeout failures. Operations
	// failing with this class are retried up to the configured ceiling.
	ErrTransient = errors.New("registry: transient failure")

	// ErrPreconditionFailed is returned when a rename's precondition no
	// longer holds at execution time (old identifier gone, or new
	// identifier taken since planning). Never retried.
	ErrPreconditionFailed = errors.New("registry: precondition failed")

	// ErrEntityNotFound is returned when an entity identifier does not
	// exist in the registry.
	ErrEntityNotFound = errors.New("registry: entity not found")

	// ErrIdentifierTaken is returned when the target identifier is
	// already in use.
	ErrIdentifierTaken = errors.New("registry: identifier already taken")

	// ErrUnavailable is returned when the registry cannot be reached at
	// all. At run start this is fatal; the run aborts before any
	// mutation.
	ErrUnavailable = errors.New("registry: unavailable")
)

// IsTransient reports whether an error is worth retrying. Context
// deadline expiry on a single call counts as transient; cancellation
// of the whole run does not.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded)
}
