package naming

import "errors"

// Domain errors for the naming package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, naming.ErrNoArea) {
//	    // exclude entity from the plan, record diagnostic
//	}
var (
	// ErrNoArea is returned when no area can be resolved for an entity
	// and no override supplies one. The entity is excluded from the
	// plan; this is a diagnostic, never a crash.
	ErrNoArea = errors.New("naming: no area resolvable")

	// ErrMalformedIdentifier is returned when an entity's current
	// identifier has no domain part to carry into the canonical scheme.
	ErrMalformedIdentifier = errors.New("naming: malformed identifier")

	// ErrEmptyIdentifier is returned when derivation would produce an
	// empty identifier (all segments reduced to nothing).
	ErrEmptyIdentifier = errors.New("naming: derived identifier is empty")
)
