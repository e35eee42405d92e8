package plan

import (
	"github.com/nerrad567/gray-logic-rename/internal/naming"
	"github.com/nerrad567/gray-logic-rename/internal/scan"
)

// Status tracks an operation through execution.
type Status string

// Operation lifecycle states. The success path is
// pending → applying → applied → confirmed; failures are terminal.
const (
	StatusPending   Status = "pending"
	StatusApplying  Status = "applying"
	StatusApplied   Status = "applied"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Operation is one entity's transition from old to new identifier,
// together with the document references that must be rewritten when
// it succeeds.
type Operation struct {
	StableID string
	OldID    string
	NewID    string
	OldName  string
	NewName  string
	Trace    naming.Trace

	// References are the document locations holding OldID.
	References []scan.Reference

	// DisplayOnly marks operations that change the display name while
	// keeping the identifier. They never vacate or occupy identifiers
	// and need no reference rewriting.
	DisplayOnly bool

	Status Status
}

// IdentifierChanged reports whether executing the operation moves the
// entity to a new identifier.
func (o *Operation) IdentifierChanged() bool {
	return !o.DisplayOnly && o.OldID != o.NewID
}

// DiagnosticCode classifies why an entity was excluded from the
// executable plan.
type DiagnosticCode string

// Exclusion reasons. Each excludes the affected entity without
// aborting the run.
const (
	// DiagNameCollision: two candidates derive the same new identifier.
	DiagNameCollision DiagnosticCode = "name-collision"
	// DiagTargetOccupied: the new identifier exists in the registry and
	// is not being vacated by another planned operation.
	DiagTargetOccupied DiagnosticCode = "target-occupied"
	// DiagCyclicRename: the operation is part of a rename cycle with no
	// valid execution order.
	DiagCyclicRename DiagnosticCode = "cyclic-rename"
	// DiagDerivationFailed: no canonical identifier could be derived.
	DiagDerivationFailed DiagnosticCode = "derivation-failed"
	// DiagDisabled: the entity is disabled in the registry.
	DiagDisabled DiagnosticCode = "disabled"
)

// Diagnostic records one excluded entity and the reason.
type Diagnostic struct {
	StableID string
	OldID    string
	NewID    string
	Code     DiagnosticCode
	Detail   string
}

// Plan is an ordered, validated set of rename operations plus the
// diagnostics for everything that was excluded. Plans are built fresh
// per run and discarded after execution.
type Plan struct {
	// Operations in execution order: any rename whose new identifier
	// equals another operation's old identifier runs after that
	// operation vacates it.
	Operations []*Operation

	Diagnostics []Diagnostic
}

// Operation looks up an operation by entity stable id.
func (p *Plan) Operation(stableID string) *Operation {
	for _, op := range p.Operations {
		if op.StableID == stableID {
			return op
		}
	}
	return nil
}
