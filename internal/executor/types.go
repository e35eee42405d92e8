package executor

import (
	"strings"
	"time"
)

// Mode selects whether a run mutates the registry.
type Mode string

// Run modes.
const (
	// ModeDryRun computes everything but never contacts the registry
	// mutation entry points or persists document changes.
	ModeDryRun Mode = "dry-run"
	// ModeApply executes the plan against the live registry.
	ModeApply Mode = "apply"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeDryRun || m == ModeApply
}

// Outcome is the terminal result of one operation.
type Outcome string

// Operation outcomes as they appear in the execution report.
const (
	// OutcomeConfirmed: identifier changed and every reference rewritten.
	OutcomeConfirmed Outcome = "confirmed"
	// OutcomeAppliedWithWarnings: identifier changed but one or more
	// document rewrites failed. The identifier change is the durable
	// fact; stale references are listed in the warnings.
	OutcomeAppliedWithWarnings Outcome = "applied-with-warnings"
	// OutcomeFailed: the registry rejected the operation, or retries
	// were exhausted.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped: excluded from the executable plan by validation.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeCancelled: the run was cancelled before this operation ran.
	OutcomeCancelled Outcome = "cancelled"
)

// OperationResult is one entity's outcome in the report.
type OperationResult struct {
	StableID string `json:"stable_id"`
	OldID    string `json:"old_id"`
	NewID    string `json:"new_id"`

	Outcome Outcome `json:"outcome"`

	// Reason carries failure or skip detail, empty on clean success.
	Reason string `json:"reason,omitempty"`

	// Attempts counts registry calls made for this operation,
	// including retries. Zero for skipped/cancelled and dry runs.
	Attempts int `json:"attempts,omitempty"`

	// Documents lists documents rewritten for this operation.
	Documents []string `json:"documents,omitempty"`

	// Warnings lists best-effort steps that failed after the
	// identifier change succeeded (document rewrites, display name,
	// label updates).
	Warnings []string `json:"warnings,omitempty"`

	// DisplayOnly marks display-name-only operations.
	DisplayOnly bool `json:"display_only,omitempty"`
}

// Report is the sole output of a run: per-operation outcomes plus
// aggregate counts. Immutable once produced.
type Report struct {
	RunID       string    `json:"run_id"`
	Mode        Mode      `json:"mode"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	Operations []OperationResult `json:"operations"`

	// Counts aggregates operations by outcome.
	Counts map[Outcome]int `json:"counts"`

	// DomainCounts aggregates attempted operations by entity domain.
	DomainCounts map[string]int `json:"domain_counts,omitempty"`

	// DocumentsRewritten is the deduplicated list of documents touched
	// across all operations.
	DocumentsRewritten []string `json:"documents_rewritten,omitempty"`
}

// Count returns the number of operations with the given outcome.
func (r *Report) Count(o Outcome) int {
	return r.Counts[o]
}

// domainOf extracts the domain segment from an entity identifier:
// the first segment of legacy two-segment identifiers, the middle
// segment of canonical three-segment ones.
func domainOf(id string) string {
	parts := strings.Split(id, ".")
	switch len(parts) {
	case 2:
		return parts[0]
	case 3:
		return parts[1]
	default:
		return ""
	}
}
