package executor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nerrad567/gray-logic-rename/internal/plan"
	"github.com/nerrad567/gray-logic-rename/internal/registry"
	"github.com/nerrad567/gray-logic-rename/internal/rewrite"
)

// Logger is the minimal logging interface the executor needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config holds the executor's retry policy.
type Config struct {
	// MaxAttempts is the registry attempt ceiling per operation for
	// transient failures. 1 means no retries.
	MaxAttempts int

	// BackoffInitial is the delay before the first retry; each further
	// retry doubles it up to BackoffMax.
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 4
	}
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = 250 * time.Millisecond
	}
	if c.BackoffMax < c.BackoffInitial {
		c.BackoffMax = 5 * time.Second
	}
	return c
}

// Executor applies a validated plan against the registry, strictly in
// plan order and strictly sequentially: parallel renames could race
// identifier allocation, and reordering would break the vacating
// guarantees the plan was built around.
//
// The registry's live state is the single source of truth. RenameEntity
// is an atomic check-and-act on the registry side; a precondition that
// no longer holds at execution time (old identifier gone, new one
// taken since planning) surfaces as ErrPreconditionFailed and the
// operation fails fast rather than forcing.
type Executor struct {
	client   registry.Client
	rewriter *rewrite.Rewriter
	cfg      Config
	logger   Logger
}

// New creates an executor.
func New(client registry.Client, rewriter *rewrite.Rewriter, cfg Config) *Executor {
	return &Executor{
		client:   client,
		rewriter: rewriter,
		cfg:      cfg.withDefaults(),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the executor.
func (e *Executor) SetLogger(logger Logger) {
	e.logger = logger
}

// Execute runs every operation in p, in order, and returns the report.
//
// A single operation's failure never aborts the rest of the plan. On
// cancellation, operations already applied or confirmed stay that way
// (there is no automatic rollback) and the remainder is marked
// cancelled. Plan-excluded entities appear in the report as skipped.
func (e *Executor) Execute(ctx context.Context, runID string, p *plan.Plan, mode Mode) *Report {
	report := &Report{
		RunID:        runID,
		Mode:         mode,
		StartedAt:    time.Now().UTC(),
		Counts:       map[Outcome]int{},
		DomainCounts: map[string]int{},
	}

	for _, d := range p.Diagnostics {
		report.add(OperationResult{
			StableID: d.StableID,
			OldID:    d.OldID,
			NewID:    d.NewID,
			Outcome:  OutcomeSkipped,
			Reason:   fmt.Sprintf("%s: %s", d.Code, d.Detail),
		})
	}

	cancelled := false
	for _, op := range p.Operations {
		if !cancelled && ctx.Err() != nil {
			cancelled = true
		}
		if cancelled {
			op.Status = plan.StatusCancelled
			report.add(OperationResult{
				StableID:    op.StableID,
				OldID:       op.OldID,
				NewID:       op.NewID,
				DisplayOnly: op.DisplayOnly,
				Outcome:     OutcomeCancelled,
				Reason:      "run cancelled",
			})
			continue
		}

		var result OperationResult
		if mode == ModeDryRun {
			result = e.executeDryRun(ctx, op)
		} else {
			result = e.executeApply(ctx, op)
		}
		report.add(result)

		// A cancellation that interrupted this operation also stops
		// the rest of the plan.
		if result.Outcome == OutcomeCancelled {
			cancelled = true
		}
	}

	report.CompletedAt = time.Now().UTC()
	report.finalize()
	return report
}

// executeDryRun moves an operation straight to confirmed without
// contacting the registry. Reference rewrites are computed against the
// document store but never persisted.
func (e *Executor) executeDryRun(ctx context.Context, op *plan.Operation) OperationResult {
	result := OperationResult{
		StableID:    op.StableID,
		OldID:       op.OldID,
		NewID:       op.NewID,
		DisplayOnly: op.DisplayOnly,
		Outcome:     OutcomeConfirmed,
	}

	if op.IdentifierChanged() && len(op.References) > 0 {
		rw := e.rewriter.Apply(ctx, op.OldID, op.NewID, op.References, false)
		result.Documents = rw.Rewritten
		for _, f := range rw.Failures {
			result.Warnings = append(result.Warnings, f.Error())
		}
	}

	op.Status = plan.StatusConfirmed
	return result
}

// executeApply drives one operation through the live registry:
// rename with bounded retry, then reference rewrite, then display name
// and label updates. Everything after the identifier change is
// best-effort and reported rather than rolled back - the registry
// offers no compensating rename free of new races.
func (e *Executor) executeApply(ctx context.Context, op *plan.Operation) OperationResult {
	result := OperationResult{
		StableID:    op.StableID,
		OldID:       op.OldID,
		NewID:       op.NewID,
		DisplayOnly: op.DisplayOnly,
	}

	op.Status = plan.StatusApplying

	if op.DisplayOnly {
		return e.applyDisplayOnly(ctx, op, result)
	}

	err := e.withRetry(ctx, &result, func(callCtx context.Context) error {
		return e.client.RenameEntity(callCtx, op.OldID, op.NewID)
	})
	switch {
	case err == nil:
		// Renamed; everything below is best-effort.
	case errors.Is(err, context.Canceled):
		op.Status = plan.StatusCancelled
		result.Outcome = OutcomeCancelled
		result.Reason = "run cancelled"
		return result
	default:
		op.Status = plan.StatusFailed
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		e.setLabel(ctx, op.OldID, registry.LabelNeedsReview, &result)
		e.logger.Warn("rename failed",
			"old_id", op.OldID, "new_id", op.NewID, "attempts", result.Attempts, "error", err)
		return result
	}

	op.Status = plan.StatusApplied
	e.logger.Info("entity renamed", "old_id", op.OldID, "new_id", op.NewID, "attempts", result.Attempts)

	if op.NewName != "" && op.NewName != op.OldName {
		if err := e.client.UpdateEntityName(ctx, op.NewID, op.NewName); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("display name update failed: %v", err))
		}
	}

	if len(op.References) > 0 {
		rw := e.rewriter.Apply(ctx, op.OldID, op.NewID, op.References, true)
		result.Documents = rw.Rewritten
		for _, f := range rw.Failures {
			result.Warnings = append(result.Warnings, f.Error())
		}
		if rw.Failed() {
			result.Outcome = OutcomeAppliedWithWarnings
			result.Reason = fmt.Sprintf("%d of %d referencing documents not rewritten",
				len(rw.Failures), len(rw.Failures)+len(rw.Rewritten))
			e.setLabel(ctx, op.NewID, registry.LabelNeedsReview, &result)
			return result
		}
	}

	op.Status = plan.StatusConfirmed
	result.Outcome = OutcomeConfirmed
	e.setLabel(ctx, op.NewID, registry.LabelRenamed, &result)
	return result
}

// applyDisplayOnly handles operations that change only the display
// name. The identifier never moves, so there is nothing to rewrite.
func (e *Executor) applyDisplayOnly(ctx context.Context, op *plan.Operation, result OperationResult) OperationResult {
	err := e.withRetry(ctx, &result, func(callCtx context.Context) error {
		return e.client.UpdateEntityName(callCtx, op.OldID, op.NewName)
	})
	switch {
	case err == nil:
		op.Status = plan.StatusConfirmed
		result.Outcome = OutcomeConfirmed
		e.setLabel(ctx, op.OldID, registry.LabelRenamed, &result)
	case errors.Is(err, context.Canceled):
		op.Status = plan.StatusCancelled
		result.Outcome = OutcomeCancelled
		result.Reason = "run cancelled"
	default:
		op.Status = plan.StatusFailed
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		e.setLabel(ctx, op.OldID, registry.LabelNeedsReview, &result)
	}
	return result
}

// withRetry invokes call with bounded exponential backoff on transient
// failures. Permanent failures (precondition violations, validation
// rejections) and run cancellation return immediately. The attempt
// count is recorded on the result.
func (e *Executor) withRetry(ctx context.Context, result *OperationResult, call func(context.Context) error) error {
	delay := e.cfg.BackoffInitial

	var err error
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		result.Attempts = attempt

		err = call(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return context.Canceled
		}
		if !registry.IsTransient(err) {
			return err
		}
		if attempt == e.cfg.MaxAttempts {
			break
		}

		e.logger.Debug("transient registry failure, retrying",
			"attempt", attempt, "delay", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return context.Canceled
		case <-timer.C:
		}

		delay *= 2
		if delay > e.cfg.BackoffMax {
			delay = e.cfg.BackoffMax
		}
	}

	return fmt.Errorf("retries exhausted after %d attempts: %w", e.cfg.MaxAttempts, err)
}

// setLabel updates an entity's processing label, best-effort. Label
// divergence is reported as a warning, never as an operation failure.
func (e *Executor) setLabel(ctx context.Context, entityID string, label registry.Label, result *OperationResult) {
	if err := e.client.SetLabel(ctx, entityID, label); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("label %q not set: %v", label, err))
	}
}

// add appends a result and updates aggregate counts.
func (r *Report) add(result OperationResult) {
	r.Operations = append(r.Operations, result)
	r.Counts[result.Outcome]++

	if result.Outcome != OutcomeSkipped && result.Outcome != OutcomeCancelled {
		if domain := domainOf(result.OldID); domain != "" {
			r.DomainCounts[domain]++
		}
	}
}

// finalize computes the deduplicated rewritten-document list.
func (r *Report) finalize() {
	seen := map[string]struct{}{}
	for _, op := range r.Operations {
		for _, docID := range op.Documents {
			if _, ok := seen[docID]; ok {
				continue
			}
			seen[docID] = struct{}{}
			r.DocumentsRewritten = append(r.DocumentsRewritten, docID)
		}
	}
	sort.Strings(r.DocumentsRewritten)
}
