package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-rename/internal/document"
	"github.com/nerrad567/gray-logic-rename/internal/executor"
	"github.com/nerrad567/gray-logic-rename/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-rename/internal/naming"
	"github.com/nerrad567/gray-logic-rename/internal/plan"
	"github.com/nerrad567/gray-logic-rename/internal/registry"
	"github.com/nerrad567/gray-logic-rename/internal/rewrite"
	"github.com/nerrad567/gray-logic-rename/internal/scan"
)

// Logger is the minimal logging interface the engine needs.
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

// EventPublisher announces run lifecycle events. *mqtt.Client
// satisfies it; a nil publisher disables event publishing.
type EventPublisher interface {
	PublishEntityRenamed(event mqtt.EntityRenamedEvent) error
	PublishRunCompleted(event mqtt.RunCompletedEvent) error
}

// MetricsRecorder records run outcomes for time-series analysis.
// *influxdb.Client satisfies it; a nil recorder disables metrics.
type MetricsRecorder interface {
	WriteRenameOutcome(runID, stableID, oldID, newID, outcome string, attempts int)
	WriteRunSummary(runID, mode string, counts map[string]int, duration time.Duration)
}

// Config collects the engine's run-independent settings.
type Config struct {
	// Rules parameterises identifier derivation.
	Rules naming.Rules

	// Overrides is the operator's naming override snapshot.
	Overrides naming.Overrides

	// Executor is the retry policy applied to registry calls.
	Executor executor.Config

	// ScanWorkers bounds document-scan parallelism.
	ScanWorkers int
}

// Options selects the scope and mode of one run.
type Options struct {
	// Mode is dry-run or apply.
	Mode executor.Mode

	// Area restricts the run to entities in one area (id or name).
	// Empty means all areas.
	Area string

	// Domain restricts the run to one functional domain. Empty means
	// all domains.
	Domain string

	// IncludeDisabled admits registry-disabled entities into the plan.
	IncludeDisabled bool
}

// Engine orchestrates a full rename run: snapshot, derivation, scan,
// plan, execution, persistence. Runs must not overlap; the engine
// performs no cross-run locking, so callers serialise Run invocations.
type Engine struct {
	client registry.Client
	store  document.Store
	cfg    Config

	runs      *RunRepository
	publisher EventPublisher
	metrics   MetricsRecorder
	logger    Logger
}

// New creates an engine. The run repository, event publisher and
// metrics recorder are optional and attached via the setters.
func New(client registry.Client, store document.Store, cfg Config) *Engine {
	return &Engine{
		client: client,
		store:  store,
		cfg:    cfg,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) {
	e.logger = logger
}

// SetRunRepository enables run history persistence.
func (e *Engine) SetRunRepository(runs *RunRepository) {
	e.runs = runs
}

// SetPublisher enables rename event publishing.
func (e *Engine) SetPublisher(p EventPublisher) {
	e.publisher = p
}

// SetMetrics enables outcome metrics recording.
func (e *Engine) SetMetrics(m MetricsRecorder) {
	e.metrics = m
}

// Run executes one rename run end to end and returns the report.
//
// The registry snapshot is loaded first; if the registry is
// unreachable the run aborts here, before any mutation. Derivation
// failures never abort the run - the affected entities surface in the
// report as skipped. In dry-run mode the full pipeline executes but
// neither the registry nor the document store is mutated.
func (e *Engine) Run(ctx context.Context, opts Options) (*executor.Report, error) {
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, opts.Mode)
	}

	runID := "run-" + uuid.NewString()[:8]
	e.logger.Info("run starting",
		"run_id", runID, "mode", opts.Mode, "area", opts.Area, "domain", opts.Domain)

	snapshot, err := registry.Load(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	entities := snapshot.Filter(opts.Area, opts.Domain)
	candidates, disabled, failures := e.derive(snapshot, entities)

	e.logger.Info("derivation complete",
		"run_id", runID, "entities", len(entities),
		"candidates", len(candidates), "failures", len(failures))

	scanner := scan.New(e.store, e.cfg.ScanWorkers)
	scanner.SetLogger(e.logger)
	refs, err := scanner.Scan(ctx, document.AllKinds(), snapshot.Identifiers())
	if err != nil {
		return nil, fmt.Errorf("scanning documents: %w", err)
	}

	p := plan.Build(plan.Input{
		Candidates:      candidates,
		References:      refs,
		Existing:        snapshot.Identifiers(),
		Disabled:        disabled,
		IncludeDisabled: opts.IncludeDisabled,
		Failures:        failures,
	})

	e.logger.Info("plan built",
		"run_id", runID, "operations", len(p.Operations), "excluded", len(p.Diagnostics))

	exec := executor.New(e.client, rewrite.New(e.store), e.cfg.Executor)
	exec.SetLogger(e.logger)
	report := exec.Execute(ctx, runID, p, opts.Mode)

	e.persist(ctx, report, opts)
	e.announce(report, opts)

	e.logger.Info("run complete",
		"run_id", runID,
		"confirmed", report.Count(executor.OutcomeConfirmed),
		"warnings", report.Count(executor.OutcomeAppliedWithWarnings),
		"failed", report.Count(executor.OutcomeFailed),
		"skipped", report.Count(executor.OutcomeSkipped),
		"cancelled", report.Count(executor.OutcomeCancelled))

	return report, nil
}

// derive computes candidates for the filtered entity set, collecting
// derivation failures as plan diagnostics and the disabled state the
// plan builder needs.
func (e *Engine) derive(snapshot *registry.Snapshot, entities []registry.Entity) ([]naming.CandidateRename, map[string]bool, []plan.Diagnostic) {
	deriver := naming.NewDeriver(e.cfg.Rules, e.cfg.Overrides)

	var (
		candidates []naming.CandidateRename
		failures   []plan.Diagnostic
	)
	disabled := make(map[string]bool, len(entities))

	for i := range entities {
		ent := &entities[i]
		disabled[ent.StableID] = ent.Disabled()

		candidate, err := deriver.Derive(ent, snapshot.ResolveDevice(ent), snapshot.ResolveArea(ent))
		if err != nil {
			failures = append(failures, plan.Diagnostic{
				StableID: ent.StableID,
				OldID:    ent.ID,
				Code:     plan.DiagDerivationFailed,
				Detail:   err.Error(),
			})
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, disabled, failures
}

// persist saves the run record. Persistence failure is logged, never
// fatal: the renames already happened and the report is still returned.
func (e *Engine) persist(ctx context.Context, report *executor.Report, opts Options) {
	if e.runs == nil {
		return
	}
	if err := e.runs.Save(ctx, report, opts.Area, opts.Domain); err != nil {
		e.logger.Error("saving run record failed", "run_id", report.RunID, "error", err)
	}
}

// announce publishes rename events and records metrics, best-effort.
// Dry runs announce only the run summary: no identifier actually
// moved, so per-entity events would mislead subscribers.
func (e *Engine) announce(report *executor.Report, opts Options) {
	applied := opts.Mode == executor.ModeApply

	if e.publisher != nil {
		if applied {
			for _, op := range report.Operations {
				if op.Outcome != executor.OutcomeConfirmed && op.Outcome != executor.OutcomeAppliedWithWarnings {
					continue
				}
				if op.DisplayOnly {
					continue
				}
				err := e.publisher.PublishEntityRenamed(mqtt.EntityRenamedEvent{
					StableID:  op.StableID,
					OldID:     op.OldID,
					NewID:     op.NewID,
					RunID:     report.RunID,
					Timestamp: report.CompletedAt.Format(time.RFC3339),
				})
				if err != nil {
					e.logger.Warn("publishing rename event failed",
						"run_id", report.RunID, "entity", op.NewID, "error", err)
				}
			}
		}

		counts := make(map[string]int, len(report.Counts))
		for outcome, n := range report.Counts {
			counts[string(outcome)] = n
		}
		err := e.publisher.PublishRunCompleted(mqtt.RunCompletedEvent{
			RunID:     report.RunID,
			Mode:      string(report.Mode),
			Counts:    counts,
			Timestamp: report.CompletedAt.Format(time.RFC3339),
		})
		if err != nil {
			e.logger.Warn("publishing run summary failed", "run_id", report.RunID, "error", err)
		}
	}

	if e.metrics != nil {
		if applied {
			for _, op := range report.Operations {
				if op.Outcome == executor.OutcomeSkipped {
					continue
				}
				e.metrics.WriteRenameOutcome(report.RunID, op.StableID, op.OldID, op.NewID,
					string(op.Outcome), op.Attempts)
			}
		}
		counts := make(map[string]int, len(report.Counts))
		for outcome, n := range report.Counts {
			counts[string(outcome)] = n
		}
		e.metrics.WriteRunSummary(report.RunID, string(report.Mode), counts,
			report.CompletedAt.Sub(report.StartedAt))
	}
}
