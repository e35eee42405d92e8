// Package engine orchestrates rename runs end to end.
//
// A run is a strict pipeline: load a registry snapshot, derive
// canonical identifiers for the entities in scope, scan configuration
// documents for references to any known identifier, build a validated
// conflict-free plan, then execute it. The engine owns the sequencing
// and the run identity; the per-stage semantics live in the naming,
// scan, plan and executor packages.
//
// # Key Types
//
//   - Engine: the orchestrator; one instance serves many runs
//   - Options: per-run scope (mode, area filter, domain filter)
//   - RunRepository: SQLite-backed run history
//
// # Thread Safety
//
// An Engine is safe to share between goroutines, but runs must not
// overlap: the plan's vacating order assumes no concurrent identifier
// mutation, and the engine takes no cross-run lock. Callers serialise
// calls to Run.
//
// # Usage
//
//	eng := engine.New(client, store, engine.Config{
//		Rules:     naming.Rules{MaxIdentifierLength: 255},
//		Overrides: overrides,
//		Executor:  executor.Config{MaxAttempts: 4},
//	})
//	eng.SetRunRepository(engine.NewRunRepository(db))
//
//	report, err := eng.Run(ctx, engine.Options{Mode: executor.ModeDryRun})
package engine
