// Package plan validates derived renames into an ordered, executable
// plan.
//
// The builder applies four exclusion rules, each of which produces a
// diagnostic for the affected entity instead of failing the run:
// identifier collisions between candidates, targets already occupied
// in the registry, rename cycles with no valid execution order, and
// disabled entities (unless explicitly included). What survives is
// topologically ordered so that a rename always runs after the rename
// that vacates its target identifier, with ties broken by ascending
// old identifier for deterministic plans.
//
// A Plan is built fresh from one registry snapshot and discarded after
// execution; it is never reused across runs.
package plan
