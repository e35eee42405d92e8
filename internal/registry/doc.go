// Package registry models the external entity registry: entities,
// devices, areas and labels, the narrow Client contract used to reach
// it, and a point-in-time Snapshot taken at the start of each run.
//
// The registry is the external service of record. This package never
// holds a live mutable reference to it; the engine works from a read
// snapshot plus explicit write intents, and every mutation re-validates
// its precondition against fresh registry state immediately before
// acting (optimistic concurrency).
//
// # Error classification
//
// Client implementations must wrap failures so callers can classify
// them with errors.Is:
//
//   - ErrTransient: network/timeout class, retried by the executor
//   - ErrPreconditionFailed: registry state diverged since planning
//   - ErrUnavailable: registry unreachable, fatal at run start
package registry
