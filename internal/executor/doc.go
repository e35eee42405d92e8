// Package executor applies a validated rename plan against the live
// registry.
//
// Each operation moves through pending → applying → applied →
// confirmed, or fails terminally. The registry offers no multi-object
// transaction, so the executor's guarantees are deliberately narrow:
// operations run at most once per run, strictly sequentially and in
// plan order; transient registry failures are retried with bounded
// exponential backoff; a permanent failure marks that operation failed
// and the run continues. Once an identifier change has succeeded it is
// the durable fact - reference rewrites, display names and labels are
// best-effort afterthoughts that degrade an operation to
// applied-with-warnings rather than trigger a rollback.
//
// Dry-run mode produces the same report shape without ever touching a
// registry mutation entry point; document rewrites are computed but
// not persisted.
//
// Cancellation mid-run stops before the next operation: whatever was
// already applied stays applied, the remainder is reported cancelled.
package executor
