// Package scan finds entity identifier references across the
// configuration document corpus.
//
// The scanner performs a structural walk over each document's value
// tree, matching string values that equal a known entity identifier
// and identifiers embedded in template strings on conservative token
// boundaries. Each match is recorded with the document id and the
// node path, so the rewriter can later change it in place without
// searching again.
//
// Scanning is read-only and restartable. Documents are fetched and
// walked by a bounded worker pool; because nothing shared is mutated,
// no locking is needed beyond the channel plumbing.
package scan
