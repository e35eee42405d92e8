// Package rewrite updates entity identifier references in place after
// a successful rename.
//
// The rewriter works from the scanner's recorded paths: each reference
// is resolved against a freshly loaded document tree and the old
// identifier is replaced, either as the whole string value or as a
// maximal token inside a template string. Failures are per-document
// and never affect sibling documents; the caller decides how a partial
// rewrite is surfaced (the executor marks the owning operation
// applied-with-warnings).
package rewrite
