package engine

import "errors"

var (
	// ErrInvalidMode indicates an unrecognised run mode.
	ErrInvalidMode = errors.New("engine: invalid run mode")

	// ErrRunNotFound indicates the requested run id has no record.
	ErrRunNotFound = errors.New("engine: run not found")

	// ErrRegistryUnavailable indicates the registry snapshot could not
	// be loaded; the run was aborted before any mutation.
	ErrRegistryUnavailable = errors.New("engine: registry unavailable")
)
