package document

import "errors"

// Sentinel errors for document storage.
var (
	// ErrDocumentNotFound indicates no document exists with the given ID.
	ErrDocumentNotFound = errors.New("document: not found")

	// ErrDocumentExists indicates a document with the same ID already exists.
	ErrDocumentExists = errors.New("document: already exists")

	// ErrInvalidKind indicates an unknown document kind.
	ErrInvalidKind = errors.New("document: invalid kind")
)
