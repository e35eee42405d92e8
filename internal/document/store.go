package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store is the document corpus contract consumed by the scanner and
// rewriter. Listing is lazy: documents are decoded one at a time and
// handed to the callback, so the corpus size never bounds memory.
type Store interface {
	// ForEach streams every document of the given kinds to fn in a
	// stable order. A nil kinds slice means all kinds. Returning an
	// error from fn stops the iteration and propagates the error.
	ForEach(ctx context.Context, kinds []Kind, fn func(*Document) error) error

	// Get retrieves a single document by ID.
	Get(ctx context.Context, id string) (*Document, error)

	// Write persists a document's current tree, replacing the stored
	// content.
	Write(ctx context.Context, doc *Document) error
}

// documentColumns is the SELECT column list for document queries.
const documentColumns = `id, kind, name, content, created_at, updated_at`

// SQLiteStore implements Store using SQLite. Document trees are
// stored as a JSON content column.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed document store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ForEach streams documents of the given kinds, ordered by kind then
// name for deterministic scans.
func (s *SQLiteStore) ForEach(ctx context.Context, kinds []Kind, fn func(*Document) error) error {
	query := `SELECT ` + documentColumns + ` FROM documents`
	var args []any
	if len(kinds) > 0 {
		placeholders := make([]string, len(kinds))
		for i, k := range kinds {
			placeholders[i] = "?"
			args = append(args, string(k))
		}
		query += ` WHERE kind IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY kind, name, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		doc, scanErr := scanDocument(rows)
		if scanErr != nil {
			return fmt.Errorf("scanning document: %w", scanErr)
		}
		if cbErr := fn(doc); cbErr != nil {
			return cbErr
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating documents: %w", err)
	}
	return nil
}

// Get retrieves a document by its unique identifier.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)
	doc, err := scanDocumentRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("querying document by id: %w", err)
	}
	return doc, nil
}

// Create inserts a new document.
func (s *SQLiteStore) Create(ctx context.Context, doc *Document) error {
	if !doc.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, doc.Kind)
	}

	contentJSON, err := json.Marshal(doc.Root.ToAny())
	if err != nil {
		return fmt.Errorf("marshalling content: %w", err)
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	query := `
		INSERT INTO documents (id, kind, name, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		string(doc.Kind),
		doc.Name,
		string(contentJSON),
		doc.CreatedAt.Format(time.RFC3339),
		doc.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDocumentExists
		}
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// Write replaces a stored document's content with the tree currently
// held by doc.Root.
func (s *SQLiteStore) Write(ctx context.Context, doc *Document) error {
	contentJSON, err := json.Marshal(doc.Root.ToAny())
	if err != nil {
		return fmt.Errorf("marshalling content: %w", err)
	}

	doc.UpdatedAt = time.Now().UTC()

	query := `UPDATE documents SET content = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		string(contentJSON),
		doc.UpdatedAt.Format(time.RFC3339),
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("updating document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// Delete removes a document by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// ─── Row Scanning Helpers ───────────────────────────────────────────────────

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(rows *sql.Rows) (*Document, error) {
	return scanDocumentScanner(rows)
}

func scanDocumentRow(row *sql.Row) (*Document, error) {
	return scanDocumentScanner(row)
}

func scanDocumentScanner(scanner rowScanner) (*Document, error) {
	var d Document
	var kind, content string
	var createdAt, updatedAt string

	err := scanner.Scan(&d.ID, &kind, &d.Name, &content, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	d.Kind = Kind(kind)

	var decoded any
	if content != "" {
		if jsonErr := json.Unmarshal([]byte(content), &decoded); jsonErr != nil {
			return nil, fmt.Errorf("unmarshalling content: %w", jsonErr)
		}
	}
	d.Root = FromAny(decoded)

	if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
		d.CreatedAt = t
	}
	if t, parseErr := time.Parse(time.RFC3339, updatedAt); parseErr == nil {
		d.UpdatedAt = t
	}

	return &d, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
