package rewrite

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/nerrad567/gray-logic-rename/internal/document"
	"github.com/nerrad567/gray-logic-rename/internal/scan"
)

// ErrRewrite indicates a document could not be updated after its
// entity's rename already succeeded.
var ErrRewrite = errors.New("rewrite: document update failed")

// identifierToken matches maximal identifier-shaped tokens, mirroring
// the scanner's boundary rule so a rewrite touches exactly what the
// scan matched.
var identifierToken = regexp.MustCompile(`[a-z0-9_]+(?:\.[a-z0-9_]+)+`)

// DocumentError records a per-document rewrite failure. Failures are
// isolated: one broken document never affects its siblings.
type DocumentError struct {
	DocumentID string
	Err        error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("rewrite: document %s: %v", e.DocumentID, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Result reports one rename's rewrite outcome across its referencing
// documents.
type Result struct {
	// Rewritten lists documents whose references were updated (and
	// persisted, unless the run was a dry run).
	Rewritten []string

	// Failures lists documents that could not be updated.
	Failures []DocumentError
}

// Failed reports whether any document update failed.
func (r Result) Failed() bool { return len(r.Failures) > 0 }

// Rewriter replaces entity identifiers in place at the locations the
// scanner recorded.
type Rewriter struct {
	store document.Store
}

// New creates a rewriter over the given store.
func New(store document.Store) *Rewriter {
	return &Rewriter{store: store}
}

// Apply rewrites every reference to oldID with newID. References are
// grouped per document; each document is fetched fresh, patched at the
// recorded paths and written back. With persist false the patch is
// computed but not written, for dry runs.
//
// Apply is idempotent: a reference whose location no longer holds
// oldID is skipped, so re-running against an already rewritten
// document changes nothing.
func (w *Rewriter) Apply(ctx context.Context, oldID, newID string, refs []scan.Reference, persist bool) Result {
	var result Result

	for _, docID := range documentOrder(refs) {
		changed, err := w.applyDocument(ctx, docID, oldID, newID, refs, persist)
		if err != nil {
			result.Failures = append(result.Failures, DocumentError{
				DocumentID: docID,
				Err:        err,
			})
			continue
		}
		if changed {
			result.Rewritten = append(result.Rewritten, docID)
		}
	}
	return result
}

func (w *Rewriter) applyDocument(ctx context.Context, docID, oldID, newID string, refs []scan.Reference, persist bool) (bool, error) {
	doc, err := w.store.Get(ctx, docID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRewrite, err)
	}

	changed := false
	for _, ref := range refs {
		if ref.DocumentID != docID || ref.OldID != oldID {
			continue
		}
		if rewriteAt(doc.Root, ref.Path, oldID, newID) {
			changed = true
		}
	}
	if !changed {
		return false, nil
	}

	if persist {
		if err := w.store.Write(ctx, doc); err != nil {
			return false, fmt.Errorf("%w: %v", ErrRewrite, err)
		}
	}
	return true, nil
}

// rewriteAt replaces oldID with newID in the string value addressed by
// path. Whole-value matches are swapped directly; otherwise maximal
// identifier tokens equal to oldID are replaced, leaving surrounding
// template syntax intact.
func rewriteAt(root *document.Node, path document.Path, oldID, newID string) bool {
	node, ok := root.Lookup(path)
	if !ok || node.Kind() != document.KindScalar {
		return false
	}
	str, ok := node.ScalarValue().(string)
	if !ok {
		return false
	}

	if str == oldID {
		node.SetScalarValue(newID)
		return true
	}

	replaced := identifierToken.ReplaceAllStringFunc(str, func(token string) string {
		if token == oldID {
			return newID
		}
		return token
	})
	if replaced == str {
		return false
	}
	node.SetScalarValue(replaced)
	return true
}

func documentOrder(refs []scan.Reference) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range refs {
		if _, ok := seen[r.DocumentID]; ok {
			continue
		}
		seen[r.DocumentID] = struct{}{}
		out = append(out, r.DocumentID)
	}
	sort.Strings(out)
	return out
}
