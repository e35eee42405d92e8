package scan

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/gray-logic-rename/internal/document"
)

// Logger is the minimal logging interface the scanner needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Reference records one occurrence of an entity identifier inside a
// document, with enough path information for an in-place rewrite.
type Reference struct {
	DocumentID string
	Kind       document.Kind
	Path       document.Path
	OldID      string
}

// identifierToken matches identifier-shaped tokens: dot-separated runs
// of [a-z0-9_]. Greedy matching makes every token maximal, so
// "kitchen.light.main" never matches inside "kitchen.light.main_2" -
// the maximal token there is the longer one, which is then rejected
// against the known-identifier set.
var identifierToken = regexp.MustCompile(`[a-z0-9_]+(?:\.[a-z0-9_]+)+`)

const defaultWorkers = 4

// Scanner finds entity identifier references across the document
// corpus. It is read-only and side-effect-free: the same scanner can
// run any number of times against the same corpus.
type Scanner struct {
	store   document.Store
	workers int
	logger  Logger
}

// New creates a scanner over the given store. workers bounds the
// number of documents walked concurrently; values below one fall back
// to the default.
func New(store document.Store, workers int) *Scanner {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Scanner{store: store, workers: workers, logger: noopLogger{}}
}

// SetLogger sets the logger for the scanner.
func (s *Scanner) SetLogger(logger Logger) {
	s.logger = logger
}

// Scan walks every document of the given kinds (nil means all) and
// returns each location where one of the known identifiers occurs,
// either as a whole string value or as a maximal token inside a
// template string. The result is sorted by document, path and
// identifier for determinism.
//
// Document fetch and tree walk run on a bounded worker pool; the
// document trees themselves are only read.
func (s *Scanner) Scan(ctx context.Context, kinds []document.Kind, identifiers map[string]struct{}) ([]Reference, error) {
	if len(identifiers) == 0 {
		return nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	docs := make(chan *document.Document)
	refs := make(chan Reference, 128)

	g.Go(func() error {
		defer close(docs)
		err := s.store.ForEach(gctx, kinds, func(d *document.Document) error {
			select {
			case docs <- d:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
		if err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}
		return nil
	})

	var workerWG sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		workerWG.Add(1)
		g.Go(func() error {
			defer workerWG.Done()
			for d := range docs {
				scanDocument(d, identifiers, refs)
			}
			return nil
		})
	}

	go func() {
		workerWG.Wait()
		close(refs)
	}()

	var out []Reference
	for r := range refs {
		out = append(out, r)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DocumentID != out[j].DocumentID {
			return out[i].DocumentID < out[j].DocumentID
		}
		pi, pj := out[i].Path.String(), out[j].Path.String()
		if pi != pj {
			return pi < pj
		}
		return out[i].OldID < out[j].OldID
	})

	s.logger.Debug("scan complete", "references", len(out), "identifiers", len(identifiers))
	return out, nil
}

// scanDocument walks one document tree and emits a Reference for each
// (path, identifier) pair found. Multiple occurrences of the same
// identifier within one string value collapse into a single reference;
// the rewriter replaces all occurrences at that path.
func scanDocument(d *document.Document, identifiers map[string]struct{}, refs chan<- Reference) {
	d.Root.Walk(func(p document.Path, n *document.Node) {
		if n.Kind() != document.KindScalar {
			return
		}
		str, ok := n.ScalarValue().(string)
		if !ok || str == "" {
			return
		}

		for _, id := range matchIdentifiers(str, identifiers) {
			refs <- Reference{
				DocumentID: d.ID,
				Kind:       d.Kind,
				Path:       p.Clone(),
				OldID:      id,
			}
		}
	})
}

// matchIdentifiers returns the known identifiers present in a string
// value, deduplicated. A string equal to an identifier matches
// directly; otherwise identifier-shaped tokens are extracted on
// conservative boundaries and checked against the known set.
func matchIdentifiers(s string, identifiers map[string]struct{}) []string {
	if _, ok := identifiers[s]; ok {
		return []string{s}
	}

	var out []string
	seen := map[string]struct{}{}
	for _, token := range identifierToken.FindAllString(s, -1) {
		if _, known := identifiers[token]; !known {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}
