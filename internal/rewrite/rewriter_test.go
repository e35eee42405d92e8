package rewrite

import (
	"context"
	"errors"
	"testing"

	"github.com/nerrad567/gray-logic-rename/internal/document"
	"github.com/nerrad567/gray-logic-rename/internal/scan"
)

// fakeStore holds documents in memory and can fail writes selectively.
type fakeStore struct {
	docs     map[string]*document.Document
	writes   []string
	failDocs map[string]error
}

func newFakeStore(docs ...*document.Document) *fakeStore {
	s := &fakeStore{docs: map[string]*document.Document{}, failDocs: map[string]error{}}
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return s
}

func (s *fakeStore) ForEach(ctx context.Context, kinds []document.Kind, fn func(*document.Document) error) error {
	for _, d := range s.docs {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) Get(ctx context.Context, id string) (*document.Document, error) {
	d, ok := s.docs[id]
	if !ok {
		return nil, document.ErrDocumentNotFound
	}
	return d, nil
}

func (s *fakeStore) Write(ctx context.Context, doc *document.Document) error {
	if err := s.failDocs[doc.ID]; err != nil {
		return err
	}
	s.writes = append(s.writes, doc.ID)
	s.docs[doc.ID] = doc
	return nil
}

func autoDoc(id string, content map[string]any) *document.Document {
	return &document.Document{ID: id, Kind: document.KindAutomation, Name: id, Root: document.FromAny(content)}
}

func ref(docID string, path document.Path, oldID string) scan.Reference {
	return scan.Reference{DocumentID: docID, Kind: document.KindAutomation, Path: path, OldID: oldID}
}

func scalarAt(t *testing.T, d *document.Document, path document.Path) string {
	t.Helper()
	n, ok := d.Root.Lookup(path)
	if !ok {
		t.Fatalf("path %s not found", path)
	}
	str, _ := n.ScalarValue().(string)
	return str
}

func TestApplyWholeValue(t *testing.T) {
	store := newFakeStore(autoDoc("auto-1", map[string]any{
		"trigger": map[string]any{"entity_id": "light.kitchen"},
	}))
	path := document.Path{document.FieldStep("trigger"), document.FieldStep("entity_id")}

	result := New(store).Apply(context.Background(), "light.kitchen", "kitchen.light.main",
		[]scan.Reference{ref("auto-1", path, "light.kitchen")}, true)

	if result.Failed() {
		t.Fatalf("Failures = %+v", result.Failures)
	}
	if len(result.Rewritten) != 1 || result.Rewritten[0] != "auto-1" {
		t.Errorf("Rewritten = %v, want [auto-1]", result.Rewritten)
	}
	if got := scalarAt(t, store.docs["auto-1"], path); got != "kitchen.light.main" {
		t.Errorf("value = %q, want kitchen.light.main", got)
	}
}

func TestApplyTemplateToken(t *testing.T) {
	store := newFakeStore(autoDoc("auto-1", map[string]any{
		"condition": "{{ states('light.kitchen') == 'on' and states('light.kitchen_2') }}",
	}))
	path := document.Path{document.FieldStep("condition")}

	result := New(store).Apply(context.Background(), "light.kitchen", "kitchen.light.main",
		[]scan.Reference{ref("auto-1", path, "light.kitchen")}, true)

	if result.Failed() {
		t.Fatalf("Failures = %+v", result.Failures)
	}
	want := "{{ states('kitchen.light.main') == 'on' and states('light.kitchen_2') }}"
	if got := scalarAt(t, store.docs["auto-1"], path); got != want {
		t.Errorf("value = %q, want %q", got, want)
	}
}

func TestApplyDryRunDoesNotPersist(t *testing.T) {
	store := newFakeStore(autoDoc("auto-1", map[string]any{"entity_id": "light.hall"}))
	path := document.Path{document.FieldStep("entity_id")}

	result := New(store).Apply(context.Background(), "light.hall", "hall.light.main",
		[]scan.Reference{ref("auto-1", path, "light.hall")}, false)

	if result.Failed() {
		t.Fatalf("Failures = %+v", result.Failures)
	}
	if len(result.Rewritten) != 1 {
		t.Errorf("Rewritten = %v, want the change computed", result.Rewritten)
	}
	if len(store.writes) != 0 {
		t.Errorf("writes = %v, want none in dry run", store.writes)
	}
}

func TestApplyIsolatesDocumentFailures(t *testing.T) {
	store := newFakeStore(
		autoDoc("auto-1", map[string]any{"entity_id": "light.hall"}),
		autoDoc("auto-2", map[string]any{"entity_id": "light.hall"}),
		autoDoc("auto-3", map[string]any{"entity_id": "light.hall"}),
	)
	store.failDocs["auto-2"] = errors.New("disk full")
	path := document.Path{document.FieldStep("entity_id")}

	result := New(store).Apply(context.Background(), "light.hall", "hall.light.main",
		[]scan.Reference{
			ref("auto-1", path, "light.hall"),
			ref("auto-2", path, "light.hall"),
			ref("auto-3", path, "light.hall"),
		}, true)

	if len(result.Rewritten) != 2 {
		t.Errorf("Rewritten = %v, want auto-1 and auto-3", result.Rewritten)
	}
	if len(result.Failures) != 1 || result.Failures[0].DocumentID != "auto-2" {
		t.Fatalf("Failures = %+v, want one for auto-2", result.Failures)
	}
	if !errors.Is(&result.Failures[0], ErrRewrite) {
		t.Errorf("failure does not wrap ErrRewrite: %v", result.Failures[0])
	}
}

func TestApplyIdempotent(t *testing.T) {
	store := newFakeStore(autoDoc("auto-1", map[string]any{"entity_id": "light.hall"}))
	path := document.Path{document.FieldStep("entity_id")}
	refs := []scan.Reference{ref("auto-1", path, "light.hall")}

	w := New(store)
	first := w.Apply(context.Background(), "light.hall", "hall.light.main", refs, true)
	if len(first.Rewritten) != 1 {
		t.Fatalf("first Apply rewrote %v", first.Rewritten)
	}

	second := w.Apply(context.Background(), "light.hall", "hall.light.main", refs, true)
	if len(second.Rewritten) != 0 || second.Failed() {
		t.Errorf("second Apply = %+v, want no-op", second)
	}
	if got := scalarAt(t, store.docs["auto-1"], path); got != "hall.light.main" {
		t.Errorf("value = %q, want hall.light.main", got)
	}
}

func TestApplyMissingDocumentIsFailure(t *testing.T) {
	store := newFakeStore()
	path := document.Path{document.FieldStep("entity_id")}

	result := New(store).Apply(context.Background(), "light.hall", "hall.light.main",
		[]scan.Reference{ref("ghost", path, "light.hall")}, true)

	if len(result.Failures) != 1 || result.Failures[0].DocumentID != "ghost" {
		t.Errorf("Failures = %+v, want one for ghost", result.Failures)
	}
}
