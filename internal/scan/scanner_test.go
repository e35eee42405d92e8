package scan

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/nerrad567/gray-logic-rename/internal/document"
)

// fakeStore serves documents from memory in insertion order.
type fakeStore struct {
	docs    []*document.Document
	listErr error
}

func (f *fakeStore) ForEach(ctx context.Context, kinds []document.Kind, fn func(*document.Document) error) error {
	if f.listErr != nil {
		return f.listErr
	}
	want := map[document.Kind]bool{}
	for _, k := range kinds {
		want[k] = true
	}
	for _, d := range f.docs {
		if len(want) > 0 && !want[d.Kind] {
			continue
		}
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*document.Document, error) {
	for _, d := range f.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, document.ErrDocumentNotFound
}

func (f *fakeStore) Write(ctx context.Context, doc *document.Document) error { return nil }

func doc(id string, kind document.Kind, content map[string]any) *document.Document {
	return &document.Document{ID: id, Kind: kind, Name: id, Root: document.FromAny(content)}
}

func idSet(ids ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func TestScanExactMatch(t *testing.T) {
	store := &fakeStore{docs: []*document.Document{
		doc("auto-1", document.KindAutomation, map[string]any{
			"triggers": []any{
				map[string]any{"entity_id": "kitchen.light.main", "platform": "state"},
			},
			"alias": "Kitchen on",
		}),
	}}

	refs, err := New(store, 2).Scan(context.Background(), nil, idSet("kitchen.light.main"))
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("Scan() returned %d references, want 1", len(refs))
	}
	r := refs[0]
	if r.DocumentID != "auto-1" || r.OldID != "kitchen.light.main" {
		t.Errorf("reference = %+v", r)
	}
	if got := r.Path.String(); got != "triggers[0].entity_id" {
		t.Errorf("Path = %q, want triggers[0].entity_id", got)
	}
}

func TestScanTokenBoundary(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		ids     []string
		wantIDs []string
	}{
		{
			name:    "identifier inside template",
			value:   "{{ states('kitchen.light.main') == 'on' }}",
			ids:     []string{"kitchen.light.main"},
			wantIDs: []string{"kitchen.light.main"},
		},
		{
			name:    "no partial match against longer token",
			value:   "{{ states('kitchen.light.main_2') }}",
			ids:     []string{"kitchen.light.main"},
			wantIDs: nil,
		},
		{
			name:    "both identifiers in one template",
			value:   "{{ states('hall.light.main') or states('hall.motion.door') }}",
			ids:     []string{"hall.light.main", "hall.motion.door"},
			wantIDs: []string{"hall.light.main", "hall.motion.door"},
		},
		{
			name:    "repeated occurrence collapses to one reference",
			value:   "{{ states('a.b.c') if states('a.b.c') else none }}",
			ids:     []string{"a.b.c"},
			wantIDs: []string{"a.b.c"},
		},
		{
			name:    "prefixed token does not match",
			value:   "{{ states('old_kitchen.light.main') }}",
			ids:     []string{"kitchen.light.main"},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{docs: []*document.Document{
				doc("auto-1", document.KindAutomation, map[string]any{"condition": tt.value}),
			}}

			refs, err := New(store, 1).Scan(context.Background(), nil, idSet(tt.ids...))
			if err != nil {
				t.Fatalf("Scan() error: %v", err)
			}

			var got []string
			for _, r := range refs {
				got = append(got, r.OldID)
			}
			if !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("matched %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestScanFiltersByKind(t *testing.T) {
	store := &fakeStore{docs: []*document.Document{
		doc("auto-1", document.KindAutomation, map[string]any{"entity_id": "x.light.a"}),
		doc("scene-1", document.KindScene, map[string]any{"entity_id": "x.light.a"}),
	}}

	refs, err := New(store, 2).Scan(context.Background(), []document.Kind{document.KindScene}, idSet("x.light.a"))
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(refs) != 1 || refs[0].DocumentID != "scene-1" {
		t.Errorf("Scan() = %+v, want one reference in scene-1", refs)
	}
}

func TestScanDeterministicAcrossRuns(t *testing.T) {
	store := &fakeStore{docs: []*document.Document{
		doc("b-doc", document.KindScene, map[string]any{
			"entities": []any{"k.light.a", "k.light.b"},
		}),
		doc("a-doc", document.KindAutomation, map[string]any{
			"trigger": map[string]any{"entity_id": "k.light.a"},
			"action":  map[string]any{"entity_id": "k.light.b"},
		}),
	}}
	ids := idSet("k.light.a", "k.light.b")

	first, err := New(store, 4).Scan(context.Background(), nil, ids)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	second, err := New(store, 4).Scan(context.Background(), nil, ids)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated scans differ:\n %+v\n %+v", first, second)
	}
	if len(first) != 4 {
		t.Errorf("Scan() returned %d references, want 4", len(first))
	}
}

func TestScanNoIdentifiers(t *testing.T) {
	store := &fakeStore{docs: []*document.Document{
		doc("auto-1", document.KindAutomation, map[string]any{"entity_id": "x.light.a"}),
	}}

	refs, err := New(store, 1).Scan(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("Scan() returned %d references, want 0", len(refs))
	}
}

func TestScanPropagatesStoreError(t *testing.T) {
	sentinel := errors.New("db gone")
	store := &fakeStore{listErr: sentinel}

	_, err := New(store, 2).Scan(context.Background(), nil, idSet("x.light.a"))
	if !errors.Is(err, sentinel) {
		t.Errorf("Scan() error = %v, want wrapped sentinel", err)
	}
}
