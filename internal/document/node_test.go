package document

import (
	"reflect"
	"testing"
)

func TestFromAnyToAnyRoundTrip(t *testing.T) {
	in := map[string]any{
		"alias": "Kitchen morning",
		"triggers": []any{
			map[string]any{"entity_id": "kitchen.light.main", "platform": "state"},
		},
		"mode":    "single",
		"max":     float64(10),
		"enabled": true,
		"extra":   nil,
	}

	root := FromAny(in)
	out := root.ToAny()

	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip mismatch:\n got  %#v\n want %#v", out, in)
	}
}

func TestFromAnyYAMLMapKeys(t *testing.T) {
	in := map[any]any{"entity_id": "hall.light.main"}

	root := FromAny(in)
	child, ok := root.Field("entity_id")
	if !ok {
		t.Fatal("Field(entity_id) not found")
	}
	if got := child.ScalarValue(); got != "hall.light.main" {
		t.Errorf("ScalarValue() = %v, want hall.light.main", got)
	}
}

func TestWalkVisitsAllScalarsWithPaths(t *testing.T) {
	root := FromAny(map[string]any{
		"actions": []any{
			map[string]any{"entity_id": "office.light.desk"},
			map[string]any{"entity_id": "office.light.ceiling"},
		},
		"alias": "Office off",
	})

	found := map[string]any{}
	root.Walk(func(p Path, n *Node) {
		if n.Kind() == KindScalar {
			found[p.String()] = n.ScalarValue()
		}
	})

	want := map[string]any{
		"actions[0].entity_id": "office.light.desk",
		"actions[1].entity_id": "office.light.ceiling",
		"alias":                "Office off",
	}
	if !reflect.DeepEqual(found, want) {
		t.Errorf("Walk scalars = %v, want %v", found, want)
	}
}

func TestWalkDeterministicOrder(t *testing.T) {
	root := FromAny(map[string]any{"b": "2", "a": "1", "c": "3"})

	var order []string
	root.Walk(func(p Path, n *Node) {
		if n.Kind() == KindScalar {
			order = append(order, p.String())
		}
	})

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Walk order = %v, want %v", order, want)
	}
}

func TestLookup(t *testing.T) {
	root := FromAny(map[string]any{
		"sequence": []any{
			map[string]any{"service": "light.turn_on", "target": "bedroom.light.main"},
		},
	})

	p := Path{FieldStep("sequence"), IndexStep(0), FieldStep("target")}
	n, ok := root.Lookup(p)
	if !ok {
		t.Fatal("Lookup() failed")
	}
	if got := n.ScalarValue(); got != "bedroom.light.main" {
		t.Errorf("ScalarValue() = %v, want bedroom.light.main", got)
	}

	if _, ok := root.Lookup(Path{FieldStep("missing")}); ok {
		t.Error("Lookup(missing) = ok, want not found")
	}
	if _, ok := root.Lookup(Path{FieldStep("sequence"), IndexStep(5)}); ok {
		t.Error("Lookup(out of range) = ok, want not found")
	}
}

func TestLookupAfterMutation(t *testing.T) {
	// A path captured during a walk must still resolve after the
	// addressed scalar is rewritten.
	root := FromAny(map[string]any{"entity_id": "old.light.main"})

	var captured Path
	root.Walk(func(p Path, n *Node) {
		if n.Kind() == KindScalar {
			captured = p.Clone()
		}
	})

	n, ok := root.Lookup(captured)
	if !ok {
		t.Fatal("Lookup() failed")
	}
	n.SetScalarValue("new.light.main")

	again, ok := root.Lookup(captured)
	if !ok {
		t.Fatal("Lookup() after mutation failed")
	}
	if got := again.ScalarValue(); got != "new.light.main" {
		t.Errorf("ScalarValue() = %v, want new.light.main", got)
	}
}

func TestPathString(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"empty", Path{}, ""},
		{"single field", Path{FieldStep("alias")}, "alias"},
		{"nested", Path{FieldStep("actions"), IndexStep(2), FieldStep("entity_id")}, "actions[2].entity_id"},
		{"index first", Path{IndexStep(0), FieldStep("x")}, "[0].x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range AllKinds() {
		if !k.Valid() {
			t.Errorf("Valid(%q) = false, want true", k)
		}
	}
	if Kind("dashboard").Valid() {
		t.Error(`Valid("dashboard") = true, want false`)
	}
}
