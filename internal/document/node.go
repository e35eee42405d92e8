package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NodeKind discriminates the three structural variants of a Node.
type NodeKind int

const (
	// KindScalar is a leaf value (string, number, bool or nil).
	KindScalar NodeKind = iota
	// KindSequence is an ordered list of child nodes.
	KindSequence
	// KindMapping is a string-keyed collection of child nodes.
	KindMapping
)

// Node is one vertex of a document's value tree. Documents are opaque
// structured data - automations, scenes, scripts and groups all decode
// into the same tagged tree, so the scanner and rewriter never depend
// on a concrete document schema.
//
// A Node is exactly one of scalar, sequence or mapping. Mapping keys
// keep a stable order so repeated walks of the same tree visit values
// deterministically.
type Node struct {
	kind   NodeKind
	scalar any
	seq    []*Node
	keys   []string
	fields map[string]*Node
}

// Scalar creates a leaf node holding v.
func Scalar(v any) *Node {
	return &Node{kind: KindScalar, scalar: v}
}

// Sequence creates a sequence node from the given children.
func Sequence(children ...*Node) *Node {
	return &Node{kind: KindSequence, seq: children}
}

// Mapping creates an empty mapping node.
func Mapping() *Node {
	return &Node{kind: KindMapping, fields: make(map[string]*Node)}
}

// Kind returns the node's structural variant.
func (n *Node) Kind() NodeKind { return n.kind }

// ScalarValue returns the leaf value. Nil for non-scalar nodes.
func (n *Node) ScalarValue() any {
	if n.kind != KindScalar {
		return nil
	}
	return n.scalar
}

// SetScalarValue replaces the leaf value in place. Ignored for
// non-scalar nodes.
func (n *Node) SetScalarValue(v any) {
	if n.kind == KindScalar {
		n.scalar = v
	}
}

// Len returns the number of children for sequences and mappings,
// zero for scalars.
func (n *Node) Len() int {
	switch n.kind {
	case KindSequence:
		return len(n.seq)
	case KindMapping:
		return len(n.keys)
	default:
		return 0
	}
}

// Index returns the i-th child of a sequence, or nil when out of
// range or not a sequence.
func (n *Node) Index(i int) *Node {
	if n.kind != KindSequence || i < 0 || i >= len(n.seq) {
		return nil
	}
	return n.seq[i]
}

// Append adds a child to a sequence node.
func (n *Node) Append(child *Node) {
	if n.kind == KindSequence {
		n.seq = append(n.seq, child)
	}
}

// Keys returns the mapping keys in their stable order.
func (n *Node) Keys() []string {
	return n.keys
}

// Field returns the child stored under key, and whether it exists.
func (n *Node) Field(key string) (*Node, bool) {
	if n.kind != KindMapping {
		return nil, false
	}
	child, ok := n.fields[key]
	return child, ok
}

// Set stores a child under key, appending the key to the stable order
// if it is new.
func (n *Node) Set(key string, child *Node) {
	if n.kind != KindMapping {
		return
	}
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
}

// FromAny converts a decoded value graph (maps, slices, scalars - the
// shapes produced by encoding/json and yaml.v3 into `any`) into a
// Node tree. Map keys are sorted so the resulting tree is
// deterministic regardless of Go map iteration order.
func FromAny(v any) *Node {
	switch val := v.(type) {
	case map[string]any:
		m := Mapping()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(k, FromAny(val[k]))
		}
		return m
	case map[any]any:
		// yaml.v3 produces this shape for untyped mappings.
		converted := make(map[string]any, len(val))
		for k, v := range val {
			converted[fmt.Sprint(k)] = v
		}
		return FromAny(converted)
	case []any:
		s := Sequence()
		for _, item := range val {
			s.Append(FromAny(item))
		}
		return s
	default:
		return Scalar(v)
	}
}

// ToAny converts a Node tree back into plain maps, slices and scalars
// for serialization.
func (n *Node) ToAny() any {
	switch n.kind {
	case KindMapping:
		out := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			out[k] = n.fields[k].ToAny()
		}
		return out
	case KindSequence:
		out := make([]any, len(n.seq))
		for i, child := range n.seq {
			out[i] = child.ToAny()
		}
		return out
	default:
		return n.scalar
	}
}

// Step addresses one hop from a parent node to a child: a mapping key
// or a sequence index.
type Step struct {
	Key   string
	Index int
	inSeq bool
}

// FieldStep addresses a mapping child by key.
func FieldStep(key string) Step { return Step{Key: key} }

// IndexStep addresses a sequence child by position.
func IndexStep(i int) Step { return Step{Index: i, inSeq: true} }

// IsIndex reports whether the step addresses a sequence position.
func (s Step) IsIndex() bool { return s.inSeq }

// Path addresses a node within a document tree, from the root down.
type Path []Step

// String renders the path in a compact dotted form, e.g.
// "actions[2].entity_id".
func (p Path) String() string {
	var b strings.Builder
	for i, step := range p {
		if step.inSeq {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(step.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(step.Key)
	}
	return b.String()
}

// Clone returns an independent copy of the path. Walk reuses its
// internal path buffer between callbacks, so callers that retain a
// path must clone it.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Lookup resolves a path against the tree rooted at n. Returns the
// addressed node, or false when any step does not resolve.
func (n *Node) Lookup(p Path) (*Node, bool) {
	cur := n
	for _, step := range p {
		if cur == nil {
			return nil, false
		}
		if step.inSeq {
			cur = cur.Index(step.Index)
			continue
		}
		child, ok := cur.Field(step.Key)
		if !ok {
			return nil, false
		}
		cur = child
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Walk visits every node in depth-first order, mappings in stable key
// order. The path passed to fn is only valid for the duration of the
// callback; Clone it to retain.
func (n *Node) Walk(fn func(Path, *Node)) {
	path := make(Path, 0, 8)
	n.walk(&path, fn)
}

func (n *Node) walk(path *Path, fn func(Path, *Node)) {
	fn(*path, n)
	switch n.kind {
	case KindMapping:
		for _, k := range n.keys {
			*path = append(*path, FieldStep(k))
			n.fields[k].walk(path, fn)
			*path = (*path)[:len(*path)-1]
		}
	case KindSequence:
		for i, child := range n.seq {
			*path = append(*path, IndexStep(i))
			child.walk(path, fn)
			*path = (*path)[:len(*path)-1]
		}
	}
}
