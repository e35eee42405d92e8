package document

import "time"

// Kind classifies a configuration document.
type Kind string

// Document kinds known to the scanner and rewriter.
const (
	KindAutomation Kind = "automation"
	KindScene      Kind = "scene"
	KindScript     Kind = "script"
	KindGroup      Kind = "group"
)

// AllKinds lists every scannable document kind.
func AllKinds() []Kind {
	return []Kind{KindAutomation, KindScene, KindScript, KindGroup}
}

// Valid reports whether k is a known document kind.
func (k Kind) Valid() bool {
	switch k {
	case KindAutomation, KindScene, KindScript, KindGroup:
		return true
	}
	return false
}

// Document is one configuration document as an opaque structured
// tree. The engine never interprets document semantics; it only
// matches and rewrites entity identifiers inside the tree.
type Document struct {
	ID        string
	Kind      Kind
	Name      string
	Root      *Node
	CreatedAt time.Time
	UpdatedAt time.Time
}
