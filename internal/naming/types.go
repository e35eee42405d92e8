package naming

// Overrides is the read-only naming override snapshot for one run.
// Each map supplies a literal name fragment that takes precedence over
// the derived value for its segment: areas by area id, devices by
// device id, entities by entity stable id.
type Overrides struct {
	Areas    map[string]string
	Devices  map[string]string
	Entities map[string]string
}

// Source records where a segment's value came from, for the derivation
// trace.
type Source string

// Segment sources, in precedence order.
const (
	SourceEntityOverride Source = "entity-override"
	SourceDeviceOverride Source = "device-override"
	SourceAreaOverride   Source = "area-override"
	SourceDerived        Source = "derived"
	SourceFallback       Source = "fallback"
)

// Segment is one resolved part of a canonical identifier plus its
// provenance.
type Segment struct {
	Value  string `json:"value"`
	Source Source `json:"source"`
}

// Trace explains how a candidate identifier was derived. It is carried
// through the plan into the execution report so operators can see why
// a name came out the way it did.
type Trace struct {
	Area      Segment `json:"area"`
	Domain    Segment `json:"domain"`
	Location  Segment `json:"location"`
	Truncated bool    `json:"truncated,omitempty"`
}

// CandidateRename is one entity's proposed transition to canonical
// naming. Immutable once produced for a given registry snapshot:
// deriving twice from the same snapshot yields the same candidate.
type CandidateRename struct {
	StableID string `json:"stable_id"`
	OldID    string `json:"old_id"`
	NewID    string `json:"new_id"`

	// OldName/NewName carry the display-name transition. A candidate
	// whose identifiers match but names differ is still actionable
	// (display-only rename).
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`

	Trace Trace `json:"trace"`
}

// IdentifierChanged reports whether the candidate changes the entity
// identifier (as opposed to only the display name).
func (c CandidateRename) IdentifierChanged() bool {
	return c.OldID != c.NewID
}

// NameChanged reports whether the candidate changes the display name.
func (c CandidateRename) NameChanged() bool {
	return c.OldName != c.NewName
}

// NoOp reports whether the entity is already fully compliant.
func (c CandidateRename) NoOp() bool {
	return !c.IdentifierChanged() && !c.NameChanged()
}
