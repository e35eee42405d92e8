package registry

import "strings"

// Entity represents an addressable automation-platform object as seen
// in the registry. ID is the user-facing identifier ("domain.object_id")
// and is globally unique within the registry at any instant; StableID
// is the registry-assigned immutable id that survives renames.
type Entity struct {
	ID       string `json:"entity_id"`
	StableID string `json:"id"`
	Name     string `json:"name"`

	// DeviceID and AreaID are optional back-references. When both are
	// set, the device's area wins for naming purposes.
	DeviceID *string `json:"device_id,omitempty"`
	AreaID   *string `json:"area_id,omitempty"`

	// DisabledBy is non-nil when the entity is disabled in the registry
	// (value names the disabling integration or user).
	DisabledBy *string `json:"disabled_by,omitempty"`

	// Labels are processing-status tags attached to the entity.
	Labels []string `json:"labels,omitempty"`
}

// Domain returns the entity's functional domain. Legacy identifiers
// are "domain.object_id"; canonical identifiers are
// "area.domain.location", so for three-segment identifiers the middle
// segment is the domain. Empty when the identifier is malformed.
func (e Entity) Domain() string {
	parts := strings.Split(e.ID, ".")
	switch len(parts) {
	case 2:
		return parts[0]
	case 3:
		return parts[1]
	default:
		return ""
	}
}

// ObjectID returns everything after the identifier's first separator
// ("office_ceiling" for "light.office_ceiling").
func (e Entity) ObjectID() string {
	_, object, _ := strings.Cut(e.ID, ".")
	return object
}

// Disabled reports whether the entity is disabled in the registry.
func (e Entity) Disabled() bool {
	return e.DisabledBy != nil
}

// HasLabel reports whether the entity carries the given label.
func (e Entity) HasLabel(label Label) bool {
	for _, l := range e.Labels {
		if l == string(label) {
			return true
		}
	}
	return false
}

// Device represents a physical device owning one or more entities.
// Multiple entities may reference one device; the reference is shared
// and non-owning.
type Device struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	AreaID *string `json:"area_id,omitempty"`
}

// Area represents a named location. Areas are referenced by devices
// and entities, never owned by them.
type Area struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Label is a processing-status tag attached to an entity. Labels are
// mutated only by the executor, after an operation's outcome is known.
type Label string

// Labels written by the executor.
const (
	// LabelRenamed marks entities whose identifier now conforms to the
	// canonical naming scheme.
	LabelRenamed Label = "renamed"

	// LabelNeedsReview marks entities whose rename attempt failed and
	// needs operator attention.
	LabelNeedsReview Label = "needs-review"
)
