// Package naming derives canonical entity identifiers from registry
// metadata and operator overrides.
//
// The canonical scheme is {area-slug}.{domain}.{location-slug}. The
// area segment comes from the entity's resolved area (the owning
// device's area wins over the entity's own reference), the domain from
// the entity's current identifier, and the location from the display
// name with area and device fragments folded out.
//
// # Overrides
//
// Overrides apply per segment with precedence entity > device > area >
// derived. An area override only replaces the area segment; the rest
// stays derived.
//
// # Determinism
//
// Derivation is a pure function of its inputs. For a given registry
// snapshot and override table, deriving an entity twice always yields
// the same CandidateRename; the plan builder relies on this.
package naming
