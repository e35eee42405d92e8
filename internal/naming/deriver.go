package naming

import (
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-rename/internal/registry"
)

// Default naming rule values.
const (
	// defaultMaxIdentifierLength matches the registry's identifier
	// column limit.
	defaultMaxIdentifierLength = 255

	// minLocationLength is the shortest a location segment may be
	// truncated to before the whole identifier is hard-cut.
	minLocationLength = 1
)

// Rules parameterises identifier derivation.
type Rules struct {
	// MaxIdentifierLength is the registry's maximum identifier length.
	// Longer identifiers are truncated, trailing location segment first.
	MaxIdentifierLength int

	// FallbackLocation is used when the location segment derives to
	// nothing. Empty means fall back to the area slug, which turns
	// "Office Light" in area Office into "office.light.office".
	FallbackLocation string
}

// Deriver computes canonical identifiers from registry metadata and
// the override snapshot. A Deriver is immutable and safe for
// concurrent use; deriving twice from the same inputs always yields
// the same candidate.
//
// Canonical identifiers have the form:
//
//	{area-slug}.{domain}.{location-slug}
//
// with per-segment override precedence entity > device > area >
// derived.
type Deriver struct {
	rules     Rules
	overrides Overrides
}

// NewDeriver creates a deriver for one run.
func NewDeriver(rules Rules, overrides Overrides) *Deriver {
	if rules.MaxIdentifierLength <= 0 {
		rules.MaxIdentifierLength = defaultMaxIdentifierLength
	}
	return &Deriver{rules: rules, overrides: overrides}
}

// Derive computes the CandidateRename for one entity. The device and
// area arguments are the entity's resolved references; either may be
// nil.
//
// Fails with ErrNoArea when neither registry metadata nor an override
// supplies an area - the entity is then excluded from the plan with a
// diagnostic.
func (d *Deriver) Derive(e *registry.Entity, dev *registry.Device, area *registry.Area) (CandidateRename, error) {
	domain := e.Domain()
	if domain == "" {
		return CandidateRename{}, fmt.Errorf("%w: %q", ErrMalformedIdentifier, e.ID)
	}

	areaSeg, areaName, err := d.resolveArea(e, dev, area)
	if err != nil {
		return CandidateRename{}, err
	}

	// Entity and device names carry the registry's area name, not the
	// overridden one, so prefix stripping uses the original.
	stripName := areaName
	if area != nil {
		stripName = area.Name
	}

	locSeg := d.resolveLocation(e, dev, stripName, domain, areaSeg.Value)

	newID := areaSeg.Value + "." + domain + "." + locSeg.Value
	truncated := false
	if len(newID) > d.rules.MaxIdentifierLength {
		newID = d.truncate(areaSeg.Value, domain, locSeg.Value)
		truncated = true
	}
	if newID == "" {
		return CandidateRename{}, fmt.Errorf("%w: entity %q", ErrEmptyIdentifier, e.ID)
	}

	return CandidateRename{
		StableID: e.StableID,
		OldID:    e.ID,
		NewID:    newID,
		OldName:  e.Name,
		NewName:  displayName(areaName, locSeg.Value),
		Trace: Trace{
			Area:      areaSeg,
			Domain:    Segment{Value: domain, Source: SourceDerived},
			Location:  locSeg,
			Truncated: truncated,
		},
	}, nil
}

// resolveArea resolves the area segment and the human area name used
// for display-name composition. An area-level override wins over the
// registry name; an override keyed by a dangling area reference can
// supply an area the registry no longer resolves.
func (d *Deriver) resolveArea(e *registry.Entity, dev *registry.Device, area *registry.Area) (Segment, string, error) {
	if area != nil {
		if ov, ok := d.overrides.Areas[area.ID]; ok {
			return Segment{Value: Slugify(ov), Source: SourceAreaOverride}, ov, nil
		}
		slug := Slugify(area.Name)
		if slug == "" {
			return Segment{}, "", fmt.Errorf("%w: area %q has no usable name", ErrNoArea, area.ID)
		}
		return Segment{Value: slug, Source: SourceDerived}, area.Name, nil
	}

	// No resolvable area: an override keyed by the entity's or the
	// device's dangling area reference may still supply one.
	if e.AreaID != nil {
		if ov, ok := d.overrides.Areas[*e.AreaID]; ok {
			return Segment{Value: Slugify(ov), Source: SourceAreaOverride}, ov, nil
		}
	}
	if dev != nil && dev.AreaID != nil {
		if ov, ok := d.overrides.Areas[*dev.AreaID]; ok {
			return Segment{Value: Slugify(ov), Source: SourceAreaOverride}, ov, nil
		}
	}

	return Segment{}, "", fmt.Errorf("%w: entity %q", ErrNoArea, e.ID)
}

// resolveLocation resolves the trailing location segment.
//
// Precedence: entity-level override, then a value derived from the
// display name (area prefix stripped, device base name folded in,
// bare domain tokens removed), then the configured fallback.
func (d *Deriver) resolveLocation(e *registry.Entity, dev *registry.Device, areaName, domain, areaSlug string) Segment {
	if ov, ok := d.overrides.Entities[e.StableID]; ok {
		if slug := Slugify(ov); slug != "" {
			return Segment{Value: slug, Source: SourceEntityOverride}
		}
	}

	name := e.Name
	if name == "" {
		name = strings.ReplaceAll(e.ObjectID(), "_", " ")
	}

	devBase, devActual, deviceOverridden := d.deviceBase(dev, areaName)

	loc := d.deriveLocationSlug(name, areaName, devBase, devActual, domain)

	if loc == "" {
		fallback := Slugify(d.rules.FallbackLocation)
		if fallback == "" {
			fallback = areaSlug
		}
		return Segment{Value: fallback, Source: SourceFallback}
	}

	source := SourceDerived
	if deviceOverridden && strings.HasPrefix(loc, Slugify(devBase)) {
		source = SourceDeviceOverride
	}
	return Segment{Value: loc, Source: source}
}

// deviceBase returns the base location fragment for a device-bound
// entity and the device's actual name fragment. The two differ when a
// device-level override is set: the override supplies the base, but
// entity names still embed the device's real name, so stripping uses
// the actual fragment.
func (d *Deriver) deviceBase(dev *registry.Device, areaName string) (base, actual string, overridden bool) {
	if dev == nil {
		return "", "", false
	}
	actual, _ = stripPrefixFold(dev.Name, areaName)
	if Slugify(actual) == "" {
		actual = Slugify(dev.Name)
	}
	if ov, ok := d.overrides.Devices[dev.ID]; ok {
		return ov, actual, true
	}
	return actual, actual, false
}

// deriveLocationSlug computes the location slug from an entity display
// name. The area prefix is stripped, the device base name is prepended
// when the entity belongs to a device, and a location that reduces to
// the bare domain token ("Office Light" -> "light") is treated as
// absent.
func (d *Deriver) deriveLocationSlug(name, areaName, devBase, devActual, domain string) string {
	rest, _ := stripPrefixFold(name, areaName)
	rest = Slugify(rest)

	if devBase != "" {
		baseSlug := Slugify(devBase)
		// Strip the device's actual name from the entity name so the
		// base is not doubled, then prepend the (possibly overridden)
		// base.
		rest = strings.TrimLeft(strings.TrimPrefix(rest, Slugify(devActual)), "_")
		if rest == "" {
			return baseSlug
		}
		return baseSlug + "_" + rest
	}

	// Without a device, a location that is just the domain token says
	// nothing ("Office Light" in Office is just "the light").
	if rest == domain {
		return ""
	}
	rest = strings.TrimLeft(strings.TrimPrefix(rest, domain), "_")
	return rest
}

// truncate shortens an identifier to the maximum length, cutting the
// trailing location segment first and never ending on a separator.
func (d *Deriver) truncate(areaSlug, domain, loc string) string {
	maxLen := d.rules.MaxIdentifierLength
	head := areaSlug + "." + domain + "."

	if len(head)+minLocationLength <= maxLen {
		loc = loc[:maxLen-len(head)]
		return strings.TrimRight(head+loc, "_")
	}

	// Area and domain alone exceed the limit; hard-cut the whole
	// identifier as a last resort.
	id := head + loc
	return strings.TrimRight(id[:maxLen], "._")
}

// displayName composes the human-readable name for a candidate:
// area name plus title-cased location words.
func displayName(areaName, locSlug string) string {
	words := strings.Split(locSlug, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.TrimSpace(strings.TrimSpace(areaName) + " " + strings.Join(words, " "))
}
