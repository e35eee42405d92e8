package registry

import (
	"context"
	"fmt"
	"sort"
)

// Snapshot is a point-in-time read of the registry taken at run start.
// The engine derives and plans against the snapshot, but the executor
// re-validates every precondition against the live registry before
// acting; the snapshot is never treated as authoritative at execution
// time.
//
// A Snapshot is immutable after Load and safe for concurrent reads.
type Snapshot struct {
	entities    []Entity
	byID        map[string]*Entity
	byStableID  map[string]*Entity
	devices     map[string]*Device
	areas       map[string]*Area
	areasByName map[string]*Area
}

// Load reads the full registry state through the client. Any failure
// here means the run cannot start safely.
func Load(ctx context.Context, client Client) (*Snapshot, error) {
	entities, err := client.ListEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	devices, err := client.ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	areas, err := client.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing areas: %w", err)
	}

	s := &Snapshot{
		entities:    entities,
		byID:        make(map[string]*Entity, len(entities)),
		byStableID:  make(map[string]*Entity, len(entities)),
		devices:     make(map[string]*Device, len(devices)),
		areas:       make(map[string]*Area, len(areas)),
		areasByName: make(map[string]*Area, len(areas)),
	}

	for i := range s.entities {
		e := &s.entities[i]
		s.byID[e.ID] = e
		s.byStableID[e.StableID] = e
	}
	for i := range devices {
		d := devices[i]
		s.devices[d.ID] = &d
	}
	for i := range areas {
		a := areas[i]
		s.areas[a.ID] = &a
		s.areasByName[a.Name] = &a
	}

	return s, nil
}

// Entities returns all entities in the snapshot, sorted by identifier
// for deterministic iteration.
func (s *Snapshot) Entities() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EntityByID looks up an entity by its current identifier.
func (s *Snapshot) EntityByID(id string) (*Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// EntityByStableID looks up an entity by its registry-assigned stable id.
func (s *Snapshot) EntityByStableID(stableID string) (*Entity, bool) {
	e, ok := s.byStableID[stableID]
	return e, ok
}

// Device looks up a device by id.
func (s *Snapshot) Device(id string) (*Device, bool) {
	d, ok := s.devices[id]
	return d, ok
}

// Area looks up an area by id.
func (s *Snapshot) Area(id string) (*Area, bool) {
	a, ok := s.areas[id]
	return a, ok
}

// IdentifierExists reports whether an identifier is present in the
// snapshot.
func (s *Snapshot) IdentifierExists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Identifiers returns the set of all known entity identifiers. The
// scanner matches document references against this set.
func (s *Snapshot) Identifiers() map[string]struct{} {
	out := make(map[string]struct{}, len(s.byID))
	for id := range s.byID {
		out[id] = struct{}{}
	}
	return out
}

// ResolveArea resolves an entity's effective area: the owning device's
// area when the entity belongs to a device with one, otherwise the
// entity's own area reference. Returns nil when neither resolves.
func (s *Snapshot) ResolveArea(e *Entity) *Area {
	if e.DeviceID != nil {
		if d, ok := s.devices[*e.DeviceID]; ok && d.AreaID != nil {
			if a, ok := s.areas[*d.AreaID]; ok {
				return a
			}
		}
	}
	if e.AreaID != nil {
		if a, ok := s.areas[*e.AreaID]; ok {
			return a
		}
	}
	return nil
}

// ResolveDevice resolves an entity's owning device, if any.
func (s *Snapshot) ResolveDevice(e *Entity) *Device {
	if e.DeviceID == nil {
		return nil
	}
	d, ok := s.devices[*e.DeviceID]
	if !ok {
		return nil
	}
	return d
}

// Filter narrows the entity set for a run. Area accepts an area id or
// human name; Domain matches the identifier's domain part. Empty
// values match everything.
func (s *Snapshot) Filter(area, domain string) []Entity {
	var areaID string
	if area != "" {
		if a, ok := s.areas[area]; ok {
			areaID = a.ID
		} else if a, ok := s.areasByName[area]; ok {
			areaID = a.ID
		} else {
			return nil // unknown area matches nothing
		}
	}

	var out []Entity
	for i := range s.entities {
		e := &s.entities[i]
		if domain != "" && e.Domain() != domain {
			continue
		}
		if areaID != "" {
			resolved := s.ResolveArea(e)
			if resolved == nil || resolved.ID != areaID {
				continue
			}
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
