package registry

import "context"

// Client is the narrow contract the engine needs from the platform
// registry. Implementations (HTTP, WebSocket, in-memory fakes) live
// outside the engine; the engine only ever sees this interface.
//
// All calls are synchronous to the caller. Mutating calls must wrap
// failures in ErrTransient or ErrPreconditionFailed (see errors.go) so
// the executor can apply its retry policy.
type Client interface {
	// ListEntities returns every entity in the registry, enabled or not.
	ListEntities(ctx context.Context) ([]Entity, error)

	// ListDevices returns every registered device.
	ListDevices(ctx context.Context) ([]Device, error)

	// ListAreas returns every registered area.
	ListAreas(ctx context.Context) ([]Area, error)

	// RenameEntity changes an entity's identifier from oldID to newID.
	// Fails with ErrPreconditionFailed when oldID no longer exists or
	// newID is already taken.
	RenameEntity(ctx context.Context, oldID, newID string) error

	// UpdateEntityName changes an entity's display name without
	// touching its identifier.
	UpdateEntityName(ctx context.Context, entityID, name string) error

	// SetLabel attaches a processing-status label to an entity.
	SetLabel(ctx context.Context, entityID string, label Label) error
}
