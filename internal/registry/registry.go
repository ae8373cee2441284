// Package registry defines the read contracts the decision path depends on:
// person lookup by ID and vehicle lookup by plate. Implementations must be
// side-effect free and safe for concurrent use; each lookup observes a
// point-in-time snapshot of the record.
//
// Lookups distinguish three outcomes the verification layer cares about:
// a record that exists (possibly inactive), sentinel.ErrNotFound for unknown
// identifiers, and any other error for infrastructure failure. An inactive
// record is Found-but-invalid, never NotFound, so the audit trail can tell
// "unknown" from "deactivated".
package registry

import (
	"context"

	"campusgate/internal/registry/models"
	id "campusgate/pkg/domain"
)

// IdentityRegistry resolves person records.
type IdentityRegistry interface {
	LookupPerson(ctx context.Context, personID id.PersonID) (models.Person, error)
}

// VehicleRegistry resolves vehicle records by normalized plate.
type VehicleRegistry interface {
	LookupVehicle(ctx context.Context, plate id.Plate) (models.Vehicle, error)
}

// PersonStore is the full person persistence contract, including the write
// path used by enrollment.
type PersonStore interface {
	IdentityRegistry
	Save(ctx context.Context, person models.Person) error
	UpdateStatus(ctx context.Context, personID id.PersonID, status models.Status) error
}

// VehicleStore is the full vehicle persistence contract. Create enforces
// plate uniqueness atomically and returns sentinel.ErrConflict when the
// plate is already registered.
type VehicleStore interface {
	VehicleRegistry
	Create(ctx context.Context, vehicle models.Vehicle) error
	Update(ctx context.Context, vehicle models.Vehicle) error
	CountByOwner(ctx context.Context, ownerID id.PersonID) (int, error)
}
