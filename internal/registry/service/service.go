// Package service implements the registry write path: vehicle registration,
// status transitions, and ownership transfer. The verification path never
// goes through here; it reads the registries directly.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"campusgate/internal/registry"
	"campusgate/internal/registry/models"
	id "campusgate/pkg/domain"
	dErrors "campusgate/pkg/domain-errors"
	"campusgate/pkg/platform/sentinel"
	"campusgate/pkg/requestcontext"
)

// Invalidator drops read-path cache entries after a registry write. The
// verification path serves cached records for up to the cache TTL unless the
// write path evicts them here.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// Service coordinates registry writes.
type Service struct {
	persons     registry.PersonStore
	vehicles    registry.VehicleStore
	invalidator Invalidator
	logger      *slog.Logger
}

func New(persons registry.PersonStore, vehicles registry.VehicleStore, invalidator Invalidator, logger *slog.Logger) *Service {
	return &Service{persons: persons, vehicles: vehicles, invalidator: invalidator, logger: logger}
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.Invalidate(ctx, keys...)
}

// RegisterVehicleRequest carries a validated registration.
type RegisterVehicleRequest struct {
	Plate   id.Plate
	OwnerID id.PersonID
	Type    models.VehicleType
	Color   string
	Model   string
}

// RegisterVehicle creates a new active vehicle record. The owner must exist
// and be active, and must be under their role's vehicle limit. A duplicate
// plate is rejected with a conflict; registry state is unchanged.
func (s *Service) RegisterVehicle(ctx context.Context, req RegisterVehicleRequest) (models.Vehicle, error) {
	if !models.ValidVehicleType(req.Type) {
		return models.Vehicle{}, dErrors.New(dErrors.CodeValidation, "unknown vehicle type")
	}

	owner, err := s.persons.LookupPerson(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Vehicle{}, dErrors.New(dErrors.CodeNotFound, "owner not found")
		}
		return models.Vehicle{}, dErrors.Wrap(dErrors.CodeUnavailable, "identity registry unavailable", err)
	}
	if !owner.IsActive() {
		return models.Vehicle{}, dErrors.New(dErrors.CodeValidation, "owner account is inactive")
	}

	count, err := s.vehicles.CountByOwner(ctx, req.OwnerID)
	if err != nil {
		return models.Vehicle{}, dErrors.Wrap(dErrors.CodeUnavailable, "vehicle registry unavailable", err)
	}
	if limit := models.VehicleLimit(owner.Role); count >= limit {
		return models.Vehicle{}, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("vehicle limit reached for role %s (%d)", owner.Role, limit))
	}

	vehicle := models.Vehicle{
		Plate:        req.Plate,
		OwnerID:      req.OwnerID,
		Type:         req.Type,
		Color:        req.Color,
		Model:        req.Model,
		Status:       models.StatusActive,
		RegisteredAt: requestcontext.Now(ctx),
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return models.Vehicle{}, dErrors.New(dErrors.CodeConflict, "plate already registered")
		}
		return models.Vehicle{}, dErrors.Wrap(dErrors.CodeUnavailable, "vehicle registry unavailable", err)
	}

	s.invalidate(ctx, fmt.Sprintf("vehicle:%s", vehicle.Plate))
	s.logger.InfoContext(ctx, "vehicle registered",
		"request_id", requestcontext.RequestID(ctx),
		"plate", vehicle.Plate,
		"owner_id", vehicle.OwnerID,
		"type", vehicle.Type,
		"authority_id", requestcontext.AuthorityID(ctx),
	)
	return vehicle, nil
}

// TransferOwnership reassigns a vehicle to a new active owner.
func (s *Service) TransferOwnership(ctx context.Context, plate id.Plate, newOwnerID id.PersonID) (models.Vehicle, error) {
	vehicle, err := s.vehicles.LookupVehicle(ctx, plate)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Vehicle{}, dErrors.New(dErrors.CodeNotFound, "vehicle not found")
		}
		return models.Vehicle{}, dErrors.Wrap(dErrors.CodeUnavailable, "vehicle registry unavailable", err)
	}

	owner, err := s.persons.LookupPerson(ctx, newOwnerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Vehicle{}, dErrors.New(dErrors.CodeNotFound, "new owner not found")
		}
		return models.Vehicle{}, dErrors.Wrap(dErrors.CodeUnavailable, "identity registry unavailable", err)
	}
	if !owner.IsActive() {
		return models.Vehicle{}, dErrors.New(dErrors.CodeValidation, "new owner account is inactive")
	}

	vehicle.OwnerID = newOwnerID
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return models.Vehicle{}, dErrors.Wrap(dErrors.CodeUnavailable, "vehicle registry unavailable", err)
	}

	s.invalidate(ctx, fmt.Sprintf("vehicle:%s", plate))
	s.logger.InfoContext(ctx, "vehicle ownership transferred",
		"request_id", requestcontext.RequestID(ctx),
		"plate", plate,
		"new_owner_id", newOwnerID,
		"authority_id", requestcontext.AuthorityID(ctx),
	)
	return vehicle, nil
}

// DeactivateVehicle soft-deactivates a registration. Idempotent: a vehicle
// that is already inactive stays inactive.
func (s *Service) DeactivateVehicle(ctx context.Context, plate id.Plate) (models.Vehicle, error) {
	vehicle, err := s.vehicles.LookupVehicle(ctx, plate)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Vehicle{}, dErrors.New(dErrors.CodeNotFound, "vehicle not found")
		}
		return models.Vehicle{}, dErrors.Wrap(dErrors.CodeUnavailable, "vehicle registry unavailable", err)
	}
	if vehicle.Status == models.StatusInactive {
		return vehicle, nil
	}

	vehicle.Status = models.StatusInactive
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return models.Vehicle{}, dErrors.Wrap(dErrors.CodeUnavailable, "vehicle registry unavailable", err)
	}

	s.invalidate(ctx, fmt.Sprintf("vehicle:%s", plate))
	s.logger.InfoContext(ctx, "vehicle deactivated",
		"request_id", requestcontext.RequestID(ctx),
		"plate", plate,
		"authority_id", requestcontext.AuthorityID(ctx),
	)
	return vehicle, nil
}

// EnrollPerson creates or updates a person record. Used by seeding and the
// enrollment collaborator; not part of the verification path.
func (s *Service) EnrollPerson(ctx context.Context, person models.Person) error {
	if !models.ValidRole(person.Role) {
		return dErrors.New(dErrors.CodeValidation, "unknown role")
	}
	if person.Status == "" {
		person.Status = models.StatusActive
	}
	if err := s.persons.Save(ctx, person); err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "identity registry unavailable", err)
	}
	s.invalidate(ctx, fmt.Sprintf("person:%s", person.ID))
	return nil
}

// DeactivatePerson soft-deactivates a person record. Their vehicles keep
// their own status, but the gate rejects a vehicle whose owner is inactive,
// so deactivating the person closes the vehicle path too.
func (s *Service) DeactivatePerson(ctx context.Context, personID id.PersonID) error {
	err := s.persons.UpdateStatus(ctx, personID, models.StatusInactive)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return dErrors.Wrap(dErrors.CodeUnavailable, "identity registry unavailable", err)
	}
	s.invalidate(ctx, fmt.Sprintf("person:%s", personID))
	return nil
}
