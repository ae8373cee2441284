package vehicle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"campusgate/internal/registry/models"
	id "campusgate/pkg/domain"
	"campusgate/pkg/platform/sentinel"
)

type VehicleStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *VehicleStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestVehicleStoreSuite(t *testing.T) {
	suite.Run(t, new(VehicleStoreSuite))
}

func (s *VehicleStoreSuite) newVehicle(plate id.Plate, owner id.PersonID) models.Vehicle {
	return models.Vehicle{
		Plate:   plate,
		OwnerID: owner,
		Type:    models.VehicleCar,
		Status:  models.StatusActive,
	}
}

func (s *VehicleStoreSuite) TestCreateAndLookup() {
	s.Run("creates and finds vehicle by plate", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newVehicle("ABC123", "STU001")))

		found, err := s.store.LookupVehicle(s.ctx, "ABC123")
		s.Require().NoError(err)
		s.Equal(id.PersonID("STU001"), found.OwnerID)
		s.False(found.UpdatedAt.IsZero())
	})

	s.Run("returns ErrNotFound for unknown plate", func() {
		_, err := s.store.LookupVehicle(s.ctx, "ZZZ999")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestPlateUniqueness verifies duplicate registration is rejected without
// touching the existing record.
func (s *VehicleStoreSuite) TestPlateUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, s.newVehicle("ABC123", "STU001")))

	err := s.store.Create(s.ctx, s.newVehicle("ABC123", "STU002"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	found, err := s.store.LookupVehicle(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(id.PersonID("STU001"), found.OwnerID, "original registration untouched")
}

func (s *VehicleStoreSuite) TestUpdate() {
	s.Run("updates existing record", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newVehicle("ABC123", "STU001")))

		v, err := s.store.LookupVehicle(s.ctx, "ABC123")
		s.Require().NoError(err)
		v.Status = models.StatusInactive
		s.Require().NoError(s.store.Update(s.ctx, v))

		found, err := s.store.LookupVehicle(s.ctx, "ABC123")
		s.Require().NoError(err)
		s.Equal(models.StatusInactive, found.Status)
	})

	s.Run("rejects unknown plate", func() {
		err := s.store.Update(s.ctx, s.newVehicle("ZZZ999", "STU001"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *VehicleStoreSuite) TestCountByOwner() {
	s.Require().NoError(s.store.Create(s.ctx, s.newVehicle("AAA111", "FAC001")))
	s.Require().NoError(s.store.Create(s.ctx, s.newVehicle("BBB222", "FAC001")))

	inactive := s.newVehicle("CCC333", "FAC001")
	inactive.Status = models.StatusInactive
	s.Require().NoError(s.store.Create(s.ctx, inactive))

	count, err := s.store.CountByOwner(s.ctx, "FAC001")
	s.Require().NoError(err)
	s.Equal(2, count, "inactive vehicles do not count against the limit")
}
