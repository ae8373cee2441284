package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campusgate/internal/registry/models"
	personstore "campusgate/internal/registry/store/person"
	vehiclestore "campusgate/internal/registry/store/vehicle"
	id "campusgate/pkg/domain"
	dErrors "campusgate/pkg/domain-errors"
	"campusgate/pkg/requestcontext"
)

// recordingInvalidator captures the cache keys the service evicts on writes.
type recordingInvalidator struct {
	keys []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, keys ...string) {
	r.keys = append(r.keys, keys...)
}

type RegistryServiceSuite struct {
	suite.Suite
	ctx         context.Context
	persons     *personstore.InMemory
	vehicles    *vehiclestore.InMemory
	invalidator *recordingInvalidator
	service     *Service
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	s.persons = personstore.NewInMemory()
	s.vehicles = vehiclestore.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.invalidator = &recordingInvalidator{}
	s.service = New(s.persons, s.vehicles, s.invalidator, logger)

	s.Require().NoError(s.persons.Save(s.ctx, models.Person{
		ID: "STU001", Name: "Student One", Role: models.RoleStudent, Status: models.StatusActive,
	}))
	s.Require().NoError(s.persons.Save(s.ctx, models.Person{
		ID: "FAC001", Name: "Faculty One", Role: models.RoleFaculty, Status: models.StatusActive,
	}))
	s.Require().NoError(s.persons.Save(s.ctx, models.Person{
		ID: "STU999", Name: "Inactive Student", Role: models.RoleStudent, Status: models.StatusInactive,
	}))
}

func (s *RegistryServiceSuite) register(plate id.Plate, owner id.PersonID) (models.Vehicle, error) {
	return s.service.RegisterVehicle(s.ctx, RegisterVehicleRequest{
		Plate:   plate,
		OwnerID: owner,
		Type:    models.VehicleCar,
	})
}

func (s *RegistryServiceSuite) TestRegisterVehicle() {
	s.Run("registers active vehicle", func() {
		v, err := s.register("ABC123", "STU001")
		s.Require().NoError(err)
		s.Equal(models.StatusActive, v.Status)
		s.False(v.RegisteredAt.IsZero())
	})

	s.Run("rejects duplicate plate with conflict", func() {
		_, err := s.register("ABC123", "FAC001")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("rejects unknown owner", func() {
		_, err := s.register("NEW111", "GHOST1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("rejects inactive owner", func() {
		_, err := s.register("NEW222", "STU999")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects unknown vehicle type", func() {
		_, err := s.service.RegisterVehicle(s.ctx, RegisterVehicleRequest{
			Plate: "NEW333", OwnerID: "STU001", Type: "hovercraft",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// TestVehicleLimits verifies the per-role registration caps: students one,
// staff two, faculty three active vehicles.
func (s *RegistryServiceSuite) TestVehicleLimits() {
	s.Run("student capped at one", func() {
		_, err := s.register("STU111", "STU001")
		s.Require().NoError(err)

		_, err = s.register("STU222", "STU001")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("faculty capped at three", func() {
		for _, plate := range []id.Plate{"FAC111", "FAC222", "FAC333"} {
			_, err := s.register(plate, "FAC001")
			s.Require().NoError(err)
		}
		_, err := s.register("FAC444", "FAC001")
		s.Require().Error(err)
	})

	s.Run("deactivated vehicle frees the slot", func() {
		_, err := s.service.DeactivateVehicle(s.ctx, "STU111")
		s.Require().NoError(err)

		_, err = s.register("STU222", "STU001")
		s.Require().NoError(err)
	})
}

func (s *RegistryServiceSuite) TestTransferOwnership() {
	_, err := s.register("ABC123", "STU001")
	s.Require().NoError(err)

	s.Run("transfers to active owner", func() {
		v, err := s.service.TransferOwnership(s.ctx, "ABC123", "FAC001")
		s.Require().NoError(err)
		s.Equal(id.PersonID("FAC001"), v.OwnerID)
	})

	s.Run("rejects inactive new owner", func() {
		_, err := s.service.TransferOwnership(s.ctx, "ABC123", "STU999")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects unknown vehicle", func() {
		_, err := s.service.TransferOwnership(s.ctx, "ZZZ999", "FAC001")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *RegistryServiceSuite) TestDeactivateVehicle() {
	_, err := s.register("ABC123", "STU001")
	s.Require().NoError(err)

	v, err := s.service.DeactivateVehicle(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(models.StatusInactive, v.Status)

	s.Run("idempotent", func() {
		again, err := s.service.DeactivateVehicle(s.ctx, "ABC123")
		s.Require().NoError(err)
		s.Equal(models.StatusInactive, again.Status)
	})
}

func (s *RegistryServiceSuite) TestDeactivatePerson() {
	s.Require().NoError(s.service.DeactivatePerson(s.ctx, "STU001"))

	p, err := s.persons.LookupPerson(s.ctx, "STU001")
	s.Require().NoError(err)
	s.Equal(models.StatusInactive, p.Status)

	s.Run("unknown person is not found", func() {
		err := s.service.DeactivatePerson(s.ctx, "GHOST1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// TestWritesEvictCachedRecords verifies every successful write drops the
// corresponding read-path cache entry, so the gate never serves a stale
// record for longer than the write round-trip.
func (s *RegistryServiceSuite) TestWritesEvictCachedRecords() {
	_, err := s.register("ABC123", "STU001")
	s.Require().NoError(err)
	s.Equal([]string{"vehicle:ABC123"}, s.invalidator.keys)

	s.invalidator.keys = nil
	_, err = s.service.TransferOwnership(s.ctx, "ABC123", "FAC001")
	s.Require().NoError(err)
	s.Equal([]string{"vehicle:ABC123"}, s.invalidator.keys)

	s.invalidator.keys = nil
	_, err = s.service.DeactivateVehicle(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal([]string{"vehicle:ABC123"}, s.invalidator.keys)

	s.invalidator.keys = nil
	s.Require().NoError(s.service.EnrollPerson(s.ctx, models.Person{
		ID: "NEW001", Name: "New Person", Role: models.RoleStaff,
	}))
	s.Equal([]string{"person:NEW001"}, s.invalidator.keys)

	s.invalidator.keys = nil
	s.Require().NoError(s.service.DeactivatePerson(s.ctx, "STU001"))
	s.Equal([]string{"person:STU001"}, s.invalidator.keys)
}

func (s *RegistryServiceSuite) TestFailedWritesDoNotEvict() {
	_, err := s.register("DUP123", "STU001")
	s.Require().NoError(err)
	s.invalidator.keys = nil

	_, err = s.register("DUP123", "FAC001")
	s.Require().Error(err)
	s.Empty(s.invalidator.keys)
}

func (s *RegistryServiceSuite) TestNilInvalidatorIsSafe() {
	svc := New(s.persons, s.vehicles, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := svc.RegisterVehicle(s.ctx, RegisterVehicleRequest{
		Plate: "NOC123", OwnerID: "STU001", Type: models.VehicleCar,
	})
	s.Require().NoError(err)
}
