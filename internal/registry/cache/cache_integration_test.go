//go:build integration

package cache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campusgate/internal/registry/cache"
	"campusgate/internal/registry/models"
	personstore "campusgate/internal/registry/store/person"
	vehiclestore "campusgate/internal/registry/store/vehicle"
	id "campusgate/pkg/domain"
	"campusgate/pkg/platform/sentinel"
	"campusgate/pkg/testutil/containers"
)

// countingPersons wraps the memory store to observe backing lookups.
type countingPersons struct {
	*personstore.InMemory
	lookups int
}

func (c *countingPersons) LookupPerson(ctx context.Context, personID id.PersonID) (models.Person, error) {
	c.lookups++
	return c.InMemory.LookupPerson(ctx, personID)
}

type countingVehicles struct {
	*vehiclestore.InMemory
	lookups int
}

func (c *countingVehicles) LookupVehicle(ctx context.Context, plate id.Plate) (models.Vehicle, error) {
	c.lookups++
	return c.InMemory.LookupVehicle(ctx, plate)
}

type RegistryCacheSuite struct {
	suite.Suite
	redis    *containers.RedisContainer
	persons  *countingPersons
	vehicles *countingVehicles
	cache    *cache.RegistryCache
}

func TestRegistryCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RegistryCacheSuite))
}

func (s *RegistryCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RegistryCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))

	s.persons = &countingPersons{InMemory: personstore.NewInMemory()}
	s.vehicles = &countingVehicles{InMemory: vehiclestore.NewInMemory()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.cache = cache.New(s.persons, s.vehicles, s.redis.Client, time.Minute, logger)

	ctx := context.Background()
	s.Require().NoError(s.persons.Save(ctx, models.Person{
		ID:     id.PersonID("STU001"),
		Name:   "Dana Osei",
		Role:   models.RoleStudent,
		Status: models.StatusActive,
	}))
	s.Require().NoError(s.vehicles.Create(ctx, models.Vehicle{
		Plate:   id.Plate("ABC123"),
		OwnerID: id.PersonID("STU001"),
		Type:    models.VehicleCar,
		Status:  models.StatusActive,
	}))
}

func (s *RegistryCacheSuite) TestPersonLookupIsCached() {
	ctx := context.Background()

	first, err := s.cache.LookupPerson(ctx, id.PersonID("STU001"))
	s.Require().NoError(err)
	s.Equal(models.StatusActive, first.Status)

	second, err := s.cache.LookupPerson(ctx, id.PersonID("STU001"))
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal(1, s.persons.lookups)
}

func (s *RegistryCacheSuite) TestVehicleLookupIsCached() {
	ctx := context.Background()

	_, err := s.cache.LookupVehicle(ctx, id.Plate("ABC123"))
	s.Require().NoError(err)
	_, err = s.cache.LookupVehicle(ctx, id.Plate("ABC123"))
	s.Require().NoError(err)
	s.Equal(1, s.vehicles.lookups)
}

func (s *RegistryCacheSuite) TestNotFoundIsCachedToo() {
	ctx := context.Background()

	_, err := s.cache.LookupPerson(ctx, id.PersonID("GHOST1"))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.cache.LookupPerson(ctx, id.PersonID("GHOST1"))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.Equal(1, s.persons.lookups)
}

func (s *RegistryCacheSuite) TestInvalidateDropsTheEntry() {
	ctx := context.Background()

	_, err := s.cache.LookupPerson(ctx, id.PersonID("STU001"))
	s.Require().NoError(err)

	s.cache.Invalidate(ctx, "person:STU001")

	_, err = s.cache.LookupPerson(ctx, id.PersonID("STU001"))
	s.Require().NoError(err)
	s.Equal(2, s.persons.lookups)
}

func (s *RegistryCacheSuite) TestCacheSurvivesStatusGranularity() {
	ctx := context.Background()

	s.Require().NoError(s.persons.UpdateStatus(ctx, id.PersonID("STU001"), models.StatusInactive))

	// First read caches the now-inactive record; the snapshot keeps serving
	// until invalidated or expired.
	person, err := s.cache.LookupPerson(ctx, id.PersonID("STU001"))
	s.Require().NoError(err)
	s.Equal(models.StatusInactive, person.Status)

	cached, err := s.cache.LookupPerson(ctx, id.PersonID("STU001"))
	s.Require().NoError(err)
	s.Equal(models.StatusInactive, cached.Status)
}
