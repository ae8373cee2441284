package vehicle

import (
	"context"
	"sync"

	"campusgate/internal/registry/models"
	id "campusgate/pkg/domain"
	"campusgate/pkg/platform/sentinel"
	"campusgate/pkg/requestcontext"
)

// InMemory keeps vehicle records keyed by normalized plate. Plate
// uniqueness is enforced at creation under the write lock, matching the
// unique-constraint behavior of the PostgreSQL store.
type InMemory struct {
	mu       sync.RWMutex
	vehicles map[id.Plate]models.Vehicle
}

func NewInMemory() *InMemory {
	return &InMemory{vehicles: make(map[id.Plate]models.Vehicle)}
}

func (s *InMemory) LookupVehicle(_ context.Context, plate id.Plate) (models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.vehicles[plate]; ok {
		return v, nil
	}
	return models.Vehicle{}, sentinel.ErrNotFound
}

func (s *InMemory) Create(ctx context.Context, vehicle models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.vehicles[vehicle.Plate]; exists {
		return sentinel.ErrConflict
	}
	now := requestcontext.Now(ctx)
	if vehicle.RegisteredAt.IsZero() {
		vehicle.RegisteredAt = now
	}
	vehicle.UpdatedAt = now
	s.vehicles[vehicle.Plate] = vehicle
	return nil
}

func (s *InMemory) Update(ctx context.Context, vehicle models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.vehicles[vehicle.Plate]
	if !ok {
		return sentinel.ErrNotFound
	}
	vehicle.RegisteredAt = existing.RegisteredAt
	vehicle.UpdatedAt = requestcontext.Now(ctx)
	s.vehicles[vehicle.Plate] = vehicle
	return nil
}

func (s *InMemory) CountByOwner(_ context.Context, ownerID id.PersonID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, v := range s.vehicles {
		if v.OwnerID == ownerID && v.Status == models.StatusActive {
			count++
		}
	}
	return count, nil
}
