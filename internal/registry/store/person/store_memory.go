package person

import (
	"context"
	"sync"

	"campusgate/internal/registry/models"
	id "campusgate/pkg/domain"
	"campusgate/pkg/platform/sentinel"
	"campusgate/pkg/requestcontext"
)

// InMemory keeps person records in a map. Primary store for dev and test
// environments and the test double for the verification path.
type InMemory struct {
	mu      sync.RWMutex
	persons map[id.PersonID]models.Person
}

func NewInMemory() *InMemory {
	return &InMemory{persons: make(map[id.PersonID]models.Person)}
}

func (s *InMemory) LookupPerson(_ context.Context, personID id.PersonID) (models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.persons[personID]; ok {
		return p, nil
	}
	return models.Person{}, sentinel.ErrNotFound
}

func (s *InMemory) Save(ctx context.Context, person models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if person.CreatedAt.IsZero() {
		person.CreatedAt = requestcontext.Now(ctx)
	}
	person.UpdatedAt = requestcontext.Now(ctx)
	s.persons[person.ID] = person
	return nil
}

func (s *InMemory) UpdateStatus(ctx context.Context, personID id.PersonID, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.persons[personID]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = requestcontext.Now(ctx)
	s.persons[personID] = p
	return nil
}
