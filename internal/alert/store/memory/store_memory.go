package memory

import (
	"context"
	"sync"
	"time"

	"campusgate/internal/alert"
	"campusgate/pkg/platform/sentinel"
)

// InMemoryStore keeps alerts in a slice with an entry-ID index for the
// per-entry uniqueness rule.
type InMemoryStore struct {
	mu      sync.RWMutex
	alerts  []alert.Alert
	byEntry map[int64]int // entry ID -> index into alerts
	nextID  int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byEntry: make(map[int64]int), nextID: 1}
}

func (s *InMemoryStore) Create(_ context.Context, a alert.Alert) (alert.Alert, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.EntryID != 0 {
		if idx, exists := s.byEntry[a.EntryID]; exists {
			return s.alerts[idx], false, nil
		}
	}

	a.ID = s.nextID
	s.nextID++
	s.alerts = append(s.alerts, a)
	if a.EntryID != 0 {
		s.byEntry[a.EntryID] = len(s.alerts) - 1
	}
	return a, true, nil
}

func (s *InMemoryStore) Resolve(_ context.Context, alertID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID != alertID {
			continue
		}
		if s.alerts[i].Resolved {
			return nil
		}
		s.alerts[i].Resolved = true
		s.alerts[i].ResolvedAt = &at
		return nil
	}
	// Unknown alert: resolution is a no-op by contract.
	return nil
}

func (s *InMemoryStore) MarkDelivered(_ context.Context, alertID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == alertID {
			s.alerts[i].Delivered = true
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context, resolved *bool) ([]alert.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []alert.Alert
	// Newest first.
	for i := len(s.alerts) - 1; i >= 0; i-- {
		a := s.alerts[i]
		if resolved != nil && a.Resolved != *resolved {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *InMemoryStore) Find(_ context.Context, alertID int64) (alert.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alerts {
		if a.ID == alertID {
			return a, nil
		}
	}
	return alert.Alert{}, sentinel.ErrNotFound
}
