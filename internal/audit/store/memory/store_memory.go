package memory

import (
	"context"
	"sync"
	"time"

	"campusgate/internal/audit"
	id "campusgate/pkg/domain"
)

// InMemoryStore is an append-only slice of entries. Primary store for dev
// and test environments.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []audit.Entry
	nextID  int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) Append(_ context.Context, entry audit.Entry) (audit.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.nextID
	s.nextID++
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *InMemoryStore) Query(_ context.Context, filter audit.Filter) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []audit.Entry
	// Entries are appended in timestamp order; walk backwards for newest
	// first.
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if !matches(e, filter) {
			continue
		}
		matched = append(matched, e)
	}

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *InMemoryStore) CountDenied(_ context.Context, personID id.PersonID, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if e.Timestamp.Before(since) {
			break
		}
		if e.PersonID == personID && !e.Decision.Granted {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	var removed int64
	for _, e := range s.entries {
		if e.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

func matches(e audit.Entry, f audit.Filter) bool {
	if !f.From.IsZero() && e.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Timestamp.After(f.To) {
		return false
	}
	if f.GateID != "" && e.GateID != f.GateID {
		return false
	}
	if f.PersonID != "" && e.PersonID != f.PersonID {
		return false
	}
	if f.Plate != "" && e.Plate != f.Plate {
		return false
	}
	if f.Granted != nil && e.Decision.Granted != *f.Granted {
		return false
	}
	if f.HasAlert != nil && e.AlertTriggered != *f.HasAlert {
		return false
	}
	return true
}
