package audit_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campusgate/internal/audit"
	"campusgate/internal/audit/store/memory"
	id "campusgate/pkg/domain"
	"campusgate/pkg/requestcontext"
)

type AuditLogSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	store *memory.InMemoryStore
	log   *audit.Log
}

func TestAuditLogSuite(t *testing.T) {
	suite.Run(t, new(AuditLogSuite))
}

func (s *AuditLogSuite) SetupTest() {
	s.now = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.store = memory.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.log = audit.NewLog(s.store, logger)
}

func (s *AuditLogSuite) record(personID id.PersonID, granted bool) audit.Entry {
	entry, err := s.log.Record(s.ctx, audit.Entry{
		GateID:   id.DefaultGate,
		PersonID: personID,
		Decision: id.Decision{
			Granted: granted,
			Method:  id.MethodIdentityOnly,
			Reason:  id.ReasonIdentityValid,
		},
		AlertTriggered: !granted,
	})
	s.Require().NoError(err)
	return entry
}

// TestTimestampsNeverRunBackwards verifies the monotonic clock clamp: even
// with a frozen wall clock, successive entries get strictly increasing
// timestamps.
func (s *AuditLogSuite) TestTimestampsNeverRunBackwards() {
	first := s.record("STU001", true)
	second := s.record("STU002", true)
	third := s.record("STU003", true)

	s.True(second.Timestamp.After(first.Timestamp))
	s.True(third.Timestamp.After(second.Timestamp))
	s.Less(first.ID, second.ID)
	s.Less(second.ID, third.ID)
}

func (s *AuditLogSuite) TestConcurrentRecordsStayOrdered() {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.record("STU001", true)
		}()
	}
	wg.Wait()

	entries, err := s.log.Query(s.ctx, audit.Filter{Limit: 100})
	s.Require().NoError(err)
	s.Require().Len(entries, 50)

	// Newest first by ID, and timestamp order must agree with ID order: a
	// later ID never carries an earlier (or equal) timestamp.
	for i := 1; i < len(entries); i++ {
		s.Greater(entries[i-1].ID, entries[i].ID)
		s.True(entries[i-1].Timestamp.After(entries[i].Timestamp),
			"entry %d has timestamp %v, not after entry %d's %v",
			entries[i-1].ID, entries[i-1].Timestamp, entries[i].ID, entries[i].Timestamp)
	}
}

// slowStore stretches the append window so concurrent Records would
// interleave if the timestamp claim and the append were separate critical
// sections.
type slowStore struct {
	*memory.InMemoryStore
	delay time.Duration
}

func (st *slowStore) Append(ctx context.Context, entry audit.Entry) (audit.Entry, error) {
	time.Sleep(st.delay)
	return st.InMemoryStore.Append(ctx, entry)
}

func (s *AuditLogSuite) TestSlowAppendCannotReorderTimestamps() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	log := audit.NewLog(&slowStore{InMemoryStore: s.store, delay: time.Millisecond}, logger)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := log.Record(s.ctx, audit.Entry{
				GateID:   id.DefaultGate,
				PersonID: "STU001",
				Decision: id.Decision{Granted: false, Method: id.MethodIdentityOnly, Reason: id.ReasonIdentityInvalid},
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	entries, err := log.Query(s.ctx, audit.Filter{Limit: 20})
	s.Require().NoError(err)
	s.Require().Len(entries, 10)
	for i := 1; i < len(entries); i++ {
		s.Greater(entries[i-1].ID, entries[i].ID)
		s.True(entries[i-1].Timestamp.After(entries[i].Timestamp))
	}
}

func (s *AuditLogSuite) TestQueryLimitDefaults() {
	for i := 0; i < 60; i++ {
		s.record("STU001", true)
	}

	s.Run("defaults to 50", func() {
		entries, err := s.log.Query(s.ctx, audit.Filter{})
		s.Require().NoError(err)
		s.Len(entries, 50)
	})

	s.Run("caps at 500", func() {
		entries, err := s.log.Query(s.ctx, audit.Filter{Limit: 10000})
		s.Require().NoError(err)
		s.Len(entries, 60)
	})
}

func (s *AuditLogSuite) TestRecentDenials() {
	s.record("STU001", false)
	s.record("STU001", false)
	s.record("STU001", true)

	count, err := s.log.RecentDenials(s.ctx, "STU001", 15*time.Minute)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *AuditLogSuite) TestStatsRecomputedFromEntries() {
	s.record("STU001", true)
	s.record("STU002", false)
	s.record("STU003", false)

	stats, err := s.log.Stats(s.ctx, 24*time.Hour)
	s.Require().NoError(err)

	s.Equal(3, stats.Total)
	s.Equal(1, stats.Granted)
	s.Equal(2, stats.Denied)
	s.Equal(2, stats.Alerts)
	s.Equal(3, stats.ByMethod[id.MethodIdentityOnly])
	s.Equal(3, stats.ByGate[id.DefaultGate])
}

func (s *AuditLogSuite) TestCleanupBefore() {
	s.record("STU001", true)
	s.record("STU002", true)

	removed, err := s.log.CleanupBefore(s.ctx, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(int64(2), removed)

	entries, err := s.log.Query(s.ctx, audit.Filter{})
	s.Require().NoError(err)
	s.Empty(entries)
}
