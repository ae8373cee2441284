//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campusgate/internal/audit"
	"campusgate/internal/audit/store/postgres"
	id "campusgate/pkg/domain"
	"campusgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *containers.PostgresContainer
	store     *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.container = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.container.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.container.Truncate(context.Background()))
}

func (s *PostgresStoreSuite) append(entry audit.Entry) audit.Entry {
	stored, err := s.store.Append(context.Background(), entry)
	s.Require().NoError(err)
	return stored
}

func deniedEntry(personID string, at time.Time) audit.Entry {
	return audit.Entry{
		Timestamp: at,
		GateID:    id.DefaultGate,
		PersonID:  id.PersonID(personID),
		Decision: id.Decision{
			Granted: false,
			Method:  id.MethodIdentityOnly,
			Reason:  id.ReasonIdentityInvalid,
		},
		AlertTriggered: true,
		Notes:          "identity=not_found",
	}
}

func (s *PostgresStoreSuite) TestAppendRoundTrip() {
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	stored := s.append(audit.Entry{
		Timestamp: at,
		GateID:    id.GateID("NORTH_GATE"),
		PersonID:  id.PersonID("STU001"),
		Plate:     id.Plate("ABC123"),
		Decision: id.Decision{
			Granted: true,
			Method:  id.MethodBoth,
			Reason:  id.ReasonBothValid,
		},
		Notes: "identity=active vehicle=active",
	})
	s.Require().NotZero(stored.ID)

	entries, err := s.store.Query(ctx, audit.Filter{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(entries, 1)

	got := entries[0]
	s.Equal(stored.ID, got.ID)
	s.True(got.Timestamp.Equal(at))
	s.Equal(id.GateID("NORTH_GATE"), got.GateID)
	s.Equal(id.PersonID("STU001"), got.PersonID)
	s.Equal(id.Plate("ABC123"), got.Plate)
	s.True(got.Decision.Granted)
	s.Equal(id.MethodBoth, got.Decision.Method)
	s.Equal(id.ReasonBothValid, got.Decision.Reason)
	s.False(got.AlertTriggered)
	s.Equal("identity=active vehicle=active", got.Notes)
}

func (s *PostgresStoreSuite) TestAbsentSignalsStayAbsent() {
	ctx := context.Background()
	s.append(deniedEntry("", time.Now().UTC()))

	entries, err := s.store.Query(ctx, audit.Filter{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.True(entries[0].PersonID.IsZero())
	s.True(entries[0].Plate.IsZero())
}

func (s *PostgresStoreSuite) TestConcurrentAppendsKeepIncreasingIDs() {
	const appends = 30
	at := time.Now().UTC()

	var wg sync.WaitGroup
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Append(context.Background(), deniedEntry("STU001", at))
			s.NoError(err)
		}()
	}
	wg.Wait()

	entries, err := s.store.Query(context.Background(), audit.Filter{Limit: appends * 2})
	s.Require().NoError(err)
	s.Require().Len(entries, appends)
	for i := 1; i < len(entries); i++ {
		s.Greater(entries[i-1].ID, entries[i].ID)
	}
}

func (s *PostgresStoreSuite) TestQueryFilters() {
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	s.append(deniedEntry("STU001", base))
	s.append(deniedEntry("STU002", base.Add(time.Minute)))
	granted := deniedEntry("STU001", base.Add(2*time.Minute))
	granted.Decision.Granted = true
	granted.Decision.Reason = id.ReasonIdentityValid
	granted.AlertTriggered = false
	s.append(granted)

	byPerson, err := s.store.Query(ctx, audit.Filter{PersonID: id.PersonID("STU001"), Limit: 10})
	s.Require().NoError(err)
	s.Len(byPerson, 2)

	deniedOnly := false
	byOutcome, err := s.store.Query(ctx, audit.Filter{Granted: &deniedOnly, Limit: 10})
	s.Require().NoError(err)
	s.Len(byOutcome, 2)

	window, err := s.store.Query(ctx, audit.Filter{
		From:  base.Add(30 * time.Second),
		To:    base.Add(90 * time.Second),
		Limit: 10,
	})
	s.Require().NoError(err)
	s.Require().Len(window, 1)
	s.Equal(id.PersonID("STU002"), window[0].PersonID)

	page, err := s.store.Query(ctx, audit.Filter{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal(id.PersonID("STU002"), page[0].PersonID)
}

func (s *PostgresStoreSuite) TestCountDeniedRespectsWindow() {
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	s.append(deniedEntry("STU001", base.Add(-time.Hour)))
	s.append(deniedEntry("STU001", base.Add(-5*time.Minute)))
	s.append(deniedEntry("STU001", base.Add(-time.Minute)))
	s.append(deniedEntry("STU002", base.Add(-time.Minute)))

	count, err := s.store.CountDenied(ctx, id.PersonID("STU001"), base.Add(-15*time.Minute))
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *PostgresStoreSuite) TestDeleteBefore() {
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	s.append(deniedEntry("STU001", base.AddDate(0, 0, -100)))
	s.append(deniedEntry("STU002", base.AddDate(0, 0, -95)))
	keeper := s.append(deniedEntry("STU003", base))

	removed, err := s.store.DeleteBefore(ctx, base.AddDate(0, 0, -90))
	s.Require().NoError(err)
	s.Equal(int64(2), removed)

	entries, err := s.store.Query(ctx, audit.Filter{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(keeper.ID, entries[0].ID)
}
