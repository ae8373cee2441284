package verification

import (
	"context"
	"errors"
	"time"

	"campusgate/pkg/platform/sentinel"

	"golang.org/x/sync/errgroup"
)

const evidenceTimeout = 3 * time.Second

// Registry-result notes recorded on the audit entry. The decision only
// keeps valid/invalid; the note preserves why a signal was rejected.
const (
	noteActive        = "active"
	noteNotFound      = "not_found"
	noteInactive      = "inactive"
	noteInactiveOwner = "inactive_owner"
	noteSuspicious    = "suspicious_pattern"
	noteLockout       = "repeated_denials"
)

// gatherEvidence resolves the attempt's signals in parallel with shared
// context cancellation. A registry infrastructure failure aborts the whole
// gather; not-found and inactive records are evidence, not errors.
func (s *Service) gatherEvidence(ctx context.Context, attempt Attempt) (Evidence, error) {
	ctx, cancel := context.WithTimeout(ctx, evidenceTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	var ev Evidence

	if attempt.PersonID != "" {
		g.Go(func() error {
			return s.resolveIdentity(ctx, attempt, &ev)
		})
	}

	if attempt.Plate != "" {
		g.Go(func() error {
			return s.resolveVehicle(ctx, attempt, &ev)
		})
	}

	if err := g.Wait(); err != nil {
		return Evidence{}, err
	}
	return ev, nil
}

func (s *Service) resolveIdentity(ctx context.Context, attempt Attempt, ev *Evidence) error {
	// Probe patterns are rejected before the registry sees them.
	if SuspiciousIdentifier(attempt.PersonID) {
		ev.Identity = ValidityInvalid
		ev.IdentityNote = noteSuspicious
		s.logger.WarnContext(ctx, "suspicious identifier rejected",
			"person_id", attempt.PersonID,
			"gate_id", attempt.GateID,
		)
		return nil
	}

	start := time.Now()
	person, err := s.identity.LookupPerson(ctx, attempt.PersonID)
	if s.metrics != nil {
		s.metrics.ObserveEvidenceLatency("identity", time.Since(start))
	}

	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		ev.Identity = ValidityInvalid
		ev.IdentityNote = noteNotFound
		return nil
	case err != nil:
		return err
	case !person.IsActive():
		ev.Identity = ValidityInvalid
		ev.IdentityNote = noteInactive
		return nil
	}

	// A known, active person can still be locked out by repeated recent
	// denials at the gates.
	denials, err := s.auditLog.RecentDenials(ctx, attempt.PersonID, s.deniedWindow)
	if err != nil {
		return err
	}
	if denials >= s.deniedLimit {
		ev.Identity = ValidityInvalid
		ev.IdentityNote = noteLockout
		s.logger.WarnContext(ctx, "person locked out after repeated denials",
			"person_id", attempt.PersonID,
			"denied_attempts", denials,
			"window", s.deniedWindow,
		)
		return nil
	}

	ev.Identity = ValidityValid
	ev.IdentityNote = noteActive
	return nil
}

func (s *Service) resolveVehicle(ctx context.Context, attempt Attempt, ev *Evidence) error {
	start := time.Now()
	vehicle, err := s.vehicles.LookupVehicle(ctx, attempt.Plate)
	if s.metrics != nil {
		s.metrics.ObserveEvidenceLatency("vehicle", time.Since(start))
	}

	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		ev.Vehicle = ValidityInvalid
		ev.VehicleNote = noteNotFound
		return nil
	case err != nil:
		return err
	case !vehicle.IsActive():
		ev.Vehicle = ValidityInvalid
		ev.VehicleNote = noteInactive
		return nil
	}

	// An active registration does not outlive its owner: a vehicle owned by
	// a deactivated (or since-removed) person is rejected.
	if vehicle.OwnerID != "" {
		owner, err := s.identity.LookupPerson(ctx, vehicle.OwnerID)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			ev.Vehicle = ValidityInvalid
			ev.VehicleNote = noteInactiveOwner
			return nil
		case err != nil:
			return err
		case !owner.IsActive():
			ev.Vehicle = ValidityInvalid
			ev.VehicleNote = noteInactiveOwner
			return nil
		}
	}

	ev.Vehicle = ValidityValid
	ev.VehicleNote = noteActive
	return nil
}
