package verification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campusgate/internal/alert"
	"campusgate/internal/audit"
	"campusgate/internal/registry"
	"campusgate/internal/verification/metrics"
	id "campusgate/pkg/domain"
	dErrors "campusgate/pkg/domain-errors"
	"campusgate/pkg/requestcontext"
)

// AuditLog is the slice of the audit module the decision path needs.
type AuditLog interface {
	Record(ctx context.Context, entry audit.Entry) (audit.Entry, error)
	RecentDenials(ctx context.Context, personID id.PersonID, window time.Duration) (int, error)
}

// AlertSink receives settled denied attempts. Dispatch failures must not
// unsettle the attempt; the audit record is already written.
type AlertSink interface {
	MaybeDispatch(ctx context.Context, entry audit.Entry) (*alert.Alert, error)
}

// Service orchestrates one verification attempt end to end: validate the
// input, gather registry evidence, apply the decision rules, record the
// audit entry, and dispatch an alert on denial.
type Service struct {
	identity registry.IdentityRegistry
	vehicles registry.VehicleRegistry
	auditLog AuditLog
	alerts   AlertSink
	logger   *slog.Logger
	metrics  *metrics.Metrics

	deniedWindow time.Duration
	deniedLimit  int
}

type Config struct {
	DeniedAttemptWindow time.Duration
	DeniedAttemptLimit  int
}

func NewService(
	identity registry.IdentityRegistry,
	vehicles registry.VehicleRegistry,
	auditLog AuditLog,
	alerts AlertSink,
	cfg Config,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	if cfg.DeniedAttemptWindow <= 0 {
		cfg.DeniedAttemptWindow = 15 * time.Minute
	}
	if cfg.DeniedAttemptLimit <= 0 {
		cfg.DeniedAttemptLimit = 5
	}
	return &Service{
		identity:     identity,
		vehicles:     vehicles,
		auditLog:     auditLog,
		alerts:       alerts,
		logger:       logger,
		metrics:      m,
		deniedWindow: cfg.DeniedAttemptWindow,
		deniedLimit:  cfg.DeniedAttemptLimit,
	}
}

// Verify settles one attempt. Invalid input (no signal at all, or a
// declared method that contradicts the supplied signals) is rejected with
// a validation error before any lookup and is never audited. An
// infrastructure failure during evidence gathering aborts the attempt
// unsettled: no decision, no audit entry, no alert.
func (s *Service) Verify(ctx context.Context, attempt Attempt) (Result, error) {
	if err := validateAttempt(attempt); err != nil {
		return Result{}, err
	}
	attempt.GateID = attempt.GateID.OrDefault()

	ev, err := s.gatherEvidence(ctx, attempt)
	if err != nil {
		s.logger.ErrorContext(ctx, "evidence gathering failed",
			"request_id", requestcontext.RequestID(ctx),
			"gate_id", attempt.GateID,
			"error", err,
		)
		return Result{}, dErrors.Wrap(dErrors.CodeUnavailable, "verification backend unavailable", err)
	}

	decision := Decide(ev)

	entry, err := s.auditLog.Record(ctx, audit.Entry{
		GateID:         attempt.GateID,
		PersonID:       attempt.PersonID,
		Plate:          attempt.Plate,
		Decision:       decision,
		AlertTriggered: !decision.Granted,
		Notes:          evidenceNotes(ev),
	})
	if err != nil {
		// Without the audit record the attempt is not settled, whatever
		// the engine decided.
		return Result{}, err
	}

	if s.metrics != nil {
		s.metrics.ObserveAttempt(string(decision.Method), decision.Granted)
		if !decision.Granted {
			s.metrics.IncrementDenial(string(decision.Reason))
		}
	}

	result := Result{
		Decision:     decision,
		AuditEntryID: entry.ID,
		Notes:        entry.Notes,
		DecidedAt:    entry.Timestamp,
	}

	if !decision.Granted && s.alerts != nil {
		a, alertErr := s.alerts.MaybeDispatch(ctx, entry)
		if alertErr != nil {
			// The denial is already recorded; alerting is best effort.
			s.logger.ErrorContext(ctx, "alert dispatch failed",
				"request_id", requestcontext.RequestID(ctx),
				"entry_id", entry.ID,
				"error", alertErr,
			)
		} else if a != nil {
			result.AlertID = &a.ID
		}
	}

	return result, nil
}

func validateAttempt(attempt Attempt) error {
	hasIdentity := attempt.PersonID != ""
	hasVehicle := attempt.Plate != ""

	if !hasIdentity && !hasVehicle {
		return dErrors.New(dErrors.CodeValidation, "at least one of person_id or license_plate is required")
	}

	switch attempt.Method {
	case "":
		// Method is derived from the supplied signals.
	case id.MethodIdentityOnly:
		if !hasIdentity || hasVehicle {
			return dErrors.New(dErrors.CodeValidation, "method identity_only requires person_id and no license_plate")
		}
	case id.MethodVehicleOnly:
		if !hasVehicle || hasIdentity {
			return dErrors.New(dErrors.CodeValidation, "method vehicle_only requires license_plate and no person_id")
		}
	case id.MethodBoth:
		if !hasIdentity || !hasVehicle {
			return dErrors.New(dErrors.CodeValidation, "method both requires person_id and license_plate")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, "unrecognized verification method")
	}
	return nil
}

// evidenceNotes renders the registry-level outcomes for the audit trail.
func evidenceNotes(ev Evidence) string {
	var parts []string
	if ev.Identity != ValidityAbsent {
		parts = append(parts, fmt.Sprintf("identity=%s", ev.IdentityNote))
	}
	if ev.Vehicle != ValidityAbsent {
		parts = append(parts, fmt.Sprintf("vehicle=%s", ev.VehicleNote))
	}
	return strings.Join(parts, " ")
}
