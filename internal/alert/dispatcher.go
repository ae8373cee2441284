package alert

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"campusgate/internal/alert/metrics"
	"campusgate/internal/audit"
	id "campusgate/pkg/domain"
	dErrors "campusgate/pkg/domain-errors"
	"campusgate/pkg/requestcontext"
)

// Store is the persistence contract for alerts. Create assigns the alert ID
// and enforces at-most-one alert per audit entry: when an alert for the same
// entry already exists, the existing alert is returned with created=false.
// Delivery-failure system alerts carry EntryID 0 and are exempt from the
// uniqueness rule.
type Store interface {
	Create(ctx context.Context, a Alert) (alert Alert, created bool, err error)
	Resolve(ctx context.Context, alertID int64, at time.Time) error
	MarkDelivered(ctx context.Context, alertID int64) error
	List(ctx context.Context, resolved *bool) ([]Alert, error)
	Find(ctx context.Context, alertID int64) (Alert, error)
}

// Dispatcher creates and delivers alerts for denied attempts.
type Dispatcher struct {
	store       Store
	notifier    Notifier
	retryBudget int
	logger      *slog.Logger
	metrics     *metrics.Metrics

	// undelivered counts alerts whose delivery exhausted the retry budget
	// since the last successful dispatch. Surfaced as a system_error alert
	// on the next success so operators learn about the gap.
	undelivered atomic.Int64
}

func NewDispatcher(store Store, notifier Notifier, retryBudget int, logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	if retryBudget < 1 {
		retryBudget = 1
	}
	return &Dispatcher{store: store, notifier: notifier, retryBudget: retryBudget, logger: logger, metrics: m}
}

// MaybeDispatch creates an alert for the entry iff its decision was a
// denial. Idempotent per entry: retried delivery of the same entry never
// spawns a second alert. Returns nil for granted decisions.
func (d *Dispatcher) MaybeDispatch(ctx context.Context, entry audit.Entry) (*Alert, error) {
	if entry.Decision.Granted {
		return nil, nil
	}

	a := Alert{
		Type:      typeFor(entry),
		PersonID:  entry.PersonID,
		Plate:     entry.Plate,
		GateID:    entry.GateID,
		EntryID:   entry.ID,
		CreatedAt: requestcontext.Now(ctx),
	}
	a.Message = messageFor(a)

	created, wasNew, err := d.store.Create(ctx, a)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "alert store unavailable", err)
	}
	if !wasNew {
		// Entry already alerted; do not re-deliver.
		return &created, nil
	}
	d.metrics.IncrementCreated(string(created.Type))

	d.deliver(ctx, &created)
	return &created, nil
}

// deliver attempts notification within the retry budget and updates
// delivery bookkeeping. Failures are logged and counted, never returned:
// the audit entry is already durable and the alert is already persisted.
func (d *Dispatcher) deliver(ctx context.Context, a *Alert) {
	var lastErr error
	for attempt := 0; attempt < d.retryBudget; attempt++ {
		if lastErr = d.notifier.Deliver(ctx, *a); lastErr == nil {
			break
		}
		d.metrics.IncrementDeliveryFailure()
	}

	if lastErr != nil {
		d.undelivered.Add(1)
		d.logger.ErrorContext(ctx, "alert delivery failed, alert persisted undelivered",
			"request_id", requestcontext.RequestID(ctx),
			"alert_id", a.ID,
			"type", a.Type,
			"attempts", d.retryBudget,
			"error", lastErr,
		)
		return
	}

	a.Delivered = true
	if err := d.store.MarkDelivered(ctx, a.ID); err != nil {
		d.logger.WarnContext(ctx, "failed to mark alert delivered",
			"alert_id", a.ID, "error", err)
	}

	if backlog := d.undelivered.Swap(0); backlog > 0 {
		d.reportBacklog(ctx, backlog)
	}
}

// reportBacklog creates a system_error alert describing alerts that
// exhausted their delivery retries while the notification channel was down.
func (d *Dispatcher) reportBacklog(ctx context.Context, backlog int64) {
	sys := Alert{
		Type:      TypeSystemError,
		Message:   fmt.Sprintf("System error: %d alert(s) could not be delivered and are pending review", backlog),
		GateID:    id.DefaultGate,
		CreatedAt: requestcontext.Now(ctx),
	}
	created, _, err := d.store.Create(ctx, sys)
	if err != nil {
		// Put the count back so the next success reports it.
		d.undelivered.Add(backlog)
		d.logger.ErrorContext(ctx, "failed to record delivery backlog alert", "error", err)
		return
	}
	d.metrics.IncrementCreated(string(TypeSystemError))
	if err := d.notifier.Deliver(ctx, created); err == nil {
		_ = d.store.MarkDelivered(ctx, created.ID)
	}
}

// Resolve marks an alert resolved. Idempotent: resolving an unknown or
// already-resolved alert is a no-op, not an error.
func (d *Dispatcher) Resolve(ctx context.Context, alertID int64) error {
	if err := d.store.Resolve(ctx, alertID, requestcontext.Now(ctx)); err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "alert store unavailable", err)
	}
	d.logger.InfoContext(ctx, "alert resolved",
		"request_id", requestcontext.RequestID(ctx),
		"alert_id", alertID,
		"authority_id", requestcontext.AuthorityID(ctx),
	)
	return nil
}

// List returns alerts, optionally filtered by resolution state.
func (d *Dispatcher) List(ctx context.Context, resolved *bool) ([]Alert, error) {
	alerts, err := d.store.List(ctx, resolved)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "alert store unavailable", err)
	}
	return alerts, nil
}

// typeFor selects the alert type from the decision reason. Identity takes
// priority when both signals were supplied and invalid; the audit entry
// still records both.
func typeFor(entry audit.Entry) Type {
	switch entry.Decision.Reason {
	case id.ReasonIdentityInvalid, id.ReasonBothInvalid:
		return TypeUnauthorizedIdentity
	case id.ReasonVehicleInvalid:
		return TypeUnauthorizedVehicle
	default:
		return TypeSystemError
	}
}

func messageFor(a Alert) string {
	switch a.Type {
	case TypeUnauthorizedIdentity:
		return unauthorizedIdentityMessage(a.PersonID)
	case TypeUnauthorizedVehicle:
		return unauthorizedVehicleMessage(a.Plate)
	default:
		return "System error: denied attempt carried no verification input"
	}
}
