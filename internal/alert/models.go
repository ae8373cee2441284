// Package alert owns denial notifications. Alerts are created exactly once
// per denied audit entry and resolved independently by security authorities.
package alert

import (
	"fmt"
	"time"

	id "campusgate/pkg/domain"
)

// Type classifies an alert for routing and dashboards.
type Type string

const (
	TypeUnauthorizedIdentity Type = "unauthorized_identity"
	TypeUnauthorizedVehicle  Type = "unauthorized_vehicle"
	TypeSystemError          Type = "system_error"
)

// Alert is a denial notification. EntryID references the audit entry that
// spawned it; the audit entry never references back, so the entry stays
// immutable.
type Alert struct {
	ID       int64
	Type     Type
	Message  string
	PersonID id.PersonID
	Plate    id.Plate
	GateID   id.GateID
	EntryID  int64
	// Delivered records whether the notification collaborator accepted the
	// alert. An undelivered alert is still persisted and listed; it is
	// never silently dropped.
	Delivered  bool
	Resolved   bool
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// unauthorizedIdentityMessage formats the operator-facing message for an
// identity denial.
func unauthorizedIdentityMessage(personID id.PersonID) string {
	return fmt.Sprintf("Unauthorized ID scan attempt detected - ID: %s", personID)
}

// unauthorizedVehicleMessage formats the operator-facing message for a
// vehicle denial.
func unauthorizedVehicleMessage(plate id.Plate) string {
	return fmt.Sprintf("Unregistered vehicle detected - Plate: %s", plate)
}
