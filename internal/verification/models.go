// Package verification is the decision core: it combines identity and
// vehicle lookups into one access decision, records the attempt in the
// audit log, and hands denials to the alert dispatcher.
package verification

import (
	"time"

	id "campusgate/pkg/domain"
)

// Validity is the tri-state outcome of resolving one verification signal.
// Modeling "absent" explicitly keeps the decision rules free of null checks
// and keeps "never provided" distinct from "provided and rejected".
type Validity int

const (
	// ValidityAbsent means the signal was not supplied on this attempt.
	ValidityAbsent Validity = iota
	// ValidityInvalid means the signal was supplied but resolved to an
	// unknown, inactive, or rejected record.
	ValidityInvalid
	// ValidityValid means the signal resolved to an active record.
	ValidityValid
)

func (v Validity) String() string {
	switch v {
	case ValidityValid:
		return "valid"
	case ValidityInvalid:
		return "invalid"
	default:
		return "absent"
	}
}

// Attempt is one request to verify a person and/or vehicle at a gate.
// PersonID and Plate are optional but at least one must be present; the
// service rejects empty attempts before they reach the engine.
type Attempt struct {
	PersonID   id.PersonID
	Plate      id.Plate
	Method     id.Method
	GateID     id.GateID
	ObservedAt time.Time
}

// Evidence is the resolved state of an attempt's signals at decision time,
// plus registry-result granularity for the audit notes.
type Evidence struct {
	Identity Validity
	Vehicle  Validity
	// IdentityNote / VehicleNote carry the registry-level distinction the
	// boolean decision flattens: not_found vs inactive vs suspicious.
	IdentityNote string
	VehicleNote  string
}

// Result is what the orchestrator returns for one settled attempt.
type Result struct {
	Decision     id.Decision
	AuditEntryID int64
	AlertID      *int64
	Notes        string
	DecidedAt    time.Time
}
