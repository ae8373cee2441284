// Package audit owns the append-only record of verification attempts. Every
// accepted attempt produces exactly one immutable Entry; entries are never
// updated or deleted by normal operation. Bulk retention cleanup is a
// separate maintenance operation, not part of the decision path.
package audit

import (
	"time"

	id "campusgate/pkg/domain"
)

// Entry is one recorded verification attempt and its decision.
type Entry struct {
	// ID is strictly increasing within a log instance.
	ID        int64
	Timestamp time.Time
	GateID    id.GateID
	PersonID  id.PersonID
	Plate     id.Plate
	Decision  id.Decision
	// AlertTriggered is set at creation for denied decisions; the alert
	// itself holds the owning reference back to this entry.
	AlertTriggered bool
	// Notes carries registry-result granularity (not_found vs inactive,
	// suspicious patterns) that the boolean decision flattens.
	Notes string
}

// Filter selects entries for Query. Zero values mean "no constraint".
type Filter struct {
	From     time.Time
	To       time.Time
	GateID   id.GateID
	PersonID id.PersonID
	Plate    id.Plate
	Granted  *bool
	HasAlert *bool
	Limit    int
	Offset   int
}

// Stats is an on-demand aggregation over the log. It is recomputed from the
// store on every call rather than maintained as running counters, so the
// reported numbers can never drift from the entries themselves.
type Stats struct {
	Period   time.Duration
	Total    int
	Granted  int
	Denied   int
	Alerts   int
	ByMethod map[id.Method]int
	ByGate   map[id.GateID]int
}
