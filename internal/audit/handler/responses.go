package handler

import (
	"time"

	"campusgate/internal/audit"
)

// EntryResponse is one audit entry on the wire.
type EntryResponse struct {
	ID             int64     `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	GateID         string    `json:"gate_id"`
	PersonID       string    `json:"person_id,omitempty"`
	LicensePlate   string    `json:"license_plate,omitempty"`
	AccessGranted  bool      `json:"access_granted"`
	Method         string    `json:"method"`
	Reason         string    `json:"reason"`
	AlertTriggered bool      `json:"alert_triggered"`
	Notes          string    `json:"notes,omitempty"`
}

// QueryResponse is the HTTP response for GET /api/v1/logs.
type QueryResponse struct {
	Entries []EntryResponse `json:"entries"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Count   int             `json:"count"`
}

// FromEntries converts queried entries to an HTTP response.
func FromEntries(entries []audit.Entry, filter audit.Filter) *QueryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryResponse{
			ID:             e.ID,
			Timestamp:      e.Timestamp,
			GateID:         string(e.GateID),
			PersonID:       string(e.PersonID),
			LicensePlate:   string(e.Plate),
			AccessGranted:  e.Decision.Granted,
			Method:         string(e.Decision.Method),
			Reason:         string(e.Decision.Reason),
			AlertTriggered: e.AlertTriggered,
			Notes:          e.Notes,
		})
	}
	return &QueryResponse{
		Entries: out,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		Count:   len(out),
	}
}

// CleanupResponse is the HTTP response for POST /api/v1/logs/cleanup.
type CleanupResponse struct {
	Removed int64     `json:"removed"`
	Cutoff  time.Time `json:"cutoff"`
}

// StatsResponse is the HTTP response for GET /api/v1/logs/stats.
type StatsResponse struct {
	PeriodHours float64        `json:"period_hours"`
	Total       int            `json:"total"`
	Granted     int            `json:"granted"`
	Denied      int            `json:"denied"`
	Alerts      int            `json:"alerts"`
	ByMethod    map[string]int `json:"by_method"`
	ByGate      map[string]int `json:"by_gate"`
}

// FromStats converts computed stats to an HTTP response.
func FromStats(stats audit.Stats) *StatsResponse {
	byMethod := make(map[string]int, len(stats.ByMethod))
	for method, n := range stats.ByMethod {
		byMethod[string(method)] = n
	}
	byGate := make(map[string]int, len(stats.ByGate))
	for gate, n := range stats.ByGate {
		byGate[string(gate)] = n
	}
	return &StatsResponse{
		PeriodHours: stats.Period.Hours(),
		Total:       stats.Total,
		Granted:     stats.Granted,
		Denied:      stats.Denied,
		Alerts:      stats.Alerts,
		ByMethod:    byMethod,
		ByGate:      byGate,
	}
}
