package handler

import (
	"time"

	"campusgate/internal/alert"
)

// AlertResponse is one alert on the wire.
type AlertResponse struct {
	ID           int64      `json:"id"`
	Type         string     `json:"type"`
	Message      string     `json:"message"`
	PersonID     string     `json:"person_id,omitempty"`
	LicensePlate string     `json:"license_plate,omitempty"`
	GateID       string     `json:"gate_id,omitempty"`
	EntryID      int64      `json:"entry_id,omitempty"`
	Delivered    bool       `json:"delivered"`
	Resolved     bool       `json:"resolved"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// ListResponse is the HTTP response for GET /api/v1/alerts.
type ListResponse struct {
	Alerts []AlertResponse `json:"alerts"`
	Count  int             `json:"count"`
}

// ResolveResponse is the HTTP response for POST /api/v1/alerts/{id}/resolve.
type ResolveResponse struct {
	AlertID  int64 `json:"alert_id"`
	Resolved bool  `json:"resolved"`
}

// FromAlerts converts listed alerts to an HTTP response.
func FromAlerts(alerts []alert.Alert) *ListResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, AlertResponse{
			ID:           a.ID,
			Type:         string(a.Type),
			Message:      a.Message,
			PersonID:     string(a.PersonID),
			LicensePlate: string(a.Plate),
			GateID:       string(a.GateID),
			EntryID:      a.EntryID,
			Delivered:    a.Delivered,
			Resolved:     a.Resolved,
			CreatedAt:    a.CreatedAt,
			ResolvedAt:   a.ResolvedAt,
		})
	}
	return &ListResponse{Alerts: out, Count: len(out)}
}
