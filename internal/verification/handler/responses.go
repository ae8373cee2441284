package handler

import (
	"time"

	"campusgate/internal/verification"
)

// VerifyResponse is the HTTP response for POST /api/v1/verify.
type VerifyResponse struct {
	AccessGranted bool      `json:"access_granted"`
	Method        string    `json:"method"`
	Reason        string    `json:"reason"`
	EntryID       int64     `json:"entry_id"`
	AlertID       *int64    `json:"alert_id,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// FromResult converts a settled verification result to an HTTP response.
func FromResult(result verification.Result) *VerifyResponse {
	return &VerifyResponse{
		AccessGranted: result.Decision.Granted,
		Method:        string(result.Decision.Method),
		Reason:        string(result.Decision.Reason),
		EntryID:       result.AuditEntryID,
		AlertID:       result.AlertID,
		Notes:         result.Notes,
		Timestamp:     result.DecidedAt,
	}
}
