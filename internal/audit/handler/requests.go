package handler

import (
	dErrors "campusgate/pkg/domain-errors"
)

// CleanupRequest is the HTTP request body for POST /api/v1/logs/cleanup.
// OlderThanDays of zero means "use the configured retention horizon".
type CleanupRequest struct {
	OlderThanDays int `json:"older_than_days"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CleanupRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.OlderThanDays < 0 {
		return dErrors.New(dErrors.CodeValidation, "older_than_days must not be negative")
	}
	return nil
}
