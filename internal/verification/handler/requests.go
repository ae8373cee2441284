package handler

import (
	id "campusgate/pkg/domain"
	dErrors "campusgate/pkg/domain-errors"
)

// VerifyRequest is the HTTP request body for POST /api/v1/verify.
// PersonID and LicensePlate are each optional but at least one must be
// supplied. PlateConfidence carries the recognizer's score when the plate
// came from OCR rather than manual entry.
type VerifyRequest struct {
	PersonID        string   `json:"person_id"`
	LicensePlate    string   `json:"license_plate"`
	PlateConfidence *float64 `json:"plate_confidence,omitempty"`
	Method          string   `json:"method,omitempty"`
	GateID          string   `json:"gate_id,omitempty"`

	// Parsed values (populated by Validate)
	parsedPersonID id.PersonID
	parsedPlate    id.Plate
	parsedMethod   id.Method
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if r.PersonID == "" && r.LicensePlate == "" {
		return dErrors.New(dErrors.CodeValidation, "at least one of person_id or license_plate is required")
	}

	if r.PersonID != "" {
		personID, err := id.ParsePersonID(r.PersonID)
		if err != nil {
			return err
		}
		r.parsedPersonID = personID
	}

	if r.LicensePlate != "" {
		plate, err := id.ParsePlate(r.LicensePlate)
		if err != nil {
			return err
		}
		r.parsedPlate = plate
	}

	if r.PlateConfidence != nil && (*r.PlateConfidence < 0 || *r.PlateConfidence > 1) {
		return dErrors.New(dErrors.CodeValidation, "plate_confidence must be between 0 and 1")
	}

	if r.Method != "" {
		method, err := id.ParseMethod(r.Method)
		if err != nil {
			return err
		}
		r.parsedMethod = method
	}

	return nil
}

// ParsedPersonID returns the validated person ID, zero when absent.
func (r *VerifyRequest) ParsedPersonID() id.PersonID {
	return r.parsedPersonID
}

// ParsedPlate returns the validated, normalized plate, zero when absent.
func (r *VerifyRequest) ParsedPlate() id.Plate {
	return r.parsedPlate
}

// ParsedMethod returns the declared method, zero when the caller left it
// to be derived from the supplied signals.
func (r *VerifyRequest) ParsedMethod() id.Method {
	return r.parsedMethod
}
