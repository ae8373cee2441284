package handler

import (
	"strings"

	"campusgate/internal/registry/models"
	id "campusgate/pkg/domain"
	dErrors "campusgate/pkg/domain-errors"
)

// RegisterVehicleRequest is the HTTP request body for POST /api/v1/vehicles.
type RegisterVehicleRequest struct {
	LicensePlate string `json:"license_plate"`
	OwnerID      string `json:"owner_id"`
	VehicleType  string `json:"vehicle_type"`
	Color        string `json:"color,omitempty"`
	Model        string `json:"model,omitempty"`

	// Parsed values (populated by Validate)
	parsedPlate   id.Plate
	parsedOwnerID id.PersonID
	parsedType    models.VehicleType
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RegisterVehicleRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if strings.TrimSpace(r.LicensePlate) == "" {
		return dErrors.New(dErrors.CodeValidation, "license_plate is required")
	}
	plate, err := id.ParsePlate(r.LicensePlate)
	if err != nil {
		return err
	}
	r.parsedPlate = plate

	if strings.TrimSpace(r.OwnerID) == "" {
		return dErrors.New(dErrors.CodeValidation, "owner_id is required")
	}
	ownerID, err := id.ParsePersonID(r.OwnerID)
	if err != nil {
		return err
	}
	r.parsedOwnerID = ownerID

	vehicleType := models.VehicleType(strings.ToLower(strings.TrimSpace(r.VehicleType)))
	if !models.ValidVehicleType(vehicleType) {
		return dErrors.New(dErrors.CodeValidation, "vehicle_type must be car, motorcycle, or bicycle")
	}
	r.parsedType = vehicleType

	return nil
}

// ParsedPlate returns the validated, normalized plate.
func (r *RegisterVehicleRequest) ParsedPlate() id.Plate { return r.parsedPlate }

// ParsedOwnerID returns the validated owner ID.
func (r *RegisterVehicleRequest) ParsedOwnerID() id.PersonID { return r.parsedOwnerID }

// ParsedType returns the validated vehicle type.
func (r *RegisterVehicleRequest) ParsedType() models.VehicleType { return r.parsedType }

// TransferRequest is the HTTP request body for
// POST /api/v1/vehicles/{plate}/transfer.
type TransferRequest struct {
	NewOwnerID string `json:"new_owner_id"`

	parsedOwnerID id.PersonID
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *TransferRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if strings.TrimSpace(r.NewOwnerID) == "" {
		return dErrors.New(dErrors.CodeValidation, "new_owner_id is required")
	}
	ownerID, err := id.ParsePersonID(r.NewOwnerID)
	if err != nil {
		return err
	}
	r.parsedOwnerID = ownerID
	return nil
}

// ParsedOwnerID returns the validated new owner ID.
func (r *TransferRequest) ParsedOwnerID() id.PersonID { return r.parsedOwnerID }
