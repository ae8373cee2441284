package handler

import (
	"time"

	"campusgate/internal/registry/models"
)

// VehicleResponse is one vehicle record on the wire.
type VehicleResponse struct {
	LicensePlate string    `json:"license_plate"`
	OwnerID      string    `json:"owner_id,omitempty"`
	VehicleType  string    `json:"vehicle_type"`
	Color        string    `json:"color,omitempty"`
	Model        string    `json:"model,omitempty"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
}

// FromVehicle converts a vehicle record to an HTTP response.
func FromVehicle(v models.Vehicle) *VehicleResponse {
	return &VehicleResponse{
		LicensePlate: string(v.Plate),
		OwnerID:      string(v.OwnerID),
		VehicleType:  string(v.Type),
		Color:        v.Color,
		Model:        v.Model,
		Status:       string(v.Status),
		RegisteredAt: v.RegisteredAt,
	}
}
