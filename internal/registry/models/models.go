// Package models defines the registry's person and vehicle records.
package models

import (
	"time"

	id "campusgate/pkg/domain"
)

// Role classifies a campus member.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleFaculty Role = "faculty"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleStaff, RoleFaculty:
		return true
	}
	return false
}

// Status is the lifecycle state of a person or vehicle record. Records are
// soft-deactivated, never deleted, so audit history keeps resolving.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Person is a registered campus member. Owned by the identity registry:
// created at enrollment, mutated only via status transitions.
type Person struct {
	ID         id.PersonID
	Name       string
	Email      string
	Role       Role
	Department string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsActive reports whether the person is valid for access purposes.
func (p Person) IsActive() bool { return p.Status == StatusActive }

// VehicleType classifies a registered vehicle.
type VehicleType string

const (
	VehicleCar        VehicleType = "car"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleBicycle    VehicleType = "bicycle"
)

// ValidVehicleType reports whether t is a known vehicle type.
func ValidVehicleType(t VehicleType) bool {
	switch t {
	case VehicleCar, VehicleMotorcycle, VehicleBicycle:
		return true
	}
	return false
}

// Vehicle is a registered vehicle keyed by its normalized plate. OwnerID is
// empty for orphaned vehicles (owner unenrolled); orphaned vehicles are kept
// inactive.
type Vehicle struct {
	Plate        id.Plate
	OwnerID      id.PersonID
	Type         VehicleType
	Color        string
	Model        string
	Status       Status
	RegisteredAt time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the vehicle registration is valid for access
// purposes.
func (v Vehicle) IsActive() bool { return v.Status == StatusActive }

// VehicleLimit returns how many vehicles a member of the given role may
// register.
func VehicleLimit(r Role) int {
	switch r {
	case RoleFaculty:
		return 3
	case RoleStaff:
		return 2
	default:
		return 1
	}
}
