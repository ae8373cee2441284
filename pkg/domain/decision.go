package domain

import (
	"strings"

	dErrors "campusgate/pkg/domain-errors"
)

// Method declares which verification signals an attempt carries.
type Method string

const (
	MethodIdentityOnly Method = "identity_only"
	MethodVehicleOnly  Method = "vehicle_only"
	MethodBoth         Method = "both"
)

// ParseMethod validates a raw method string.
func ParseMethod(raw string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(raw))) {
	case MethodIdentityOnly:
		return MethodIdentityOnly, nil
	case MethodVehicleOnly:
		return MethodVehicleOnly, nil
	case MethodBoth:
		return MethodBoth, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unrecognized verification method")
}

// Reason explains a decision for the audit trail.
type Reason string

const (
	ReasonIdentityValid   Reason = "identity_valid"
	ReasonVehicleValid    Reason = "vehicle_valid"
	ReasonBothValid       Reason = "both_valid"
	ReasonIdentityInvalid Reason = "identity_invalid"
	ReasonVehicleInvalid  Reason = "vehicle_invalid"
	ReasonBothInvalid     Reason = "both_invalid"
	ReasonNoInput         Reason = "no_input"
)

// Decision is the immutable outcome of one verification attempt. It is a
// pure function of the two registry lookups; each attempt produces exactly
// one, recorded once in the audit log and never updated.
type Decision struct {
	Granted bool
	// Method reflects which signals were actually present on the attempt,
	// not merely what was requested.
	Method Method
	Reason Reason
}
