package verification

import (
	id "campusgate/pkg/domain"
)

// Decide applies the access policy to resolved evidence. Pure domain
// logic - no I/O, no clock, no registries. The policy is OR: either a
// valid identity or a valid vehicle grants access, and only signals
// that were actually supplied participate in the outcome.
func Decide(ev Evidence) id.Decision {
	method := methodFor(ev)

	switch {
	case ev.Identity == ValidityAbsent && ev.Vehicle == ValidityAbsent:
		return id.Decision{Granted: false, Method: method, Reason: id.ReasonNoInput}

	case ev.Identity == ValidityValid && ev.Vehicle == ValidityValid:
		return id.Decision{Granted: true, Method: method, Reason: id.ReasonBothValid}

	case ev.Identity == ValidityValid:
		return id.Decision{Granted: true, Method: method, Reason: id.ReasonIdentityValid}

	case ev.Vehicle == ValidityValid:
		return id.Decision{Granted: true, Method: method, Reason: id.ReasonVehicleValid}

	case ev.Identity == ValidityInvalid && ev.Vehicle == ValidityInvalid:
		return id.Decision{Granted: false, Method: method, Reason: id.ReasonBothInvalid}

	case ev.Identity == ValidityInvalid:
		return id.Decision{Granted: false, Method: method, Reason: id.ReasonIdentityInvalid}

	default:
		return id.Decision{Granted: false, Method: method, Reason: id.ReasonVehicleInvalid}
	}
}

func methodFor(ev Evidence) id.Method {
	switch {
	case ev.Identity != ValidityAbsent && ev.Vehicle != ValidityAbsent:
		return id.MethodBoth
	case ev.Identity != ValidityAbsent:
		return id.MethodIdentityOnly
	case ev.Vehicle != ValidityAbsent:
		return id.MethodVehicleOnly
	default:
		return id.MethodBoth
	}
}
