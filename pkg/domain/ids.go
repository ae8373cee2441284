// Package domain holds the typed identifiers shared across features.
//
// Identifiers are validated at the edge (request parsing) so that services
// and stores can assume well-formed values. Keeping them in pkg/domain avoids
// import cycles between features that reference each other's records.
package domain

import (
	"strings"
	"unicode"

	dErrors "campusgate/pkg/domain-errors"
)

// PersonID identifies a campus member (student, staff, or faculty).
// IDs are issued at enrollment (e.g. "STU001", "FAC042") and are stable.
type PersonID string

// String returns the raw identifier.
func (p PersonID) String() string { return string(p) }

// IsZero reports whether no identifier was supplied.
func (p PersonID) IsZero() bool { return p == "" }

// ParsePersonID normalizes and validates a raw person identifier.
// IDs are case-insensitive; the canonical form is upper-case.
func ParsePersonID(raw string) (PersonID, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "person id is required")
	}
	if len(s) > 20 {
		return "", dErrors.New(dErrors.CodeValidation, "person id must be at most 20 characters")
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return "", dErrors.New(dErrors.CodeValidation, "person id may only contain letters, digits, and dashes")
		}
	}
	return PersonID(s), nil
}

// Plate is a normalized license plate: upper-case, no whitespace.
type Plate string

// String returns the normalized plate value.
func (p Plate) String() string { return string(p) }

// IsZero reports whether no plate was supplied.
func (p Plate) IsZero() bool { return p == "" }

// NormalizePlate canonicalizes a raw plate reading: trims, strips interior
// whitespace, and upper-cases. It does not validate; OCR output passes
// through here before any format check.
func NormalizePlate(raw string) Plate {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return Plate(b.String())
}

// ParsePlate normalizes and validates a raw plate. Plates are 3-10
// characters after normalization and must contain at least one letter or
// digit.
func ParsePlate(raw string) (Plate, error) {
	p := NormalizePlate(raw)
	if p == "" {
		return "", dErrors.New(dErrors.CodeValidation, "license plate is required")
	}
	if len(p) < 3 || len(p) > 10 {
		return "", dErrors.New(dErrors.CodeValidation, "license plate must be 3-10 characters")
	}
	alnum := false
	for _, r := range string(p) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum = true
			break
		}
	}
	if !alnum {
		return "", dErrors.New(dErrors.CodeValidation, "license plate must contain letters or digits")
	}
	return p, nil
}

// GateID names the physical gate an attempt originated from.
type GateID string

// DefaultGate is used when a scanning client does not report its gate.
const DefaultGate GateID = "MAIN_GATE"

// String returns the raw gate identifier.
func (g GateID) String() string { return string(g) }

// OrDefault substitutes DefaultGate for an empty gate id.
func (g GateID) OrDefault() GateID {
	if strings.TrimSpace(string(g)) == "" {
		return DefaultGate
	}
	return g
}
