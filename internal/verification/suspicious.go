package verification

import (
	"strings"

	id "campusgate/pkg/domain"
)

// suspiciousKeywords are substrings that never appear in legitimately
// issued campus identifiers.
var suspiciousKeywords = []string{
	"TEST", "DEMO", "ADMIN", "ROOT", "HACK", "INVALID",
	"NULL", "UNDEFINED", "FAKE", "TEMP",
}

// SuspiciousIdentifier reports whether a person ID matches a known probe
// pattern: placeholder keywords, runs of repeated characters, or strictly
// sequential digits. Suspicious identifiers are rejected without a
// registry lookup so probing cannot be used to enumerate real IDs.
func SuspiciousIdentifier(personID id.PersonID) bool {
	raw := strings.ToUpper(string(personID))

	for _, kw := range suspiciousKeywords {
		if strings.Contains(raw, kw) {
			return true
		}
	}

	if len(raw) > 3 && distinctRunes(raw) <= 2 {
		return true
	}

	return sequentialDigits(raw)
}

func distinctRunes(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// sequentialDigits matches all-numeric IDs whose digits ascend by exactly
// one, e.g. "12345".
func sequentialDigits(s string) bool {
	if len(s) <= 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		if i > 0 && s[i] != s[i-1]+1 {
			return false
		}
	}
	return true
}
