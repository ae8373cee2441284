package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "campusgate/pkg/domain-errors"
)

// TestParsePersonID_Invariants validates the parsing invariant: person IDs
// are non-empty, at most 20 characters, letters/digits/dashes only, and
// canonically upper-case.
func TestParsePersonID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePersonID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects whitespace-only input", func(t *testing.T) {
		_, err := ParsePersonID("   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects overlong IDs", func(t *testing.T) {
		_, err := ParsePersonID(strings.Repeat("A", 21))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects forbidden characters", func(t *testing.T) {
		for _, raw := range []string{"STU 001", "STU_001", "STU;001", "STU'001"} {
			_, err := ParsePersonID(raw)
			require.Error(t, err, "input %q", raw)
		}
	})

	t.Run("upper-cases and trims", func(t *testing.T) {
		id, err := ParsePersonID("  stu001 ")
		require.NoError(t, err)
		assert.Equal(t, PersonID("STU001"), id)
	})

	t.Run("accepts dashes", func(t *testing.T) {
		id, err := ParsePersonID("FAC-042")
		require.NoError(t, err)
		assert.Equal(t, PersonID("FAC-042"), id)
	})
}

func TestNormalizePlate(t *testing.T) {
	t.Run("strips interior whitespace", func(t *testing.T) {
		assert.Equal(t, Plate("ABC123"), NormalizePlate(" abc 123 "))
	})

	t.Run("upper-cases", func(t *testing.T) {
		assert.Equal(t, Plate("XYZ789"), NormalizePlate("xyz789"))
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		assert.Equal(t, Plate(""), NormalizePlate("   "))
	})
}

// TestParsePlate_Invariants validates the format invariant: 3-10 characters
// after normalization with at least one letter or digit.
func TestParsePlate_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePlate("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects too short", func(t *testing.T) {
		_, err := ParsePlate("AB")
		require.Error(t, err)
	})

	t.Run("rejects too long", func(t *testing.T) {
		_, err := ParsePlate("ABCDEFGHIJK")
		require.Error(t, err)
	})

	t.Run("rejects punctuation-only plates", func(t *testing.T) {
		_, err := ParsePlate("---")
		require.Error(t, err)
	})

	t.Run("normalizes before validating", func(t *testing.T) {
		p, err := ParsePlate(" abc 123 ")
		require.NoError(t, err)
		assert.Equal(t, Plate("ABC123"), p)
	})

	t.Run("length counted after normalization", func(t *testing.T) {
		// 11 raw characters collapse to 10 after stripping the space.
		p, err := ParsePlate("ABCDE FGHIJ")
		require.NoError(t, err)
		assert.Len(t, string(p), 10)
	})
}

func TestGateID_OrDefault(t *testing.T) {
	assert.Equal(t, DefaultGate, GateID("").OrDefault())
	assert.Equal(t, DefaultGate, GateID("  ").OrDefault())
	assert.Equal(t, GateID("NORTH_GATE"), GateID("NORTH_GATE").OrDefault())
}

func TestParseMethod(t *testing.T) {
	t.Run("accepts known methods case-insensitively", func(t *testing.T) {
		for raw, want := range map[string]Method{
			"identity_only": MethodIdentityOnly,
			"VEHICLE_ONLY":  MethodVehicleOnly,
			" both ":        MethodBoth,
		} {
			m, err := ParseMethod(raw)
			require.NoError(t, err, "input %q", raw)
			assert.Equal(t, want, m)
		}
	})

	t.Run("rejects unknown methods", func(t *testing.T) {
		_, err := ParseMethod("telepathy")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
