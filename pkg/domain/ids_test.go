package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "transitbook/pkg/domain-errors"
)

// TestParseVehicleID_Invariants validates the parsing invariant:
// "vehicle IDs are short, non-empty tokens of letters, digits, '-' and '_'".
func TestParseVehicleID_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    VehicleID
		wantErr bool
	}{
		{"bus route number", "101", "101", false},
		{"train code", "S77", "S77", false},
		{"surrounding whitespace trimmed", "  A320 ", "A320", false},
		{"dash and underscore", "night_bus-7", "night_bus-7", false},

		{"empty string", "", "", true},
		{"whitespace only", "   ", "", true},
		{"inner space", "S 77", "", true},
		{"SQL injection attempt", "'; DROP TABLE transport;--", "", true},
		{"path traversal", "../../etc/passwd", "", true},
		{"null byte", "101\x00", "", true},
		{"oversized input", strings.Repeat("a", 33), "", true},
		{"cyrillic letters", "Ж101", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVehicleID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBookingID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseBookingID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseBookingID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseBookingID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("round-trips a generated id", func(t *testing.T) {
		generated := NewBookingID()
		parsed, err := ParseBookingID(generated.String())
		require.NoError(t, err)
		assert.Equal(t, generated, parsed)
		assert.False(t, parsed.IsNil())
	})

	t.Run("text encoding round-trips", func(t *testing.T) {
		generated := NewBookingID()
		text, err := generated.MarshalText()
		require.NoError(t, err)

		var decoded BookingID
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, generated, decoded)
		assert.Error(t, decoded.UnmarshalText([]byte("garbage")))
	})
}

func TestParseVehicleKind(t *testing.T) {
	for _, in := range []string{"bus", "Train", " PLANE "} {
		t.Run("accepts "+in, func(t *testing.T) {
			k, err := ParseVehicleKind(in)
			require.NoError(t, err)
			assert.True(t, k.IsValid())
		})
	}

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := ParseVehicleKind("ferry")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("title case for display", func(t *testing.T) {
		assert.Equal(t, "Bus", VehicleKindBus.Title())
		assert.Equal(t, "Plane", VehicleKindPlane.Title())
	})
}
