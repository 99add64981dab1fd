package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "transitbook/pkg/domain-errors"
)

func TestNewPassenger(t *testing.T) {
	t.Run("trims fields", func(t *testing.T) {
		p, err := NewPassenger("  Ivan Ivanov ", " AA123456 ")
		require.NoError(t, err)
		assert.Equal(t, Passenger{Name: "Ivan Ivanov", PassportNumber: "AA123456"}, p)
		assert.Equal(t, "passenger Ivan Ivanov, passport: AA123456", p.String())
	})

	t.Run("requires name and passport", func(t *testing.T) {
		_, err := NewPassenger("", "AA1")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		_, err = NewPassenger("Ivan", "   ")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("passport length matches the export schema", func(t *testing.T) {
		_, err := NewPassenger("Ivan", "123456789012345678901")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestBookingConfirm(t *testing.T) {
	date := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	ivan := Passenger{Name: "Ivan", PassportNumber: "AA123456"}

	t.Run("confirms and occupies the seat", func(t *testing.T) {
		v := newTestBus(t, 50)
		b := NewBooking(ivan, v, 25, date)

		c, err := b.Confirm(v)
		require.NoError(t, err)
		assert.Equal(t, b.ID, c.BookingID)
		assert.Equal(t, "booking confirmed: Ivan, seat 25 in Bus №101", c.Message())
		assert.False(t, v.IsAvailable(25))
		assert.Equal(t, "<Ivan -> Bus #101, seat 25>", b.String())
	})

	t.Run("reports a taken seat", func(t *testing.T) {
		v := newTestBus(t, 50)
		require.True(t, v.BookSeat(25))

		_, err := NewBooking(ivan, v, 25, date).Confirm(v)
		assert.ErrorIs(t, err, ErrSeatUnavailable)
	})

	t.Run("reports an out of range seat without touching the vehicle", func(t *testing.T) {
		v := newTestBus(t, 50)

		_, err := NewBooking(ivan, v, 999, date).Confirm(v)
		assert.ErrorIs(t, err, ErrSeatOutOfRange)
		assert.Zero(t, v.OccupiedCount())
	})

	t.Run("refuses a different vehicle", func(t *testing.T) {
		v := newTestBus(t, 50)
		other, err := NewPlane("A320", 180, "Airbus A320")
		require.NoError(t, err)

		_, err = NewBooking(ivan, v, 1, date).Confirm(other)
		assert.ErrorIs(t, err, ErrVehicleNotFound)
		assert.Zero(t, other.OccupiedCount())
	})
}
