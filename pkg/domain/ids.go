package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "transitbook/pkg/domain-errors"
)

// VehicleID is the operator-assigned identifier of a vehicle ("101", "S77").
// Invariant: 1..32 characters drawn from letters, digits, '-' and '_'.
//
// Usage: construct via ParseVehicleID at trust boundaries; literal casts are
// reserved for fixtures and seed data.
type VehicleID string

// BookingID identifies a confirmed booking.
type BookingID uuid.UUID

const maxVehicleIDLength = 32

// ParseVehicleID validates external input as a VehicleID.
//
// Errors: returns CodeInvalidInput when the value is empty, too long, or
// contains characters outside the allowed set.
func ParseVehicleID(s string) (VehicleID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "vehicle id cannot be empty")
	}
	if len(s) > maxVehicleIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "vehicle id must be 32 characters or less")
	}
	for _, r := range s {
		if !isVehicleIDRune(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "vehicle id contains invalid characters")
		}
	}
	return VehicleID(s), nil
}

func isVehicleIDRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}

func (v VehicleID) String() string {
	return string(v)
}

// NewBookingID returns a fresh random BookingID.
func NewBookingID() BookingID {
	return BookingID(uuid.New())
}

// ParseBookingID parses a non-nil UUID string.
func ParseBookingID(s string) (BookingID, error) {
	if s == "" {
		return BookingID{}, dErrors.New(dErrors.CodeInvalidInput, "booking id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return BookingID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid booking id format")
	}
	if parsed == uuid.Nil {
		return BookingID{}, dErrors.New(dErrors.CodeInvalidInput, "booking id cannot be nil")
	}
	return BookingID(parsed), nil
}

func (b BookingID) String() string {
	return uuid.UUID(b).String()
}

func (b BookingID) IsNil() bool {
	return uuid.UUID(b) == uuid.Nil
}

func (b BookingID) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *BookingID) UnmarshalText(text []byte) error {
	parsed, err := ParseBookingID(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
