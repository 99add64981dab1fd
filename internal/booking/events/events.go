package events

import (
	"context"
	"time"

	"transitbook/internal/booking/models"
)

// Type names a registry state change.
type Type string

const (
	TypeVehicleRegistered Type = "vehicle_registered"
	TypeBookingConfirmed  Type = "booking_confirmed"
)

// Event is emitted by the registry after a successful mutation. Exactly one of
// Vehicle or Booking is set, matching Type.
type Event struct {
	Type      Type
	Timestamp time.Time
	RequestID string
	Vehicle   *models.VehicleView
	Booking   *models.Booking
}

// Sink persists or forwards events. The relational export store and the
// in-memory sink implement it.
type Sink interface {
	Append(ctx context.Context, event Event) error
}
