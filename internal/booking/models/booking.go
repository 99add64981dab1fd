package models

import (
	"fmt"
	"time"

	id "transitbook/pkg/domain"
)

// Booking binds one passenger to one seat on one vehicle.
//
// The vehicle is referenced by ID and kind only; the registry owns the
// vehicle. A Booking is only ever stored after Confirm succeeded, so its seat
// is occupied on the referenced vehicle for as long as the booking exists.
type Booking struct {
	ID          id.BookingID   `json:"id"`
	Passenger   Passenger      `json:"passenger"`
	VehicleID   id.VehicleID   `json:"vehicle_id"`
	VehicleKind id.VehicleKind `json:"vehicle_kind"`
	Seat        int            `json:"seat"`
	Date        time.Time      `json:"booking_date"`
}

// NewBooking prepares an unconfirmed booking for vehicle.
func NewBooking(passenger Passenger, vehicle *Vehicle, seat int, date time.Time) Booking {
	return Booking{
		ID:          id.NewBookingID(),
		Passenger:   passenger,
		VehicleID:   vehicle.ID,
		VehicleKind: vehicle.Kind,
		Seat:        seat,
		Date:        date,
	}
}

// Confirmation is returned when a booking's seat was allocated.
type Confirmation struct {
	BookingID     id.BookingID   `json:"booking_id"`
	PassengerName string         `json:"passenger_name"`
	VehicleID     id.VehicleID   `json:"vehicle_id"`
	VehicleKind   id.VehicleKind `json:"vehicle_kind"`
	Seat          int            `json:"seat"`
}

// Message renders the confirmation line, e.g.
// "booking confirmed: Ivan, seat 25 in Bus №101".
func (c Confirmation) Message() string {
	return fmt.Sprintf("booking confirmed: %s, seat %d in %s №%s",
		c.PassengerName, c.Seat, c.VehicleKind.Title(), c.VehicleID)
}

// Confirm allocates the booking's seat on vehicle. The allocation error
// (ErrSeatOutOfRange or ErrSeatUnavailable) is returned unchanged.
func (b Booking) Confirm(vehicle *Vehicle) (Confirmation, error) {
	if vehicle.ID != b.VehicleID {
		return Confirmation{}, ErrVehicleNotFound
	}
	if err := vehicle.Allocate(b.Seat); err != nil {
		return Confirmation{}, err
	}
	return Confirmation{
		BookingID:     b.ID,
		PassengerName: b.Passenger.Name,
		VehicleID:     vehicle.ID,
		VehicleKind:   vehicle.Kind,
		Seat:          b.Seat,
	}, nil
}

func (b Booking) String() string {
	return fmt.Sprintf("<%s -> %s #%s, seat %d>", b.Passenger.Name, b.VehicleKind.Title(), b.VehicleID, b.Seat)
}
