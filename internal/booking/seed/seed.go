// Package seed registers the demo fleet and bookings.
package seed

import (
	"context"
	"fmt"

	"transitbook/internal/booking/models"
	id "transitbook/pkg/domain"
)

// Registry is the subset of the booking registry seeding needs.
type Registry interface {
	AddVehicle(ctx context.Context, v *models.Vehicle) error
	MakeBooking(ctx context.Context, passenger models.Passenger, vehicleID id.VehicleID, seat int) (*models.Confirmation, error)
}

type demoBooking struct {
	passenger models.Passenger
	vehicleID id.VehicleID
	seat      int
}

// Fleet builds fresh demo vehicles: bus 101, train S77 and plane A320.
func Fleet() ([]*models.Vehicle, error) {
	bus, err := models.NewBus("101", 50, "Moscow - Saint Petersburg")
	if err != nil {
		return nil, err
	}
	train, err := models.NewTrain("S77", 250, 12)
	if err != nil {
		return nil, err
	}
	plane, err := models.NewPlane("A320", 180, "Airbus A320")
	if err != nil {
		return nil, err
	}
	return []*models.Vehicle{bus, train, plane}, nil
}

func bookings() []demoBooking {
	ivan := models.Passenger{Name: "Ivan Ivanov", PassportNumber: "AA123456"}
	maria := models.Passenger{Name: "Maria Petrova", PassportNumber: "BB654321"}
	return []demoBooking{
		{passenger: ivan, vehicleID: "101", seat: 25},
		{passenger: maria, vehicleID: "S77", seat: 100},
		{passenger: ivan, vehicleID: "A320", seat: 1},
	}
}

// Load registers the demo fleet and makes the demo bookings.
func Load(ctx context.Context, r Registry) error {
	fleet, err := Fleet()
	if err != nil {
		return fmt.Errorf("build demo fleet: %w", err)
	}
	for _, v := range fleet {
		if err := r.AddVehicle(ctx, v); err != nil {
			return fmt.Errorf("seed vehicle %s: %w", v.ID, err)
		}
	}
	for _, b := range bookings() {
		if _, err := r.MakeBooking(ctx, b.passenger, b.vehicleID, b.seat); err != nil {
			return fmt.Errorf("seed booking %s seat %d: %w", b.vehicleID, b.seat, err)
		}
	}
	return nil
}
