package handler

import (
	"strings"

	"transitbook/internal/booking/models"
	id "transitbook/pkg/domain"
	dErrors "transitbook/pkg/domain-errors"
)

// RegisterVehicleRequest registers one vehicle. Only the descriptor field
// matching Kind is read.
type RegisterVehicleRequest struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Capacity int    `json:"capacity"`
	Route    string `json:"route,omitempty"`
	Wagons   int    `json:"wagons,omitempty"`
	Model    string `json:"model,omitempty"`
}

// Normalize trims string fields in place.
func (r *RegisterVehicleRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Kind = strings.TrimSpace(r.Kind)
	r.Route = strings.TrimSpace(r.Route)
	r.Model = strings.TrimSpace(r.Model)
}

// Vehicle validates the request and builds the vehicle.
func (r *RegisterVehicleRequest) Vehicle() (*models.Vehicle, error) {
	vehicleID, err := id.ParseVehicleID(r.ID)
	if err != nil {
		return nil, err
	}
	kind, err := id.ParseVehicleKind(r.Kind)
	if err != nil {
		return nil, err
	}
	v, err := models.NewVehicle(vehicleID, kind, r.Capacity, models.Descriptor{
		Route:  r.Route,
		Wagons: r.Wagons,
		Model:  r.Model,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, dErrors.Message(err))
	}
	return v, nil
}

// CreateBookingRequest books one seat.
type CreateBookingRequest struct {
	Name           string `json:"name"`
	PassportNumber string `json:"passport_number"`
	VehicleID      string `json:"vehicle_id"`
	Seat           int    `json:"seat"`
}

// Validate checks the request and returns the parsed passenger and vehicle ID.
func (r *CreateBookingRequest) Validate() (models.Passenger, id.VehicleID, error) {
	passenger, err := models.NewPassenger(r.Name, r.PassportNumber)
	if err != nil {
		return models.Passenger{}, "", dErrors.Wrap(err, dErrors.CodeValidation, dErrors.Message(err))
	}
	vehicleID, err := id.ParseVehicleID(r.VehicleID)
	if err != nil {
		return models.Passenger{}, "", err
	}
	return passenger, vehicleID, nil
}

// BookingResponse is returned for a confirmed booking.
type BookingResponse struct {
	models.Confirmation
	Message string `json:"message"`
}

type vehiclesResponse struct {
	Vehicles []models.VehicleView `json:"vehicles"`
}

type bookingsResponse struct {
	Bookings []models.Booking `json:"bookings"`
}
