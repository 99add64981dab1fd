package models

import "errors"

// Booking failure facts. Models and the registry wrap these in coded errors;
// callers branch with errors.Is.
var (
	ErrDuplicateVehicleID = errors.New("duplicate vehicle id")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrSeatOutOfRange     = errors.New("seat out of range")
	ErrSeatUnavailable    = errors.New("seat unavailable")
	ErrBookingFailed      = errors.New("booking failed")
	ErrPassengerConflict  = errors.New("passport registered to another passenger")
)
