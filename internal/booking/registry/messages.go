package registry

import (
	"errors"
	"strconv"
	"strings"

	"transitbook/internal/booking/models"
	dErrors "transitbook/pkg/domain-errors"
)

// failureReason is the metric label and span status for a rejected booking.
func failureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrBookingFailed):
		return "booking_failed"
	case errors.Is(err, models.ErrVehicleNotFound):
		return "vehicle_not_found"
	case errors.Is(err, models.ErrSeatOutOfRange):
		return "seat_out_of_range"
	case errors.Is(err, models.ErrSeatUnavailable):
		return "seat_unavailable"
	case errors.Is(err, models.ErrPassengerConflict):
		return "passenger_conflict"
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return "invalid_passenger"
	}
	return "internal"
}

// UserMessage turns a registry error into the line shown to a console user.
// Range and availability failures share the "unavailable" wording.
func UserMessage(err error, seat int) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrBookingFailed):
		return "booking error. the seat may have just been taken."
	case errors.Is(err, models.ErrVehicleNotFound):
		return "error: vehicle not found."
	case errors.Is(err, models.ErrSeatOutOfRange), errors.Is(err, models.ErrSeatUnavailable):
		return "error: seat " + strconv.Itoa(seat) + " unavailable."
	case errors.Is(err, models.ErrPassengerConflict):
		return "error: this passport is already registered to another passenger."
	case errors.Is(err, models.ErrDuplicateVehicleID):
		return "error: a vehicle with this id already exists."
	}
	return "error: " + strings.TrimSuffix(dErrors.Message(err), ".") + "."
}
