package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the booking registry.
// Tracks fleet size, booking outcomes and per-vehicle occupancy.
type Metrics struct {
	VehiclesRegistered prometheus.Counter
	BookingsConfirmed  *prometheus.CounterVec
	BookingFailures    *prometheus.CounterVec
	SeatsOccupied      *prometheus.GaugeVec
	MakeBookingSeconds prometheus.Histogram
}

// New registers booking metrics on reg. Pass prometheus.DefaultRegisterer in
// main and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		VehiclesRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "transitbook_vehicles_registered_total",
			Help: "Total number of vehicles added to the registry",
		}),
		BookingsConfirmed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "transitbook_bookings_confirmed_total",
			Help: "Total number of confirmed bookings by vehicle kind",
		}, []string{"kind"}),
		BookingFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "transitbook_booking_failures_total",
			Help: "Total number of rejected booking attempts by reason",
		}, []string{"reason"}),
		SeatsOccupied: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "transitbook_seats_occupied",
			Help: "Occupied seats per vehicle",
		}, []string{"vehicle_id", "kind"}),
		MakeBookingSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "transitbook_make_booking_duration_seconds",
			Help:    "Duration of MakeBooking operations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}

// IncrementVehiclesRegistered records a successful AddVehicle.
func (m *Metrics) IncrementVehiclesRegistered() {
	m.VehiclesRegistered.Inc()
}

// IncrementBookingConfirmed records a confirmed booking for a vehicle kind.
func (m *Metrics) IncrementBookingConfirmed(kind string) {
	m.BookingsConfirmed.WithLabelValues(kind).Inc()
}

// IncrementBookingFailure records a rejected booking attempt.
func (m *Metrics) IncrementBookingFailure(reason string) {
	m.BookingFailures.WithLabelValues(reason).Inc()
}

// SetSeatsOccupied publishes the current occupancy of a vehicle.
func (m *Metrics) SetSeatsOccupied(vehicleID, kind string, occupied int) {
	m.SeatsOccupied.WithLabelValues(vehicleID, kind).Set(float64(occupied))
}

// ObserveMakeBooking records the duration of a MakeBooking call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveMakeBooking(start time.Time) {
	m.MakeBookingSeconds.Observe(time.Since(start).Seconds())
}
