package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"transitbook/internal/booking/events"
	"transitbook/internal/booking/metrics"
	"transitbook/internal/booking/models"
	id "transitbook/pkg/domain"
	dErrors "transitbook/pkg/domain-errors"
	"transitbook/pkg/requestcontext"
)

// EventPublisher receives registry state changes for reporting sinks.
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

var tracer = otel.Tracer("transitbook/internal/booking/registry")

// Registry owns every vehicle and every confirmed booking. It is the only
// entry point for mutation.
//
// Invariants:
//   - vehicle IDs are unique and never reused
//   - bookings are append-only, in creation order
//   - every stored booking's seat is occupied on its vehicle
//   - a passport number maps to exactly one passenger name
type Registry struct {
	mu         sync.RWMutex
	vehicles   map[id.VehicleID]*models.Vehicle
	bookings   []models.Booking
	passengers map[string]string // passport -> name

	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher EventPublisher
	clock     func() time.Time
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(r *Registry) {
		r.publisher = p
	}
}

// WithClock sets the fallback booking date source used when the context
// carries no request time.
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// New constructs an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		vehicles:   make(map[id.VehicleID]*models.Vehicle),
		passengers: make(map[string]string),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddVehicle registers v. A duplicate ID is rejected with
// ErrDuplicateVehicleID and leaves the registry untouched.
func (r *Registry) AddVehicle(ctx context.Context, v *models.Vehicle) error {
	if v == nil {
		return dErrors.New(dErrors.CodeBadRequest, "vehicle is required")
	}

	r.mu.Lock()
	if _, exists := r.vehicles[v.ID]; exists {
		r.mu.Unlock()
		r.logWarn(ctx, "vehicle already registered", "vehicle_id", v.ID.String())
		return dErrors.Wrap(models.ErrDuplicateVehicleID, dErrors.CodeConflict,
			fmt.Sprintf("vehicle with id %s already exists", v.ID))
	}
	r.vehicles[v.ID] = v
	if r.metrics != nil {
		r.metrics.SetSeatsOccupied(v.ID.String(), v.Kind.String(), v.OccupiedCount())
	}
	r.mu.Unlock()

	r.logInfo(ctx, "vehicle registered",
		"vehicle_id", v.ID.String(),
		"kind", v.Kind.String(),
		"capacity", v.Capacity,
	)
	view := v.View()
	if r.metrics != nil {
		r.metrics.IncrementVehiclesRegistered()
	}
	r.emit(ctx, events.Event{Type: events.TypeVehicleRegistered, Vehicle: &view})
	return nil
}

// MakeBooking books seat on the vehicle for passenger.
//
// Checks run in order: vehicle existence, seat range, seat availability, then
// the atomic allocation. Losing a race between the availability check and
// the allocation yields ErrBookingFailed.
func (r *Registry) MakeBooking(ctx context.Context, passenger models.Passenger, vehicleID id.VehicleID, seat int) (*models.Confirmation, error) {
	ctx, span := tracer.Start(ctx, "registry.MakeBooking")
	defer span.End()
	span.SetAttributes(
		attribute.String("vehicle_id", vehicleID.String()),
		attribute.Int("seat", seat),
	)

	start := time.Now()
	if r.metrics != nil {
		defer r.metrics.ObserveMakeBooking(start)
	}

	confirmation, err := r.makeBooking(ctx, passenger, vehicleID, seat)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, failureReason(err))
		if r.metrics != nil {
			r.metrics.IncrementBookingFailure(failureReason(err))
		}
		r.logWarn(ctx, "booking rejected",
			"vehicle_id", vehicleID.String(),
			"seat", seat,
			"reason", failureReason(err),
		)
		return nil, err
	}
	return confirmation, nil
}

func (r *Registry) makeBooking(ctx context.Context, passenger models.Passenger, vehicleID id.VehicleID, seat int) (*models.Confirmation, error) {
	passenger, err := models.NewPassenger(passenger.Name, passenger.PassportNumber)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid passenger")
	}

	vehicle, err := r.lookup(vehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.InRange(seat) {
		return nil, dErrors.Wrap(models.ErrSeatOutOfRange, dErrors.CodeValidation,
			fmt.Sprintf("seat %d is outside 1..%d", seat, vehicle.Capacity))
	}
	if !vehicle.IsAvailable(seat) {
		return nil, dErrors.Wrap(models.ErrSeatUnavailable, dErrors.CodeConflict,
			fmt.Sprintf("seat %d unavailable", seat))
	}
	date := r.bookingDate(ctx)

	// The passport check, the allocation and the append form one critical
	// section so a passport can never be recorded under two names.
	r.mu.Lock()
	if err := r.checkPassport(passenger); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	booking := models.NewBooking(passenger, vehicle, seat, date)
	confirmation, err := booking.Confirm(vehicle)
	if err != nil {
		r.mu.Unlock()
		return nil, dErrors.Wrap(errors.Join(models.ErrBookingFailed, err), dErrors.CodeConflict,
			"booking failed, the seat may have just been taken")
	}
	r.bookings = append(r.bookings, booking)
	if _, known := r.passengers[passenger.PassportNumber]; !known {
		r.passengers[passenger.PassportNumber] = passenger.Name
	}
	if r.metrics != nil {
		r.metrics.SetSeatsOccupied(vehicle.ID.String(), vehicle.Kind.String(), vehicle.OccupiedCount())
	}
	r.mu.Unlock()

	r.logInfo(ctx, "booking confirmed",
		"booking_id", booking.ID.String(),
		"vehicle_id", vehicle.ID.String(),
		"seat", seat,
	)
	if r.metrics != nil {
		r.metrics.IncrementBookingConfirmed(vehicle.Kind.String())
	}
	r.emit(ctx, events.Event{Type: events.TypeBookingConfirmed, Booking: &booking})
	return &confirmation, nil
}

// checkPassport rejects a passport number already booked under another name.
// The caller holds r.mu.
func (r *Registry) checkPassport(p models.Passenger) error {
	if name, ok := r.passengers[p.PassportNumber]; ok && name != p.Name {
		return dErrors.Wrap(models.ErrPassengerConflict, dErrors.CodeConflict,
			fmt.Sprintf("passport %s is registered to another passenger", p.PassportNumber))
	}
	return nil
}

func (r *Registry) bookingDate(ctx context.Context) time.Time {
	if t, ok := requestcontext.Time(ctx); ok {
		return t
	}
	return r.clock()
}

func (r *Registry) lookup(vehicleID id.VehicleID) (*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, dErrors.Wrap(models.ErrVehicleNotFound, dErrors.CodeNotFound,
			fmt.Sprintf("vehicle %s not found", vehicleID))
	}
	return v, nil
}

// Vehicle returns the registered vehicle with the given ID.
func (r *Registry) Vehicle(_ context.Context, vehicleID id.VehicleID) (*models.Vehicle, error) {
	return r.lookup(vehicleID)
}

// VehicleInfo is the detail view: description plus free seats.
type VehicleInfo struct {
	Vehicle        models.VehicleView `json:"vehicle"`
	Description    string             `json:"description"`
	AvailableSeats []int              `json:"available_seats"`
}

// VehicleInfo describes one vehicle and lists its free seats.
func (r *Registry) VehicleInfo(ctx context.Context, vehicleID id.VehicleID) (*VehicleInfo, error) {
	v, err := r.Vehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return &VehicleInfo{
		Vehicle:        v.View(),
		Description:    v.Describe(),
		AvailableSeats: v.AvailableSeats(),
	}, nil
}

// ListBookings returns a copy of all bookings in creation order. An empty
// slice is a valid result.
func (r *Registry) ListBookings(_ context.Context) []models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Booking{}, r.bookings...)
}

// ListVehicles returns snapshots of all vehicles sorted by ID.
func (r *Registry) ListVehicles(_ context.Context) []models.VehicleView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := make([]models.VehicleView, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		views = append(views, v.View())
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

// FleetLines renders the fleet listing in ID order ("Bus №101, free: 49/50").
func (r *Registry) FleetLines(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]id.VehicleID, 0, len(r.vehicles))
	for vid := range r.vehicles {
		ids = append(ids, vid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	lines := make([]string, 0, len(ids))
	for _, vid := range ids {
		lines = append(lines, r.vehicles[vid].String())
	}
	return lines
}

func (r *Registry) emit(ctx context.Context, event events.Event) {
	if r.publisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := r.publisher.Emit(ctx, event); err != nil {
		r.logWarn(ctx, "failed to publish registry event",
			"event_type", string(event.Type),
			"error", err,
		)
	}
}

func (r *Registry) logInfo(ctx context.Context, msg string, args ...any) {
	if r.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	r.logger.InfoContext(ctx, msg, args...)
}

func (r *Registry) logWarn(ctx context.Context, msg string, args ...any) {
	if r.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	r.logger.WarnContext(ctx, msg, args...)
}
