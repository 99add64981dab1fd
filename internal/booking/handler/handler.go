package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"transitbook/internal/booking/models"
	"transitbook/internal/booking/registry"
	"transitbook/internal/platform/metrics"
	"transitbook/internal/platform/middleware"
	"transitbook/internal/reporting"
	id "transitbook/pkg/domain"
	dErrors "transitbook/pkg/domain-errors"
	"transitbook/pkg/platform/httputil"
	"transitbook/pkg/requestcontext"
)

// Service is the booking registry as seen by the HTTP transport.
type Service interface {
	AddVehicle(ctx context.Context, v *models.Vehicle) error
	MakeBooking(ctx context.Context, passenger models.Passenger, vehicleID id.VehicleID, seat int) (*models.Confirmation, error)
	ListBookings(ctx context.Context) []models.Booking
	ListVehicles(ctx context.Context) []models.VehicleView
	VehicleInfo(ctx context.Context, vehicleID id.VehicleID) (*registry.VehicleInfo, error)
}

// Handler serves the fleet, booking and report endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
	metrics *metrics.Metrics
}

// New creates a booking Handler. metrics may be nil.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		metrics: metrics,
	}
}

// Register registers the booking routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	bookingRouter := chi.NewRouter()
	bookingRouter.Use(middleware.Recovery(h.logger))
	bookingRouter.Use(middleware.RequestID)
	bookingRouter.Use(middleware.RequestTime)
	bookingRouter.Use(middleware.ClientMetadata)
	bookingRouter.Use(middleware.Logger(h.logger))
	bookingRouter.Use(middleware.Timeout(30 * time.Second))
	bookingRouter.Use(middleware.ContentTypeJSON)
	bookingRouter.Use(middleware.LatencyMiddleware(h.metrics))

	bookingRouter.Get("/vehicles", h.handleListVehicles)
	bookingRouter.Post("/vehicles", h.handleRegisterVehicle)
	bookingRouter.Get("/vehicles/{id}", h.handleVehicleInfo)
	bookingRouter.Get("/bookings", h.handleListBookings)
	bookingRouter.Post("/bookings", h.handleCreateBooking)
	bookingRouter.Get("/reports/summary", h.handleSummary)

	r.Mount("/", bookingRouter)
}

func (h *Handler) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, vehiclesResponse{Vehicles: h.service.ListVehicles(r.Context())})
}

func (h *Handler) handleRegisterVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req RegisterVehicleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid register vehicle request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()

	vehicle, err := req.Vehicle()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.AddVehicle(ctx, vehicle); err != nil {
		h.writeServiceError(ctx, w, "failed to register vehicle", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, vehicle.View())
}

func (h *Handler) handleVehicleInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vehicleID, err := id.ParseVehicleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	info, err := h.service.VehicleInfo(ctx, vehicleID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to load vehicle", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) handleListBookings(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, bookingsResponse{Bookings: h.service.ListBookings(r.Context())})
}

func (h *Handler) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req CreateBookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid create booking request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	passenger, vehicleID, err := req.Validate()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	confirmation, err := h.service.MakeBooking(ctx, passenger, vehicleID, req.Seat)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to create booking", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, BookingResponse{
		Confirmation: *confirmation,
		Message:      confirmation.Message(),
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	httputil.WriteJSON(w, http.StatusOK, reporting.BuildSummary(ctx, h.service, requestcontext.Now(ctx)))
}

// writeServiceError passes coded client errors through and hides everything
// else behind an internal error.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := middleware.GetRequestID(ctx)
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestID,
		"error", err.Error(),
	)
	httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, msg))
}
