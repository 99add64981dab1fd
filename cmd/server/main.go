package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"transitbook/internal/booking/events"
	"transitbook/internal/booking/handler"
	bookingmetrics "transitbook/internal/booking/metrics"
	"transitbook/internal/booking/registry"
	"transitbook/internal/booking/seed"
	"transitbook/internal/platform/config"
	"transitbook/internal/platform/httpserver"
	"transitbook/internal/platform/logger"
	"transitbook/internal/platform/metrics"
	"transitbook/internal/reporting/store"
	"transitbook/pkg/platform/httputil"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Booking rules live in internal/booking.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sink, closeSink, err := buildSink(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSink()

	reg, publisher, err := startBooking(ctx, cfg, log, promReg, sink, seed.Load)
	if err != nil {
		return err
	}
	defer publisher.Close()

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	handler.New(reg, log, metrics.New(promReg)).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	serverDone := make(chan struct{})
	g.Go(func() error {
		defer close(serverDone)
		log.Info("starting transitbook", "addr", cfg.Addr, "export", cfg.ExportEnabled())
		return httpserver.Run(gctx, srv, cfg.ShutdownTimeout)
	})
	g.Go(func() error {
		// close only after in-flight requests finished emitting
		<-serverDone
		publisher.Close()
		if dropped := publisher.Dropped(); dropped > 0 {
			log.Warn("events dropped while exporting", "dropped", dropped)
		}
		return nil
	})
	return g.Wait()
}

// startBooking builds the event publisher and the registry over sink, then
// runs load when demo data is enabled. The publisher is closed before any
// error is returned so the sink is no longer in use.
func startBooking(
	ctx context.Context,
	cfg config.Server,
	log *slog.Logger,
	promReg prometheus.Registerer,
	sink events.Sink,
	load func(context.Context, seed.Registry) error,
) (*registry.Registry, *events.Publisher, error) {
	publisher := events.NewPublisher(sink,
		events.WithAsyncBuffer(cfg.EventBuffer),
		events.WithLogger(log),
	)
	reg := registry.New(
		registry.WithLogger(log),
		registry.WithMetrics(bookingmetrics.New(promReg)),
		registry.WithPublisher(publisher),
	)
	if cfg.SeedDemoData {
		if err := load(ctx, reg); err != nil {
			publisher.Close()
			return nil, nil, err
		}
		log.Info("demo data loaded")
	}
	return reg, publisher, nil
}

// buildSink picks the Postgres export when DATABASE_URL is set and an
// in-memory sink otherwise.
func buildSink(ctx context.Context, cfg config.Server, log *slog.Logger) (events.Sink, func(), error) {
	if !cfg.ExportEnabled() {
		return events.NewInMemorySink(), func() {}, nil
	}
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := store.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("postgres export enabled")
	return pg, func() { _ = db.Close() }, nil
}
