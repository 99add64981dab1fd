package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitbook/internal/booking/events"
	"transitbook/internal/booking/models"
	"transitbook/internal/booking/seed"
	"transitbook/internal/platform/config"
)

func testConfig() config.Server {
	return config.Server{SeedDemoData: true, EventBuffer: 16}
}

func TestStartBooking_SeedsDemoData(t *testing.T) {
	sink := events.NewInMemorySink()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg, publisher, err := startBooking(context.Background(), testConfig(), log, prometheus.NewRegistry(), sink, seed.Load)
	require.NoError(t, err)
	publisher.Close()

	assert.Len(t, reg.ListVehicles(context.Background()), 3)
	assert.Len(t, reg.ListBookings(context.Background()), 3)
	assert.Len(t, sink.ListByType(events.TypeBookingConfirmed), 3)
}

func TestStartBooking_SeedFailureClosesPublisher(t *testing.T) {
	sink := events.NewInMemorySink()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	errSeed := errors.New("seed failed")

	failingLoad := func(ctx context.Context, r seed.Registry) error {
		bus, err := models.NewBus("101", 50, "Moscow - Saint Petersburg")
		if err != nil {
			return err
		}
		if err := r.AddVehicle(ctx, bus); err != nil {
			return err
		}
		return errSeed
	}

	reg, publisher, err := startBooking(context.Background(), testConfig(), log, prometheus.NewRegistry(), sink, failingLoad)
	require.ErrorIs(t, err, errSeed)
	assert.Nil(t, reg)
	assert.Nil(t, publisher)

	// Close drained the buffer before startBooking returned.
	assert.Len(t, sink.ListByType(events.TypeVehicleRegistered), 1)
}

func TestStartBooking_SkipsSeedWhenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.SeedDemoData = false
	called := false
	load := func(context.Context, seed.Registry) error {
		called = true
		return nil
	}

	reg, publisher, err := startBooking(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry(), events.NewInMemorySink(), load)
	require.NoError(t, err)
	defer publisher.Close()

	assert.False(t, called)
	assert.Empty(t, reg.ListVehicles(context.Background()))
}
