//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"transitbook/internal/booking/models"
	"transitbook/internal/reporting/store"
	"transitbook/pkg/platform/sentinel"
	"transitbook/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	bus      *models.Vehicle
	plane    *models.Vehicle
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
	// a second run must be a no-op
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "bookings", "transport", "passengers"))

	var err error
	s.bus, err = models.NewBus("101", 40, "Route 101")
	s.Require().NoError(err)
	s.plane, err = models.NewPlane("A320", 150, "Boeing 737")
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveVehicle(ctx, s.bus.View()))
	s.Require().NoError(s.store.SaveVehicle(ctx, s.plane.View()))
}

func (s *PostgresStoreSuite) book(p models.Passenger, v *models.Vehicle, seat int, date time.Time) models.Booking {
	b := models.NewBooking(p, v, seat, date)
	s.Require().NoError(s.store.SaveBooking(context.Background(), b))
	return b
}

func (s *PostgresStoreSuite) TestAggregates() {
	ctx := context.Background()
	ivan := models.Passenger{Name: "Ivan", PassportNumber: "AA123456"}
	maria := models.Passenger{Name: "Maria", PassportNumber: "BB789012"}

	s.book(ivan, s.bus, 10, time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC))
	s.book(ivan, s.plane, 1, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	s.book(maria, s.bus, 12, time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC))

	travelers, err := s.store.Travelers(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Ivan", "Maria"}, travelers)

	may, err := s.store.TravelersBetween(ctx,
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal([]string{"Ivan", "Maria"}, may)

	top, err := s.store.MostBooked(ctx)
	s.Require().NoError(err)
	s.Equal("101", top)

	multi, err := s.store.MultiModal(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Ivan"}, multi)

	seats, err := s.store.BookedSeats(ctx, "101")
	s.Require().NoError(err)
	s.Equal([]int{10, 12}, seats)

	occupancy, err := s.store.Occupancy(ctx)
	s.Require().NoError(err)
	s.Len(occupancy, 2)
}

func (s *PostgresStoreSuite) TestRedeliveryIsIdempotent() {
	ivan := models.Passenger{Name: "Ivan", PassportNumber: "AA123456"}
	b := s.book(ivan, s.bus, 10, time.Now())
	s.NoError(s.store.SaveBooking(context.Background(), b))

	seats, err := s.store.BookedSeats(context.Background(), "101")
	s.Require().NoError(err)
	s.Equal([]int{10}, seats)
}

// TestConcurrentSeatExport verifies the seat constraint admits exactly one
// export per seat.
func (s *PostgresStoreSuite) TestConcurrentSeatExport() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := models.NewBooking(models.Passenger{Name: "Ivan", PassportNumber: "AA123456"}, s.bus, 5, time.Now())
			err := s.store.SaveBooking(ctx, b)
			switch {
			case err == nil:
				successCount.Add(1)
			case isConflict(err):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

func (s *PostgresStoreSuite) TestUnknownTransport() {
	ghost, err := models.NewBus("ghost", 10, "Nowhere")
	s.Require().NoError(err)
	b := models.NewBooking(models.Passenger{Name: "Ivan", PassportNumber: "AA123456"}, ghost, 1, time.Now())

	err = s.store.SaveBooking(context.Background(), b)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func isConflict(err error) bool {
	return err != nil && errors.Is(err, sentinel.ErrConflict)
}
