package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitbook/internal/booking/events"
	"transitbook/internal/booking/models"
	"transitbook/pkg/platform/sentinel"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db), mock
}

func testBooking(t *testing.T) models.Booking {
	t.Helper()
	bus, err := models.NewBus("101", 50, "Moscow - Saint Petersburg")
	require.NoError(t, err)
	return models.NewBooking(
		models.Passenger{Name: "Ivan Ivanov", PassportNumber: "AA123456"},
		bus, 25, time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
	)
}

func TestMigrate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("CREATE TYPE transport_type").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS passengers").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS transport").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS bookings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_booking_date").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendVehicle(t *testing.T) {
	s, mock := newMockStore(t)
	bus, err := models.NewBus("101", 50, "Moscow - Saint Petersburg")
	require.NoError(t, err)
	view := bus.View()

	mock.ExpectExec("INSERT INTO transport").
		WithArgs("101", "bus", "Moscow - Saint Petersburg", 50).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = s.Append(context.Background(), events.Event{Type: events.TypeVehicleRegistered, Vehicle: &view})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts passenger and inserts booking in one transaction", func(t *testing.T) {
		s, mock := newMockStore(t)
		b := testBooking(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO passengers").
			WithArgs("Ivan Ivanov", "AA123456").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT id FROM transport").
			WithArgs("101").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectExec("INSERT INTO bookings").
			WithArgs(b.ID.String(), int64(7), int64(3), 25, b.Date).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, s.Append(ctx, events.Event{Type: events.TypeBookingConfirmed, Booking: &b}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown transport rolls back", func(t *testing.T) {
		s, mock := newMockStore(t)
		b := testBooking(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO passengers").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT id FROM transport").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := s.SaveBooking(ctx, b)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("seat unique violation maps to conflict", func(t *testing.T) {
		s, mock := newMockStore(t)
		b := testBooking(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO passengers").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT id FROM transport").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnError(&pq.Error{Code: uniqueViolation})
		mock.ExpectRollback()

		err := s.SaveBooking(ctx, b)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed events are rejected", func(t *testing.T) {
		s, _ := newMockStore(t)
		assert.Error(t, s.Append(ctx, events.Event{Type: events.TypeBookingConfirmed}))
		assert.Error(t, s.Append(ctx, events.Event{Type: events.TypeVehicleRegistered}))
		assert.Error(t, s.Append(ctx, events.Event{Type: "unknown"}))
	})
}

func TestQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("travelers between dates", func(t *testing.T) {
		s, mock := newMockStore(t)
		from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT DISTINCT p.name").
			WithArgs(from, to).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Ivan").AddRow("Maria"))

		names, err := s.TravelersBetween(ctx, from, to)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ivan", "Maria"}, names)
	})

	t.Run("occupancy", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("LEFT JOIN bookings").
			WillReturnRows(sqlmock.NewRows([]string{"code", "model_or_route", "count"}).
				AddRow("101", "Route 101", 2).
				AddRow("S77", "12", 0))

		rows, err := s.Occupancy(ctx)
		require.NoError(t, err)
		assert.Equal(t, []OccupancyRow{{Code: "101", Label: "Route 101", Booked: 2}, {Code: "S77", Label: "12", Booked: 0}}, rows)
	})

	t.Run("most booked with no bookings", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("ORDER BY COUNT").WillReturnRows(sqlmock.NewRows([]string{"code"}))

		_, err := s.MostBooked(ctx)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("query errors are wrapped", func(t *testing.T) {
		s, mock := newMockStore(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery("HAVING COUNT").WillReturnError(boom)

		_, err := s.MultiModal(ctx)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("booked seats", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT b.seat_number").
			WithArgs("101").
			WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow(10).AddRow(12))

		seats, err := s.BookedSeats(ctx, "101")
		require.NoError(t, err)
		assert.Equal(t, []int{10, 12}, seats)
	})
}
