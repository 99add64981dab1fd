// Package store exports booking state to PostgreSQL for ad-hoc aggregate
// queries. The in-memory registry stays the source of truth; this store is a
// write-behind sink fed by registry events.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"transitbook/internal/booking/events"
	"transitbook/internal/booking/models"
	"transitbook/pkg/platform/sentinel"
	"transitbook/pkg/platform/tx"
)

const uniqueViolation = "23505"

var schema = []string{
	`DO $$ BEGIN
		CREATE TYPE transport_type AS ENUM ('bus', 'train', 'plane');
	EXCEPTION
		WHEN duplicate_object THEN NULL;
	END $$`,
	`CREATE TABLE IF NOT EXISTS passengers (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		passport_number VARCHAR(20) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS transport (
		id SERIAL PRIMARY KEY,
		code VARCHAR(32) NOT NULL UNIQUE,
		type transport_type NOT NULL,
		model_or_route VARCHAR(100) NOT NULL,
		capacity INT NOT NULL CHECK (capacity > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		passenger_id INT NOT NULL REFERENCES passengers(id),
		transport_id INT NOT NULL REFERENCES transport(id),
		seat_number INT NOT NULL,
		booking_date DATE NOT NULL,
		UNIQUE (transport_id, seat_number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_booking_date ON bookings(booking_date)`,
}

// PostgresStore persists exported vehicles and bookings.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Open connects with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w: %w", sentinel.ErrUnavailable, err)
	}
	return db, nil
}

// Migrate creates the schema. It is safe to run repeatedly.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Append applies one registry event. It satisfies events.Sink.
func (s *PostgresStore) Append(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.TypeVehicleRegistered:
		if event.Vehicle == nil {
			return fmt.Errorf("append %s: missing vehicle", event.Type)
		}
		return s.SaveVehicle(ctx, *event.Vehicle)
	case events.TypeBookingConfirmed:
		if event.Booking == nil {
			return fmt.Errorf("append %s: missing booking", event.Type)
		}
		return s.SaveBooking(ctx, *event.Booking)
	}
	return fmt.Errorf("append: unknown event type %q", event.Type)
}

// SaveVehicle upserts a transport row keyed by vehicle ID.
func (s *PostgresStore) SaveVehicle(ctx context.Context, v models.VehicleView) error {
	query := `
		INSERT INTO transport (code, type, model_or_route, capacity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET
			type = EXCLUDED.type,
			model_or_route = EXCLUDED.model_or_route,
			capacity = EXCLUDED.capacity
	`
	_, err := s.db.ExecContext(ctx, query, v.ID.String(), v.Kind.String(), v.DescriptorValue, v.Capacity)
	if err != nil {
		return fmt.Errorf("save vehicle: %w", err)
	}
	return nil
}

// SaveBooking upserts the passenger and inserts the booking in one
// transaction. A transaction already carried by ctx is joined instead.
// Re-delivering the same booking is a no-op.
func (s *PostgresStore) SaveBooking(ctx context.Context, b models.Booking) error {
	return tx.Run(ctx, s.db, func(ctx context.Context, sqlTx *sql.Tx) error {
		return s.saveBooking(ctx, sqlTx, b)
	})
}

func (s *PostgresStore) saveBooking(ctx context.Context, sqlTx *sql.Tx, b models.Booking) error {
	var passengerID int64
	err := sqlTx.QueryRowContext(ctx, `
		INSERT INTO passengers (name, passport_number)
		VALUES ($1, $2)
		ON CONFLICT (passport_number) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, b.Passenger.Name, b.Passenger.PassportNumber).Scan(&passengerID)
	if err != nil {
		return fmt.Errorf("upsert passenger: %w", err)
	}

	var transportID int64
	err = sqlTx.QueryRowContext(ctx, `SELECT id FROM transport WHERE code = $1`, b.VehicleID.String()).Scan(&transportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("transport %s: %w", b.VehicleID, sentinel.ErrNotFound)
		}
		return fmt.Errorf("find transport: %w", err)
	}

	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO bookings (id, passenger_id, transport_id, seat_number, booking_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, b.ID.String(), passengerID, transportID, b.Seat, b.Date)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("seat %d on %s: %w", b.Seat, b.VehicleID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// Travelers lists distinct names of passengers with bookings.
func (s *PostgresStore) Travelers(ctx context.Context) ([]string, error) {
	return s.queryNames(ctx, `
		SELECT DISTINCT p.name
		FROM passengers p
		JOIN bookings b ON p.id = b.passenger_id
		ORDER BY p.name
	`)
}

// TravelersBetween lists distinct names with a booking dated in [from, to).
func (s *PostgresStore) TravelersBetween(ctx context.Context, from, to time.Time) ([]string, error) {
	return s.queryNames(ctx, `
		SELECT DISTINCT p.name
		FROM passengers p
		JOIN bookings b ON p.id = b.passenger_id
		WHERE b.booking_date >= $1 AND b.booking_date < $2
		ORDER BY p.name
	`, from, to)
}

// MultiModal lists names of passengers who booked more than one vehicle kind.
func (s *PostgresStore) MultiModal(ctx context.Context) ([]string, error) {
	return s.queryNames(ctx, `
		SELECT p.name
		FROM passengers p
		JOIN bookings b ON p.id = b.passenger_id
		JOIN transport t ON b.transport_id = t.id
		GROUP BY p.id, p.name
		HAVING COUNT(DISTINCT t.type) > 1
		ORDER BY p.name
	`)
}

// OccupancyRow is the booked seat count for one exported vehicle.
type OccupancyRow struct {
	Code   string
	Label  string
	Booked int
}

// Occupancy counts bookings per transport, including idle ones.
func (s *PostgresStore) Occupancy(ctx context.Context) ([]OccupancyRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.code, t.model_or_route, COUNT(b.id)
		FROM transport t
		LEFT JOIN bookings b ON t.id = b.transport_id
		GROUP BY t.id, t.code, t.model_or_route
		ORDER BY t.code
	`)
	if err != nil {
		return nil, fmt.Errorf("query occupancy: %w", err)
	}
	defer rows.Close()

	var result []OccupancyRow
	for rows.Next() {
		var row OccupancyRow
		if err := rows.Scan(&row.Code, &row.Label, &row.Booked); err != nil {
			return nil, fmt.Errorf("scan occupancy: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occupancy: %w", err)
	}
	return result, nil
}

// MostBooked returns the code of the transport with the most bookings, ties
// broken by lowest code. sentinel.ErrNotFound means there are no bookings.
func (s *PostgresStore) MostBooked(ctx context.Context) (string, error) {
	var code string
	err := s.db.QueryRowContext(ctx, `
		SELECT t.code
		FROM transport t
		JOIN bookings b ON t.id = b.transport_id
		GROUP BY t.id, t.code
		ORDER BY COUNT(b.id) DESC, t.code
		LIMIT 1
	`).Scan(&code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("most booked: %w", sentinel.ErrNotFound)
		}
		return "", fmt.Errorf("query most booked: %w", err)
	}
	return code, nil
}

// BookedSeats lists booked seat numbers for one transport, ascending.
func (s *PostgresStore) BookedSeats(ctx context.Context, code string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.seat_number
		FROM bookings b
		JOIN transport t ON b.transport_id = t.id
		WHERE t.code = $1
		ORDER BY b.seat_number
	`, code)
	if err != nil {
		return nil, fmt.Errorf("query booked seats: %w", err)
	}
	defer rows.Close()

	var seats []int
	for rows.Next() {
		var seat int
		if err := rows.Scan(&seat); err != nil {
			return nil, fmt.Errorf("scan booked seat: %w", err)
		}
		seats = append(seats, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked seats: %w", err)
	}
	return seats, nil
}

func (s *PostgresStore) queryNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names: %w", err)
	}
	return names, nil
}
