// Package menu is the interactive text front end over the booking registry.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"transitbook/internal/booking/models"
	"transitbook/internal/booking/registry"
	id "transitbook/pkg/domain"
)

// Service is the registry surface the menu drives.
type Service interface {
	FleetLines(ctx context.Context) []string
	Vehicle(ctx context.Context, vehicleID id.VehicleID) (*models.Vehicle, error)
	MakeBooking(ctx context.Context, passenger models.Passenger, vehicleID id.VehicleID, seat int) (*models.Confirmation, error)
	ListBookings(ctx context.Context) []models.Booking
}

const banner = `
===== booking system "let's go!" =====
1. show all vehicles
2. vehicle info
3. book a ticket
4. show bookings
5. exit`

// Menu reads one command per line from in and writes responses to out.
type Menu struct {
	service Service
	in      *bufio.Scanner
	out     io.Writer
}

// New builds a menu over service.
func New(service Service, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run loops until the user exits, input ends or ctx is cancelled. End of
// input counts as exit.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.println(banner)
		choice, ok := m.prompt("your choice (enter a number): ")
		if !ok {
			return m.in.Err()
		}

		switch choice {
		case "1":
			m.listVehicles(ctx)
		case "2":
			if !m.vehicleInfo(ctx) {
				return m.in.Err()
			}
		case "3":
			if !m.book(ctx) {
				return m.in.Err()
			}
		case "4":
			m.listBookings(ctx)
		case "5":
			m.println("bye! come back soon!")
			return nil
		default:
			m.println("no such command. pick a number from the menu.")
		}
	}
}

func (m *Menu) listVehicles(ctx context.Context) {
	lines := m.service.FleetLines(ctx)
	if len(lines) == 0 {
		m.println("the garage is empty, no vehicles yet.")
		return
	}
	m.println("--- our fleet ---")
	for _, line := range lines {
		m.println(line)
	}
	m.println("--------------------")
}

func (m *Menu) vehicleInfo(ctx context.Context) bool {
	raw, ok := m.prompt("enter vehicle id: ")
	if !ok {
		return false
	}
	v, err := m.lookup(ctx, raw)
	if err != nil {
		m.println("no such vehicle, sorry.")
		return true
	}
	m.println(v.Describe())
	m.println("free seats: " + joinSeats(v.AvailableSeats()))
	return true
}

func (m *Menu) lookup(ctx context.Context, raw string) (*models.Vehicle, error) {
	vehicleID, err := id.ParseVehicleID(raw)
	if err != nil {
		return nil, err
	}
	return m.service.Vehicle(ctx, vehicleID)
}

func (m *Menu) book(ctx context.Context) bool {
	name, ok := m.prompt("your name?: ")
	if !ok {
		return false
	}
	passport, ok := m.prompt("passport number, please: ")
	if !ok {
		return false
	}
	rawID, ok := m.prompt("enter vehicle id: ")
	if !ok {
		return false
	}
	rawSeat, ok := m.prompt("which seat do you want?: ")
	if !ok {
		return false
	}

	seat, err := strconv.Atoi(rawSeat)
	if err != nil {
		m.println("error: the seat number must be a number. try again.")
		return true
	}
	vehicleID, err := id.ParseVehicleID(rawID)
	if err != nil {
		m.println("error: vehicle not found.")
		return true
	}

	passenger := models.Passenger{Name: name, PassportNumber: passport}
	confirmation, err := m.service.MakeBooking(ctx, passenger, vehicleID, seat)
	if err != nil {
		m.println(registry.UserMessage(err, seat))
		return true
	}
	m.println(confirmation.Message())
	return true
}

func (m *Menu) listBookings(ctx context.Context) {
	bookings := m.service.ListBookings(ctx)
	if len(bookings) == 0 {
		m.println("no bookings yet.")
		return
	}
	m.println("--- all bookings ---")
	for _, b := range bookings {
		m.println(b.String())
	}
	m.println("---------------------------")
}

// prompt writes label and reads one trimmed line. ok is false at end of input.
func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) println(line string) {
	fmt.Fprintln(m.out, line)
}

func joinSeats(seats []int) string {
	parts := make([]string, len(seats))
	for i, seat := range seats {
		parts[i] = strconv.Itoa(seat)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
