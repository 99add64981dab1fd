// Package reporting answers aggregate questions over booking state.
//
// Every function here is pure: it reads the views it is handed and never
// touches the registry. Callers take one snapshot (ListBookings, ListVehicles)
// and derive as many reports from it as they need.
package reporting

import (
	"context"
	"sort"
	"time"

	"transitbook/internal/booking/models"
	id "transitbook/pkg/domain"
)

// Source is the read-only surface reports are built from.
type Source interface {
	ListBookings(ctx context.Context) []models.Booking
	ListVehicles(ctx context.Context) []models.VehicleView
}

// VehicleOccupancy is the booked seat count for one vehicle.
type VehicleOccupancy struct {
	VehicleID id.VehicleID   `json:"vehicle_id"`
	Kind      id.VehicleKind `json:"kind"`
	Label     string         `json:"label"`
	Booked    int            `json:"booked"`
	Capacity  int            `json:"capacity"`
}

// BookingDetail is one row of the full booking listing.
type BookingDetail struct {
	Name           string         `json:"name"`
	PassportNumber string         `json:"passport_number"`
	Kind           id.VehicleKind `json:"kind"`
	VehicleID      id.VehicleID   `json:"vehicle_id"`
	Seat           int            `json:"seat"`
}

// Travelers lists the distinct names with at least one booking, in the order
// they first booked.
func Travelers(bookings []models.Booking) []string {
	return distinctNames(bookings, func(models.Booking) bool { return true })
}

// TravelersBetween lists distinct names with a booking dated in [from, to).
func TravelersBetween(bookings []models.Booking, from, to time.Time) []string {
	return distinctNames(bookings, func(b models.Booking) bool {
		return !b.Date.Before(from) && b.Date.Before(to)
	})
}

func distinctNames(bookings []models.Booking, keep func(models.Booking) bool) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, b := range bookings {
		if !keep(b) {
			continue
		}
		if _, ok := seen[b.Passenger.Name]; ok {
			continue
		}
		seen[b.Passenger.Name] = struct{}{}
		names = append(names, b.Passenger.Name)
	}
	return names
}

// Occupancy counts bookings per vehicle. Every vehicle is reported, including
// those with no bookings; rows are sorted by vehicle ID.
func Occupancy(vehicles []models.VehicleView, bookings []models.Booking) []VehicleOccupancy {
	counts := countByVehicle(bookings)
	rows := make([]VehicleOccupancy, 0, len(vehicles))
	for _, v := range sortedViews(vehicles) {
		rows = append(rows, VehicleOccupancy{
			VehicleID: v.ID,
			Kind:      v.Kind,
			Label:     v.DescriptorValue,
			Booked:    counts[v.ID],
			Capacity:  v.Capacity,
		})
	}
	return rows
}

// MostBooked returns the vehicle with the most bookings. Ties go to the lowest
// vehicle ID. ok is false when there are no bookings at all.
func MostBooked(vehicles []models.VehicleView, bookings []models.Booking) (VehicleOccupancy, bool) {
	var (
		best  VehicleOccupancy
		found bool
	)
	for _, row := range Occupancy(vehicles, bookings) {
		if row.Booked == 0 {
			continue
		}
		if !found || row.Booked > best.Booked {
			best, found = row, true
		}
	}
	return best, found
}

// FreeSeats lists the seats of vehicleID not covered by any booking, in
// ascending order. ok is false for an unknown vehicle.
func FreeSeats(vehicles []models.VehicleView, bookings []models.Booking, vehicleID id.VehicleID) ([]int, bool) {
	var capacity int
	for _, v := range vehicles {
		if v.ID == vehicleID {
			capacity = v.Capacity
			break
		}
	}
	if capacity == 0 {
		return nil, false
	}
	booked := make(map[int]struct{})
	for _, b := range bookings {
		if b.VehicleID == vehicleID {
			booked[b.Seat] = struct{}{}
		}
	}
	free := make([]int, 0, capacity-len(booked))
	for seat := 1; seat <= capacity; seat++ {
		if _, ok := booked[seat]; !ok {
			free = append(free, seat)
		}
	}
	return free, true
}

// Details is the full booking listing in booking order.
func Details(bookings []models.Booking) []BookingDetail {
	rows := make([]BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, BookingDetail{
			Name:           b.Passenger.Name,
			PassportNumber: b.Passenger.PassportNumber,
			Kind:           b.VehicleKind,
			VehicleID:      b.VehicleID,
			Seat:           b.Seat,
		})
	}
	return rows
}

// MultiModal lists passengers, keyed by passport, who booked more than one
// kind of vehicle. Order follows each passenger's first booking.
func MultiModal(bookings []models.Booking) []models.Passenger {
	kinds := make(map[string]map[id.VehicleKind]struct{})
	order := make([]models.Passenger, 0)
	for _, b := range bookings {
		key := b.Passenger.PassportNumber
		if _, ok := kinds[key]; !ok {
			kinds[key] = make(map[id.VehicleKind]struct{})
			order = append(order, b.Passenger)
		}
		kinds[key][b.VehicleKind] = struct{}{}
	}
	result := make([]models.Passenger, 0)
	for _, p := range order {
		if len(kinds[p.PassportNumber]) > 1 {
			result = append(result, p)
		}
	}
	return result
}

// Summary bundles every report for one snapshot.
type Summary struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	TotalBookings int                `json:"total_bookings"`
	Travelers     []string           `json:"travelers"`
	Occupancy     []VehicleOccupancy `json:"occupancy"`
	MostBooked    *VehicleOccupancy  `json:"most_booked,omitempty"`
	MultiModal    []models.Passenger `json:"multi_modal"`
	Details       []BookingDetail    `json:"details"`
}

// BuildSummary takes a single snapshot from src and derives the summary.
func BuildSummary(ctx context.Context, src Source, now time.Time) Summary {
	bookings := src.ListBookings(ctx)
	vehicles := src.ListVehicles(ctx)

	summary := Summary{
		GeneratedAt:   now,
		TotalBookings: len(bookings),
		Travelers:     Travelers(bookings),
		Occupancy:     Occupancy(vehicles, bookings),
		MultiModal:    MultiModal(bookings),
		Details:       Details(bookings),
	}
	if top, ok := MostBooked(vehicles, bookings); ok {
		summary.MostBooked = &top
	}
	return summary
}

func countByVehicle(bookings []models.Booking) map[id.VehicleID]int {
	counts := make(map[id.VehicleID]int)
	for _, b := range bookings {
		counts[b.VehicleID]++
	}
	return counts
}

func sortedViews(vehicles []models.VehicleView) []models.VehicleView {
	sorted := append([]models.VehicleView{}, vehicles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return sorted
}
