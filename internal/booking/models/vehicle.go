package models

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	id "transitbook/pkg/domain"
	dErrors "transitbook/pkg/domain-errors"
)

// Descriptor is the kind-specific payload of a vehicle. Exactly one field is
// meaningful, selected by the vehicle kind: Route for buses, Wagons for trains,
// Model for planes.
type Descriptor struct {
	Route  string `json:"route,omitempty"`
	Wagons int    `json:"wagons,omitempty"`
	Model  string `json:"model,omitempty"`
}

// Vehicle is a capacity-bounded seat container.
//
// Invariants:
//   - Capacity is positive and immutable
//   - every occupied seat lies in [1, Capacity], no duplicates
//   - a seat only moves Free -> Occupied; there is no way back
//
// All kinds share the same allocation mechanics; Kind and Descriptor only
// change how the vehicle is described.
type Vehicle struct {
	ID         id.VehicleID
	Kind       id.VehicleKind
	Capacity   int
	Descriptor Descriptor

	mu       sync.Mutex
	occupied map[int]struct{}
}

// NewVehicle validates the union and returns an empty vehicle.
func NewVehicle(vehicleID id.VehicleID, kind id.VehicleKind, capacity int, desc Descriptor) (*Vehicle, error) {
	if vehicleID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "vehicle id cannot be empty")
	}
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unsupported vehicle kind")
	}
	if capacity <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "capacity must be positive")
	}
	desc, err := normalizeDescriptor(kind, desc)
	if err != nil {
		return nil, err
	}
	return &Vehicle{
		ID:         vehicleID,
		Kind:       kind,
		Capacity:   capacity,
		Descriptor: desc,
		occupied:   make(map[int]struct{}),
	}, nil
}

// NewBus builds a bus serving route.
func NewBus(vehicleID id.VehicleID, capacity int, route string) (*Vehicle, error) {
	return NewVehicle(vehicleID, id.VehicleKindBus, capacity, Descriptor{Route: route})
}

// NewTrain builds a train made of wagons.
func NewTrain(vehicleID id.VehicleID, capacity int, wagons int) (*Vehicle, error) {
	return NewVehicle(vehicleID, id.VehicleKindTrain, capacity, Descriptor{Wagons: wagons})
}

// NewPlane builds a plane of the given model.
func NewPlane(vehicleID id.VehicleID, capacity int, model string) (*Vehicle, error) {
	return NewVehicle(vehicleID, id.VehicleKindPlane, capacity, Descriptor{Model: model})
}

// normalizeDescriptor keeps only the field that belongs to kind.
func normalizeDescriptor(kind id.VehicleKind, desc Descriptor) (Descriptor, error) {
	switch kind {
	case id.VehicleKindBus:
		route := strings.TrimSpace(desc.Route)
		if route == "" {
			return Descriptor{}, dErrors.New(dErrors.CodeInvariantViolation, "bus route cannot be empty")
		}
		return Descriptor{Route: route}, nil
	case id.VehicleKindTrain:
		if desc.Wagons <= 0 {
			return Descriptor{}, dErrors.New(dErrors.CodeInvariantViolation, "train must have at least one wagon")
		}
		return Descriptor{Wagons: desc.Wagons}, nil
	case id.VehicleKindPlane:
		model := strings.TrimSpace(desc.Model)
		if model == "" {
			return Descriptor{}, dErrors.New(dErrors.CodeInvariantViolation, "plane model cannot be empty")
		}
		return Descriptor{Model: model}, nil
	}
	return Descriptor{}, dErrors.New(dErrors.CodeInvariantViolation, "unsupported vehicle kind")
}

// Allocate marks seat occupied if it is in range and free. The check and the
// mark happen under the vehicle lock.
func (v *Vehicle) Allocate(seat int) error {
	if !v.InRange(seat) {
		return ErrSeatOutOfRange
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, taken := v.occupied[seat]; taken {
		return ErrSeatUnavailable
	}
	if v.occupied == nil {
		v.occupied = make(map[int]struct{})
	}
	v.occupied[seat] = struct{}{}
	return nil
}

// BookSeat reports whether seat was free and is now occupied. Invalid or
// taken seats return false and leave the vehicle unchanged.
func (v *Vehicle) BookSeat(seat int) bool {
	return v.Allocate(seat) == nil
}

// InRange reports whether seat lies in [1, Capacity].
func (v *Vehicle) InRange(seat int) bool {
	return seat >= 1 && seat <= v.Capacity
}

// IsAvailable reports whether seat is in range and not occupied.
func (v *Vehicle) IsAvailable(seat int) bool {
	if !v.InRange(seat) {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	_, taken := v.occupied[seat]
	return !taken
}

// AvailableSeats lists free seats in ascending order. It is recomputed from
// the occupied set on every call.
func (v *Vehicle) AvailableSeats() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	free := make([]int, 0, v.Capacity-len(v.occupied))
	for seat := 1; seat <= v.Capacity; seat++ {
		if _, taken := v.occupied[seat]; !taken {
			free = append(free, seat)
		}
	}
	return free
}

// OccupiedSeats lists occupied seats in ascending order.
func (v *Vehicle) OccupiedSeats() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	seats := make([]int, 0, len(v.occupied))
	for seat := 1; seat <= v.Capacity; seat++ {
		if _, taken := v.occupied[seat]; taken {
			seats = append(seats, seat)
		}
	}
	return seats
}

func (v *Vehicle) OccupiedCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.occupied)
}

// DescriptorLabel names the kind-specific field ("route", "wagons", "model").
func (v *Vehicle) DescriptorLabel() string {
	return descriptorLabel(v.Kind)
}

// DescriptorValue renders the kind-specific field.
func (v *Vehicle) DescriptorValue() string {
	return descriptorValue(v.Kind, v.Descriptor)
}

// Describe returns the kind-specific summary, e.g.
// "bus №101, 50 seats, route: Moscow - Saint Petersburg".
func (v *Vehicle) Describe() string {
	return fmt.Sprintf("%s №%s, %d seats, %s: %s",
		v.Kind, v.ID, v.Capacity, v.DescriptorLabel(), v.DescriptorValue())
}

// String returns the short fleet listing line, e.g. "Bus №101, free: 49/50".
func (v *Vehicle) String() string {
	free := v.Capacity - v.OccupiedCount()
	return fmt.Sprintf("%s №%s, free: %d/%d", v.Kind.Title(), v.ID, free, v.Capacity)
}

// View takes a read-only snapshot for reporting and transport layers.
func (v *Vehicle) View() VehicleView {
	occupied := v.OccupiedCount()
	return VehicleView{
		ID:              v.ID,
		Kind:            v.Kind,
		Capacity:        v.Capacity,
		DescriptorLabel: v.DescriptorLabel(),
		DescriptorValue: v.DescriptorValue(),
		OccupiedCount:   occupied,
		FreeCount:       v.Capacity - occupied,
	}
}

// VehicleView is an immutable copy of a vehicle's reportable state.
type VehicleView struct {
	ID              id.VehicleID   `json:"id"`
	Kind            id.VehicleKind `json:"kind"`
	Capacity        int            `json:"capacity"`
	DescriptorLabel string         `json:"descriptor_label"`
	DescriptorValue string         `json:"descriptor_value"`
	OccupiedCount   int            `json:"occupied_count"`
	FreeCount       int            `json:"free_count"`
}

func descriptorLabel(kind id.VehicleKind) string {
	switch kind {
	case id.VehicleKindBus:
		return "route"
	case id.VehicleKindTrain:
		return "wagons"
	case id.VehicleKindPlane:
		return "model"
	}
	return "info"
}

func descriptorValue(kind id.VehicleKind, desc Descriptor) string {
	switch kind {
	case id.VehicleKindBus:
		return desc.Route
	case id.VehicleKindTrain:
		return strconv.Itoa(desc.Wagons)
	case id.VehicleKindPlane:
		return desc.Model
	}
	return ""
}
