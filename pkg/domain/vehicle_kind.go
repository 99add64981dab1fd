package domain

import (
	"strings"

	dErrors "transitbook/pkg/domain-errors"
)

// VehicleKind discriminates the vehicle union.
// Invariant: the value must be one of the supported kinds.
//
// Usage: construct via ParseVehicleKind at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type VehicleKind string

const (
	VehicleKindBus   VehicleKind = "bus"
	VehicleKindTrain VehicleKind = "train"
	VehicleKindPlane VehicleKind = "plane"
)

var validVehicleKinds = map[VehicleKind]bool{
	VehicleKindBus:   true,
	VehicleKindTrain: true,
	VehicleKindPlane: true,
}

// ParseVehicleKind constructs a VehicleKind from external input. Matching is
// case-insensitive.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseVehicleKind(s string) (VehicleKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "vehicle kind cannot be empty")
	}
	k := VehicleKind(s)
	if !k.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid vehicle kind")
	}
	return k, nil
}

// IsValid checks if the kind is one of the supported enum values.
func (k VehicleKind) IsValid() bool {
	return validVehicleKinds[k]
}

func (k VehicleKind) String() string {
	return string(k)
}

// Title returns the capitalised kind name used in confirmations ("Bus").
func (k VehicleKind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}
