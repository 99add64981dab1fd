package models

import (
	"fmt"
	"strings"

	dErrors "transitbook/pkg/domain-errors"
)

// Passenger is an identity record. PassportNumber identifies the person across
// bookings; the registry rejects a passport reused under another name.
type Passenger struct {
	Name           string `json:"name"`
	PassportNumber string `json:"passport_number"`
}

// NewPassenger trims both fields and requires them to be non-empty.
func NewPassenger(name, passport string) (Passenger, error) {
	name = strings.TrimSpace(name)
	passport = strings.TrimSpace(passport)
	if name == "" {
		return Passenger{}, dErrors.New(dErrors.CodeInvariantViolation, "passenger name cannot be empty")
	}
	if len(name) > 100 {
		return Passenger{}, dErrors.New(dErrors.CodeInvariantViolation, "passenger name must be 100 characters or less")
	}
	if passport == "" {
		return Passenger{}, dErrors.New(dErrors.CodeInvariantViolation, "passport number cannot be empty")
	}
	if len(passport) > 20 {
		return Passenger{}, dErrors.New(dErrors.CodeInvariantViolation, "passport number must be 20 characters or less")
	}
	return Passenger{Name: name, PassportNumber: passport}, nil
}

func (p Passenger) String() string {
	return fmt.Sprintf("passenger %s, passport: %s", p.Name, p.PassportNumber)
}
