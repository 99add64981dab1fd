package sentinel

import "errors"

// Sentinel errors for infrastructure facts. The export store returns these
// (wrapped) so callers can branch on what happened to a row without parsing
// driver errors:
// - ErrNotFound: referenced row does not exist
// - ErrConflict: a unique constraint rejected the write
// - ErrUnavailable: the database could not be reached
//
// Booking rule violations live in internal/booking/models and are coded with
// pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
