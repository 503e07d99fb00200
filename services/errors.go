package services

import "errors"

// Sentinel errors surfaced by the service layer. Controllers translate these
// into structured HTTP error responses.
var (
	// ErrOrderNotFound is returned when an order is missing or soft-deleted.
	ErrOrderNotFound = errors.New("order not found")

	// ErrConflict is returned when an optimistic-concurrency guard fails:
	// the row was updated by someone else between read and write.
	ErrConflict = errors.New("order was modified concurrently")
)
