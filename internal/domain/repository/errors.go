package repository

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSlotConflict is returned when a reservation window intersects
	// an existing pending or confirmed reservation on the same
	// aircraft. Never overridable.
	ErrSlotConflict = errors.New("aircraft already booked on this slot")
)
