package entity

import (
	"time"
)

// Reservation status
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
	ReservationCompleted = "COMPLETED"
)

// Reservation is a booking of an aircraft over a half-open time window
// [StartTime, EndTime). New bookings are created directly in CONFIRMED
// status; a COMPLETED reservation is immutable.
type Reservation struct {
	ID        uint
	Reference string // booking reference shown to the member

	UserID     uint
	AircraftID uint

	StartTime time.Time
	EndTime   time.Time

	Title           string // flight purpose, ex: Vol local
	Destination     string
	IsInstruction   bool
	InstructorID    *uint
	PassengersCount int

	Status string

	// Audit trail of the admission decision
	EligibilityChecked bool
	EligibilityNotes   string
	ForceAllowed       bool
	ForceAllowedByID   *uint

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether the reservation window intersects
// [start, end) under half-open interval semantics.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && r.EndTime.After(start)
}

// BlocksSlot reports whether the reservation occupies its slot for
// conflict detection purposes.
func (r *Reservation) BlocksSlot() bool {
	return r.Status == ReservationPending || r.Status == ReservationConfirmed
}
