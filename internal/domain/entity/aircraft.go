package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Aircraft operational status
const (
	AircraftAvailable   = "AVAILABLE"
	AircraftMaintenance = "MAINTENANCE"
	AircraftGrounded    = "GROUNDED"
	AircraftReserved    = "RESERVED" // reserved value, not set by current logic
)

// Aircraft represents one machine of the fleet with its airworthiness state.
type Aircraft struct {
	ID           uint
	Registration string // ex: F-GABC
	ModelName    string // ex: DR400-120
	HourlyRate   decimal.Decimal
	CurrentHours decimal.Decimal
	Status       string

	// Legal documents
	CofAValidity      *time.Time // certificate of airworthiness (CDN)
	InsuranceValidity *time.Time

	// Open squawk or scheduled shop visit that does not ground the
	// aircraft by itself. Overdue deadlines are a separate, grounding
	// condition (see HasOverdueDeadline).
	HasOutstandingMaintenance bool

	Deadlines []MaintenanceDeadline

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}

// HasOverdueDeadline reports whether any maintenance deadline is past due,
// by calendar date or hour meter.
func (a *Aircraft) HasOverdueDeadline(today time.Time) bool {
	for i := range a.Deadlines {
		if a.Deadlines[i].IsOverdue(today, a.CurrentHours) {
			return true
		}
	}
	return false
}

// IsAirworthy reports whether the aircraft may legally fly: status is
// AVAILABLE, both legal documents are current and no maintenance
// deadline is overdue.
func (a *Aircraft) IsAirworthy(today time.Time) bool {
	if a.Status != AircraftAvailable {
		return false
	}
	if !dateValid(a.CofAValidity, today) || !dateValid(a.InsuranceValidity, today) {
		return false
	}
	return !a.HasOverdueDeadline(today)
}

// MaintenanceDeadline is a butée: the next shop visit due at an hour
// meter value and/or a calendar date. Either bound may be absent.
type MaintenanceDeadline struct {
	ID          uint
	AircraftID  uint
	Title       string // ex: Visite 50h
	DueAtHours  *decimal.Decimal
	DueAtDate   *time.Time
	Description string

	Aircraft *Aircraft

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOverdue reports whether the deadline is past due for the given
// hour meter value.
func (d *MaintenanceDeadline) IsOverdue(today time.Time, currentHours decimal.Decimal) bool {
	if d.DueAtDate != nil && startOfDay(*d.DueAtDate).Before(startOfDay(today)) {
		return true
	}
	if d.DueAtHours != nil && d.DueAtHours.LessThan(currentHours) {
		return true
	}
	return false
}
