package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Member represents a pilot profile with the certification and financial
// state the reservation and alerting rules evaluate. Expiry dates are
// nil when the member was never certified.
type Member struct {
	ID            uint
	UserID        uint
	FirstName     string
	LastName      string
	PhoneNumber   string
	LicenseNumber string
	FFANumber     string

	// Expiry dates
	MedicalValidity    *time.Time // Class 2 / LAPL medical certificate
	LicenseValidity    *time.Time // SEP type rating
	ClubValidity       *time.Time // club subscription (cotisation)
	FederationValidity *time.Time // FFA federation license

	AccountBalance     decimal.Decimal
	LandingsLast90Days int

	IsInstructor bool
	IsStudent    bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}

// IsMedicalValid reports whether the medical certificate is current.
func (m *Member) IsMedicalValid(today time.Time) bool {
	return dateValid(m.MedicalValidity, today)
}

// IsLicenseValid reports whether the SEP type rating is current.
func (m *Member) IsLicenseValid(today time.Time) bool {
	return dateValid(m.LicenseValidity, today)
}

// IsClubSubscriptionValid reports whether the club subscription is current.
func (m *Member) IsClubSubscriptionValid(today time.Time) bool {
	return dateValid(m.ClubValidity, today)
}

// IsFederationValid reports whether the FFA license is current.
func (m *Member) IsFederationValid(today time.Time) bool {
	return dateValid(m.FederationValidity, today)
}
