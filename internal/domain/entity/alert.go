package entity

import (
	"fmt"
	"time"
)

// AlertType is the closed set of alert categories.
type AlertType string

const (
	AlertMedical     AlertType = "MEDICAL"     // medical certificate
	AlertLicense     AlertType = "LICENSE"     // license / SEP qualification
	AlertCDN         AlertType = "CDN"         // certificate of airworthiness
	AlertMaintenance AlertType = "MAINTENANCE" // maintenance deadline
	AlertBalance     AlertType = "BALANCE"     // low account balance
	AlertExperience  AlertType = "EXPERIENCE"  // recent experience
	AlertInsurance   AlertType = "INSURANCE"   // insurance
	AlertCotisation  AlertType = "COTISATION"  // club subscription
)

// Severity is a totally ordered level. Comparisons must use this
// numeric ordering, never the string form.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityCritical
	SeverityBlocking
)

// String returns the stored representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	case SeverityBlocking:
		return "BLOCKING"
	}
	return ""
}

// ParseSeverity maps a stored severity string back to its level.
// Unknown strings map to SeverityNone.
func ParseSeverity(v string) Severity {
	switch v {
	case "INFO":
		return SeverityInfo
	case "WARNING":
		return SeverityWarning
	case "CRITICAL":
		return SeverityCritical
	case "BLOCKING":
		return SeverityBlocking
	}
	return SeverityNone
}

// Alert lifecycle status. EXPIRED is a reserved terminal value that the
// current logic never produces.
const (
	AlertActive       = "ACTIVE"
	AlertAcknowledged = "ACKNOWLEDGED"
	AlertResolved     = "RESOLVED"
	AlertExpired      = "EXPIRED"
)

// Alert is a materialized expiring-document or compliance condition.
// UserID is nil for fleet-wide alerts. UniqueKey deduplicates: at most
// one live alert exists per key, re-triggering updates in place.
type Alert struct {
	ID         uint
	UserID     *uint
	AircraftID *uint

	Type     AlertType
	Severity Severity
	Status   string

	Title   string
	Message string

	// The calendar date the alert concerns, ex: the expiry date itself.
	ExpiresAt *time.Time

	UniqueKey string

	EmailSent   bool
	EmailSentAt *time.Time

	CreatedAt      time.Time
	UpdatedAt      time.Time
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time
}

// Acknowledge marks the alert as seen by its recipient.
func (a *Alert) Acknowledge(now time.Time) error {
	if a.Status != AlertActive {
		return fmt.Errorf("cannot acknowledge alert in status %s", a.Status)
	}
	a.Status = AlertAcknowledged
	a.AcknowledgedAt = &now
	return nil
}

// Resolve marks the alert as resolved. Terminal.
func (a *Alert) Resolve(now time.Time) error {
	if a.Status != AlertActive && a.Status != AlertAcknowledged {
		return fmt.Errorf("cannot resolve alert in status %s", a.Status)
	}
	a.Status = AlertResolved
	a.ResolvedAt = &now
	return nil
}

// IsBlocking reports whether the alert should block reservations.
func (a *Alert) IsBlocking() bool {
	return a.Severity == SeverityBlocking && a.Status == AlertActive
}

// DaysUntilExpiry returns the number of days before the concerned date,
// when one is set.
func (a *Alert) DaysUntilExpiry(today time.Time) (int, bool) {
	if a.ExpiresAt == nil {
		return 0, false
	}
	return DaysUntil(*a.ExpiresAt, today), true
}
