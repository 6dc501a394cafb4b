package entity

// Default day thresholds applied when no configuration row exists.
const (
	DefaultDaysInfo     = 60
	DefaultDaysWarning  = 30
	DefaultDaysCritical = 7
)

// AlertConfig holds the per-type day thresholds driving severity
// classification. Thresholds are days before expiry, strictly
// decreasing: DaysInfo > DaysWarning > DaysCritical.
type AlertConfig struct {
	AlertType     AlertType
	DaysInfo      int
	DaysWarning   int
	DaysCritical  int
	BlockOnExpiry bool
	SendEmail     bool
	IsActive      bool
}

// DefaultAlertConfig returns the hardcoded fallback configuration for a
// type.
func DefaultAlertConfig(t AlertType) AlertConfig {
	return AlertConfig{
		AlertType:     t,
		DaysInfo:      DefaultDaysInfo,
		DaysWarning:   DefaultDaysWarning,
		DaysCritical:  DefaultDaysCritical,
		BlockOnExpiry: true,
		SendEmail:     true,
		IsActive:      true,
	}
}
