package entity

import "time"

// startOfDay truncates a timestamp to its calendar date.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the number of whole calendar days from `from` until `d`.
// Negative when d is in the past.
func DaysUntil(d, from time.Time) int {
	return int(startOfDay(d).Sub(startOfDay(from)) / (24 * time.Hour))
}

// dateValid reports whether an expiry date is present and not in the past.
// An absent date means "never certified" and is always invalid.
func dateValid(d *time.Time, today time.Time) bool {
	if d == nil {
		return false
	}
	return !startOfDay(*d).Before(startOfDay(today))
}
