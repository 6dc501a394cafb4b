package entity

import (
	"testing"
	"time"
)

func TestSeverityOrdering(t *testing.T) {
	if !(SeverityNone < SeverityInfo && SeverityInfo < SeverityWarning &&
		SeverityWarning < SeverityCritical && SeverityCritical < SeverityBlocking) {
		t.Fatal("severity levels are not totally ordered")
	}
}

func TestParseSeverityRoundTrip(t *testing.T) {
	for _, s := range []Severity{SeverityInfo, SeverityWarning, SeverityCritical, SeverityBlocking} {
		if got := ParseSeverity(s.String()); got != s {
			t.Errorf("ParseSeverity(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if got := ParseSeverity("garbage"); got != SeverityNone {
		t.Errorf("ParseSeverity(garbage) = %v, want SeverityNone", got)
	}
}

func TestAlertAcknowledge(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	a := &Alert{Status: AlertActive}
	if err := a.Acknowledge(now); err != nil {
		t.Fatalf("Acknowledge from ACTIVE: %v", err)
	}
	if a.Status != AlertAcknowledged || a.AcknowledgedAt == nil {
		t.Fatalf("status = %s, acknowledgedAt = %v", a.Status, a.AcknowledgedAt)
	}

	// Not re-acknowledgeable, and never from a terminal state.
	for _, status := range []string{AlertAcknowledged, AlertResolved, AlertExpired} {
		a := &Alert{Status: status}
		if err := a.Acknowledge(now); err == nil {
			t.Errorf("Acknowledge from %s succeeded, want error", status)
		}
	}
}

func TestAlertResolve(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	for _, status := range []string{AlertActive, AlertAcknowledged} {
		a := &Alert{Status: status}
		if err := a.Resolve(now); err != nil {
			t.Fatalf("Resolve from %s: %v", status, err)
		}
		if a.Status != AlertResolved || a.ResolvedAt == nil {
			t.Fatalf("status = %s, resolvedAt = %v", a.Status, a.ResolvedAt)
		}
	}

	for _, status := range []string{AlertResolved, AlertExpired} {
		a := &Alert{Status: status}
		if err := a.Resolve(now); err == nil {
			t.Errorf("Resolve from %s succeeded, want error", status)
		}
	}
}

func TestAlertIsBlocking(t *testing.T) {
	tests := []struct {
		severity Severity
		status   string
		want     bool
	}{
		{SeverityBlocking, AlertActive, true},
		{SeverityBlocking, AlertAcknowledged, false},
		{SeverityBlocking, AlertResolved, false},
		{SeverityCritical, AlertActive, false},
	}
	for _, tt := range tests {
		a := &Alert{Severity: tt.severity, Status: tt.status}
		if got := a.IsBlocking(); got != tt.want {
			t.Errorf("IsBlocking(%v, %s) = %v, want %v", tt.severity, tt.status, got, tt.want)
		}
	}
}

func TestAlertDaysUntilExpiry(t *testing.T) {
	today := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

	a := &Alert{}
	if _, ok := a.DaysUntilExpiry(today); ok {
		t.Fatal("expected no expiry days without a concerned date")
	}

	expiry := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	a.ExpiresAt = &expiry
	days, ok := a.DaysUntilExpiry(today)
	if !ok || days != 5 {
		t.Fatalf("DaysUntilExpiry = %d, %v; want 5, true", days, ok)
	}
}
