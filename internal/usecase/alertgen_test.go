package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"aeroclub-service/internal/domain/entity"
	"aeroclub-service/pkg/logger"

	"github.com/shopspring/decimal"
)

type alertFixture struct {
	gen      *AlertGenerator
	members  *fakeMemberRepo
	aircraft *fakeAircraftRepo
	alerts   *fakeAlertRepo
	configs  *fakeConfigRepo
}

func newAlertFixture(members *fakeMemberRepo, aircraft *fakeAircraftRepo) *alertFixture {
	alerts := newFakeAlertRepo()
	configs := newFakeConfigRepo()
	g := NewAlertGenerator(members, aircraft, alerts, configs, nil, testMetrics, logger.NewNop())
	g.now = func() time.Time { return evalToday }
	return &alertFixture{gen: g, members: members, aircraft: aircraft, alerts: alerts, configs: configs}
}

func TestRunAllChecksMedicalSeverity(t *testing.T) {
	m := currentMember()
	m.MedicalValidity = futureDate(5)
	f := newAlertFixture(newFakeMemberRepo(m), newFakeAircraftRepo())

	report, err := f.gen.RunAllChecks(context.Background())
	if err != nil {
		t.Fatalf("RunAllChecks: %v", err)
	}
	if report.Created["medical"] != 1 {
		t.Fatalf("medical created = %d, want 1", report.Created["medical"])
	}

	key := fmt.Sprintf("medical_%d_%s", m.UserID, m.MedicalValidity.Format("2006-01"))
	a := f.alerts.get(key)
	if a == nil {
		t.Fatalf("no alert under key %s", key)
	}
	if a.Severity != entity.SeverityCritical {
		t.Errorf("severity = %v, want CRITICAL at 5 days", a.Severity)
	}
	if a.Status != entity.AlertActive {
		t.Errorf("status = %s, want ACTIVE", a.Status)
	}
	if a.ExpiresAt == nil || !a.ExpiresAt.Equal(*m.MedicalValidity) {
		t.Errorf("expiresAt = %v, want the expiry date", a.ExpiresAt)
	}
}

func TestRunAllChecksIdempotent(t *testing.T) {
	m := currentMember()
	m.MedicalValidity = futureDate(5)
	m.LicenseValidity = futureDate(20)
	m.AccountBalance = decimal.NewFromInt(40)
	m.LandingsLast90Days = 1
	f := newAlertFixture(newFakeMemberRepo(m), newFakeAircraftRepo())
	ctx := context.Background()

	first, err := f.gen.RunAllChecks(ctx)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Total != 4 { // medical, license, experience, balance
		t.Fatalf("first run created = %d (%v), want 4", first.Total, first.Created)
	}

	second, err := f.gen.RunAllChecks(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Total != 0 {
		t.Fatalf("second run created = %d, want 0", second.Total)
	}
	if f.alerts.count() != 4 {
		t.Fatalf("stored alerts = %d, want 4", f.alerts.count())
	}
}

func TestRunAllChecksUpdatesInPlace(t *testing.T) {
	m := currentMember()
	m.MedicalValidity = futureDate(8)
	f := newAlertFixture(newFakeMemberRepo(m), newFakeAircraftRepo())
	ctx := context.Background()

	if _, err := f.gen.RunAllChecks(ctx); err != nil {
		t.Fatal(err)
	}
	key := fmt.Sprintf("medical_%d_%s", m.UserID, m.MedicalValidity.Format("2006-01"))
	if got := f.alerts.get(key).Severity; got != entity.SeverityWarning {
		t.Fatalf("severity = %v, want WARNING at 8 days", got)
	}

	// The next day the same key escalates instead of duplicating.
	f.gen.now = func() time.Time { return evalToday.AddDate(0, 0, 1) }
	report, err := f.gen.RunAllChecks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Created["medical"] != 0 {
		t.Fatalf("re-scan created = %d, want 0", report.Created["medical"])
	}
	if f.alerts.count() != 1 {
		t.Fatalf("stored alerts = %d, want 1", f.alerts.count())
	}
	if got := f.alerts.get(key).Severity; got != entity.SeverityCritical {
		t.Fatalf("severity after escalation = %v, want CRITICAL at 7 days", got)
	}
}

func TestUpsertPreservesAcknowledgedStatus(t *testing.T) {
	m := currentMember()
	m.MedicalValidity = futureDate(5)
	f := newAlertFixture(newFakeMemberRepo(m), newFakeAircraftRepo())
	ctx := context.Background()

	if _, err := f.gen.RunAllChecks(ctx); err != nil {
		t.Fatal(err)
	}
	key := fmt.Sprintf("medical_%d_%s", m.UserID, m.MedicalValidity.Format("2006-01"))
	a := f.alerts.get(key)
	if err := a.Acknowledge(evalToday); err != nil {
		t.Fatal(err)
	}

	if _, err := f.gen.RunAllChecks(ctx); err != nil {
		t.Fatal(err)
	}
	if got := f.alerts.get(key).Status; got != entity.AlertAcknowledged {
		t.Fatalf("status after re-scan = %s, want ACKNOWLEDGED preserved", got)
	}
}

func TestBalanceAlertKeyedBySeverity(t *testing.T) {
	m := currentMember()
	m.AccountBalance = decimal.NewFromInt(80)
	f := newAlertFixture(newFakeMemberRepo(m), newFakeAircraftRepo())
	ctx := context.Background()

	if _, err := f.gen.RunAllChecks(ctx); err != nil {
		t.Fatal(err)
	}
	warningKey := fmt.Sprintf("balance_%d_%s", m.UserID, entity.SeverityWarning)
	if f.alerts.get(warningKey) == nil {
		t.Fatalf("no WARNING balance alert under %s", warningKey)
	}

	// Crossing the critical breakpoint opens a new alert under its own
	// key rather than mutating the warning one.
	f.members.members[m.UserID].AccountBalance = decimal.NewFromInt(30)
	report, err := f.gen.RunAllChecks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Created["balance"] != 1 {
		t.Fatalf("balance created = %d, want 1", report.Created["balance"])
	}
	criticalKey := fmt.Sprintf("balance_%d_%s", m.UserID, entity.SeverityCritical)
	if f.alerts.get(criticalKey) == nil {
		t.Fatalf("no CRITICAL balance alert under %s", criticalKey)
	}
	if f.alerts.get(warningKey) == nil {
		t.Error("warning alert should remain for the resolution pass")
	}
}

func TestExperienceAlertSeverity(t *testing.T) {
	grounded := currentMember()
	grounded.UserID = 50
	grounded.LandingsLast90Days = 0
	rusty := currentMember()
	rusty.UserID = 51
	rusty.LandingsLast90Days = 2
	instructor := currentMember()
	instructor.UserID = 52
	instructor.LandingsLast90Days = 0
	instructor.IsInstructor = true

	f := newAlertFixture(newFakeMemberRepo(grounded, rusty, instructor), newFakeAircraftRepo())
	report, err := f.gen.RunAllChecks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Created["experience"] != 2 {
		t.Fatalf("experience created = %d, want 2 (instructors exempt)", report.Created["experience"])
	}

	month := evalToday.Format("2006-01")
	if got := f.alerts.get(fmt.Sprintf("experience_50_%s", month)).Severity; got != entity.SeverityCritical {
		t.Errorf("0 landings severity = %v, want CRITICAL", got)
	}
	if got := f.alerts.get(fmt.Sprintf("experience_51_%s", month)).Severity; got != entity.SeverityWarning {
		t.Errorf("2 landings severity = %v, want WARNING", got)
	}
}

func TestMaintenanceAlertGrounded(t *testing.T) {
	a := flyableAircraft()
	dueHours := decimal.NewFromInt(4510) // 10h below the meter
	aircraftRepo := newFakeAircraftRepo(a)
	aircraftRepo.deadlines = []entity.MaintenanceDeadline{{
		ID:         3,
		AircraftID: a.ID,
		Title:      "Visite 50h",
		DueAtHours: &dueHours,
	}}
	f := newAlertFixture(newFakeMemberRepo(), aircraftRepo)

	report, err := f.gen.RunAllChecks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Created["maintenance"] != 1 {
		t.Fatalf("maintenance created = %d, want 1", report.Created["maintenance"])
	}

	alert := f.alerts.get(fmt.Sprintf("maintenance_%d_3", a.ID))
	if alert == nil {
		t.Fatal("no maintenance alert")
	}
	if alert.Severity != entity.SeverityBlocking {
		t.Errorf("severity = %v, want BLOCKING for an overrun hour limit", alert.Severity)
	}
	if alert.UserID != nil || alert.AircraftID == nil || *alert.AircraftID != a.ID {
		t.Errorf("alert subject: userID=%v aircraftID=%v", alert.UserID, alert.AircraftID)
	}
}

func TestRunAllChecksIsolatesFailures(t *testing.T) {
	healthy := currentMember()
	healthy.UserID = 60
	healthy.MedicalValidity = futureDate(5)
	broken := currentMember()
	broken.UserID = 61
	broken.MedicalValidity = futureDate(5)

	f := newAlertFixture(newFakeMemberRepo(healthy, broken), newFakeAircraftRepo())
	brokenKey := fmt.Sprintf("medical_%d_%s", broken.UserID, broken.MedicalValidity.Format("2006-01"))
	f.alerts.failKeys[brokenKey] = errors.New("constraint violation")

	report, err := f.gen.RunAllChecks(context.Background())
	if err != nil {
		t.Fatalf("RunAllChecks: %v", err)
	}
	if report.Created["medical"] != 1 {
		t.Fatalf("medical created = %d, want 1 despite one failing upsert", report.Created["medical"])
	}
	healthyKey := fmt.Sprintf("medical_%d_%s", healthy.UserID, healthy.MedicalValidity.Format("2006-01"))
	if f.alerts.get(healthyKey) == nil {
		t.Error("healthy member's alert missing")
	}
}

func TestResolveOutdated(t *testing.T) {
	m := currentMember()
	m.MedicalValidity = futureDate(5)
	f := newAlertFixture(newFakeMemberRepo(m), newFakeAircraftRepo())
	ctx := context.Background()

	if _, err := f.gen.RunAllChecks(ctx); err != nil {
		t.Fatal(err)
	}

	// Condition persists: nothing to resolve.
	resolved, err := f.gen.ResolveOutdated(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != 0 {
		t.Fatalf("resolved = %d, want 0 while the medical is still expiring", resolved)
	}

	// Renewed medical clears the alert.
	f.members.members[m.UserID].MedicalValidity = futureDate(400)
	resolved, err = f.gen.ResolveOutdated(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != 1 {
		t.Fatalf("resolved = %d, want 1", resolved)
	}
	key := fmt.Sprintf("medical_%d_%s", m.UserID, futureDate(5).Format("2006-01"))
	if got := f.alerts.get(key).Status; got != entity.AlertResolved {
		t.Fatalf("status = %s, want RESOLVED", got)
	}
}

func TestResolveOutdatedSkipsMaintenance(t *testing.T) {
	a := flyableAircraft()
	due := evalToday.AddDate(0, 0, 3)
	aircraftRepo := newFakeAircraftRepo(a)
	aircraftRepo.deadlines = []entity.MaintenanceDeadline{{
		ID: 9, AircraftID: a.ID, Title: "Visite annuelle", DueAtDate: &due,
	}}
	f := newAlertFixture(newFakeMemberRepo(), aircraftRepo)
	ctx := context.Background()

	if _, err := f.gen.RunAllChecks(ctx); err != nil {
		t.Fatal(err)
	}

	// Even with the deadline gone, the resolution pass leaves
	// maintenance alerts alone.
	aircraftRepo.deadlines = nil
	resolved, err := f.gen.ResolveOutdated(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != 0 {
		t.Fatalf("resolved = %d, want 0 for maintenance", resolved)
	}
}

func TestConfigForPrecedence(t *testing.T) {
	f := newAlertFixture(newFakeMemberRepo(), newFakeAircraftRepo())
	ctx := context.Background()

	// Hardcoded fallback.
	cfg := f.gen.configFor(ctx, entity.AlertMedical)
	if cfg.DaysInfo != entity.DefaultDaysInfo {
		t.Fatalf("fallback DaysInfo = %d, want %d", cfg.DaysInfo, entity.DefaultDaysInfo)
	}

	// Injected default beats the fallback.
	f.gen.defaults = map[entity.AlertType]entity.AlertConfig{
		entity.AlertMedical: {AlertType: entity.AlertMedical, DaysInfo: 90, DaysWarning: 45, DaysCritical: 14},
	}
	if cfg := f.gen.configFor(ctx, entity.AlertMedical); cfg.DaysInfo != 90 {
		t.Fatalf("default DaysInfo = %d, want 90", cfg.DaysInfo)
	}

	// An active configuration row beats both.
	f.configs.configs[entity.AlertMedical] = entity.AlertConfig{
		AlertType: entity.AlertMedical, DaysInfo: 120, DaysWarning: 60, DaysCritical: 30, IsActive: true,
	}
	if cfg := f.gen.configFor(ctx, entity.AlertMedical); cfg.DaysInfo != 120 {
		t.Fatalf("row DaysInfo = %d, want 120", cfg.DaysInfo)
	}
}
