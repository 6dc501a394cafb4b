package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aeroclub-service/internal/domain/entity"
	"aeroclub-service/internal/domain/repository"

	"github.com/shopspring/decimal"
)

// medicalCheck scans medical certificate expiry dates.
type medicalCheck struct{ g *AlertGenerator }

func (c *medicalCheck) Type() entity.AlertType { return entity.AlertMedical }

func (c *medicalCheck) Scan(ctx context.Context, now time.Time) (int, error) {
	cfg := c.g.configFor(ctx, entity.AlertMedical)
	horizon := now.AddDate(0, 0, cfg.DaysInfo)

	members, err := c.g.memberRepo.ListWithExpiringMedical(ctx, horizon)
	if err != nil {
		return 0, fmt.Errorf("list members with expiring medical: %w", err)
	}

	created := 0
	for i := range members {
		m := &members[i]
		if m.MedicalValidity == nil {
			continue
		}
		days := entity.DaysUntil(*m.MedicalValidity, now)
		sev := severityForDays(days, cfg)
		if sev == entity.SeverityNone {
			continue
		}

		expiry := m.MedicalValidity.Format("02/01/2006")
		var title, message string
		if days <= 0 {
			title = "Medical certificate EXPIRED"
			message = fmt.Sprintf("Your medical certificate expired on %s. You may not fly until it is renewed.", expiry)
		} else {
			title = fmt.Sprintf("Medical certificate expires in %d day(s)", days)
			message = fmt.Sprintf("Your medical certificate expires on %s. Book an appointment with an approved doctor.", expiry)
		}

		userID := m.UserID
		if c.g.upsert(ctx, &entity.Alert{
			UserID:    &userID,
			Type:      entity.AlertMedical,
			Severity:  sev,
			Title:     title,
			Message:   message,
			ExpiresAt: m.MedicalValidity,
			// Re-running against an unchanged expiry date updates in
			// place rather than duplicating.
			UniqueKey: fmt.Sprintf("medical_%d_%s", m.UserID, m.MedicalValidity.Format("2006-01")),
		}) {
			created++
		}
	}
	return created, nil
}

func (c *medicalCheck) IsCleared(ctx context.Context, alert *entity.Alert, now time.Time) (bool, error) {
	m, err := c.g.memberForAlert(ctx, alert)
	if m == nil || err != nil {
		return false, err
	}
	return m.MedicalValidity != nil && entity.DaysUntil(*m.MedicalValidity, now) > 0, nil
}

// licenseCheck scans SEP rating expiry dates.
type licenseCheck struct{ g *AlertGenerator }

func (c *licenseCheck) Type() entity.AlertType { return entity.AlertLicense }

func (c *licenseCheck) Scan(ctx context.Context, now time.Time) (int, error) {
	cfg := c.g.configFor(ctx, entity.AlertLicense)
	horizon := now.AddDate(0, 0, cfg.DaysInfo)

	members, err := c.g.memberRepo.ListWithExpiringLicense(ctx, horizon)
	if err != nil {
		return 0, fmt.Errorf("list members with expiring license: %w", err)
	}

	created := 0
	for i := range members {
		m := &members[i]
		if m.LicenseValidity == nil {
			continue
		}
		days := entity.DaysUntil(*m.LicenseValidity, now)
		sev := severityForDays(days, cfg)
		if sev == entity.SeverityNone {
			continue
		}

		expiry := m.LicenseValidity.Format("02/01/2006")
		var title, message string
		if days <= 0 {
			title = "License/SEP EXPIRED"
			message = fmt.Sprintf("Your license expired on %s. Contact an instructor for a revalidation flight.", expiry)
		} else {
			title = fmt.Sprintf("License expires in %d day(s)", days)
			message = fmt.Sprintf("Your license expires on %s. Plan a revalidation flight with an instructor.", expiry)
		}

		userID := m.UserID
		if c.g.upsert(ctx, &entity.Alert{
			UserID:    &userID,
			Type:      entity.AlertLicense,
			Severity:  sev,
			Title:     title,
			Message:   message,
			ExpiresAt: m.LicenseValidity,
			UniqueKey: fmt.Sprintf("license_%d_%s", m.UserID, m.LicenseValidity.Format("2006-01")),
		}) {
			created++
		}
	}
	return created, nil
}

func (c *licenseCheck) IsCleared(ctx context.Context, alert *entity.Alert, now time.Time) (bool, error) {
	m, err := c.g.memberForAlert(ctx, alert)
	if m == nil || err != nil {
		return false, err
	}
	return m.LicenseValidity != nil && entity.DaysUntil(*m.LicenseValidity, now) > 0, nil
}

// experienceCheck scans the 3-landings-in-90-days currency rule.
// Instructors are exempt.
type experienceCheck struct{ g *AlertGenerator }

func (c *experienceCheck) Type() entity.AlertType { return entity.AlertExperience }

func (c *experienceCheck) Scan(ctx context.Context, now time.Time) (int, error) {
	members, err := c.g.memberRepo.ListNonInstructors(ctx)
	if err != nil {
		return 0, fmt.Errorf("list non-instructor members: %w", err)
	}

	created := 0
	for i := range members {
		m := &members[i]
		landings := m.LandingsLast90Days
		if landings >= minLandings90Days {
			continue
		}

		var sev entity.Severity
		var title, message string
		if landings == 0 {
			sev = entity.SeverityCritical
			title = "No landing in the last 90 days"
			message = "You have not logged any landing in more than 90 days. A flight with an instructor is required before flying solo or carrying passengers."
		} else {
			sev = entity.SeverityWarning
			title = fmt.Sprintf("Insufficient recent experience (%d/3 landings)", landings)
			message = fmt.Sprintf("You only have %d landing(s) over the last 90 days. A minimum of 3 is required to carry passengers (FCL.060).", landings)
		}

		userID := m.UserID
		if c.g.upsert(ctx, &entity.Alert{
			UserID:   &userID,
			Type:     entity.AlertExperience,
			Severity: sev,
			Title:    title,
			Message:  message,
			// Keyed on the current month: a persisting shortfall
			// recomputes monthly, deliberately coarse.
			UniqueKey: fmt.Sprintf("experience_%d_%s", m.UserID, now.Format("2006-01")),
		}) {
			created++
		}
	}
	return created, nil
}

func (c *experienceCheck) IsCleared(ctx context.Context, alert *entity.Alert, now time.Time) (bool, error) {
	m, err := c.g.memberForAlert(ctx, alert)
	if m == nil || err != nil {
		return false, err
	}
	return m.LandingsLast90Days >= minLandings90Days, nil
}

// balanceCheck scans account balances against the fixed breakpoints.
type balanceCheck struct{ g *AlertGenerator }

func (c *balanceCheck) Type() entity.AlertType { return entity.AlertBalance }

func (c *balanceCheck) Scan(ctx context.Context, now time.Time) (int, error) {
	members, err := c.g.memberRepo.ListWithBalanceAtMost(ctx, decimal.NewFromInt(balanceWarningLimit))
	if err != nil {
		return 0, fmt.Errorf("list members with low balance: %w", err)
	}

	created := 0
	for i := range members {
		m := &members[i]
		sev := severityForBalance(m.AccountBalance)
		if sev == entity.SeverityNone {
			continue
		}

		balance := m.AccountBalance.StringFixed(2)
		var title, message string
		switch sev {
		case entity.SeverityBlocking:
			title = "Insufficient balance - reservations blocked"
			message = fmt.Sprintf("Your balance is %s EUR. Top up your account to be able to book.", balance)
		case entity.SeverityCritical:
			title = fmt.Sprintf("Very low balance: %s EUR", balance)
			message = fmt.Sprintf("Your balance is %s EUR. Consider topping up your account.", balance)
		default:
			title = fmt.Sprintf("Low balance: %s EUR", balance)
			message = fmt.Sprintf("Your balance is %s EUR. Top up your account to avoid any interruption.", balance)
		}

		userID := m.UserID
		if c.g.upsert(ctx, &entity.Alert{
			UserID:   &userID,
			Type:     entity.AlertBalance,
			Severity: sev,
			Title:    title,
			Message:  message,
			// Keyed on the severity: a balance crossing a breakpoint
			// opens a new alert instead of downgrading the history of
			// the old one.
			UniqueKey: fmt.Sprintf("balance_%d_%s", m.UserID, sev),
		}) {
			created++
		}
	}
	return created, nil
}

func (c *balanceCheck) IsCleared(ctx context.Context, alert *entity.Alert, now time.Time) (bool, error) {
	m, err := c.g.memberForAlert(ctx, alert)
	if m == nil || err != nil {
		return false, err
	}
	return m.AccountBalance.GreaterThan(decimal.NewFromInt(balanceWarningLimit)), nil
}

// maintenanceCheck scans maintenance deadlines, merging calendar and
// hour-meter severities.
type maintenanceCheck struct{ g *AlertGenerator }

func (c *maintenanceCheck) Type() entity.AlertType { return entity.AlertMaintenance }

func (c *maintenanceCheck) Scan(ctx context.Context, now time.Time) (int, error) {
	cfg := c.g.configFor(ctx, entity.AlertMaintenance)

	deadlines, err := c.g.aircraftRepo.ListDeadlines(ctx)
	if err != nil {
		return 0, fmt.Errorf("list maintenance deadlines: %w", err)
	}

	created := 0
	for i := range deadlines {
		d := &deadlines[i]
		if d.Aircraft == nil {
			continue
		}

		var daysRemaining *int
		var hoursRemaining *decimal.Decimal
		if d.DueAtDate != nil {
			days := entity.DaysUntil(*d.DueAtDate, now)
			daysRemaining = &days
		}
		if d.DueAtHours != nil {
			hours := d.DueAtHours.Sub(d.Aircraft.CurrentHours)
			hoursRemaining = &hours
		}

		sev := maintenanceSeverity(daysRemaining, hoursRemaining, cfg)
		if sev == entity.SeverityNone {
			continue
		}

		var parts []string
		if daysRemaining != nil {
			if *daysRemaining <= 0 {
				parts = append(parts, fmt.Sprintf("Calendar limit overrun by %d day(s)", -*daysRemaining))
			} else {
				parts = append(parts, fmt.Sprintf("%d day(s) before calendar limit (%s)",
					*daysRemaining, d.DueAtDate.Format("02/01/2006")))
			}
		}
		if hoursRemaining != nil {
			if hoursRemaining.Sign() <= 0 {
				parts = append(parts, fmt.Sprintf("Hour limit overrun by %sh", hoursRemaining.Neg().StringFixed(1)))
			} else {
				parts = append(parts, fmt.Sprintf("%sh before hour limit (%sh)",
					hoursRemaining.StringFixed(1), d.DueAtHours.StringFixed(1)))
			}
		}

		title := fmt.Sprintf("%s - %s", d.Aircraft.Registration, d.Title)
		if sev == entity.SeverityBlocking {
			title = fmt.Sprintf("%s - %s - GROUNDED", d.Aircraft.Registration, d.Title)
		}
		message := fmt.Sprintf("Maintenance deadline '%s' for %s.\n%s",
			d.Title, d.Aircraft.Registration, strings.Join(parts, "\n"))
		if d.Description != "" {
			message += "\n\nNotes: " + d.Description
		}

		aircraftID := d.AircraftID
		if c.g.upsert(ctx, &entity.Alert{
			AircraftID: &aircraftID,
			Type:       entity.AlertMaintenance,
			Severity:   sev,
			Title:      title,
			Message:    message,
			ExpiresAt:  d.DueAtDate,
			UniqueKey:  fmt.Sprintf("maintenance_%d_%d", d.AircraftID, d.ID),
		}) {
			created++
		}
	}
	return created, nil
}

// IsCleared: maintenance alerts clear when the deadline record itself
// is moved; the next scan refreshes the existing alert through its
// dedup key, so the resolution pass leaves them alone.
func (c *maintenanceCheck) IsCleared(ctx context.Context, alert *entity.Alert, now time.Time) (bool, error) {
	return false, nil
}

// memberForAlert loads the subject member of an alert. A fleet-wide
// alert or a vanished profile yields nil without error, matching the
// silent skip of the resolution pass.
func (g *AlertGenerator) memberForAlert(ctx context.Context, alert *entity.Alert) (*entity.Member, error) {
	if alert.UserID == nil {
		return nil, nil
	}
	m, err := g.memberRepo.GetByUserID(ctx, *alert.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}
