package usecase

import (
	"context"
	"strings"
	"time"

	"aeroclub-service/internal/domain/entity"
	"aeroclub-service/internal/domain/repository"
	"aeroclub-service/pkg/logger"
	"aeroclub-service/pkg/metrics"
)

// CategoryCheck is one alert category: it scans the population for its
// condition and knows when an existing alert has fully cleared.
type CategoryCheck interface {
	Type() entity.AlertType

	// Scan materializes or refreshes the category's alerts and
	// returns the number of newly created records. Failures on one
	// entity are logged and skipped, never abort the scan.
	Scan(ctx context.Context, now time.Time) (int, error)

	// IsCleared reports whether the underlying condition of an active
	// alert has fully resolved. Partial improvement does not clear;
	// the next Scan updates the record through its dedup key.
	IsCleared(ctx context.Context, alert *entity.Alert, now time.Time) (bool, error)
}

// ScanReport is the outcome of one generation pass.
type ScanReport struct {
	Created  map[string]int
	Total    int
	Resolved int
}

// AlertGenerator runs the periodic scans over all members and aircraft.
// It is externally triggered, never self-scheduling.
type AlertGenerator struct {
	memberRepo   repository.MemberRepository
	aircraftRepo repository.AircraftRepository
	alertRepo    repository.AlertRepository
	configRepo   repository.AlertConfigRepository
	defaults     map[entity.AlertType]entity.AlertConfig
	checks       []CategoryCheck
	metrics      *metrics.Metrics
	logger       logger.Logger
	now          func() time.Time
}

// NewAlertGenerator creates a new alert generator. defaults may carry
// per-type threshold overrides for types without a configuration row;
// types absent from both fall back to the hardcoded 60/30/7.
func NewAlertGenerator(
	memberRepo repository.MemberRepository,
	aircraftRepo repository.AircraftRepository,
	alertRepo repository.AlertRepository,
	configRepo repository.AlertConfigRepository,
	defaults map[entity.AlertType]entity.AlertConfig,
	m *metrics.Metrics,
	log logger.Logger,
) *AlertGenerator {
	g := &AlertGenerator{
		memberRepo:   memberRepo,
		aircraftRepo: aircraftRepo,
		alertRepo:    alertRepo,
		configRepo:   configRepo,
		defaults:     defaults,
		metrics:      m,
		logger:       log,
		now:          time.Now,
	}
	g.checks = []CategoryCheck{
		&medicalCheck{g},
		&licenseCheck{g},
		&experienceCheck{g},
		&balanceCheck{g},
		&maintenanceCheck{g},
	}
	return g
}

// RunAllChecks runs every category scan and returns per-category
// created counts. A failing category is logged and reported as zero;
// the remaining categories still run.
func (g *AlertGenerator) RunAllChecks(ctx context.Context) (*ScanReport, error) {
	started := time.Now()
	report := &ScanReport{Created: make(map[string]int)}

	for _, check := range g.checks {
		name := categoryName(check.Type())
		created, err := check.Scan(ctx, g.now())
		if err != nil {
			g.metrics.ErrorsCount.WithLabelValues("alert_scan_" + name).Inc()
			g.logger.Error("Alert scan failed", "category", name, "error", err)
		}
		report.Created[name] = created
		report.Total += created
	}

	g.metrics.ScanDuration.Observe(time.Since(started).Seconds())
	g.logger.Info("Alert scan finished", "created", report.Total)
	return report, nil
}

// ResolveOutdated walks the active alerts of every category and
// resolves those whose condition has fully cleared. Returns the number
// of alerts resolved.
func (g *AlertGenerator) ResolveOutdated(ctx context.Context) (int, error) {
	now := g.now()
	resolved := 0

	for _, check := range g.checks {
		alerts, err := g.alertRepo.ListActiveByType(ctx, check.Type())
		if err != nil {
			g.logger.Error("Failed to list active alerts", "category", categoryName(check.Type()), "error", err)
			continue
		}
		for i := range alerts {
			alert := &alerts[i]
			cleared, err := check.IsCleared(ctx, alert, now)
			if err != nil {
				g.logger.Error("Failed to re-check alert condition", "key", alert.UniqueKey, "error", err)
				continue
			}
			if !cleared {
				continue
			}
			if err := alert.Resolve(now); err != nil {
				continue
			}
			if err := g.alertRepo.Save(ctx, alert); err != nil {
				g.logger.Error("Failed to resolve alert", "key", alert.UniqueKey, "error", err)
				continue
			}
			g.metrics.AlertsResolved.Inc()
			resolved++
		}
	}

	return resolved, nil
}

// configFor returns the active configuration row for a type, the
// injected default, or the hardcoded fallback, in that order.
func (g *AlertGenerator) configFor(ctx context.Context, t entity.AlertType) entity.AlertConfig {
	cfg, err := g.configRepo.GetActive(ctx, t)
	if err == nil {
		return *cfg
	}
	if d, ok := g.defaults[t]; ok {
		return d
	}
	return entity.DefaultAlertConfig(t)
}

// upsert creates or refreshes one alert, isolating per-entity failures.
// Reports whether a new record was created.
func (g *AlertGenerator) upsert(ctx context.Context, a *entity.Alert) bool {
	a.Status = entity.AlertActive
	created, err := g.alertRepo.Upsert(ctx, a)
	if err != nil {
		g.metrics.ErrorsCount.WithLabelValues("alert_upsert").Inc()
		g.logger.Error("Failed to upsert alert", "key", a.UniqueKey, "error", err)
		return false
	}
	if created {
		g.metrics.AlertsCreated.WithLabelValues(categoryName(a.Type)).Inc()
	}
	return created
}

func categoryName(t entity.AlertType) string {
	return strings.ToLower(string(t))
}
