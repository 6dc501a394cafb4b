package usecase

import (
	"aeroclub-service/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// Balance breakpoints in EUR for the alert generator. Distinct from the
// evaluator's lowBalanceWarning constant.
const (
	balanceWarningLimit  = 100
	balanceCriticalLimit = 50
)

// Hour-meter breakpoints for maintenance deadlines, in flight hours
// remaining.
var (
	hoursCritical = decimal.NewFromInt(5)
	hoursWarning  = decimal.NewFromInt(10)
	hoursInfo     = decimal.NewFromInt(20)
)

// severityForDays classifies a signed days-remaining value against the
// day thresholds. Zero or negative means the date has passed.
func severityForDays(days int, cfg entity.AlertConfig) entity.Severity {
	switch {
	case days <= 0:
		return entity.SeverityBlocking
	case days <= cfg.DaysCritical:
		return entity.SeverityCritical
	case days <= cfg.DaysWarning:
		return entity.SeverityWarning
	case days <= cfg.DaysInfo:
		return entity.SeverityInfo
	}
	return entity.SeverityNone
}

// severityForBalance classifies an account balance against the fixed
// breakpoints. Balances above the warning limit yield SeverityNone.
func severityForBalance(balance decimal.Decimal) entity.Severity {
	switch {
	case balance.Sign() <= 0:
		return entity.SeverityBlocking
	case balance.LessThanOrEqual(decimal.NewFromInt(balanceCriticalLimit)):
		return entity.SeverityCritical
	case balance.LessThanOrEqual(decimal.NewFromInt(balanceWarningLimit)):
		return entity.SeverityWarning
	}
	return entity.SeverityNone
}

// maintenanceSeverity merges the calendar-based and hour-based
// classifications of one deadline. The merge is asymmetric on purpose:
// a calendar BLOCKING is never downgraded by a less severe hour
// computation, while an hour BLOCKING overwrites anything; CRITICAL
// does not overwrite BLOCKING, WARNING does not overwrite BLOCKING or
// CRITICAL, and INFO only fills an empty classification.
func maintenanceSeverity(daysRemaining *int, hoursRemaining *decimal.Decimal, cfg entity.AlertConfig) entity.Severity {
	sev := entity.SeverityNone

	if daysRemaining != nil {
		sev = severityForDays(*daysRemaining, cfg)
	}

	if hoursRemaining != nil {
		h := *hoursRemaining
		switch {
		case h.Sign() <= 0:
			sev = entity.SeverityBlocking
		case h.LessThanOrEqual(hoursCritical):
			if sev != entity.SeverityBlocking {
				sev = entity.SeverityCritical
			}
		case h.LessThanOrEqual(hoursWarning):
			if sev != entity.SeverityBlocking && sev != entity.SeverityCritical {
				sev = entity.SeverityWarning
			}
		case h.LessThanOrEqual(hoursInfo):
			if sev == entity.SeverityNone {
				sev = entity.SeverityInfo
			}
		}
	}

	return sev
}
