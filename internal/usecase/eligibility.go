package usecase

import (
	"fmt"
	"time"

	"aeroclub-service/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// Low-balance warning threshold in EUR. Legacy constant, deliberately
// independent of the alert-threshold configuration.
const lowBalanceWarning = 100

// Minimum landings in the trailing 90 days to carry passengers
// (FCL.060).
const minLandings90Days = 3

// FlightParams are the booking parameters that influence eligibility.
type FlightParams struct {
	IsInstruction   bool
	PassengersCount int
}

// EligibilityResult classifies the issues found for one evaluation.
// Blockers prevent admission absent explicit override; warnings are
// surfaced for visibility only. Computed fresh on every call, never
// cached.
type EligibilityResult struct {
	Blockers []string
	Warnings []string
}

// Admissible reports whether the reservation may be admitted without
// override.
func (r EligibilityResult) Admissible() bool {
	return len(r.Blockers) == 0
}

// Issues returns blockers then warnings, for the persisted audit blob.
func (r EligibilityResult) Issues() []string {
	out := make([]string, 0, len(r.Blockers)+len(r.Warnings))
	out = append(out, r.Blockers...)
	out = append(out, r.Warnings...)
	return out
}

// EvaluateEligibility runs the compliance rule set for one pilot, an
// optional aircraft and the flight parameters. Pure: no side effects,
// no clock reads, safe to call concurrently. A nil member means the
// pilot has no profile at all and is a hard blocker, not an error.
func EvaluateEligibility(member *entity.Member, aircraft *entity.Aircraft, params FlightParams, today time.Time) EligibilityResult {
	var res EligibilityResult

	if member == nil {
		res.Blockers = append(res.Blockers, "Pilot profile not found")
		return res
	}

	if !member.IsMedicalValid(today) {
		res.Blockers = append(res.Blockers, "Medical certificate expired or missing")
	}

	// An instruction flight may proceed on an expired SEP rating: the
	// revalidation flight itself is flown with an instructor.
	if !member.IsLicenseValid(today) && !params.IsInstruction {
		res.Blockers = append(res.Blockers, "SEP qualification expired or missing")
	}

	if member.AccountBalance.Sign() <= 0 {
		res.Blockers = append(res.Blockers,
			fmt.Sprintf("Insufficient account balance (%s EUR)", member.AccountBalance.StringFixed(2)))
	} else if member.AccountBalance.LessThan(decimal.NewFromInt(lowBalanceWarning)) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("Low account balance (%s EUR)", member.AccountBalance.StringFixed(2)))
	}

	if params.PassengersCount > 0 && !params.IsInstruction && member.LandingsLast90Days < minLandings90Days {
		res.Blockers = append(res.Blockers,
			fmt.Sprintf("Insufficient recent experience to carry passengers (%d/%d landings in 90 days)",
				member.LandingsLast90Days, minLandings90Days))
	}

	// Solo currency-building flights are not blocked, only advised
	// against; the advisory stays silent once a blocker already fired.
	if member.LandingsLast90Days < minLandings90Days && !params.IsInstruction && len(res.Blockers) == 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("Only %d landing(s) in the last 90 days. A flight with an instructor is recommended.",
				member.LandingsLast90Days))
	}

	if !member.IsClubSubscriptionValid(today) {
		res.Warnings = append(res.Warnings, "Club subscription expired")
	}
	if !member.IsFederationValid(today) {
		res.Warnings = append(res.Warnings, "FFA license expired")
	}

	if aircraft != nil {
		if !aircraft.IsAirworthy(today) {
			res.Blockers = append(res.Blockers,
				fmt.Sprintf("Aircraft %s is not airworthy", aircraft.Registration))
		} else if aircraft.HasOutstandingMaintenance {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("Outstanding maintenance on aircraft %s", aircraft.Registration))
		}
	}

	return res
}
