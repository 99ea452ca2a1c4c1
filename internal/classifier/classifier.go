// Package classifier turns the activity ledger into per-user-day engagement
// states following the cohort growth model: each day's row is a pure function
// of that day's activity and the prior day's committed row.
package classifier

import (
	"github.com/stephaneglaugier91/daulingo/internal/domain"
)

// DefaultRiskWindow is the default number of inactive days before an AtRisk
// user is considered Churned. The cutoff is a product decision; always
// configurable, and recorded with every persisted run.
const DefaultRiskWindow = 6

// Result is the classification outcome for a single (user, day)
type Result struct {
	State               domain.State
	DaysSinceLastActive int
	StreakLength        int
}

// Classify computes today's state for a user given today's activity and the
// user's previous committed row (nil when the user has never been classified).
//
// The second return value is false when no row should be produced: a user with
// no prior row and no activity today stays implicitly dormant and is never
// persisted.
func Classify(todayActive bool, prev *domain.UserStateDay, riskWindow int) (Result, bool) {
	if prev == nil {
		if !todayActive {
			return Result{}, false
		}
		return Result{State: domain.StateNew, DaysSinceLastActive: 0, StreakLength: 1}, true
	}

	if todayActive {
		switch prev.State {
		case domain.StateNew, domain.StateCurrent, domain.StateResurrected:
			return Result{
				State:               domain.StateCurrent,
				DaysSinceLastActive: 0,
				StreakLength:        prev.StreakLength + 1,
			}, true
		default: // AtRisk or Churned: no state is absorbing
			return Result{
				State:               domain.StateResurrected,
				DaysSinceLastActive: 0,
				StreakLength:        1,
			}, true
		}
	}

	// gap keeps incrementing past the risk window so long-churned users stay
	// distinguishable from newly churned ones
	gap := prev.DaysSinceLastActive + 1
	state := domain.StateAtRisk
	if gap > riskWindow {
		state = domain.StateChurned
	}

	return Result{State: state, DaysSinceLastActive: gap, StreakLength: 0}, true
}
