package domain

import (
	"time"
)

// State represents the daily engagement classification of a user.
// A user that has never been active has no state row at all; that implicit
// "dormant" condition is never persisted.
type State string

const (
	// StateNew marks a user's first-ever active day
	StateNew State = "NEW"
	// StateCurrent marks an active day following an engaged day
	StateCurrent State = "CURRENT"
	// StateAtRisk marks an inactive day within the risk window
	StateAtRisk State = "AT_RISK"
	// StateResurrected marks an active day following an AtRisk or Churned day
	StateResurrected State = "RESURRECTED"
	// StateChurned marks an inactive day past the risk window
	StateChurned State = "CHURNED"
)

// States lists all persisted states in reporting order.
var States = []State{StateNew, StateCurrent, StateResurrected, StateAtRisk, StateChurned}

// Valid reports whether s is one of the persisted states
func (s State) Valid() bool {
	switch s {
	case StateNew, StateCurrent, StateAtRisk, StateResurrected, StateChurned:
		return true
	}
	return false
}

// Engaged reports whether s counts as an active/engaged state for
// retention and DAU/WAU/MAU purposes
func (s State) Engaged() bool {
	switch s {
	case StateNew, StateCurrent, StateResurrected:
		return true
	}
	return false
}

// ActivityDay is one activity fact: whether a user engaged on a calendar day.
// Absence of a row for a day means "no activity", not "unknown".
type ActivityDay struct {
	UserID string    `json:"user_id"`
	Day    time.Time `json:"day"`
	Active bool      `json:"active"`
}

// UserStateDay is one committed classification row. Rows are written exactly
// once per (user, day) in strict date order per user and never mutated; each
// row is a deterministic function of the prior day's row plus that day's
// activity.
type UserStateDay struct {
	UserID string    `json:"user_id"`
	Day    time.Time `json:"day"`
	State  State     `json:"state"`
	// DaysSinceLastActive is 0 on active days, otherwise the count of
	// consecutive inactive days ending on Day
	DaysSinceLastActive int `json:"days_since_last_active"`
	// StreakLength is the count of consecutive active days ending on Day,
	// 0 on inactive days
	StreakLength int `json:"streak_length"`
	// CohortDate is the user's first-ever active day, constant across all rows
	CohortDate time.Time `json:"cohort_date"`
}

// RetentionPoint is one (cohort, offset) cell of a retention curve.
type RetentionPoint struct {
	CohortDate  time.Time `json:"cohort_date"`
	DayOffset   int       `json:"day_offset"`
	CohortSize  int64     `json:"cohort_size"`
	ActiveCount int64     `json:"active_count"`
	// Rate is ActiveCount/CohortSize, nil (never zero, never an error)
	// when the cohort is empty
	Rate *float64 `json:"retention_rate"`
	// Stale flags results whose target day lies past the classifier
	// watermark; the numbers may still settle on a later run
	Stale bool `json:"stale,omitempty"`
}

// ActiveUsers holds the rolling active-user counts for one day.
type ActiveUsers struct {
	Day   time.Time `json:"day"`
	DAU   int64     `json:"dau"`
	WAU   int64     `json:"wau"`
	MAU   int64     `json:"mau"`
	Stale bool      `json:"stale,omitempty"`
}

// StateCount is one (day, state) cell of the state timeseries.
type StateCount struct {
	Day       time.Time `json:"day"`
	State     State     `json:"state"`
	UserCount int64     `json:"user_count"`
}

// TransitionRate is the fraction of users in FromState on day-1 that are
// Current on Day (the growth-model's NURR/SURR/CURR family of rates).
type TransitionRate struct {
	Day       time.Time `json:"day"`
	FromState State     `json:"from_state"`
	Total     int64     `json:"total"`
	Retained  int64     `json:"retained"`
	Rate      *float64  `json:"rate"`
}
