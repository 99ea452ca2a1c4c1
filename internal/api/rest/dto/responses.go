package dto

import (
	"github.com/stephaneglaugier91/daulingo/internal/domain"
)

// RecordActivityResponse represents the response for recording activity events
type RecordActivityResponse struct {
	EventsSeen    int   `json:"events_seen"`
	FactsUpserted int64 `json:"facts_upserted"`
	UsersSeen     int   `json:"users_seen"`
}

// TriggerComputeResponse represents the outcome of a classification run
type TriggerComputeResponse struct {
	RunID             string            `json:"run_id"`
	WindowStart       string            `json:"window_start"`
	WindowEnd         string            `json:"window_end"`
	RiskWindow        int               `json:"risk_window"`
	UsersConsidered   int               `json:"users_considered"`
	RowsWritten       int64             `json:"rows_written"`
	UserFailures      map[string]string `json:"user_failures,omitempty"`
	WatermarkAdvanced bool              `json:"watermark_advanced"`
}

// RetentionPointResponse is one (cohort, offset) retention cell
type RetentionPointResponse struct {
	CohortDate  string   `json:"cohort_date"`
	DayOffset   int      `json:"day_offset"`
	CohortSize  int64    `json:"cohort_size"`
	ActiveCount int64    `json:"active_count"`
	Rate        *float64 `json:"retention_rate"`
	Stale       bool     `json:"stale,omitempty"`
}

// FromRetentionPoint maps a domain retention point to its API representation
func FromRetentionPoint(p domain.RetentionPoint) RetentionPointResponse {
	return RetentionPointResponse{
		CohortDate:  domain.FormatDay(p.CohortDate),
		DayOffset:   p.DayOffset,
		CohortSize:  p.CohortSize,
		ActiveCount: p.ActiveCount,
		Rate:        p.Rate,
		Stale:       p.Stale,
	}
}

// RetentionCurveResponse is the full observed curve for one cohort
type RetentionCurveResponse struct {
	CohortDate string                   `json:"cohort_date"`
	Points     []RetentionPointResponse `json:"points"`
}

// ActiveUsersResponse holds DAU/WAU/MAU for one day
type ActiveUsersResponse struct {
	Day   string `json:"day"`
	DAU   int64  `json:"dau"`
	WAU   int64  `json:"wau"`
	MAU   int64  `json:"mau"`
	Stale bool   `json:"stale,omitempty"`
}

// StateCountResponse is one (day, state) cell of the state timeseries
type StateCountResponse struct {
	Day       string       `json:"day"`
	State     domain.State `json:"state"`
	UserCount int64        `json:"user_count"`
}

// TimeseriesResponse holds per-day per-state user counts
type TimeseriesResponse struct {
	Start  string               `json:"start"`
	End    string               `json:"end"`
	Counts []StateCountResponse `json:"counts"`
}

// TransitionRateResponse is one day-over-day retention-to-Current rate
type TransitionRateResponse struct {
	Day       string       `json:"day"`
	FromState domain.State `json:"from_state"`
	Total     int64        `json:"total"`
	Retained  int64        `json:"retained"`
	Rate      *float64     `json:"rate"`
}

// StatesResponse lists the persisted engagement states
type StatesResponse struct {
	States []domain.State `json:"states"`
}

// DateRangeResponse describes the span of recorded and classified data
type DateRangeResponse struct {
	ActivityStart   *string `json:"activity_start"`
	ActivityEnd     *string `json:"activity_end"`
	ClassifiedStart *string `json:"classified_start"`
	ClassifiedEnd   *string `json:"classified_end"`
	Watermark       *string `json:"watermark"`
}
