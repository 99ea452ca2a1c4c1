package dto

import (
	"fmt"
	"time"

	apierrors "github.com/stephaneglaugier91/daulingo/internal/api/shared/errors"
	"github.com/stephaneglaugier91/daulingo/internal/domain"
	"github.com/stephaneglaugier91/daulingo/internal/ingest"
)

// MAX_EVENTS_PER_REQUEST caps a single activity submission
const MAX_EVENTS_PER_REQUEST = 10000

const maxUserIDLength = 64

// ActivityEvent represents one raw activity event in a submission
type ActivityEvent struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RecordActivityRequest represents the request body for recording activity events
type RecordActivityRequest struct {
	Events []ActivityEvent `json:"events"`
}

// Validate validates the request body
func (r *RecordActivityRequest) Validate() error {
	if len(r.Events) == 0 {
		return apierrors.NewValidationError("events is required")
	}

	if len(r.Events) > MAX_EVENTS_PER_REQUEST {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d events allowed", MAX_EVENTS_PER_REQUEST))
	}

	for i, e := range r.Events {
		if e.UserID == "" {
			return apierrors.NewValidationError(fmt.Sprintf("events[%d]: user_id is required", i))
		}
		if len(e.UserID) > maxUserIDLength {
			return apierrors.NewValidationError(fmt.Sprintf("events[%d]: user_id exceeds %d characters", i, maxUserIDLength))
		}
		if e.OccurredAt.IsZero() {
			return apierrors.NewValidationError(fmt.Sprintf("events[%d]: occurred_at is required", i))
		}
	}

	return nil
}

// ToIngestEvents converts the request body to ingestion events
func (r *RecordActivityRequest) ToIngestEvents() []ingest.Event {
	events := make([]ingest.Event, 0, len(r.Events))
	for _, e := range r.Events {
		events = append(events, ingest.Event{
			UserID:     e.UserID,
			OccurredAt: e.OccurredAt,
			Active:     true,
		})
	}
	return events
}

// TriggerComputeRequest represents the request body for triggering a classification run
type TriggerComputeRequest struct {
	StartDate string `json:"start_date,omitempty"` // YYYY-MM-DD, defaults to the earliest unclassified day
	EndDate   string `json:"end_date,omitempty"`   // YYYY-MM-DD, defaults to the latest recorded activity day
}

// Validate validates the request body
func (r *TriggerComputeRequest) Validate() error {
	if r.StartDate != "" {
		if _, err := domain.ParseDay(r.StartDate); err != nil {
			return apierrors.NewValidationError(fmt.Sprintf("invalid start_date: %s", r.StartDate))
		}
	}
	if r.EndDate != "" {
		if _, err := domain.ParseDay(r.EndDate); err != nil {
			return apierrors.NewValidationError(fmt.Sprintf("invalid end_date: %s", r.EndDate))
		}
	}
	if r.StartDate != "" && r.EndDate != "" {
		start, _ := domain.ParseDay(r.StartDate)
		end, _ := domain.ParseDay(r.EndDate)
		if end.Before(start) {
			return apierrors.NewValidationError("end_date must not precede start_date")
		}
	}
	return nil
}
