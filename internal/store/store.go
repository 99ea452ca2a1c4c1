package store

import (
	"context"
	"time"

	"github.com/stephaneglaugier91/daulingo/internal/domain"
	"github.com/stephaneglaugier91/daulingo/internal/store/schema"
)

// WatermarkKey is the key_value_store key holding the latest date for which
// all users are known to be classified
const WatermarkKey = "classifier_watermark"

// TransitionCount is one aggregated day-over-day state transition: the number
// of users that moved from FromState on the prior day to ToState on Day.
type TransitionCount struct {
	Day       time.Time
	FromState domain.State
	ToState   domain.State
	Users     int64
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// UpsertActivityDays inserts activity facts, ignoring exact duplicates.
	// Returns the number of newly inserted rows.
	UpsertActivityDays(ctx context.Context, rows []schema.ActivityDay) (int64, error)
	// GetActivityDays retrieves activity facts for the given users in [start, end]
	GetActivityDays(ctx context.Context, userIDs []string, start, end time.Time) ([]schema.ActivityDay, error)
	// ActivityDateRange returns the min and max day present in the activity ledger
	ActivityDateRange(ctx context.Context) (time.Time, time.Time, error)

	// FirstActiveDays returns, per user, the user's first active day
	// (the cohort date) for users first active on or before through
	FirstActiveDays(ctx context.Context, through time.Time) (map[string]time.Time, error)
	// ActiveDaysByUser returns the set of active days per user in [start, end]
	ActiveDaysByUser(ctx context.Context, userIDs []string, start, end time.Time) (map[string]map[time.Time]bool, error)
	// LastStatesBefore returns, per user, the most recent committed state row
	// strictly before day; users without such a row are absent from the map
	LastStatesBefore(ctx context.Context, day time.Time, userIDs []string) (map[string]*schema.UserStateDay, error)

	// InsertStateDays appends classification rows, skipping rows that already
	// exist (classification is deterministic, so replays rewrite identical rows).
	// Returns the number of newly inserted rows.
	InsertStateDays(ctx context.Context, rows []schema.UserStateDay) (int64, error)
	// CreateClassifierRun records the start of a classification run
	CreateClassifierRun(ctx context.Context, run *schema.ClassifierRun) error
	// FinishClassifierRun marks a run finished with its row and failure counts
	FinishClassifierRun(ctx context.Context, runID string, rowsWritten, userFailures int64) error

	// CohortSize returns the number of distinct users whose cohort date equals cohortDate
	CohortSize(ctx context.Context, cohortDate time.Time) (int64, error)
	// EngagedCohortCount returns the number of cohort members whose state on
	// day is one of the engaged states
	EngagedCohortCount(ctx context.Context, cohortDate, day time.Time) (int64, error)
	// CountEngaged returns the number of users in an engaged state on day (DAU)
	CountEngaged(ctx context.Context, day time.Time) (int64, error)
	// CountDistinctEngaged returns the number of distinct users in an engaged
	// state on any day in [start, end] (WAU/MAU)
	CountDistinctEngaged(ctx context.Context, start, end time.Time) (int64, error)
	// StateTimeseries returns per-day per-state user counts over [start, end]
	StateTimeseries(ctx context.Context, start, end time.Time) ([]domain.StateCount, error)
	// TransitionCounts returns day-over-day state transition counts for days in [start, end]
	TransitionCounts(ctx context.Context, start, end time.Time) ([]TransitionCount, error)
	// StateDateRange returns the min and max classified day
	StateDateRange(ctx context.Context) (time.Time, time.Time, error)

	// GetWatermark returns the classifier watermark; ok is false when no run
	// has ever advanced it
	GetWatermark(ctx context.Context) (time.Time, bool, error)
	// SetWatermark advances the classifier watermark
	SetWatermark(ctx context.Context, day time.Time) error
}
