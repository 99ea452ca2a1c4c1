package schema

import (
	"time"
)

// ClassifierRun represents the classifier_runs table - one row per batch
// classification run. The risk window is recorded with every run because
// changing it retroactively changes historical state labels.
type ClassifierRun struct {
	// RunID is the unique identifier of the run
	RunID string `gorm:"column:run_id;primaryKey;type:text"`
	// RiskWindow is the inactivity threshold (days) used by this run
	RiskWindow int `gorm:"column:risk_window;not null"`
	// WindowStart is the first classified day of the run
	WindowStart time.Time `gorm:"column:window_start;not null;type:date"`
	// WindowEnd is the last classified day of the run
	WindowEnd time.Time `gorm:"column:window_end;not null;type:date"`
	// StartedAt is when the run began
	StartedAt time.Time `gorm:"column:started_at;not null;type:timestamptz"`
	// FinishedAt is when the run completed (nil while in progress)
	FinishedAt *time.Time `gorm:"column:finished_at;type:timestamptz"`
	// RowsWritten is the number of state rows committed by the run
	RowsWritten int64 `gorm:"column:rows_written;not null;default:0"`
	// UserFailures is the number of users whose timelines failed integrity checks
	UserFailures int64 `gorm:"column:user_failures;not null;default:0"`
}

// TableName specifies the table name for the ClassifierRun model
func (ClassifierRun) TableName() string {
	return "classifier_runs"
}
