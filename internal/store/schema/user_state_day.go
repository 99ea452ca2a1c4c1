package schema

import (
	"time"
)

// UserStateDay represents the user_state_days table - the classifier's only
// durable memory. One row per (user, day), written in strict date order per
// user and never mutated afterwards.
type UserStateDay struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// UserID is the opaque stable user identifier
	UserID string `gorm:"column:user_id;not null;type:text;uniqueIndex:idx_user_state_days_user_day,priority:1;index:idx_user_state_days_user"`
	// Day is the calendar day this classification applies to
	Day time.Time `gorm:"column:day;not null;type:date;uniqueIndex:idx_user_state_days_user_day,priority:2;index:idx_user_state_days_day"`
	// State is the engagement classification for Day
	State string `gorm:"column:state;not null;type:text"`
	// DaysSinceLastActive is 0 on active days, else consecutive inactive days ending on Day
	DaysSinceLastActive int `gorm:"column:days_since_last_active;not null"`
	// StreakLength is consecutive active days ending on Day, 0 on inactive days
	StreakLength int `gorm:"column:streak_length;not null"`
	// CohortDate is the user's first-ever active day, constant across all rows
	CohortDate time.Time `gorm:"column:cohort_date;not null;type:date;index:idx_user_state_days_cohort"`
	// RunID references the classifier run that wrote this row
	RunID string `gorm:"column:run_id;not null;type:text"`
	// CreatedAt is the timestamp when this row was committed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the UserStateDay model
func (UserStateDay) TableName() string {
	return "user_state_days"
}
