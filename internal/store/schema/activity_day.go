package schema

import (
	"time"
)

// ActivityDay represents the activity_days table - the append-only ledger of
// per-user daily activity facts. Ingestion collapses raw events to exactly one
// row per (user, day); absence of a row means "no activity".
type ActivityDay struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// UserID is the opaque stable user identifier
	UserID string `gorm:"column:user_id;not null;type:text;uniqueIndex:idx_activity_days_user_day,priority:1"`
	// Day is the calendar day the activity fact refers to
	Day time.Time `gorm:"column:day;not null;type:date;uniqueIndex:idx_activity_days_user_day,priority:2;index:idx_activity_days_day"`
	// Active indicates whether the user engaged on Day
	Active bool `gorm:"column:active;not null"`
	// CreatedAt is the timestamp when this fact was ingested
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ActivityDay model
func (ActivityDay) TableName() string {
	return "activity_days"
}
