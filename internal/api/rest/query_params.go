package rest

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stephaneglaugier91/daulingo/internal/domain"
)

// MAX_RANGE_DAYS caps the span of a single range query
const MAX_RANGE_DAYS = 366

// RangeQueryParams holds query parameters for date-range endpoints
type RangeQueryParams struct {
	Start           string `form:"start"`
	End             string `form:"end"`
	ExcludeWeekends bool   `form:"exclude_weekends,default=false"`

	start time.Time
	end   time.Time
}

// ParseRangeQuery parses query parameters for GET /timeseries and GET /transitions
func ParseRangeQuery(c *gin.Context) (*RangeQueryParams, error) {
	var params RangeQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// Validate validates the date range
func (p *RangeQueryParams) Validate() error {
	if p.Start == "" {
		return fmt.Errorf("start is required")
	}
	if p.End == "" {
		return fmt.Errorf("end is required")
	}

	start, err := domain.ParseDay(p.Start)
	if err != nil {
		return fmt.Errorf("invalid start: %s", p.Start)
	}
	end, err := domain.ParseDay(p.End)
	if err != nil {
		return fmt.Errorf("invalid end: %s", p.End)
	}

	if end.Before(start) {
		return fmt.Errorf("end must not precede start")
	}
	if domain.DaysBetween(start, end) > MAX_RANGE_DAYS {
		return fmt.Errorf("range exceeds %d days", MAX_RANGE_DAYS)
	}

	p.start = start
	p.end = end
	return nil
}

// Range returns the parsed start and end days
func (p *RangeQueryParams) Range() (time.Time, time.Time) {
	return p.start, p.end
}

// RetentionQueryParams holds query parameters for GET /retention
type RetentionQueryParams struct {
	CohortDate string `form:"cohort_date"`
	// DayOffset selects one cell; when absent the full observed curve is returned
	DayOffset *int `form:"day_offset"`

	cohortDate time.Time
}

// ParseRetentionQuery parses query parameters for GET /retention
func ParseRetentionQuery(c *gin.Context) (*RetentionQueryParams, error) {
	var params RetentionQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// Validate validates the cohort date and offset
func (p *RetentionQueryParams) Validate() error {
	if p.CohortDate == "" {
		return fmt.Errorf("cohort_date is required")
	}
	cohortDate, err := domain.ParseDay(p.CohortDate)
	if err != nil {
		return fmt.Errorf("invalid cohort_date: %s", p.CohortDate)
	}
	if p.DayOffset != nil && *p.DayOffset < 0 {
		return fmt.Errorf("day_offset must not be negative")
	}
	p.cohortDate = cohortDate
	return nil
}

// Cohort returns the parsed cohort date
func (p *RetentionQueryParams) Cohort() time.Time {
	return p.cohortDate
}

// ActiveUsersQueryParams holds query parameters for GET /active-users
type ActiveUsersQueryParams struct {
	Day string `form:"day"`

	day time.Time
}

// ParseActiveUsersQuery parses query parameters for GET /active-users
func ParseActiveUsersQuery(c *gin.Context) (*ActiveUsersQueryParams, error) {
	var params ActiveUsersQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// Validate validates the day
func (p *ActiveUsersQueryParams) Validate() error {
	if p.Day == "" {
		return fmt.Errorf("day is required")
	}
	day, err := domain.ParseDay(p.Day)
	if err != nil {
		return fmt.Errorf("invalid day: %s", p.Day)
	}
	p.day = day
	return nil
}

// Date returns the parsed day
func (p *ActiveUsersQueryParams) Date() time.Time {
	return p.day
}
