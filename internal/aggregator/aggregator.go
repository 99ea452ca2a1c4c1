// Package aggregator derives cohort retention curves and rolling active-user
// counts from the committed user-state table. Everything here is a pure
// function of persisted state and is idempotently recomputable.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stephaneglaugier91/daulingo/internal/domain"
	"github.com/stephaneglaugier91/daulingo/internal/store"
)

// Aggregator computes retention and active-user metrics from the state table
type Aggregator struct {
	store store.Store
}

// New creates a new Aggregator
func New(st store.Store) *Aggregator {
	return &Aggregator{store: st}
}

// watermark returns the classifier watermark; the zero time when none has
// been recorded yet (everything is then considered stale).
func (a *Aggregator) watermark(ctx context.Context) (time.Time, error) {
	wm, ok, err := a.store.GetWatermark(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, nil
	}
	return wm, nil
}

// Retention computes the retention point for one (cohort, offset) pair.
// An empty cohort yields a nil rate, never an error. A target day past the
// watermark is flagged stale: classification may not have caught up yet, so
// the counts can still settle on a later run.
func (a *Aggregator) Retention(ctx context.Context, cohortDate time.Time, dayOffset int) (domain.RetentionPoint, error) {
	if dayOffset < 0 {
		return domain.RetentionPoint{}, fmt.Errorf("day offset must be non-negative, got %d", dayOffset)
	}
	cohortDate = domain.ToDay(cohortDate)

	wm, err := a.watermark(ctx)
	if err != nil {
		return domain.RetentionPoint{}, err
	}

	size, err := a.store.CohortSize(ctx, cohortDate)
	if err != nil {
		return domain.RetentionPoint{}, err
	}

	day := domain.AddDays(cohortDate, dayOffset)
	point := domain.RetentionPoint{
		CohortDate: cohortDate,
		DayOffset:  dayOffset,
		CohortSize: size,
		Stale:      day.After(wm),
	}
	if size == 0 {
		return point, nil
	}

	active, err := a.store.EngagedCohortCount(ctx, cohortDate, day)
	if err != nil {
		return domain.RetentionPoint{}, err
	}
	point.ActiveCount = active
	rate := float64(active) / float64(size)
	point.Rate = &rate

	return point, nil
}

// RetentionCurve computes retention points for every observed offset of a
// cohort, from 0 through the age implied by the latest classified day. Users
// with no row yet at an offset are excluded, not counted as churned.
func (a *Aggregator) RetentionCurve(ctx context.Context, cohortDate time.Time) ([]domain.RetentionPoint, error) {
	cohortDate = domain.ToDay(cohortDate)

	_, maxDay, err := a.store.StateDateRange(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	maxOffset := domain.DaysBetween(cohortDate, maxDay)
	if maxOffset < 0 {
		return nil, nil
	}

	points := make([]domain.RetentionPoint, 0, maxOffset+1)
	for offset := 0; offset <= maxOffset; offset++ {
		point, err := a.Retention(ctx, cohortDate, offset)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	return points, nil
}

// ActiveUsers computes DAU, WAU and MAU for a day. WAU and MAU are distinct
// engaged users over the trailing 7- and 28-day windows ending on the day.
func (a *Aggregator) ActiveUsers(ctx context.Context, day time.Time) (domain.ActiveUsers, error) {
	day = domain.ToDay(day)

	wm, err := a.watermark(ctx)
	if err != nil {
		return domain.ActiveUsers{}, err
	}

	dau, err := a.store.CountEngaged(ctx, day)
	if err != nil {
		return domain.ActiveUsers{}, err
	}
	wau, err := a.store.CountDistinctEngaged(ctx, domain.AddDays(day, -6), day)
	if err != nil {
		return domain.ActiveUsers{}, err
	}
	mau, err := a.store.CountDistinctEngaged(ctx, domain.AddDays(day, -27), day)
	if err != nil {
		return domain.ActiveUsers{}, err
	}

	return domain.ActiveUsers{
		Day:   day,
		DAU:   dau,
		WAU:   wau,
		MAU:   mau,
		Stale: day.After(wm),
	}, nil
}

// Timeseries returns per-day per-state user counts over [start, end],
// optionally dropping weekend days from the output
func (a *Aggregator) Timeseries(ctx context.Context, start, end time.Time, excludeWeekends bool) ([]domain.StateCount, error) {
	if start.After(end) {
		return nil, domain.ErrInvalidWindow
	}

	rows, err := a.store.StateTimeseries(ctx, domain.ToDay(start), domain.ToDay(end))
	if err != nil {
		return nil, err
	}
	if !excludeWeekends {
		return rows, nil
	}

	out := rows[:0]
	for _, r := range rows {
		if !domain.IsWeekend(r.Day) {
			out = append(out, r)
		}
	}
	return out, nil
}

// TransitionRates computes, per day and prior-day state, the fraction of
// users that are Current on the day (the NURR/SURR/CURR family of
// day-over-day retention rates).
func (a *Aggregator) TransitionRates(ctx context.Context, start, end time.Time) ([]domain.TransitionRate, error) {
	if start.After(end) {
		return nil, domain.ErrInvalidWindow
	}

	counts, err := a.store.TransitionCounts(ctx, domain.ToDay(start), domain.ToDay(end))
	if err != nil {
		return nil, err
	}

	type key struct {
		day  time.Time
		from domain.State
	}
	totals := make(map[key]int64)
	retained := make(map[key]int64)
	var order []key
	for _, c := range counts {
		k := key{day: c.Day, from: c.FromState}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += c.Users
		if c.ToState == domain.StateCurrent {
			retained[k] += c.Users
		}
	}

	out := make([]domain.TransitionRate, 0, len(order))
	for _, k := range order {
		tr := domain.TransitionRate{
			Day:       k.day,
			FromState: k.from,
			Total:     totals[k],
			Retained:  retained[k],
		}
		if tr.Total > 0 {
			rate := float64(tr.Retained) / float64(tr.Total)
			tr.Rate = &rate
		}
		out = append(out, tr)
	}

	return out, nil
}
