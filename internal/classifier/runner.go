package classifier

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stephaneglaugier91/daulingo/internal/adapter"
	"github.com/stephaneglaugier91/daulingo/internal/domain"
	"github.com/stephaneglaugier91/daulingo/internal/emitter"
	"github.com/stephaneglaugier91/daulingo/internal/logger"
	"github.com/stephaneglaugier91/daulingo/internal/metrics"
	"github.com/stephaneglaugier91/daulingo/internal/store"
	"github.com/stephaneglaugier91/daulingo/internal/store/schema"
)

// Window is an inclusive range of calendar days to classify
type Window struct {
	Start time.Time
	End   time.Time
}

// RunnerConfig holds configuration for a batch classification run
type RunnerConfig struct {
	// RiskWindow is the number of inactive days before AtRisk becomes Churned
	RiskWindow int
	// WorkerPoolSize bounds the number of users classified concurrently
	WorkerPoolSize int
}

// RunReport summarizes a completed classification run
type RunReport struct {
	RunID           string
	Window          Window
	RiskWindow      int
	UsersConsidered int
	RowsWritten     int64
	// UserFailures maps user IDs to the integrity error that aborted their
	// timeline; other users' progress is unaffected
	UserFailures map[string]error
	// WatermarkAdvanced is true when the run moved the classifier watermark
	// to the window end
	WatermarkAdvanced bool
}

// Runner executes batch classification over a date window. Classification is
// parallel across users and strictly sequential within each user's timeline:
// a day's row is computed only from the prior day's row and that day's
// activity, so no cross-user coordination is needed.
type Runner struct {
	config    RunnerConfig
	store     store.Store
	clock     adapter.Clock
	publisher emitter.Publisher
}

// NewRunner creates a new batch classification runner. publisher may be nil
// when no run events should be emitted.
func NewRunner(cfg RunnerConfig, st store.Store, clock adapter.Clock, publisher emitter.Publisher) *Runner {
	if cfg.RiskWindow <= 0 {
		cfg.RiskWindow = DefaultRiskWindow
	}
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 8
	}
	return &Runner{
		config:    cfg,
		store:     st,
		clock:     clock,
		publisher: publisher,
	}
}

// Run classifies all tracked users for every day in the window. Replaying a
// window is idempotent: recomputed rows are identical and already-committed
// rows are left untouched.
func (r *Runner) Run(ctx context.Context, window Window) (*RunReport, error) {
	if window.Start.After(window.End) {
		return nil, domain.ErrInvalidWindow
	}
	window.Start = domain.ToDay(window.Start)
	window.End = domain.ToDay(window.End)

	report := &RunReport{
		RunID:        uuid.NewString(),
		Window:       window,
		RiskWindow:   r.config.RiskWindow,
		UserFailures: make(map[string]error),
	}

	startedAt := r.clock.Now()
	logger.Info("Starting classification run",
		zap.String("run_id", report.RunID),
		zap.String("window_start", domain.FormatDay(window.Start)),
		zap.String("window_end", domain.FormatDay(window.End)),
		zap.Int("risk_window", r.config.RiskWindow),
	)

	cohorts, err := r.store.FirstActiveDays(ctx, window.End)
	if err != nil {
		return nil, err
	}
	if len(cohorts) == 0 {
		logger.Info("No users first active on or before window end, nothing to classify",
			zap.String("run_id", report.RunID))
		return report, nil
	}

	userIDs := make([]string, 0, len(cohorts))
	for uid := range cohorts {
		userIDs = append(userIDs, uid)
	}
	sort.Strings(userIDs)
	report.UsersConsidered = len(userIDs)

	activeDays, err := r.store.ActiveDaysByUser(ctx, userIDs, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	prevRows, err := r.store.LastStatesBefore(ctx, window.Start, userIDs)
	if err != nil {
		return nil, err
	}

	if err := r.store.CreateClassifierRun(ctx, &schema.ClassifierRun{
		RunID:       report.RunID,
		RiskWindow:  r.config.RiskWindow,
		WindowStart: window.Start,
		WindowEnd:   window.End,
		StartedAt:   startedAt.UTC(),
	}); err != nil {
		return nil, err
	}

	var rowsWritten atomic.Int64
	var mu sync.Mutex

	pool := pond.NewPool(r.config.WorkerPoolSize, pond.WithContext(ctx))
	for _, uid := range userIDs {
		pool.Submit(func() {
			n, err := r.classifyUser(ctx, report.RunID, uid, cohorts[uid], prevRows[uid], activeDays[uid], window)
			if err != nil {
				logger.Error(err, zap.String("run_id", report.RunID), zap.String("user_id", uid))
				metrics.ClassifierUserFailures.Inc()
				mu.Lock()
				report.UserFailures[uid] = err
				mu.Unlock()
				return
			}
			rowsWritten.Add(n)
		})
	}
	pool.StopAndWait()

	report.RowsWritten = rowsWritten.Load()
	if err := r.store.FinishClassifierRun(ctx, report.RunID, report.RowsWritten, int64(len(report.UserFailures))); err != nil {
		return nil, err
	}

	// The watermark only advances when every user's timeline reached the
	// window end; a partial run leaves it where it was so aggregations keep
	// flagging the unsettled range.
	if len(report.UserFailures) == 0 {
		advanced, err := r.advanceWatermark(ctx, window.End)
		if err != nil {
			return nil, err
		}
		report.WatermarkAdvanced = advanced
	}

	metrics.ClassifierRuns.Inc()
	metrics.StateRowsWritten.Add(float64(report.RowsWritten))
	metrics.ClassifierRunDuration.Observe(r.clock.Since(startedAt).Seconds())

	logger.Info("Classification run finished",
		zap.String("run_id", report.RunID),
		zap.Int("users", report.UsersConsidered),
		zap.Int64("rows_written", report.RowsWritten),
		zap.Int("user_failures", len(report.UserFailures)),
		zap.Bool("watermark_advanced", report.WatermarkAdvanced),
	)

	if r.publisher != nil {
		event := &emitter.RunEvent{
			RunID:        report.RunID,
			WindowStart:  domain.FormatDay(window.Start),
			WindowEnd:    domain.FormatDay(window.End),
			RiskWindow:   r.config.RiskWindow,
			RowsWritten:  report.RowsWritten,
			UserFailures: int64(len(report.UserFailures)),
			FinishedAt:   r.clock.Now().UTC(),
		}
		if err := r.publisher.PublishRunCompleted(ctx, event); err != nil {
			// Reporting is best effort; the run itself is already durable.
			logger.Error(err, zap.String("run_id", report.RunID))
		}
	}

	return report, nil
}

// classifyUser folds one user's timeline over the window, carrying the prior
// day's row forward, and bulk-inserts the resulting rows.
func (r *Runner) classifyUser(
	ctx context.Context,
	runID string,
	userID string,
	cohort time.Time,
	prevRow *schema.UserStateDay,
	activeDays map[time.Time]bool,
	window Window,
) (int64, error) {
	startDay := window.Start
	if cohort.After(startDay) {
		startDay = cohort
	}

	prev := toDomain(prevRow)
	if err := checkContiguity(userID, cohort, prev, startDay); err != nil {
		return 0, err
	}

	rows := make([]schema.UserStateDay, 0, domain.DaysBetween(startDay, window.End)+1)
	for day := startDay; !day.After(window.End); day = domain.NextDay(day) {
		result, ok := Classify(activeDays[day], prev, r.config.RiskWindow)
		if !ok {
			continue
		}
		rows = append(rows, schema.UserStateDay{
			UserID:              userID,
			Day:                 day,
			State:               string(result.State),
			DaysSinceLastActive: result.DaysSinceLastActive,
			StreakLength:        result.StreakLength,
			CohortDate:          cohort,
			RunID:               runID,
		})
		prev = &domain.UserStateDay{
			UserID:              userID,
			Day:                 day,
			State:               result.State,
			DaysSinceLastActive: result.DaysSinceLastActive,
			StreakLength:        result.StreakLength,
			CohortDate:          cohort,
		}
	}

	if len(rows) == 0 {
		return 0, nil
	}

	var inserted int64
	insert := func() error {
		n, err := r.store.InsertStateDays(ctx, rows)
		if err != nil {
			return err
		}
		inserted = n
		return nil
	}
	if err := backoff.Retry(insert, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)); err != nil {
		return 0, fmt.Errorf("failed to commit state rows for user %s: %w", userID, err)
	}

	return inserted, nil
}

// checkContiguity validates that the user's timeline has no gap immediately
// before the first day being classified. Day D+1 depends on day D's row, so a
// missing prior day is a data integrity violation, never interpolated.
func checkContiguity(userID string, cohort time.Time, prev *domain.UserStateDay, startDay time.Time) error {
	if prev == nil {
		if cohort.Before(startDay) {
			return fmt.Errorf("user %s first active %s but has no committed row before %s: %w",
				userID, domain.FormatDay(cohort), domain.FormatDay(startDay), domain.ErrMissingPriorDay)
		}
		return nil
	}

	required := domain.PrevDay(startDay)
	if !prev.Day.Equal(required) {
		return fmt.Errorf("user %s last committed row is %s, expected %s: %w",
			userID, domain.FormatDay(prev.Day), domain.FormatDay(required), domain.ErrMissingPriorDay)
	}
	return nil
}

// advanceWatermark moves the watermark to day if that is an advance
func (r *Runner) advanceWatermark(ctx context.Context, day time.Time) (bool, error) {
	current, ok, err := r.store.GetWatermark(ctx)
	if err != nil {
		return false, err
	}
	if ok && !day.After(current) {
		return false, nil
	}
	if err := r.store.SetWatermark(ctx, day); err != nil {
		return false, err
	}
	return true, nil
}

// toDomain converts a stored state row to its domain representation
func toDomain(row *schema.UserStateDay) *domain.UserStateDay {
	if row == nil {
		return nil
	}
	return &domain.UserStateDay{
		UserID:              row.UserID,
		Day:                 domain.ToDay(row.Day),
		State:               domain.State(row.State),
		DaysSinceLastActive: row.DaysSinceLastActive,
		StreakLength:        row.StreakLength,
		CohortDate:          domain.ToDay(row.CohortDate),
	}
}
