package classifier_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephaneglaugier91/daulingo/internal/classifier"
	"github.com/stephaneglaugier91/daulingo/internal/domain"
	"github.com/stephaneglaugier91/daulingo/internal/logger"
	"github.com/stephaneglaugier91/daulingo/internal/mocks"
	"github.com/stephaneglaugier91/daulingo/internal/store/schema"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testRunnerMocks contains all the mocks needed for testing the runner
type testRunnerMocks struct {
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	clock     *mocks.MockClock
	publisher *mocks.MockPublisher
	runner    *classifier.Runner
}

// setupTestRunner creates all the mocks and the runner for testing
func setupTestRunner(t *testing.T, cfg classifier.RunnerConfig) *testRunnerMocks {
	ctrl := gomock.NewController(t)

	tm := &testRunnerMocks{
		ctrl:      ctrl,
		store:     mocks.NewMockStore(ctrl),
		clock:     mocks.NewMockClock(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
	}

	tm.clock.EXPECT().Now().Return(time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)).AnyTimes()
	tm.clock.EXPECT().Since(gomock.Any()).Return(2 * time.Second).AnyTimes()

	tm.runner = classifier.NewRunner(cfg, tm.store, tm.clock, tm.publisher)
	return tm
}

func TestRunnerRun_InvalidWindow(t *testing.T) {
	tm := setupTestRunner(t, classifier.RunnerConfig{})

	_, err := tm.runner.Run(context.Background(), classifier.Window{
		Start: domain.Date(2024, 1, 5),
		End:   domain.Date(2024, 1, 1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestRunnerRun_NoUsers(t *testing.T) {
	tm := setupTestRunner(t, classifier.RunnerConfig{})
	window := classifier.Window{Start: domain.Date(2024, 1, 1), End: domain.Date(2024, 1, 3)}

	tm.store.EXPECT().FirstActiveDays(gomock.Any(), window.End).Return(map[string]time.Time{}, nil)

	report, err := tm.runner.Run(context.Background(), window)
	require.NoError(t, err)
	assert.Equal(t, 0, report.UsersConsidered)
	assert.Zero(t, report.RowsWritten)
	assert.False(t, report.WatermarkAdvanced)
}

func TestRunnerRun_ClassifiesAllUsers(t *testing.T) {
	tm := setupTestRunner(t, classifier.RunnerConfig{RiskWindow: 6, WorkerPoolSize: 2})
	window := classifier.Window{Start: domain.Date(2024, 1, 1), End: domain.Date(2024, 1, 3)}

	cohorts := map[string]time.Time{
		"u1": domain.Date(2024, 1, 1),
		"u2": domain.Date(2024, 1, 2),
	}
	activeDays := map[string]map[time.Time]bool{
		"u1": {domain.Date(2024, 1, 1): true, domain.Date(2024, 1, 2): true},
		"u2": {domain.Date(2024, 1, 2): true},
	}

	tm.store.EXPECT().FirstActiveDays(gomock.Any(), window.End).Return(cohorts, nil)
	tm.store.EXPECT().ActiveDaysByUser(gomock.Any(), []string{"u1", "u2"}, window.Start, window.End).Return(activeDays, nil)
	tm.store.EXPECT().LastStatesBefore(gomock.Any(), window.Start, []string{"u1", "u2"}).Return(map[string]*schema.UserStateDay{}, nil)
	tm.store.EXPECT().CreateClassifierRun(gomock.Any(), gomock.Any()).Return(nil)

	var mu sync.Mutex
	inserted := make(map[string][]schema.UserStateDay)
	tm.store.EXPECT().InsertStateDays(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rows []schema.UserStateDay) (int64, error) {
			mu.Lock()
			defer mu.Unlock()
			inserted[rows[0].UserID] = rows
			return int64(len(rows)), nil
		}).Times(2)

	tm.store.EXPECT().FinishClassifierRun(gomock.Any(), gomock.Any(), int64(5), int64(0)).Return(nil)
	tm.store.EXPECT().GetWatermark(gomock.Any()).Return(time.Time{}, false, nil)
	tm.store.EXPECT().SetWatermark(gomock.Any(), window.End).Return(nil)
	tm.publisher.EXPECT().PublishRunCompleted(gomock.Any(), gomock.Any()).Return(nil)

	report, err := tm.runner.Run(context.Background(), window)
	require.NoError(t, err)

	assert.Equal(t, 2, report.UsersConsidered)
	assert.Equal(t, int64(5), report.RowsWritten)
	assert.Empty(t, report.UserFailures)
	assert.True(t, report.WatermarkAdvanced)

	// u1: New, Current, AtRisk over the three days
	u1 := inserted["u1"]
	require.Len(t, u1, 3)
	assert.Equal(t, string(domain.StateNew), u1[0].State)
	assert.Equal(t, string(domain.StateCurrent), u1[1].State)
	assert.Equal(t, 2, u1[1].StreakLength)
	assert.Equal(t, string(domain.StateAtRisk), u1[2].State)
	assert.Equal(t, 1, u1[2].DaysSinceLastActive)

	// u2: no row before its cohort date, then New, AtRisk
	u2 := inserted["u2"]
	require.Len(t, u2, 2)
	assert.Equal(t, domain.Date(2024, 1, 2), u2[0].Day)
	assert.Equal(t, string(domain.StateNew), u2[0].State)
	assert.Equal(t, string(domain.StateAtRisk), u2[1].State)

	for _, rows := range inserted {
		for _, row := range rows {
			assert.Equal(t, report.RunID, row.RunID)
		}
	}
}

func TestRunnerRun_ResumesFromPriorRows(t *testing.T) {
	tm := setupTestRunner(t, classifier.RunnerConfig{RiskWindow: 6, WorkerPoolSize: 1})
	window := classifier.Window{Start: domain.Date(2024, 1, 10), End: domain.Date(2024, 1, 11)}

	cohorts := map[string]time.Time{"u1": domain.Date(2024, 1, 1)}
	prevRows := map[string]*schema.UserStateDay{
		"u1": {
			UserID:              "u1",
			Day:                 domain.Date(2024, 1, 9),
			State:               string(domain.StateAtRisk),
			DaysSinceLastActive: 4,
			CohortDate:          domain.Date(2024, 1, 1),
		},
	}

	tm.store.EXPECT().FirstActiveDays(gomock.Any(), window.End).Return(cohorts, nil)
	tm.store.EXPECT().ActiveDaysByUser(gomock.Any(), []string{"u1"}, window.Start, window.End).
		Return(map[string]map[time.Time]bool{"u1": {domain.Date(2024, 1, 11): true}}, nil)
	tm.store.EXPECT().LastStatesBefore(gomock.Any(), window.Start, []string{"u1"}).Return(prevRows, nil)
	tm.store.EXPECT().CreateClassifierRun(gomock.Any(), gomock.Any()).Return(nil)

	var rows []schema.UserStateDay
	tm.store.EXPECT().InsertStateDays(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r []schema.UserStateDay) (int64, error) {
			rows = r
			return int64(len(r)), nil
		})
	tm.store.EXPECT().FinishClassifierRun(gomock.Any(), gomock.Any(), int64(2), int64(0)).Return(nil)
	tm.store.EXPECT().GetWatermark(gomock.Any()).Return(domain.Date(2024, 1, 9), true, nil)
	tm.store.EXPECT().SetWatermark(gomock.Any(), window.End).Return(nil)
	tm.publisher.EXPECT().PublishRunCompleted(gomock.Any(), gomock.Any()).Return(nil)

	report, err := tm.runner.Run(context.Background(), window)
	require.NoError(t, err)
	assert.True(t, report.WatermarkAdvanced)

	require.Len(t, rows, 2)
	// Inactive on the 10th continues the gap from the prior committed row
	assert.Equal(t, string(domain.StateAtRisk), rows[0].State)
	assert.Equal(t, 5, rows[0].DaysSinceLastActive)
	// Active on the 11th resurrects
	assert.Equal(t, string(domain.StateResurrected), rows[1].State)
	assert.Equal(t, 1, rows[1].StreakLength)
}

func TestRunnerRun_MissingPriorDayFailsUser(t *testing.T) {
	tm := setupTestRunner(t, classifier.RunnerConfig{RiskWindow: 6, WorkerPoolSize: 1})
	window := classifier.Window{Start: domain.Date(2024, 1, 10), End: domain.Date(2024, 1, 11)}

	// u1 was first active well before the window but has no committed row,
	// u2 has a contiguous prior row and should still be classified
	cohorts := map[string]time.Time{
		"u1": domain.Date(2024, 1, 1),
		"u2": domain.Date(2024, 1, 5),
	}
	prevRows := map[string]*schema.UserStateDay{
		"u2": {
			UserID:       "u2",
			Day:          domain.Date(2024, 1, 9),
			State:        string(domain.StateCurrent),
			StreakLength: 5,
			CohortDate:   domain.Date(2024, 1, 5),
		},
	}

	tm.store.EXPECT().FirstActiveDays(gomock.Any(), window.End).Return(cohorts, nil)
	tm.store.EXPECT().ActiveDaysByUser(gomock.Any(), []string{"u1", "u2"}, window.Start, window.End).
		Return(map[string]map[time.Time]bool{}, nil)
	tm.store.EXPECT().LastStatesBefore(gomock.Any(), window.Start, []string{"u1", "u2"}).Return(prevRows, nil)
	tm.store.EXPECT().CreateClassifierRun(gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().InsertStateDays(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rows []schema.UserStateDay) (int64, error) {
			require.Equal(t, "u2", rows[0].UserID)
			return int64(len(rows)), nil
		})
	tm.store.EXPECT().FinishClassifierRun(gomock.Any(), gomock.Any(), int64(2), int64(1)).Return(nil)
	tm.publisher.EXPECT().PublishRunCompleted(gomock.Any(), gomock.Any()).Return(nil)
	// No GetWatermark/SetWatermark: a partial run must not advance the watermark

	report, err := tm.runner.Run(context.Background(), window)
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.RowsWritten)
	assert.False(t, report.WatermarkAdvanced)
	require.Len(t, report.UserFailures, 1)
	assert.ErrorIs(t, report.UserFailures["u1"], domain.ErrMissingPriorDay)
}

func TestRunnerRun_GapBeforeWindowFailsUser(t *testing.T) {
	tm := setupTestRunner(t, classifier.RunnerConfig{RiskWindow: 6, WorkerPoolSize: 1})
	window := classifier.Window{Start: domain.Date(2024, 1, 10), End: domain.Date(2024, 1, 10)}

	cohorts := map[string]time.Time{"u1": domain.Date(2024, 1, 1)}
	// Last committed row is two days before the window start
	prevRows := map[string]*schema.UserStateDay{
		"u1": {
			UserID:     "u1",
			Day:        domain.Date(2024, 1, 8),
			State:      string(domain.StateCurrent),
			CohortDate: domain.Date(2024, 1, 1),
		},
	}

	tm.store.EXPECT().FirstActiveDays(gomock.Any(), window.End).Return(cohorts, nil)
	tm.store.EXPECT().ActiveDaysByUser(gomock.Any(), []string{"u1"}, window.Start, window.End).
		Return(map[string]map[time.Time]bool{}, nil)
	tm.store.EXPECT().LastStatesBefore(gomock.Any(), window.Start, []string{"u1"}).Return(prevRows, nil)
	tm.store.EXPECT().CreateClassifierRun(gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().FinishClassifierRun(gomock.Any(), gomock.Any(), int64(0), int64(1)).Return(nil)
	tm.publisher.EXPECT().PublishRunCompleted(gomock.Any(), gomock.Any()).Return(nil)

	report, err := tm.runner.Run(context.Background(), window)
	require.NoError(t, err)
	assert.ErrorIs(t, report.UserFailures["u1"], domain.ErrMissingPriorDay)
}

func TestRunnerRun_PublishFailureIsNotFatal(t *testing.T) {
	tm := setupTestRunner(t, classifier.RunnerConfig{RiskWindow: 6, WorkerPoolSize: 1})
	window := classifier.Window{Start: domain.Date(2024, 1, 1), End: domain.Date(2024, 1, 1)}

	cohorts := map[string]time.Time{"u1": domain.Date(2024, 1, 1)}

	tm.store.EXPECT().FirstActiveDays(gomock.Any(), window.End).Return(cohorts, nil)
	tm.store.EXPECT().ActiveDaysByUser(gomock.Any(), []string{"u1"}, window.Start, window.End).
		Return(map[string]map[time.Time]bool{"u1": {domain.Date(2024, 1, 1): true}}, nil)
	tm.store.EXPECT().LastStatesBefore(gomock.Any(), window.Start, []string{"u1"}).Return(nil, nil)
	tm.store.EXPECT().CreateClassifierRun(gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().InsertStateDays(gomock.Any(), gomock.Any()).Return(int64(1), nil)
	tm.store.EXPECT().FinishClassifierRun(gomock.Any(), gomock.Any(), int64(1), int64(0)).Return(nil)
	tm.store.EXPECT().GetWatermark(gomock.Any()).Return(time.Time{}, false, nil)
	tm.store.EXPECT().SetWatermark(gomock.Any(), window.End).Return(nil)
	tm.publisher.EXPECT().PublishRunCompleted(gomock.Any(), gomock.Any()).Return(errors.New("nats down"))

	report, err := tm.runner.Run(context.Background(), window)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.RowsWritten)
}
