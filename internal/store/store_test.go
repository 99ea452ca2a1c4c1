package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephaneglaugier91/daulingo/internal/domain"
	"github.com/stephaneglaugier91/daulingo/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func buildActivityDay(userID string, day time.Time) schema.ActivityDay {
	return schema.ActivityDay{
		UserID: userID,
		Day:    day,
		Active: true,
	}
}

func buildStateDay(userID string, day time.Time, state domain.State, dsla, streak int, cohort time.Time) schema.UserStateDay {
	return schema.UserStateDay{
		UserID:              userID,
		Day:                 day,
		State:               string(state),
		DaysSinceLastActive: dsla,
		StreakLength:        streak,
		CohortDate:          cohort,
		RunID:               "run-test",
	}
}

func sameDay(t *testing.T, expected, actual time.Time) {
	t.Helper()
	assert.Equal(t, domain.FormatDay(expected), domain.FormatDay(actual))
}

// =============================================================================
// Test: activity ledger
// =============================================================================

func testActivityLedger(t *testing.T, store Store) {
	ctx := context.Background()
	day1 := domain.Date(2024, 1, 1)
	day2 := domain.Date(2024, 1, 2)
	day3 := domain.Date(2024, 1, 3)

	t.Run("upsert ignores exact duplicates", func(t *testing.T) {
		rows := []schema.ActivityDay{
			buildActivityDay("act-u1", day1),
			buildActivityDay("act-u1", day2),
			buildActivityDay("act-u2", day2),
		}

		inserted, err := store.UpsertActivityDays(ctx, rows)
		require.NoError(t, err)
		assert.Equal(t, int64(3), inserted)

		// Replaying the same facts writes nothing new
		inserted, err = store.UpsertActivityDays(ctx, rows)
		require.NoError(t, err)
		assert.Equal(t, int64(0), inserted)
	})

	t.Run("get returns facts in range", func(t *testing.T) {
		got, err := store.GetActivityDays(ctx, []string{"act-u1"}, day1, day3)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "act-u1", got[0].UserID)
	})

	t.Run("date range spans the ledger", func(t *testing.T) {
		minDay, maxDay, err := store.ActivityDateRange(ctx)
		require.NoError(t, err)
		sameDay(t, day1, minDay)
		sameDay(t, day2, maxDay)
	})

	t.Run("first active days are cohort dates", func(t *testing.T) {
		cohorts, err := store.FirstActiveDays(ctx, day3)
		require.NoError(t, err)
		require.Contains(t, cohorts, "act-u1")
		require.Contains(t, cohorts, "act-u2")
		sameDay(t, day1, cohorts["act-u1"])
		sameDay(t, day2, cohorts["act-u2"])
	})

	t.Run("first active days respects the cutoff", func(t *testing.T) {
		cohorts, err := store.FirstActiveDays(ctx, day1)
		require.NoError(t, err)
		assert.Contains(t, cohorts, "act-u1")
		assert.NotContains(t, cohorts, "act-u2")
	})

	t.Run("active days by user", func(t *testing.T) {
		byUser, err := store.ActiveDaysByUser(ctx, []string{"act-u1", "act-u2"}, day1, day3)
		require.NoError(t, err)
		assert.Len(t, byUser["act-u1"], 2)
		assert.Len(t, byUser["act-u2"], 1)
	})
}

func testActivityDateRangeEmpty(t *testing.T, store Store) {
	_, _, err := store.ActivityDateRange(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyLedger)
}

// =============================================================================
// Test: state rows
// =============================================================================

func testStateRows(t *testing.T, store Store) {
	ctx := context.Background()
	cohort := domain.Date(2024, 1, 1)
	day1 := domain.Date(2024, 1, 1)
	day2 := domain.Date(2024, 1, 2)
	day3 := domain.Date(2024, 1, 3)

	rows := []schema.UserStateDay{
		buildStateDay("st-u1", day1, domain.StateNew, 0, 1, cohort),
		buildStateDay("st-u1", day2, domain.StateCurrent, 0, 2, cohort),
		buildStateDay("st-u1", day3, domain.StateAtRisk, 1, 0, cohort),
	}

	t.Run("insert skips already-committed rows", func(t *testing.T) {
		inserted, err := store.InsertStateDays(ctx, rows)
		require.NoError(t, err)
		assert.Equal(t, int64(3), inserted)

		inserted, err = store.InsertStateDays(ctx, rows)
		require.NoError(t, err)
		assert.Equal(t, int64(0), inserted)
	})

	t.Run("last states before returns the latest prior row", func(t *testing.T) {
		prev, err := store.LastStatesBefore(ctx, domain.Date(2024, 1, 4), []string{"st-u1", "st-missing"})
		require.NoError(t, err)

		require.Contains(t, prev, "st-u1")
		assert.NotContains(t, prev, "st-missing")
		sameDay(t, day3, prev["st-u1"].Day)
		assert.Equal(t, string(domain.StateAtRisk), prev["st-u1"].State)
		assert.Equal(t, 1, prev["st-u1"].DaysSinceLastActive)
	})

	t.Run("last states before excludes the day itself", func(t *testing.T) {
		prev, err := store.LastStatesBefore(ctx, day1, []string{"st-u1"})
		require.NoError(t, err)
		assert.NotContains(t, prev, "st-u1")
	})

	t.Run("state date range", func(t *testing.T) {
		minDay, maxDay, err := store.StateDateRange(ctx)
		require.NoError(t, err)
		sameDay(t, day1, minDay)
		sameDay(t, day3, maxDay)
	})
}

// =============================================================================
// Test: classifier runs
// =============================================================================

func testClassifierRuns(t *testing.T, store Store) {
	ctx := context.Background()

	run := &schema.ClassifierRun{
		RunID:       "run-123",
		RiskWindow:  6,
		WindowStart: domain.Date(2024, 1, 1),
		WindowEnd:   domain.Date(2024, 1, 31),
		StartedAt:   time.Now().UTC(),
	}

	require.NoError(t, store.CreateClassifierRun(ctx, run))
	require.NoError(t, store.FinishClassifierRun(ctx, "run-123", 42, 1))
}

// =============================================================================
// Test: aggregation queries
// =============================================================================

func testAggregationQueries(t *testing.T, store Store) {
	ctx := context.Background()
	cohort := domain.Date(2024, 2, 1)
	day1 := domain.Date(2024, 2, 1)
	day2 := domain.Date(2024, 2, 2)

	// Three users in one cohort; on day 2 one retains and two go at risk.
	rows := []schema.UserStateDay{
		buildStateDay("agg-u1", day1, domain.StateNew, 0, 1, cohort),
		buildStateDay("agg-u2", day1, domain.StateNew, 0, 1, cohort),
		buildStateDay("agg-u3", day1, domain.StateNew, 0, 1, cohort),
		buildStateDay("agg-u1", day2, domain.StateCurrent, 0, 2, cohort),
		buildStateDay("agg-u2", day2, domain.StateAtRisk, 1, 0, cohort),
		buildStateDay("agg-u3", day2, domain.StateAtRisk, 1, 0, cohort),
	}
	_, err := store.InsertStateDays(ctx, rows)
	require.NoError(t, err)

	t.Run("cohort size counts distinct members", func(t *testing.T) {
		size, err := store.CohortSize(ctx, cohort)
		require.NoError(t, err)
		assert.Equal(t, int64(3), size)
	})

	t.Run("cohort size of unknown cohort is zero", func(t *testing.T) {
		size, err := store.CohortSize(ctx, domain.Date(2030, 1, 1))
		require.NoError(t, err)
		assert.Zero(t, size)
	})

	t.Run("engaged cohort count", func(t *testing.T) {
		active, err := store.EngagedCohortCount(ctx, cohort, day2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), active)
	})

	t.Run("count engaged on a day", func(t *testing.T) {
		dau, err := store.CountEngaged(ctx, day1)
		require.NoError(t, err)
		assert.Equal(t, int64(3), dau)

		dau, err = store.CountEngaged(ctx, day2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), dau)
	})

	t.Run("count distinct engaged over a window", func(t *testing.T) {
		wau, err := store.CountDistinctEngaged(ctx, day1, day2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), wau)
	})

	t.Run("state timeseries", func(t *testing.T) {
		counts, err := store.StateTimeseries(ctx, day1, day2)
		require.NoError(t, err)

		byKey := make(map[string]int64)
		for _, c := range counts {
			byKey[domain.FormatDay(c.Day)+"/"+string(c.State)] = c.UserCount
		}
		assert.Equal(t, int64(3), byKey["2024-02-01/NEW"])
		assert.Equal(t, int64(1), byKey["2024-02-02/CURRENT"])
		assert.Equal(t, int64(2), byKey["2024-02-02/AT_RISK"])
	})

	t.Run("transition counts", func(t *testing.T) {
		counts, err := store.TransitionCounts(ctx, day2, day2)
		require.NoError(t, err)

		byKey := make(map[string]int64)
		for _, c := range counts {
			byKey[string(c.FromState)+"->"+string(c.ToState)] = c.Users
		}
		assert.Equal(t, int64(1), byKey["NEW->CURRENT"])
		assert.Equal(t, int64(2), byKey["NEW->AT_RISK"])
	})
}

// =============================================================================
// Test: watermark
// =============================================================================

func testWatermark(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("unset watermark", func(t *testing.T) {
		_, ok, err := store.GetWatermark(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set and advance", func(t *testing.T) {
		day := domain.Date(2024, 3, 1)
		require.NoError(t, store.SetWatermark(ctx, day))

		got, ok, err := store.GetWatermark(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		sameDay(t, day, got)

		later := domain.Date(2024, 3, 5)
		require.NoError(t, store.SetWatermark(ctx, later))

		got, ok, err = store.GetWatermark(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		sameDay(t, later, got)
	})
}

// =============================================================================
// Suite runner
// =============================================================================

// RunStoreTests runs all store tests against a Store implementation.
// initDB must return a store over a clean database; cleanupDB is called after
// each test.
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store Store)
	}{
		{"ActivityDateRangeEmpty", testActivityDateRangeEmpty},
		{"ActivityLedger", testActivityLedger},
		{"StateRows", testStateRows},
		{"ClassifierRuns", testClassifierRuns},
		{"AggregationQueries", testAggregationQueries},
		{"Watermark", testWatermark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
