package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephaneglaugier91/daulingo/internal/domain"
)

func TestToDay(t *testing.T) {
	ts := time.Date(2024, 3, 15, 17, 42, 11, 999, time.UTC)
	day := domain.ToDay(ts)
	assert.Equal(t, domain.Date(2024, 3, 15), day)
	assert.Equal(t, time.UTC, day.Location())
}

func TestParseFormatDay(t *testing.T) {
	day, err := domain.ParseDay("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, domain.Date(2024, 2, 29), day)
	assert.Equal(t, "2024-02-29", domain.FormatDay(day))

	_, err = domain.ParseDay("02/29/2024")
	assert.Error(t, err)
}

func TestDayArithmetic(t *testing.T) {
	day := domain.Date(2024, 1, 31)

	assert.Equal(t, domain.Date(2024, 2, 1), domain.NextDay(day))
	assert.Equal(t, domain.Date(2024, 1, 30), domain.PrevDay(day))
	assert.Equal(t, domain.Date(2024, 2, 5), domain.AddDays(day, 5))
	assert.Equal(t, domain.Date(2024, 1, 26), domain.AddDays(day, -5))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, domain.DaysBetween(domain.Date(2024, 1, 1), domain.Date(2024, 1, 1)))
	assert.Equal(t, 31, domain.DaysBetween(domain.Date(2024, 1, 1), domain.Date(2024, 2, 1)))
	assert.Equal(t, -1, domain.DaysBetween(domain.Date(2024, 1, 2), domain.Date(2024, 1, 1)))
	// Leap year
	assert.Equal(t, 366, domain.DaysBetween(domain.Date(2024, 1, 1), domain.Date(2025, 1, 1)))
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, domain.IsWeekend(domain.Date(2024, 1, 5))) // Friday
	assert.True(t, domain.IsWeekend(domain.Date(2024, 1, 6)))  // Saturday
	assert.True(t, domain.IsWeekend(domain.Date(2024, 1, 7)))  // Sunday
	assert.False(t, domain.IsWeekend(domain.Date(2024, 1, 8))) // Monday
}

func TestEachDay(t *testing.T) {
	var days []string
	domain.EachDay(domain.Date(2024, 1, 30), domain.Date(2024, 2, 2), func(day time.Time) {
		days = append(days, domain.FormatDay(day))
	})
	assert.Equal(t, []string{"2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02"}, days)

	// Inverted range visits nothing
	days = nil
	domain.EachDay(domain.Date(2024, 1, 2), domain.Date(2024, 1, 1), func(day time.Time) {
		days = append(days, domain.FormatDay(day))
	})
	assert.Empty(t, days)
}
