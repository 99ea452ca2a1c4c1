package domain

import "time"

// DayFormat is the canonical wire/storage format for calendar days
const DayFormat = "2006-01-02"

// Date builds a calendar day (UTC midnight)
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ToDay truncates t to its calendar day (UTC midnight)
func ToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a calendar day
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// FormatDay renders a calendar day as YYYY-MM-DD
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// NextDay returns the following calendar day
func NextDay(t time.Time) time.Time {
	return ToDay(t).AddDate(0, 0, 1)
}

// PrevDay returns the preceding calendar day
func PrevDay(t time.Time) time.Time {
	return ToDay(t).AddDate(0, 0, -1)
}

// AddDays returns the day n calendar days after t (n may be negative)
func AddDays(t time.Time, n int) time.Time {
	return ToDay(t).AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b (b-a).
// Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(ToDay(b).Sub(ToDay(a)).Hours() / 24)
}

// IsWeekend reports whether t falls on a Saturday or Sunday
func IsWeekend(t time.Time) bool {
	wd := t.UTC().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// EachDay yields each day from start to end inclusive
func EachDay(start, end time.Time, fn func(day time.Time)) {
	for d := ToDay(start); !d.After(ToDay(end)); d = NextDay(d) {
		fn(d)
	}
}
