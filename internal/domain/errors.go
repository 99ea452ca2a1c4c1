package domain

import "errors"

var (
	// ErrMissingPriorDay is returned when a user's timeline has a gap: a row
	// exists for some earlier date but not for the day immediately before the
	// one being classified. Gaps are never silently interpolated.
	ErrMissingPriorDay = errors.New("missing prior day in user timeline")

	// ErrDuplicateActivity is returned when two activity records for the same
	// (user, day) carry conflicting active values
	ErrDuplicateActivity = errors.New("conflicting duplicate activity record")

	// ErrEmptyLedger is returned when an operation needs the activity ledger's
	// date range but no activity has been ingested yet
	ErrEmptyLedger = errors.New("activity ledger is empty")

	// ErrInvalidWindow is returned when a date window has start after end
	ErrInvalidWindow = errors.New("window start must not be after window end")
)
