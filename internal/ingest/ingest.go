// Package ingest loads raw activity events into the activity ledger. It
// collapses events to one fact per (user, day) and surfaces conflicting
// duplicates; the classifier downstream assumes a clean, deduplicated ledger.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stephaneglaugier91/daulingo/internal/domain"
	"github.com/stephaneglaugier91/daulingo/internal/logger"
	"github.com/stephaneglaugier91/daulingo/internal/metrics"
	"github.com/stephaneglaugier91/daulingo/internal/store"
	"github.com/stephaneglaugier91/daulingo/internal/store/schema"
)

// Event is one raw activity event. Multiple events for the same user and day
// collapse into a single activity fact.
type Event struct {
	UserID     string
	OccurredAt time.Time
	// Active indicates engagement; an event stream of positive engagement
	// events sets this true for every event
	Active bool
}

// Summary reports the outcome of an ingest call
type Summary struct {
	EventsSeen    int   `json:"events_seen"`
	FactsUpserted int64 `json:"facts_upserted"`
	UsersSeen     int   `json:"users_seen"`
}

// Service orchestrates activity ingestion into the store
type Service struct {
	store store.Store
}

// NewService creates a new ingestion service
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

type dayKey struct {
	userID string
	day    time.Time
}

// Ingest collapses events into per-(user, day) facts and appends them to the
// ledger. Exact duplicates are no-ops; two records for the same (user, day)
// with conflicting active values abort the whole batch with
// domain.ErrDuplicateActivity.
func (s *Service) Ingest(ctx context.Context, events []Event) (*Summary, error) {
	if len(events) == 0 {
		return &Summary{}, nil
	}

	collapsed := make(map[dayKey]bool, len(events))
	users := make(map[string]struct{})
	minDay, maxDay := time.Time{}, time.Time{}
	for _, ev := range events {
		if ev.UserID == "" {
			return nil, fmt.Errorf("event with empty user_id at %s", ev.OccurredAt)
		}
		day := domain.ToDay(ev.OccurredAt)
		k := dayKey{userID: ev.UserID, day: day}
		if prev, seen := collapsed[k]; seen {
			if prev != ev.Active {
				return nil, fmt.Errorf("user %s day %s: %w",
					ev.UserID, domain.FormatDay(day), domain.ErrDuplicateActivity)
			}
			continue
		}
		collapsed[k] = ev.Active
		users[ev.UserID] = struct{}{}
		if minDay.IsZero() || day.Before(minDay) {
			minDay = day
		}
		if maxDay.IsZero() || day.After(maxDay) {
			maxDay = day
		}
	}

	userIDs := make([]string, 0, len(users))
	for uid := range users {
		userIDs = append(userIDs, uid)
	}

	// Conflicts against already-committed facts are an ingestion-layer
	// responsibility; the ledger is append-only and never silently rewritten.
	existing, err := s.store.GetActivityDays(ctx, userIDs, minDay, maxDay)
	if err != nil {
		return nil, err
	}
	for _, row := range existing {
		k := dayKey{userID: row.UserID, day: domain.ToDay(row.Day)}
		active, seen := collapsed[k]
		if !seen {
			continue
		}
		if active != row.Active {
			return nil, fmt.Errorf("user %s day %s conflicts with committed fact: %w",
				row.UserID, domain.FormatDay(k.day), domain.ErrDuplicateActivity)
		}
		delete(collapsed, k)
	}

	rows := make([]schema.ActivityDay, 0, len(collapsed))
	for k, active := range collapsed {
		rows = append(rows, schema.ActivityDay{
			UserID: k.userID,
			Day:    k.day,
			Active: active,
		})
	}

	inserted, err := s.store.UpsertActivityDays(ctx, rows)
	if err != nil {
		return nil, err
	}
	metrics.ActivityEventsIngested.Add(float64(inserted))

	logger.Info("Ingested activity events",
		zap.Int("events", len(events)),
		zap.Int64("facts_upserted", inserted),
		zap.Int("users", len(userIDs)),
	)

	return &Summary{
		EventsSeen:    len(events),
		FactsUpserted: inserted,
		UsersSeen:     len(userIDs),
	}, nil
}
