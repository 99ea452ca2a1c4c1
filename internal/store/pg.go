package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stephaneglaugier91/daulingo/internal/domain"
	"github.com/stephaneglaugier91/daulingo/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the database schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.ActivityDay{},
		&schema.UserStateDay{},
		&schema.ClassifierRun{},
		&schema.KeyValueStore{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// calculateSafeBatchSize computes the batch size for bulk inserts that stays
// under PostgreSQL's extended-protocol limit of 65535 parameters per query.
// A headroom of 1000 parameters covers ON CONFLICT clauses and GORM bookkeeping.
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}

// chunkStrings splits ids into chunks of at most size elements
func chunkStrings(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > 0 {
		n := min(size, len(ids))
		chunks = append(chunks, ids[:n])
		ids = ids[n:]
	}
	return chunks
}

// engagedStates returns the engaged states as strings for SQL IN clauses
func engagedStates() []string {
	var out []string
	for _, s := range domain.States {
		if s.Engaged() {
			out = append(out, string(s))
		}
	}
	return out
}

// UpsertActivityDays inserts activity facts, ignoring exact duplicates
func (s *pgStore) UpsertActivityDays(ctx context.Context, rows []schema.ActivityDay) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batchSize := calculateSafeBatchSize(len(rows), 5)
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoNothing: true,
		}).
		CreateInBatches(rows, batchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to upsert activity days: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// GetActivityDays retrieves activity facts for the given users in [start, end]
func (s *pgStore) GetActivityDays(ctx context.Context, userIDs []string, start, end time.Time) ([]schema.ActivityDay, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var out []schema.ActivityDay
	for _, chunk := range chunkStrings(userIDs, 10000) {
		var rows []schema.ActivityDay
		err := s.db.WithContext(ctx).
			Where("user_id IN ? AND day >= ? AND day <= ?", chunk, start, end).
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get activity days: %w", err)
		}
		out = append(out, rows...)
	}

	return out, nil
}

// ActivityDateRange returns the min and max day present in the activity ledger
func (s *pgStore) ActivityDateRange(ctx context.Context) (time.Time, time.Time, error) {
	var row struct {
		MinDay *time.Time
		MaxDay *time.Time
	}
	err := s.db.WithContext(ctx).
		Model(&schema.ActivityDay{}).
		Select("MIN(day) AS min_day, MAX(day) AS max_day").
		Scan(&row).Error
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to get activity date range: %w", err)
	}
	if row.MinDay == nil || row.MaxDay == nil {
		return time.Time{}, time.Time{}, domain.ErrEmptyLedger
	}

	return domain.ToDay(*row.MinDay), domain.ToDay(*row.MaxDay), nil
}

// FirstActiveDays returns, per user, the user's first active day (the cohort
// date) for users first active on or before through
func (s *pgStore) FirstActiveDays(ctx context.Context, through time.Time) (map[string]time.Time, error) {
	var rows []struct {
		UserID   string
		FirstDay time.Time
	}
	err := s.db.WithContext(ctx).
		Model(&schema.ActivityDay{}).
		Select("user_id, MIN(day) AS first_day").
		Where("active = ?", true).
		Group("user_id").
		Having("MIN(day) <= ?", through).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get first active days: %w", err)
	}

	out := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		out[r.UserID] = domain.ToDay(r.FirstDay)
	}
	return out, nil
}

// ActiveDaysByUser returns the set of active days per user in [start, end]
func (s *pgStore) ActiveDaysByUser(ctx context.Context, userIDs []string, start, end time.Time) (map[string]map[time.Time]bool, error) {
	out := make(map[string]map[time.Time]bool, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	for _, chunk := range chunkStrings(userIDs, 10000) {
		var rows []struct {
			UserID string
			Day    time.Time
		}
		err := s.db.WithContext(ctx).
			Model(&schema.ActivityDay{}).
			Select("user_id, day").
			Where("active = ? AND user_id IN ? AND day >= ? AND day <= ?", true, chunk, start, end).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get active days: %w", err)
		}
		for _, r := range rows {
			days := out[r.UserID]
			if days == nil {
				days = make(map[time.Time]bool)
				out[r.UserID] = days
			}
			days[domain.ToDay(r.Day)] = true
		}
	}

	return out, nil
}

// LastStatesBefore returns, per user, the most recent committed state row
// strictly before day
func (s *pgStore) LastStatesBefore(ctx context.Context, day time.Time, userIDs []string) (map[string]*schema.UserStateDay, error) {
	out := make(map[string]*schema.UserStateDay, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	for _, chunk := range chunkStrings(userIDs, 10000) {
		var rows []schema.UserStateDay
		err := s.db.WithContext(ctx).
			Raw(`SELECT DISTINCT ON (user_id) *
			     FROM user_state_days
			     WHERE day < ? AND user_id IN ?
			     ORDER BY user_id, day DESC`, day, chunk).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get last states: %w", err)
		}
		for i := range rows {
			rows[i].Day = domain.ToDay(rows[i].Day)
			rows[i].CohortDate = domain.ToDay(rows[i].CohortDate)
			out[rows[i].UserID] = &rows[i]
		}
	}

	return out, nil
}

// InsertStateDays appends classification rows, skipping rows that already exist
func (s *pgStore) InsertStateDays(ctx context.Context, rows []schema.UserStateDay) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batchSize := calculateSafeBatchSize(len(rows), 9)
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoNothing: true,
		}).
		CreateInBatches(rows, batchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert state days: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// CreateClassifierRun records the start of a classification run
func (s *pgStore) CreateClassifierRun(ctx context.Context, run *schema.ClassifierRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create classifier run: %w", err)
	}
	return nil
}

// FinishClassifierRun marks a run finished with its row and failure counts
func (s *pgStore) FinishClassifierRun(ctx context.Context, runID string, rowsWritten, userFailures int64) error {
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).
		Model(&schema.ClassifierRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]interface{}{
			"finished_at":   &now,
			"rows_written":  rowsWritten,
			"user_failures": userFailures,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to finish classifier run: %w", err)
	}
	return nil
}

// CohortSize returns the number of distinct users whose cohort date equals cohortDate
func (s *pgStore) CohortSize(ctx context.Context, cohortDate time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.UserStateDay{}).
		Where("cohort_date = ?", cohortDate).
		Distinct("user_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count cohort size: %w", err)
	}
	return count, nil
}

// EngagedCohortCount returns the number of cohort members in an engaged state on day
func (s *pgStore) EngagedCohortCount(ctx context.Context, cohortDate, day time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.UserStateDay{}).
		Where("cohort_date = ? AND day = ? AND state IN ?", cohortDate, day, engagedStates()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count engaged cohort members: %w", err)
	}
	return count, nil
}

// CountEngaged returns the number of users in an engaged state on day (DAU)
func (s *pgStore) CountEngaged(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.UserStateDay{}).
		Where("day = ? AND state IN ?", day, engagedStates()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count engaged users: %w", err)
	}
	return count, nil
}

// CountDistinctEngaged returns the number of distinct users in an engaged
// state on any day in [start, end] (WAU/MAU)
func (s *pgStore) CountDistinctEngaged(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.UserStateDay{}).
		Where("day >= ? AND day <= ? AND state IN ?", start, end, engagedStates()).
		Distinct("user_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct engaged users: %w", err)
	}
	return count, nil
}

// StateTimeseries returns per-day per-state user counts over [start, end]
func (s *pgStore) StateTimeseries(ctx context.Context, start, end time.Time) ([]domain.StateCount, error) {
	var rows []struct {
		Day       time.Time
		State     string
		UserCount int64
	}
	err := s.db.WithContext(ctx).
		Model(&schema.UserStateDay{}).
		Select("day, state, COUNT(user_id) AS user_count").
		Where("day >= ? AND day <= ?", start, end).
		Group("day, state").
		Order("day, state").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get state timeseries: %w", err)
	}

	out := make([]domain.StateCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.StateCount{
			Day:       domain.ToDay(r.Day),
			State:     domain.State(r.State),
			UserCount: r.UserCount,
		})
	}
	return out, nil
}

// TransitionCounts returns day-over-day state transition counts for days in [start, end]
func (s *pgStore) TransitionCounts(ctx context.Context, start, end time.Time) ([]TransitionCount, error) {
	var rows []struct {
		Day       time.Time
		FromState string
		ToState   string
		Users     int64
	}
	err := s.db.WithContext(ctx).
		Raw(`SELECT curr.day AS day, prev.state AS from_state, curr.state AS to_state, COUNT(*) AS users
		     FROM user_state_days curr
		     JOIN user_state_days prev
		       ON prev.user_id = curr.user_id AND prev.day = curr.day - INTERVAL '1 day'
		     WHERE curr.day >= ? AND curr.day <= ?
		     GROUP BY curr.day, prev.state, curr.state
		     ORDER BY curr.day, prev.state, curr.state`, start, end).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transition counts: %w", err)
	}

	out := make([]TransitionCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, TransitionCount{
			Day:       domain.ToDay(r.Day),
			FromState: domain.State(r.FromState),
			ToState:   domain.State(r.ToState),
			Users:     r.Users,
		})
	}
	return out, nil
}

// StateDateRange returns the min and max classified day
func (s *pgStore) StateDateRange(ctx context.Context) (time.Time, time.Time, error) {
	var row struct {
		MinDay *time.Time
		MaxDay *time.Time
	}
	err := s.db.WithContext(ctx).
		Model(&schema.UserStateDay{}).
		Select("MIN(day) AS min_day, MAX(day) AS max_day").
		Scan(&row).Error
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to get state date range: %w", err)
	}
	if row.MinDay == nil || row.MaxDay == nil {
		return time.Time{}, time.Time{}, gorm.ErrRecordNotFound
	}

	return domain.ToDay(*row.MinDay), domain.ToDay(*row.MaxDay), nil
}

// GetWatermark returns the classifier watermark
func (s *pgStore) GetWatermark(ctx context.Context) (time.Time, bool, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", WatermarkKey).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to get watermark: %w", err)
	}

	day, err := domain.ParseDay(kv.Value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse watermark: %w", err)
	}

	return day, true, nil
}

// SetWatermark advances the classifier watermark
func (s *pgStore) SetWatermark(ctx context.Context, day time.Time) error {
	kv := schema.KeyValueStore{
		Key:   WatermarkKey,
		Value: domain.FormatDay(day),
	}

	if err := s.db.WithContext(ctx).Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set watermark: %w", err)
	}

	return nil
}
