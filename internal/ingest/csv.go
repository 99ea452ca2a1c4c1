package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/stephaneglaugier91/daulingo/internal/domain"
	"github.com/stephaneglaugier91/daulingo/internal/logger"
)

// maxUserIDLength bounds the opaque user identifier
const maxUserIDLength = 64

// timestampLayouts are the accepted occurred_at formats, tried in order
var timestampLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", domain.DayFormat}

// ReadCSV reads activity events from a CSV file with a user_id,occurred_at
// header and feeds them to fn in chunks. Malformed rows are skipped, not
// fatal; validation failures in a bulk upload should not block the rest of
// the file.
func ReadCSV(path string, chunkSize int, fn func(events []Event) error) error {
	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open activity csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read csv header: %w", err)
	}
	userCol, timeCol := -1, -1
	for i, name := range header {
		switch name {
		case "user_id":
			userCol = i
		case "occurred_at":
			timeCol = i
		}
	}
	if userCol < 0 || timeCol < 0 {
		return fmt.Errorf("csv header must contain user_id and occurred_at columns, got %v", header)
	}

	buf := make([]Event, 0, chunkSize)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Debug("Skipping unreadable csv row", zap.Int("line", line), zap.Error(err))
			continue
		}

		event, err := parseRecord(record, userCol, timeCol)
		if err != nil {
			logger.Debug("Skipping invalid csv row", zap.Int("line", line), zap.Error(err))
			continue
		}

		buf = append(buf, event)
		if len(buf) >= chunkSize {
			if err := fn(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}

	if len(buf) > 0 {
		return fn(buf)
	}
	return nil
}

func parseRecord(record []string, userCol, timeCol int) (Event, error) {
	if len(record) <= userCol || len(record) <= timeCol {
		return Event{}, fmt.Errorf("row has %d columns", len(record))
	}

	userID := record[userCol]
	if userID == "" || len(userID) > maxUserIDLength {
		return Event{}, fmt.Errorf("invalid user_id %q", userID)
	}

	raw := record[timeCol]
	var occurredAt time.Time
	var err error
	for _, layout := range timestampLayouts {
		occurredAt, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}
	if err != nil {
		return Event{}, fmt.Errorf("invalid occurred_at %q", raw)
	}

	return Event{UserID: userID, OccurredAt: occurredAt, Active: true}, nil
}
