package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/pulsecoach/internal/models"
)

// InsertReadings batch-inserts heart-rate history points. Returns count
// inserted; duplicates on (user_id, time) are skipped.
func (db *DB) InsertReadings(ctx context.Context, rows []models.HeartRateReading) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO heart_rate_readings (time, user_id, bpm, context) VALUES `
	args := make([]any, 0, len(rows)*4)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 4
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		args = append(args, r.Time, r.UserID, r.BPM, r.Context)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting heart rate readings: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QueryReadings retrieves a user's readings in [start, end), oldest first.
func (db *DB) QueryReadings(ctx context.Context, userID string, start, end time.Time) ([]models.HeartRateReading, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT time, user_id, bpm, context
		 FROM heart_rate_readings
		 WHERE user_id = $1 AND time >= $2 AND time < $3
		 ORDER BY time ASC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying heart rate readings: %w", err)
	}
	defer rows.Close()

	var result []models.HeartRateReading
	for rows.Next() {
		var r models.HeartRateReading
		if err := rows.Scan(&r.Time, &r.UserID, &r.BPM, &r.Context); err != nil {
			return nil, fmt.Errorf("scanning heart rate reading: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// LatestReading returns the most recent reading for a user, or ErrNotFound.
func (db *DB) LatestReading(ctx context.Context, userID string) (*models.HeartRateReading, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT time, user_id, bpm, context
		 FROM heart_rate_readings
		 WHERE user_id = $1
		 ORDER BY time DESC
		 LIMIT 1`,
		userID)

	var r models.HeartRateReading
	if err := row.Scan(&r.Time, &r.UserID, &r.BPM, &r.Context); err != nil {
		return nil, fmt.Errorf("querying latest reading: %w", notFound(err))
	}
	return &r, nil
}
