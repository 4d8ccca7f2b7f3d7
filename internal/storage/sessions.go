package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/pulsecoach/internal/models"
	"github.com/google/uuid"
)

// InsertSession stores a validated workout session. Returns true if inserted,
// false if the ID already exists.
func (db *DB) InsertSession(ctx context.Context, s models.WorkoutSession) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_sessions (id, user_id, date, duration_minutes, segments,
		 avg_heart_rate, perceived_exertion, calories_estimated, session_type, notes, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT DO NOTHING`,
		s.ID, s.UserID, s.Date, s.DurationMinutes, s.Segments,
		s.AvgHeartRate, s.PerceivedExertion, s.CaloriesEstimated, s.SessionType, s.Notes, s.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("inserting session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// QuerySessions retrieves a user's sessions in [start, end), oldest first.
func (db *DB) QuerySessions(ctx context.Context, userID string, start, end time.Time) ([]models.WorkoutSession, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, date, duration_minutes, segments,
		 avg_heart_rate, perceived_exertion, calories_estimated, session_type, notes, created_at
		 FROM workout_sessions
		 WHERE user_id = $1 AND date >= $2 AND date < $3
		 ORDER BY date ASC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.DurationMinutes, &s.Segments,
			&s.AvgHeartRate, &s.PerceivedExertion, &s.CaloriesEstimated,
			&s.SessionType, &s.Notes, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// GetSession retrieves a single session by ID, scoped to the owning user.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID, userID string) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, date, duration_minutes, segments,
		 avg_heart_rate, perceived_exertion, calories_estimated, session_type, notes, created_at
		 FROM workout_sessions
		 WHERE id = $1 AND user_id = $2`,
		id, userID)

	var s models.WorkoutSession
	err := row.Scan(&s.ID, &s.UserID, &s.Date, &s.DurationMinutes, &s.Segments,
		&s.AvgHeartRate, &s.PerceivedExertion, &s.CaloriesEstimated,
		&s.SessionType, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", notFound(err))
	}
	return &s, nil
}
