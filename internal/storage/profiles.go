package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/pulsecoach/internal/models"
	"github.com/google/uuid"
)

// InsertProfile stores a new profile. Returns false when a profile for the
// user already exists.
func (db *DB) InsertProfile(ctx context.Context, p models.Profile) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO profiles (id, user_id, age, weight_kg, height_m, fitness_level,
		 health_conditions, preferences, resting_hr, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (user_id) DO NOTHING`,
		p.ID, p.UserID, p.Age, p.WeightKg, p.HeightM, string(p.FitnessLevel),
		conditionStrings(p.HealthConditions), categoryStrings(p.Preferences),
		p.RestingHR, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("inserting profile: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetProfile retrieves a profile by user ID. Returns ErrNotFound when the
// user has no profile.
func (db *DB) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, age, weight_kg, height_m, fitness_level,
		 health_conditions, preferences, resting_hr, created_at, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID)

	var p models.Profile
	var conditions, preferences []string
	err := row.Scan(&p.ID, &p.UserID, &p.Age, &p.WeightKg, &p.HeightM, &p.FitnessLevel,
		&conditions, &preferences, &p.RestingHR, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", notFound(err))
	}
	p.HealthConditions = toConditions(conditions)
	p.Preferences = toCategories(preferences)
	return &p, nil
}

// UpdateProfile replaces the mutable fields of an existing profile and bumps
// updated_at. ID, UserID and created_at never change.
func (db *DB) UpdateProfile(ctx context.Context, p models.Profile) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE profiles
		 SET age = $2, weight_kg = $3, height_m = $4, fitness_level = $5,
		     health_conditions = $6, preferences = $7, resting_hr = $8, updated_at = $9
		 WHERE user_id = $1`,
		p.UserID, p.Age, p.WeightKg, p.HeightM, string(p.FitnessLevel),
		conditionStrings(p.HealthConditions), categoryStrings(p.Preferences),
		p.RestingHR, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// NewProfileID returns a fresh profile primary key.
func NewProfileID() uuid.UUID {
	return uuid.New()
}

func conditionStrings(conditions []models.HealthCondition) []string {
	out := make([]string, len(conditions))
	for i, c := range conditions {
		out[i] = string(c)
	}
	return out
}

func toConditions(values []string) []models.HealthCondition {
	if len(values) == 0 {
		return nil
	}
	out := make([]models.HealthCondition, len(values))
	for i, v := range values {
		out[i] = models.HealthCondition(v)
	}
	return out
}

func categoryStrings(categories []models.ExerciseCategory) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}

func toCategories(values []string) []models.ExerciseCategory {
	if len(values) == 0 {
		return nil
	}
	out := make([]models.ExerciseCategory, len(values))
	for i, v := range values {
		out[i] = models.ExerciseCategory(v)
	}
	return out
}
