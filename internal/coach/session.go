package coach

import (
	"fmt"
	"math"
	"time"

	"github.com/claude/pulsecoach/internal/models"
	"github.com/google/uuid"
)

// SessionInput is a submitted, not-yet-validated session record.
type SessionInput struct {
	UserID            string    `json:"user_id"`
	Date              time.Time `json:"date"`
	DurationMinutes   int       `json:"duration_minutes"`
	Segments          []string  `json:"segments,omitempty"`
	AvgHeartRate      int       `json:"avg_heart_rate"`
	PerceivedExertion int       `json:"perceived_exertion"`
	SessionType       string    `json:"session_type,omitempty"`
	Notes             string    `json:"notes,omitempty"`
}

// ValidateSession checks a submitted session against the configured business
// constraints and, on success, returns a normalized WorkoutSession ready for
// persistence. Every violated constraint is reported, not just the first.
// This function never persists anything; storage is the caller's collaborator.
func ValidateSession(cfg Config, p models.Profile, in SessionInput) (*models.WorkoutSession, error) {
	var violations []string

	if in.DurationMinutes < cfg.MinSessionMinutes || in.DurationMinutes > cfg.MaxSessionMinutes {
		violations = append(violations, fmt.Sprintf(
			"duration must be between %d and %d minutes, got %d",
			cfg.MinSessionMinutes, cfg.MaxSessionMinutes, in.DurationMinutes))
	}
	if in.AvgHeartRate <= 0 {
		violations = append(violations, fmt.Sprintf("average heart rate must be positive, got %d", in.AvgHeartRate))
	} else if in.AvgHeartRate > cfg.AvgHRCeiling {
		violations = append(violations, fmt.Sprintf(
			"average heart rate must not exceed %d bpm, got %d", cfg.AvgHRCeiling, in.AvgHeartRate))
	}
	if in.PerceivedExertion < 1 || in.PerceivedExertion > 10 {
		violations = append(violations, fmt.Sprintf(
			"perceived exertion must be between 1 and 10, got %d", in.PerceivedExertion))
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	return &models.WorkoutSession{
		ID:                uuid.New(),
		UserID:            p.UserID,
		Date:              date,
		DurationMinutes:   in.DurationMinutes,
		Segments:          in.Segments,
		AvgHeartRate:      in.AvgHeartRate,
		PerceivedExertion: in.PerceivedExertion,
		CaloriesEstimated: EstimateCalories(cfg, in.DurationMinutes, in.AvgHeartRate, p.WeightKg),
		SessionType:       in.SessionType,
		Notes:             in.Notes,
		CreatedAt:         time.Now().UTC(),
	}, nil
}

// EstimateCalories applies the MET-like linear model
// minutes × avg bpm × kg × CalorieFactor. It is documented as an estimate,
// not a medical measurement; the factor is configuration, not truth.
func EstimateCalories(cfg Config, durationMinutes, avgHeartRate int, weightKg float64) int {
	kcal := float64(durationMinutes) * float64(avgHeartRate) * weightKg * cfg.CalorieFactor
	if kcal < 1 {
		return 1
	}
	return int(math.Round(kcal))
}
