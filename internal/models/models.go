package models

import (
	"time"

	"github.com/google/uuid"
)

// FitnessLevel is a self-reported training experience level.
type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
)

// Valid reports whether l is a known fitness level.
func (l FitnessLevel) Valid() bool {
	switch l {
	case FitnessBeginner, FitnessIntermediate, FitnessAdvanced:
		return true
	}
	return false
}

// HealthCondition is a condition that constrains exercise selection.
type HealthCondition string

const (
	ConditionNone         HealthCondition = "none"
	ConditionDiabetes     HealthCondition = "diabetes"
	ConditionHypertension HealthCondition = "hypertension"
	ConditionOther        HealthCondition = "other"
)

// Valid reports whether c is a known health condition.
func (c HealthCondition) Valid() bool {
	switch c {
	case ConditionNone, ConditionDiabetes, ConditionHypertension, ConditionOther:
		return true
	}
	return false
}

// ExerciseCategory classifies catalog entries and profile preferences.
type ExerciseCategory string

const (
	CategoryCardio      ExerciseCategory = "cardio"
	CategoryStrength    ExerciseCategory = "strength"
	CategoryFlexibility ExerciseCategory = "flexibility"
	CategoryRunning     ExerciseCategory = "running"
	CategoryCycling     ExerciseCategory = "cycling"
	CategorySwimming    ExerciseCategory = "swimming"
	CategoryYoga        ExerciseCategory = "yoga"
)

// Profile is a user's stored biometric profile. UserID is immutable once
// created; preferences and conditions may change over time.
type Profile struct {
	ID               uuid.UUID          `json:"id"`
	UserID           string             `json:"user_id"`
	Age              int                `json:"age"`
	WeightKg         float64            `json:"weight_kg"`
	HeightM          float64            `json:"height_m"`
	FitnessLevel     FitnessLevel       `json:"fitness_level"`
	HealthConditions []HealthCondition  `json:"health_conditions"`
	Preferences      []ExerciseCategory `json:"preferences"`
	RestingHR        *int               `json:"resting_heart_rate,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// BMI returns the body mass index (kg/m²), or 0 when height is missing.
func (p Profile) BMI() float64 {
	if p.HeightM <= 0 {
		return 0
	}
	return p.WeightKg / (p.HeightM * p.HeightM)
}

// HasCondition reports whether the profile lists the given condition.
func (p Profile) HasCondition(c HealthCondition) bool {
	for _, hc := range p.HealthConditions {
		if hc == c {
			return true
		}
	}
	return false
}

// Prefers reports whether the profile lists the given category as preferred.
func (p Profile) Prefers(cat ExerciseCategory) bool {
	for _, pc := range p.Preferences {
		if pc == cat {
			return true
		}
	}
	return false
}

// WorkoutSession is a validated, completed training session. Rows are never
// mutated after insertion; corrections are logged as new sessions.
type WorkoutSession struct {
	ID                uuid.UUID `json:"id"`
	UserID            string    `json:"user_id"`
	Date              time.Time `json:"date"`
	DurationMinutes   int       `json:"duration_minutes"`
	Segments          []string  `json:"segments,omitempty"`
	AvgHeartRate      int       `json:"avg_heart_rate"`
	PerceivedExertion int       `json:"perceived_exertion"`
	CaloriesEstimated int       `json:"calories_estimated"`
	SessionType       string    `json:"session_type,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// HeartRateReading is a single observed heart-rate history point.
type HeartRateReading struct {
	Time    time.Time `json:"time"`
	UserID  string    `json:"user_id"`
	BPM     int       `json:"bpm"`
	Context string    `json:"context,omitempty"`
}
