package coach

import (
	"fmt"

	"github.com/claude/pulsecoach/internal/models"
)

// ValidateProfile checks a profile's fields against the configured bounds.
// Like session validation, every violation is reported at once.
func ValidateProfile(cfg Config, p models.Profile) error {
	var violations []string

	if p.UserID == "" {
		violations = append(violations, "user_id is required")
	}
	if p.Age < cfg.MinAge || p.Age > cfg.MaxAge {
		violations = append(violations, fmt.Sprintf(
			"age must be between %d and %d, got %d", cfg.MinAge, cfg.MaxAge, p.Age))
	}
	if p.WeightKg <= 0 {
		violations = append(violations, "weight_kg must be positive")
	}
	if p.HeightM <= 0 {
		violations = append(violations, "height_m must be positive")
	}
	if !p.FitnessLevel.Valid() {
		violations = append(violations, fmt.Sprintf("unknown fitness level %q", p.FitnessLevel))
	}
	for _, c := range p.HealthConditions {
		if !c.Valid() {
			violations = append(violations, fmt.Sprintf("unknown health condition %q", c))
		}
	}
	if p.RestingHR != nil && (*p.RestingHR < minRestingHR || *p.RestingHR > maxRestingHR) {
		violations = append(violations, fmt.Sprintf(
			"resting heart rate must be between %d and %d, got %d",
			minRestingHR, maxRestingHR, *p.RestingHR))
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
