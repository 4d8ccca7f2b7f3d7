package coach

import "github.com/claude/pulsecoach/internal/models"

// Intensity tags a catalog entry's effort level.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// Candidate is a static catalog entry eligible for scoring against the
// current zone and profile. Candidates are reference data, not user-owned.
type Candidate struct {
	Name              string                   `json:"name"`
	Category          models.ExerciseCategory  `json:"category"`
	ZoneMin           int                      `json:"zone_min"`
	ZoneMax           int                      `json:"zone_max"`
	Intensity         Intensity                `json:"intensity"`
	Contraindications []models.HealthCondition `json:"contraindications,omitempty"`
}

// contraindicatedFor reports whether any of the profile's conditions appear
// in the candidate's contraindication tags.
func (c Candidate) contraindicatedFor(p models.Profile) bool {
	for _, tag := range c.Contraindications {
		if p.HasCondition(tag) {
			return true
		}
	}
	return false
}

// DefaultCatalog returns the built-in exercise catalog. Order matters: it is
// the stable tie-break for equal recommendation scores.
func DefaultCatalog() []Candidate {
	return []Candidate{
		{Name: "Light walk", Category: models.CategoryCardio, ZoneMin: 1, ZoneMax: 2, Intensity: IntensityLow},
		{Name: "Brisk walk", Category: models.CategoryCardio, ZoneMin: 2, ZoneMax: 3, Intensity: IntensityLow},
		{Name: "Easy jog", Category: models.CategoryRunning, ZoneMin: 2, ZoneMax: 3, Intensity: IntensityModerate},
		{Name: "Tempo run", Category: models.CategoryRunning, ZoneMin: 3, ZoneMax: 4, Intensity: IntensityHigh,
			Contraindications: []models.HealthCondition{models.ConditionHypertension}},
		{Name: "Interval sprints", Category: models.CategoryRunning, ZoneMin: 4, ZoneMax: 5, Intensity: IntensityHigh,
			Contraindications: []models.HealthCondition{models.ConditionHypertension, models.ConditionDiabetes}},
		{Name: "Leisure cycling", Category: models.CategoryCycling, ZoneMin: 1, ZoneMax: 2, Intensity: IntensityLow},
		{Name: "Moderate cycling", Category: models.CategoryCycling, ZoneMin: 2, ZoneMax: 3, Intensity: IntensityModerate},
		{Name: "Spinning", Category: models.CategoryCycling, ZoneMin: 3, ZoneMax: 5, Intensity: IntensityHigh,
			Contraindications: []models.HealthCondition{models.ConditionHypertension}},
		{Name: "Easy swim", Category: models.CategorySwimming, ZoneMin: 1, ZoneMax: 2, Intensity: IntensityLow},
		{Name: "Continuous swim", Category: models.CategorySwimming, ZoneMin: 2, ZoneMax: 3, Intensity: IntensityModerate},
		{Name: "Bodyweight squats", Category: models.CategoryStrength, ZoneMin: 2, ZoneMax: 3, Intensity: IntensityModerate},
		{Name: "Push-ups", Category: models.CategoryStrength, ZoneMin: 2, ZoneMax: 3, Intensity: IntensityModerate},
		{Name: "Plank hold", Category: models.CategoryStrength, ZoneMin: 1, ZoneMax: 2, Intensity: IntensityLow,
			Contraindications: []models.HealthCondition{models.ConditionHypertension}},
		{Name: "Yoga flow", Category: models.CategoryYoga, ZoneMin: 1, ZoneMax: 2, Intensity: IntensityLow},
		{Name: "Stretching routine", Category: models.CategoryFlexibility, ZoneMin: 1, ZoneMax: 1, Intensity: IntensityLow},
		{Name: "HIIT circuit", Category: models.CategoryCardio, ZoneMin: 4, ZoneMax: 5, Intensity: IntensityHigh,
			Contraindications: []models.HealthCondition{models.ConditionHypertension, models.ConditionDiabetes}},
	}
}
