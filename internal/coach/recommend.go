package coach

import (
	"sort"

	"github.com/claude/pulsecoach/internal/models"
)

// Recommendation is a ranked exercise suggestion with the safety notes that
// applied at evaluation time and a duration bounded by the session limits.
type Recommendation struct {
	Exercise        Candidate `json:"exercise"`
	Zone            int       `json:"zone"`
	Score           int       `json:"score"`
	SafetyNotes     []string  `json:"safety_notes,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
}

// Scoring weights. Exact zone match dominates; adjacent zones stay eligible
// but rank below every exact match even with both bonuses applied.
const (
	scoreZoneExact    = 4
	scoreZoneAdjacent = 1
	scorePreference   = 2
	scoreFitnessFit   = 1
)

// Recommend selects and ranks catalog exercises for the profile's current
// heart rate. Out-of-range requested durations are clamped, not rejected.
// Identical inputs (including catalog order) yield identical ordered output.
func Recommend(cfg Config, p models.Profile, currentHR, requestedMinutes int, catalog []Candidate) ([]Recommendation, error) {
	restingHR := 0
	if p.RestingHR != nil {
		restingHR = *p.RestingHR
	}
	zones, err := CalculateZones(cfg, p.Age, restingHR)
	if err != nil {
		return nil, err
	}
	zone, _ := zones.CurrentZone(currentHR)
	safety := EvaluateSafety(cfg, p, currentHR, zone)
	duration := clampDuration(cfg, requestedMinutes)

	if safety.BlocksRecommendation {
		return []Recommendation{{
			Exercise: Candidate{
				Name:      "Stop and recover",
				Category:  models.CategoryFlexibility,
				ZoneMin:   1,
				ZoneMax:   1,
				Intensity: IntensityLow,
			},
			Zone:            zone.Number,
			SafetyNotes:     safety.Notes,
			DurationMinutes: cfg.MinSessionMinutes,
		}}, nil
	}

	var recs []Recommendation
	filtered := 0
	for _, c := range catalog {
		if c.contraindicatedFor(p) {
			continue
		}
		filtered++
		base := zoneScore(zone.Number, c)
		if base == 0 {
			continue
		}
		score := base
		if p.Prefers(c.Category) {
			score += scorePreference
		}
		if fitnessFits(p.FitnessLevel, c.Intensity) {
			score += scoreFitnessFit
		}
		recs = append(recs, Recommendation{
			Exercise:        c,
			Zone:            zone.Number,
			Score:           score,
			SafetyNotes:     safety.Notes,
			DurationMinutes: duration,
		})
	}
	if filtered == 0 {
		return nil, &NoCandidatesError{Conditions: len(p.HealthConditions)}
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > cfg.MaxRecommendations {
		recs = recs[:cfg.MaxRecommendations]
	}
	return recs, nil
}

// zoneScore returns the base score for a candidate against the current zone:
// highest for an exact range match, lower for an adjacent zone, zero (exclude)
// otherwise.
func zoneScore(zone int, c Candidate) int {
	if zone >= c.ZoneMin && zone <= c.ZoneMax {
		return scoreZoneExact
	}
	if zone == c.ZoneMin-1 || zone == c.ZoneMax+1 {
		return scoreZoneAdjacent
	}
	return 0
}

// fitnessFits pairs each level with the intensity it tolerates best:
// beginners favor low-intensity work, advanced athletes high.
func fitnessFits(level models.FitnessLevel, intensity Intensity) bool {
	switch level {
	case models.FitnessBeginner:
		return intensity == IntensityLow
	case models.FitnessIntermediate:
		return intensity == IntensityModerate
	case models.FitnessAdvanced:
		return intensity == IntensityHigh
	}
	return false
}

func clampDuration(cfg Config, minutes int) int {
	if minutes == 0 {
		return cfg.DefaultSessionMinutes
	}
	if minutes < cfg.MinSessionMinutes {
		return cfg.MinSessionMinutes
	}
	if minutes > cfg.MaxSessionMinutes {
		return cfg.MaxSessionMinutes
	}
	return minutes
}
