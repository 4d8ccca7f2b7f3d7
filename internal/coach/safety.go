package coach

import (
	"fmt"

	"github.com/claude/pulsecoach/internal/models"
)

// SafetyResult is the outcome of evaluating the safety rule table for one
// reading. Notes accumulate monotonically as heart rate rises: no rule's note
// disappears when another rule starts matching.
type SafetyResult struct {
	Notes []string `json:"notes"`
	// BlocksRecommendation is set only when the heart rate exceeds the
	// warning threshold by the configured hard-stop margin. The
	// recommendation engine then substitutes stop-and-recover advice.
	BlocksRecommendation bool `json:"blocks_recommendation"`
	// AboveEstimatedMax flags readings past 100% of estimated max HR.
	AboveEstimatedMax bool `json:"above_estimated_max"`
}

// safetyRule is one row of the rule table: an independently evaluable
// predicate and the note it contributes. Rules are order-independent in
// effect (notes are unioned, never short-circuited); the table order only
// fixes the output order for deterministic tests.
type safetyRule struct {
	name    string
	applies func(cfg Config, p models.Profile, currentHR int) bool
	note    func(cfg Config) string
}

var safetyRules = []safetyRule{
	{
		name: "high_heart_rate",
		applies: func(cfg Config, _ models.Profile, hr int) bool {
			return hr > cfg.MaxHRWarning
		},
		note: func(cfg Config) string {
			return fmt.Sprintf("Heart rate above %d bpm - reduce intensity immediately", cfg.MaxHRWarning)
		},
	},
	{
		name: "senior_warm_up",
		applies: func(_ Config, p models.Profile, _ int) bool {
			return p.Age >= 65
		},
		note: func(Config) string {
			return "Extend warm-up and stretching before and after the session"
		},
	},
	{
		name: "diabetes_glycemia",
		applies: func(_ Config, p models.Profile, _ int) bool {
			return p.HasCondition(models.ConditionDiabetes)
		},
		note: func(Config) string {
			return "Monitor blood glucose before and after exercising"
		},
	},
	{
		name: "hypertension_isometrics",
		applies: func(_ Config, p models.Profile, _ int) bool {
			return p.HasCondition(models.ConditionHypertension)
		},
		note: func(Config) string {
			return "Avoid prolonged isometric holds and breath-holding"
		},
	},
	{
		name: "unspecified_condition",
		applies: func(_ Config, p models.Profile, _ int) bool {
			return p.HasCondition(models.ConditionOther)
		},
		note: func(Config) string {
			return "Unspecified health condition on file - consult a professional before high-intensity work"
		},
	},
}

// EvaluateSafety runs the full rule table against a profile, the current
// heart rate, and the zone it falls in. Age-bounds checking is a
// profile-creation concern and is not re-evaluated here.
func EvaluateSafety(cfg Config, p models.Profile, currentHR int, zone Zone) SafetyResult {
	res := SafetyResult{
		BlocksRecommendation: currentHR > cfg.MaxHRWarning+cfg.HardStopMargin,
	}
	for _, rule := range safetyRules {
		if rule.applies(cfg, p, currentHR) {
			res.Notes = appendUnique(res.Notes, rule.note(cfg))
		}
	}
	if zone.Number == 5 && zone.MaxBPM < currentHR {
		res.AboveEstimatedMax = true
		res.Notes = appendUnique(res.Notes, "Heart rate above estimated maximum - stop and let it come down")
	}
	return res
}

func appendUnique(notes []string, note string) []string {
	for _, n := range notes {
		if n == note {
			return notes
		}
	}
	return append(notes, note)
}
