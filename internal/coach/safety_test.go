package coach

import (
	"strings"
	"testing"

	"github.com/claude/pulsecoach/internal/models"
)

func testProfile(age int, conditions ...models.HealthCondition) models.Profile {
	return models.Profile{
		UserID:           "athlete-1",
		Age:              age,
		WeightKg:         70,
		HeightM:          1.75,
		FitnessLevel:     models.FitnessIntermediate,
		HealthConditions: conditions,
	}
}

func evaluateAt(t *testing.T, cfg Config, p models.Profile, hr int) SafetyResult {
	t.Helper()
	zs, err := CalculateZones(cfg, p.Age, 0)
	if err != nil {
		t.Fatalf("CalculateZones: %v", err)
	}
	zone, _ := zs.CurrentZone(hr)
	return EvaluateSafety(cfg, p, hr, zone)
}

// TestEvaluateSafetyRules verifies each rule fires on its own condition and
// that matching rules union their notes.
func TestEvaluateSafetyRules(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name       string
		profile    models.Profile
		hr         int
		wantNotes  []string // substrings that must appear, in order
		wantBlocks bool
	}{
		{
			name:      "healthy young profile in range",
			profile:   testProfile(30),
			hr:        140,
			wantNotes: nil,
		},
		{
			name:      "high heart rate",
			profile:   testProfile(30),
			hr:        185,
			wantNotes: []string{"reduce intensity"},
		},
		{
			name:      "senior",
			profile:   testProfile(68),
			hr:        120,
			wantNotes: []string{"warm-up"},
		},
		{
			name:      "diabetes",
			profile:   testProfile(40, models.ConditionDiabetes),
			hr:        130,
			wantNotes: []string{"blood glucose"},
		},
		{
			name:      "hypertension",
			profile:   testProfile(40, models.ConditionHypertension),
			hr:        130,
			wantNotes: []string{"isometric"},
		},
		{
			name:      "unspecified condition",
			profile:   testProfile(40, models.ConditionOther),
			hr:        130,
			wantNotes: []string{"consult a professional"},
		},
		{
			name:      "senior hypertensive above threshold",
			profile:   testProfile(70, models.ConditionHypertension),
			hr:        185,
			wantNotes: []string{"reduce intensity", "warm-up", "isometric"},
		},
		{
			name:       "hard stop past margin",
			profile:    testProfile(30),
			hr:         cfg.MaxHRWarning + cfg.HardStopMargin + 1,
			wantNotes:  []string{"reduce intensity"},
			wantBlocks: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := evaluateAt(t, cfg, tt.profile, tt.hr)
			if res.BlocksRecommendation != tt.wantBlocks {
				t.Errorf("BlocksRecommendation = %v, want %v", res.BlocksRecommendation, tt.wantBlocks)
			}
			if len(tt.wantNotes) == 0 && len(res.Notes) != 0 {
				t.Fatalf("expected no notes, got %v", res.Notes)
			}
			idx := 0
			for _, want := range tt.wantNotes {
				found := false
				for ; idx < len(res.Notes); idx++ {
					if strings.Contains(res.Notes[idx], want) {
						found = true
						idx++
						break
					}
				}
				if !found {
					t.Errorf("notes %v missing %q (in order)", res.Notes, want)
				}
			}
		})
	}
}

// TestEvaluateSafetyMonotonic verifies that raising the heart rate never
// removes a note that was present at a lower reading.
func TestEvaluateSafetyMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	p := testProfile(70, models.ConditionHypertension, models.ConditionDiabetes)

	var prev []string
	for _, hr := range []int{120, 150, 181, 196, 220} {
		res := evaluateAt(t, cfg, p, hr)
		for _, note := range prev {
			found := false
			for _, n := range res.Notes {
				if n == note {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("hr=%d dropped note %q present at lower heart rate", hr, note)
			}
		}
		prev = res.Notes
	}
}

// TestEvaluateSafetyAboveMax verifies the over-threshold flag and note when
// the reading exceeds the estimated maximum.
func TestEvaluateSafetyAboveMax(t *testing.T) {
	cfg := DefaultConfig()
	p := testProfile(30) // max HR 190
	res := evaluateAt(t, cfg, p, 200)
	if !res.AboveEstimatedMax {
		t.Error("AboveEstimatedMax = false, want true")
	}
	if !res.BlocksRecommendation {
		t.Error("BlocksRecommendation = false, want true for 200 bpm")
	}
}
