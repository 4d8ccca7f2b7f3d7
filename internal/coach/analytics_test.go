package coach

import (
	"strings"
	"testing"
	"time"

	"github.com/claude/pulsecoach/internal/models"
)

func sessionOn(day int, minutes, avgHR, rpe int) models.WorkoutSession {
	return models.WorkoutSession{
		UserID:            "athlete-1",
		Date:              time.Date(2026, 3, day, 8, 0, 0, 0, time.UTC),
		DurationMinutes:   minutes,
		AvgHeartRate:      avgHR,
		PerceivedExertion: rpe,
		CaloriesEstimated: 200,
	}
}

// TestAggregateEmpty verifies an empty window yields a valid all-zero report,
// not an error or nil.
func TestAggregateEmpty(t *testing.T) {
	cfg := DefaultConfig()
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	report := Aggregate(cfg, "athlete-1", 0, end, nil)
	if report == nil {
		t.Fatal("Aggregate returned nil for empty input")
	}
	if report.TotalSessions != 0 || report.TotalDurationMinutes != 0 || report.TotalCalories != 0 {
		t.Errorf("zero report has nonzero totals: %+v", report)
	}
	if report.LastSessionDate != nil {
		t.Errorf("LastSessionDate = %v, want nil", report.LastSessionDate)
	}
	if len(report.Insights) != 0 {
		t.Errorf("Insights = %v, want none", report.Insights)
	}
	if !report.WindowStart.Equal(end.AddDate(0, 0, -cfg.AnalyticsWindowDays)) {
		t.Errorf("WindowStart = %v, want default %d-day window", report.WindowStart, cfg.AnalyticsWindowDays)
	}
}

// TestAggregateTotals verifies the summed and averaged statistics and the
// last-session date over an unsorted input slice.
func TestAggregateTotals(t *testing.T) {
	cfg := DefaultConfig()
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	sessions := []models.WorkoutSession{
		sessionOn(20, 40, 150, 6),
		sessionOn(5, 30, 140, 5), // out of order on purpose
		sessionOn(12, 20, 130, 4),
	}

	report := Aggregate(cfg, "athlete-1", 30, end, sessions)
	if report.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d, want 3", report.TotalSessions)
	}
	if report.TotalDurationMinutes != 90 {
		t.Errorf("TotalDurationMinutes = %d, want 90", report.TotalDurationMinutes)
	}
	if report.AvgDurationMinutes != 30 {
		t.Errorf("AvgDurationMinutes = %.1f, want 30", report.AvgDurationMinutes)
	}
	if report.AvgHeartRate != 140 {
		t.Errorf("AvgHeartRate = %.1f, want 140", report.AvgHeartRate)
	}
	if report.TotalCalories != 600 {
		t.Errorf("TotalCalories = %d, want 600", report.TotalCalories)
	}
	if report.LastSessionDate == nil || report.LastSessionDate.Day() != 20 {
		t.Errorf("LastSessionDate = %v, want the March 20 session", report.LastSessionDate)
	}
}

// TestAggregateInsights verifies each insight rule fires on its trigger and
// that the insight order is fixed regardless of input order.
func TestAggregateInsights(t *testing.T) {
	cfg := DefaultConfig()
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		sessions []models.WorkoutSession
		want     []string // substrings, in expected order
	}{
		{
			name: "too few sessions for any insight",
			sessions: []models.WorkoutSession{
				sessionOn(5, 30, 140, 5),
				sessionOn(12, 30, 140, 5),
			},
			want: nil,
		},
		{
			name: "cardio improvement at steady duration",
			sessions: []models.WorkoutSession{
				sessionOn(3, 30, 150, 5),
				sessionOn(8, 30, 150, 5),
				sessionOn(15, 30, 140, 5),
				sessionOn(22, 30, 140, 5),
			},
			want: []string{"cardiovascular fitness is improving"},
		},
		{
			name: "duration trending up",
			sessions: []models.WorkoutSession{
				sessionOn(3, 20, 140, 5),
				sessionOn(8, 20, 140, 5),
				sessionOn(15, 35, 142, 5),
				sessionOn(22, 35, 142, 5),
			},
			want: []string{"duration is trending up"},
		},
		{
			name: "duration trending down",
			sessions: []models.WorkoutSession{
				sessionOn(3, 40, 140, 5),
				sessionOn(8, 40, 140, 5),
				sessionOn(15, 20, 140, 5),
				sessionOn(22, 20, 140, 5),
			},
			want: []string{"duration is trending down"},
		},
		{
			name: "sustained high effort",
			sessions: []models.WorkoutSession{
				sessionOn(3, 30, 160, 9),
				sessionOn(8, 30, 160, 8),
				sessionOn(15, 30, 160, 9),
			},
			want: []string{"recovery days"},
		},
		{
			name: "consistency then improvement then effort, fixed order",
			sessions: []models.WorkoutSession{
				sessionOn(2, 30, 155, 9),
				sessionOn(5, 30, 155, 8),
				sessionOn(8, 30, 152, 9),
				sessionOn(11, 30, 150, 8),
				sessionOn(14, 30, 145, 9),
				sessionOn(17, 30, 142, 8),
				sessionOn(20, 30, 140, 9),
				sessionOn(23, 30, 138, 8),
			},
			want: []string{"Consistent training", "cardiovascular fitness", "recovery days"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Aggregate(cfg, "athlete-1", 30, end, tt.sessions)
			if len(report.Insights) != len(tt.want) {
				t.Fatalf("got %d insights %v, want %d", len(report.Insights), report.Insights, len(tt.want))
			}
			for i, want := range tt.want {
				if !strings.Contains(report.Insights[i], want) {
					t.Errorf("insight[%d] = %q, missing %q", i, report.Insights[i], want)
				}
			}
		})
	}
}

// TestAggregateInputOrderIrrelevant verifies shuffled input produces the
// same report as sorted input.
func TestAggregateInputOrderIrrelevant(t *testing.T) {
	cfg := DefaultConfig()
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	sorted := []models.WorkoutSession{
		sessionOn(3, 30, 150, 5),
		sessionOn(8, 30, 150, 5),
		sessionOn(15, 30, 140, 5),
		sessionOn(22, 30, 140, 5),
	}
	shuffled := []models.WorkoutSession{sorted[2], sorted[0], sorted[3], sorted[1]}

	a := Aggregate(cfg, "athlete-1", 30, end, sorted)
	b := Aggregate(cfg, "athlete-1", 30, end, shuffled)
	if len(a.Insights) != len(b.Insights) {
		t.Fatalf("insight counts differ: %v vs %v", a.Insights, b.Insights)
	}
	for i := range a.Insights {
		if a.Insights[i] != b.Insights[i] {
			t.Errorf("insight[%d] differs: %q vs %q", i, a.Insights[i], b.Insights[i])
		}
	}
}
