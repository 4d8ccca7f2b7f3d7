package coach

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/claude/pulsecoach/internal/models"
)

// Report is a windowed progress summary over a user's stored sessions. It is
// computed fresh on every request and never persisted.
type Report struct {
	UserID               string     `json:"user_id"`
	WindowStart          time.Time  `json:"window_start"`
	WindowEnd            time.Time  `json:"window_end"`
	TotalSessions        int        `json:"total_sessions"`
	TotalDurationMinutes int        `json:"total_duration_minutes"`
	AvgDurationMinutes   float64    `json:"avg_duration_minutes"`
	AvgHeartRate         float64    `json:"avg_heart_rate"`
	TotalCalories        int        `json:"total_calories"`
	LastSessionDate      *time.Time `json:"last_session_date,omitempty"`
	Insights             []string   `json:"insights,omitempty"`
}

// Aggregate computes windowed statistics over the given sessions, which the
// caller fetches from storage for the window ending at windowEnd. A zero
// windowDays falls back to the configured default. An empty session list
// yields a valid all-zero report, never an error.
func Aggregate(cfg Config, userID string, windowDays int, windowEnd time.Time, sessions []models.WorkoutSession) *Report {
	if windowDays <= 0 {
		windowDays = cfg.AnalyticsWindowDays
	}
	if windowEnd.IsZero() {
		windowEnd = time.Now().UTC()
	}

	report := &Report{
		UserID:      userID,
		WindowStart: windowEnd.AddDate(0, 0, -windowDays),
		WindowEnd:   windowEnd,
	}
	if len(sessions) == 0 {
		return report
	}

	ordered := make([]models.WorkoutSession, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	var totalHR int
	for _, s := range ordered {
		report.TotalSessions++
		report.TotalDurationMinutes += s.DurationMinutes
		report.TotalCalories += s.CaloriesEstimated
		totalHR += s.AvgHeartRate
	}
	n := float64(report.TotalSessions)
	report.AvgDurationMinutes = round1(float64(report.TotalDurationMinutes) / n)
	report.AvgHeartRate = round1(float64(totalHR) / n)
	last := ordered[len(ordered)-1].Date
	report.LastSessionDate = &last

	report.Insights = generateInsights(cfg, windowDays, ordered)
	return report
}

// generateInsights evaluates the insight rules in a fixed order so output is
// deterministic. Each rule is independent of the others.
func generateInsights(cfg Config, windowDays int, ordered []models.WorkoutSession) []string {
	var insights []string

	// Rule 1: consistency.
	if len(ordered) >= cfg.ConsistencyThreshold {
		insights = append(insights, fmt.Sprintf(
			"Consistent training: %d sessions in the last %d days", len(ordered), windowDays))
	}

	// Trend rules compare the first and second half of the window.
	if len(ordered) >= 4 {
		first, second := splitHalves(ordered)
		firstHR, firstDur := averages(first)
		secondHR, secondDur := averages(second)

		// Rule 2: cardiovascular improvement — average HR drops while
		// duration holds steady.
		durationSteady := firstDur > 0 && secondDur >= firstDur*0.9 && secondDur <= firstDur*1.1
		if secondHR < firstHR*0.98 && durationSteady {
			insights = append(insights,
				"Average heart rate is trending down at steady duration - cardiovascular fitness is improving")
		}

		// Rule 3: duration trend.
		if secondDur > firstDur*1.1 {
			insights = append(insights, "Session duration is trending up")
		} else if secondDur < firstDur*0.9 {
			insights = append(insights, "Session duration is trending down")
		}
	}

	// Rule 4: sustained high perceived effort.
	var totalRPE int
	for _, s := range ordered {
		totalRPE += s.PerceivedExertion
	}
	if float64(totalRPE)/float64(len(ordered)) >= 8 {
		insights = append(insights, "Sustained high perceived effort - schedule recovery days")
	}

	return insights
}

func splitHalves(ordered []models.WorkoutSession) (first, second []models.WorkoutSession) {
	mid := len(ordered) / 2
	return ordered[:mid], ordered[mid:]
}

func averages(sessions []models.WorkoutSession) (avgHR, avgDuration float64) {
	if len(sessions) == 0 {
		return 0, 0
	}
	var hr, dur int
	for _, s := range sessions {
		hr += s.AvgHeartRate
		dur += s.DurationMinutes
	}
	n := float64(len(sessions))
	return float64(hr) / n, float64(dur) / n
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
