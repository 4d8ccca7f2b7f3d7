package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/pulsecoach/internal/coach"
	"github.com/claude/pulsecoach/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeDS is an in-memory DataSource for handler tests.
type fakeDS struct {
	profiles map[string]models.Profile
	sessions []models.WorkoutSession
	readings []models.HeartRateReading
}

func newFakeDS() *fakeDS {
	return &fakeDS{profiles: make(map[string]models.Profile)}
}

func (f *fakeDS) InsertProfile(_ context.Context, p models.Profile) (bool, error) {
	if _, ok := f.profiles[p.UserID]; ok {
		return false, nil
	}
	f.profiles[p.UserID] = p
	return true, nil
}

func (f *fakeDS) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile not found")
	}
	return &p, nil
}

func (f *fakeDS) UpdateProfile(_ context.Context, p models.Profile) error {
	if _, ok := f.profiles[p.UserID]; !ok {
		return fmt.Errorf("profile not found")
	}
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeDS) InsertSession(_ context.Context, s models.WorkoutSession) (bool, error) {
	f.sessions = append(f.sessions, s)
	return true, nil
}

func (f *fakeDS) QuerySessions(_ context.Context, userID string, start, end time.Time) ([]models.WorkoutSession, error) {
	var out []models.WorkoutSession
	for _, s := range f.sessions {
		if s.UserID == userID && !s.Date.Before(start) && s.Date.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeDS) LatestReading(_ context.Context, userID string) (*models.HeartRateReading, error) {
	for i := len(f.readings) - 1; i >= 0; i-- {
		if f.readings[i].UserID == userID {
			return &f.readings[i], nil
		}
	}
	return nil, fmt.Errorf("no readings")
}

var _ DataSource = (*fakeDS)(nil)

func testHandlers(ds DataSource) *handlers {
	return &handlers{
		ds:      ds,
		cfg:     coach.DefaultConfig(),
		catalog: coach.DefaultCatalog(),
		log:     slog.Default(),
	}
}

func toolReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// TestUserIDFromContextDefault verifies the empty default when no value is
// set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	if id := UserIDFromContext(context.Background()); id != "" {
		t.Errorf("UserIDFromContext(empty) = %q, want empty", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), "athlete-1")
	if id := UserIDFromContext(ctx); id != "athlete-1" {
		t.Errorf("UserIDFromContext = %q, want athlete-1", id)
	}
}

// TestCreateAndGetProfile verifies the create/get roundtrip through the
// tool handlers, including duplicate rejection.
func TestCreateAndGetProfile(t *testing.T) {
	ds := newFakeDS()
	h := testHandlers(ds)
	ctx := context.Background()

	create := toolReq(map[string]any{
		"user_id":       "athlete-1",
		"age":           float64(28),
		"weight_kg":     70.0,
		"height_m":      1.75,
		"fitness_level": "intermediate",
	})

	res, err := h.createProfile(ctx, create)
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if res.IsError {
		t.Fatalf("create_profile returned tool error: %+v", res.Content)
	}
	if _, ok := ds.profiles["athlete-1"]; !ok {
		t.Fatal("profile was not stored")
	}

	// Duplicate create is a tool error, not a protocol error.
	res, err = h.createProfile(ctx, create)
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("duplicate create_profile should return a tool error")
	}

	res, err = h.getProfile(ctx, toolReq(map[string]any{"user_id": "athlete-1"}))
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if res.IsError {
		t.Errorf("get_profile returned tool error: %+v", res.Content)
	}
}

// TestCreateProfileRejectsBadInput verifies out-of-range fields come back as
// tool errors.
func TestCreateProfileRejectsBadInput(t *testing.T) {
	h := testHandlers(newFakeDS())

	res, err := h.createProfile(context.Background(), toolReq(map[string]any{
		"user_id":       "athlete-1",
		"age":           float64(9),
		"weight_kg":     70.0,
		"height_m":      1.75,
		"fitness_level": "intermediate",
	}))
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("create_profile with age 9 should return a tool error")
	}
}

// TestCalculateZonesExplicitAge verifies the zones tool works without any
// stored profile when an age is supplied.
func TestCalculateZonesExplicitAge(t *testing.T) {
	h := testHandlers(newFakeDS())

	res, err := h.calculateZones(context.Background(), toolReq(map[string]any{
		"age": float64(28),
	}))
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if res.IsError {
		t.Errorf("calculate_heart_rate_zones returned tool error: %+v", res.Content)
	}
}

// TestCheckSafetyLatestReadingFallback verifies the safety tool uses the
// latest stored reading when no heart rate is supplied.
func TestCheckSafetyLatestReadingFallback(t *testing.T) {
	ds := newFakeDS()
	ds.profiles["athlete-1"] = models.Profile{
		UserID: "athlete-1", Age: 30, WeightKg: 70, HeightM: 1.75,
		FitnessLevel: models.FitnessIntermediate,
	}
	ds.readings = []models.HeartRateReading{
		{Time: time.Now().Add(-time.Hour), UserID: "athlete-1", BPM: 120},
		{Time: time.Now(), UserID: "athlete-1", BPM: 145},
	}
	h := testHandlers(ds)

	res, err := h.checkSafety(context.Background(), toolReq(map[string]any{
		"user_id": "athlete-1",
	}))
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if res.IsError {
		t.Errorf("check_heart_rate_safety returned tool error: %+v", res.Content)
	}
}

// TestRecommendExercisesViaTool verifies the recommendation tool end to end
// against the built-in catalog.
func TestRecommendExercisesViaTool(t *testing.T) {
	ds := newFakeDS()
	ds.profiles["athlete-1"] = models.Profile{
		UserID: "athlete-1", Age: 28, WeightKg: 70, HeightM: 1.75,
		FitnessLevel: models.FitnessIntermediate,
	}
	h := testHandlers(ds)

	res, err := h.recommendExercises(context.Background(), toolReq(map[string]any{
		"user_id":            "athlete-1",
		"current_heart_rate": float64(140),
	}))
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if res.IsError {
		t.Errorf("recommend_exercises returned tool error: %+v", res.Content)
	}
}

// TestLogSessionViaTool verifies session validation and storage through the
// tool handler, including the all-violations error path.
func TestLogSessionViaTool(t *testing.T) {
	ds := newFakeDS()
	ds.profiles["athlete-1"] = models.Profile{
		UserID: "athlete-1", Age: 28, WeightKg: 70, HeightM: 1.75,
		FitnessLevel: models.FitnessIntermediate,
	}
	h := testHandlers(ds)
	ctx := context.Background()

	res, err := h.logSession(ctx, toolReq(map[string]any{
		"user_id":            "athlete-1",
		"duration_minutes":   float64(30),
		"avg_heart_rate":     float64(140),
		"perceived_exertion": float64(6),
	}))
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if res.IsError {
		t.Fatalf("log_workout_session returned tool error: %+v", res.Content)
	}
	if len(ds.sessions) != 1 {
		t.Fatalf("stored %d sessions, want 1", len(ds.sessions))
	}

	res, err = h.logSession(ctx, toolReq(map[string]any{
		"user_id":            "athlete-1",
		"duration_minutes":   float64(0),
		"avg_heart_rate":     float64(-1),
		"perceived_exertion": float64(11),
	}))
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("invalid session should return a tool error")
	}
	if len(ds.sessions) != 1 {
		t.Error("invalid session must not be stored")
	}
}

// TestParseFlexTime verifies both accepted date formats.
func TestParseFlexTime(t *testing.T) {
	if _, err := parseFlexTime("2026-03-14"); err != nil {
		t.Errorf("date-only format rejected: %v", err)
	}
	if _, err := parseFlexTime("2026-03-14T07:30:00Z"); err != nil {
		t.Errorf("RFC3339 format rejected: %v", err)
	}
	if _, err := parseFlexTime("not-a-date"); err == nil {
		t.Error("expected error for invalid date")
	}
}
