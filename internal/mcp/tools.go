package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/pulsecoach/internal/coach"
	"github.com/claude/pulsecoach/internal/models"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// requireUser resolves the target user from the explicit argument or the
// transport-injected context identity.
func requireUser(ctx context.Context, req mcp.CallToolRequest) (string, bool) {
	uid := req.GetString("user_id", UserIDFromContext(ctx))
	return uid, uid != ""
}

// coachError formats engine errors for the MCP client. Input and validation
// problems come back as tool errors, never protocol errors.
func coachError(err error) *mcp.CallToolResult {
	var inputErr *coach.InvalidInputError
	if errors.As(err, &inputErr) {
		return mcp.NewToolResultError("invalid input: " + inputErr.Error())
	}
	var valErr *coach.ValidationError
	if errors.As(err, &valErr) {
		return mcp.NewToolResultError("validation failed: " + valErr.Error())
	}
	var noCand *coach.NoCandidatesError
	if errors.As(err, &noCand) {
		return mcp.NewToolResultError(noCand.Error())
	}
	return mcp.NewToolResultError("query failed: " + err.Error())
}

// --- Tool definitions ---

var toolCreateProfile = mcp.NewTool("create_profile",
	mcp.WithDescription("Create a fitness profile for a user. Required before logging sessions or requesting recommendations."),
	mcp.WithString("user_id", mcp.Description("User identifier. Defaults to the authenticated user.")),
	mcp.WithNumber("age", mcp.Required(), mcp.Description("Age in years (13-120)")),
	mcp.WithNumber("weight_kg", mcp.Required(), mcp.Description("Body weight in kilograms")),
	mcp.WithNumber("height_m", mcp.Required(), mcp.Description("Height in meters")),
	mcp.WithString("fitness_level", mcp.Required(), mcp.Description("Training experience"), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithArray("health_conditions", mcp.Description("Conditions constraining exercise selection"), mcp.Items(map[string]any{"type": "string", "enum": []string{"none", "diabetes", "hypertension", "other"}})),
	mcp.WithArray("preferences", mcp.Description("Preferred exercise categories"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithNumber("resting_heart_rate", mcp.Description("Resting heart rate in bpm (30-120). Enables Karvonen zone calculation.")),
)

var toolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription("Retrieve a user's fitness profile, including computed BMI."),
	mcp.WithString("user_id", mcp.Description("User identifier. Defaults to the authenticated user.")),
)

var toolUpdateProfile = mcp.NewTool("update_profile",
	mcp.WithDescription("Update fields of an existing profile. Omitted fields keep their current values."),
	mcp.WithString("user_id", mcp.Description("User identifier. Defaults to the authenticated user.")),
	mcp.WithNumber("age", mcp.Description("Age in years (13-120)")),
	mcp.WithNumber("weight_kg", mcp.Description("Body weight in kilograms")),
	mcp.WithNumber("height_m", mcp.Description("Height in meters")),
	mcp.WithString("fitness_level", mcp.Description("Training experience"), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithArray("health_conditions", mcp.Description("Replaces the stored condition list"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("preferences", mcp.Description("Replaces the stored preference list"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithNumber("resting_heart_rate", mcp.Description("Resting heart rate in bpm (30-120)")),
)

var toolCalculateZones = mcp.NewTool("calculate_heart_rate_zones",
	mcp.WithDescription("Calculate the five heart-rate training zones. Uses the stored profile unless an explicit age is given. With a resting heart rate the Karvonen reserve method is used."),
	mcp.WithString("user_id", mcp.Description("User whose profile supplies age and resting HR. Ignored when age is given.")),
	mcp.WithNumber("age", mcp.Description("Age in years (13-120). Overrides the profile.")),
	mcp.WithNumber("resting_heart_rate", mcp.Description("Resting heart rate in bpm. Overrides the profile.")),
)

var toolCheckSafety = mcp.NewTool("check_heart_rate_safety",
	mcp.WithDescription("Evaluate a heart-rate reading against the user's profile. Returns the current zone, safety notes, and whether exercise should stop."),
	mcp.WithString("user_id", mcp.Description("User identifier. Defaults to the authenticated user.")),
	mcp.WithNumber("current_heart_rate", mcp.Description("Current heart rate in bpm. Defaults to the latest stored reading.")),
)

var toolRecommendExercises = mcp.NewTool("recommend_exercises",
	mcp.WithDescription("Get ranked exercise recommendations for the current heart rate, filtered by the profile's health conditions."),
	mcp.WithString("user_id", mcp.Description("User identifier. Defaults to the authenticated user.")),
	mcp.WithNumber("current_heart_rate", mcp.Required(), mcp.Description("Current heart rate in bpm")),
	mcp.WithNumber("duration_minutes", mcp.Description("Requested session length. Out-of-range values are clamped.")),
)

var toolLogSession = mcp.NewTool("log_workout_session",
	mcp.WithDescription("Validate and store a completed workout session. Calories are estimated from duration, average heart rate, and body weight."),
	mcp.WithString("user_id", mcp.Description("User identifier. Defaults to the authenticated user.")),
	mcp.WithNumber("duration_minutes", mcp.Required(), mcp.Description("Session length in minutes")),
	mcp.WithNumber("avg_heart_rate", mcp.Required(), mcp.Description("Average heart rate in bpm")),
	mcp.WithNumber("perceived_exertion", mcp.Required(), mcp.Description("RPE on a 1-10 scale")),
	mcp.WithString("date", mcp.Description("Session date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("session_type", mcp.Description("Free-form session type, e.g. 'running'")),
	mcp.WithString("notes", mcp.Description("Free-form notes")),
)

var toolGetAnalytics = mcp.NewTool("get_progress_analytics",
	mcp.WithDescription("Windowed progress report: session totals, averages, calories, and training insights."),
	mcp.WithString("user_id", mcp.Description("User identifier. Defaults to the authenticated user.")),
	mcp.WithNumber("window_days", mcp.Description("Window length in days. Defaults to 30.")),
	mcp.WithString("end", mcp.Description("Window end date. Defaults to now.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog with zone ranges, intensity levels, and contraindication tags."),
	mcp.WithString("category", mcp.Description("Filter by category, e.g. 'running'")),
)

// --- Tool handlers ---

func (h *handlers) createProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx, req)
	if !ok {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	age, err := req.RequireInt("age")
	if err != nil {
		return mcp.NewToolResultError("age parameter is required"), nil
	}
	weight, err := req.RequireFloat("weight_kg")
	if err != nil {
		return mcp.NewToolResultError("weight_kg parameter is required"), nil
	}
	height, err := req.RequireFloat("height_m")
	if err != nil {
		return mcp.NewToolResultError("height_m parameter is required"), nil
	}
	level, err := req.RequireString("fitness_level")
	if err != nil {
		return mcp.NewToolResultError("fitness_level parameter is required"), nil
	}

	now := time.Now().UTC()
	p := models.Profile{
		ID:           uuid.New(),
		UserID:       uid,
		Age:          age,
		WeightKg:     weight,
		HeightM:      height,
		FitnessLevel: models.FitnessLevel(level),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p.HealthConditions = toConditionList(req.GetStringSlice("health_conditions", nil))
	p.Preferences = toCategoryList(req.GetStringSlice("preferences", nil))
	if rhr := req.GetInt("resting_heart_rate", 0); rhr > 0 {
		p.RestingHR = &rhr
	}

	if result := h.validateProfile(p); result != nil {
		return result, nil
	}

	inserted, err := h.ds.InsertProfile(ctx, p)
	if err != nil {
		h.log.Error("mcp create_profile", "error", err)
		return coachError(err), nil
	}
	if !inserted {
		return mcp.NewToolResultError("profile already exists for user " + uid), nil
	}

	result, err := mcp.NewToolResultJSON(profileView(p))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx, req)
	if !ok {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	p, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_profile", "error", err)
		return coachError(err), nil
	}

	result, err := mcp.NewToolResultJSON(profileView(*p))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) updateProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx, req)
	if !ok {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	p, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		h.log.Error("mcp update_profile", "error", err)
		return coachError(err), nil
	}

	if age := req.GetInt("age", 0); age != 0 {
		p.Age = age
	}
	if w := req.GetFloat("weight_kg", 0); w != 0 {
		p.WeightKg = w
	}
	if hgt := req.GetFloat("height_m", 0); hgt != 0 {
		p.HeightM = hgt
	}
	if level := req.GetString("fitness_level", ""); level != "" {
		p.FitnessLevel = models.FitnessLevel(level)
	}
	if conditions := req.GetStringSlice("health_conditions", nil); conditions != nil {
		p.HealthConditions = toConditionList(conditions)
	}
	if prefs := req.GetStringSlice("preferences", nil); prefs != nil {
		p.Preferences = toCategoryList(prefs)
	}
	if rhr := req.GetInt("resting_heart_rate", 0); rhr > 0 {
		p.RestingHR = &rhr
	}

	if result := h.validateProfile(*p); result != nil {
		return result, nil
	}

	if err := h.ds.UpdateProfile(ctx, *p); err != nil {
		h.log.Error("mcp update_profile", "error", err)
		return coachError(err), nil
	}

	result, err := mcp.NewToolResultJSON(profileView(*p))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) calculateZones(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	age := req.GetInt("age", 0)
	restingHR := req.GetInt("resting_heart_rate", 0)

	if age == 0 {
		uid, ok := requireUser(ctx, req)
		if !ok {
			return mcp.NewToolResultError("either age or user_id is required"), nil
		}
		p, err := h.ds.GetProfile(ctx, uid)
		if err != nil {
			h.log.Error("mcp calculate_heart_rate_zones", "error", err)
			return coachError(err), nil
		}
		age = p.Age
		if restingHR == 0 && p.RestingHR != nil {
			restingHR = *p.RestingHR
		}
	}

	zones, err := coach.CalculateZones(h.cfg, age, restingHR)
	if err != nil {
		return coachError(err), nil
	}

	result, err := mcp.NewToolResultJSON(zones)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) checkSafety(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx, req)
	if !ok {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	p, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		h.log.Error("mcp check_heart_rate_safety", "error", err)
		return coachError(err), nil
	}

	hr := req.GetInt("current_heart_rate", 0)
	if hr == 0 {
		reading, err := h.ds.LatestReading(ctx, uid)
		if err != nil {
			return mcp.NewToolResultError("current_heart_rate not given and no stored readings for user"), nil
		}
		hr = reading.BPM
	}

	restingHR := 0
	if p.RestingHR != nil {
		restingHR = *p.RestingHR
	}
	zones, err := coach.CalculateZones(h.cfg, p.Age, restingHR)
	if err != nil {
		return coachError(err), nil
	}
	zone, aboveMax := zones.CurrentZone(hr)
	safety := coach.EvaluateSafety(h.cfg, *p, hr, zone)

	result, err := mcp.NewToolResultJSON(map[string]any{
		"heart_rate":            hr,
		"zone":                  zone,
		"above_estimated_max":   aboveMax,
		"notes":                 safety.Notes,
		"blocks_recommendation": safety.BlocksRecommendation,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) recommendExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx, req)
	if !ok {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	hr, err := req.RequireInt("current_heart_rate")
	if err != nil {
		return mcp.NewToolResultError("current_heart_rate parameter is required"), nil
	}
	duration := req.GetInt("duration_minutes", 0)

	p, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		h.log.Error("mcp recommend_exercises", "error", err)
		return coachError(err), nil
	}

	recs, err := coach.Recommend(h.cfg, *p, hr, duration, h.catalog)
	if err != nil {
		return coachError(err), nil
	}

	result, err := mcp.NewToolResultJSON(recs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx, req)
	if !ok {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	duration, err := req.RequireInt("duration_minutes")
	if err != nil {
		return mcp.NewToolResultError("duration_minutes parameter is required"), nil
	}
	avgHR, err := req.RequireInt("avg_heart_rate")
	if err != nil {
		return mcp.NewToolResultError("avg_heart_rate parameter is required"), nil
	}
	exertion, err := req.RequireInt("perceived_exertion")
	if err != nil {
		return mcp.NewToolResultError("perceived_exertion parameter is required"), nil
	}

	var date time.Time
	if dateStr := req.GetString("date", ""); dateStr != "" {
		date, err = parseFlexTime(dateStr)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
	}

	p, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		h.log.Error("mcp log_workout_session", "error", err)
		return coachError(err), nil
	}

	session, err := coach.ValidateSession(h.cfg, *p, coach.SessionInput{
		UserID:            uid,
		Date:              date,
		DurationMinutes:   duration,
		AvgHeartRate:      avgHR,
		PerceivedExertion: exertion,
		SessionType:       req.GetString("session_type", ""),
		Notes:             req.GetString("notes", ""),
	})
	if err != nil {
		return coachError(err), nil
	}

	if _, err := h.ds.InsertSession(ctx, *session); err != nil {
		h.log.Error("mcp log_workout_session insert", "error", err)
		return coachError(err), nil
	}

	result, err := mcp.NewToolResultJSON(session)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx, req)
	if !ok {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	windowDays := req.GetInt("window_days", 0)
	if windowDays <= 0 {
		windowDays = h.cfg.AnalyticsWindowDays
	}

	end := time.Now().UTC()
	if endStr := req.GetString("end", ""); endStr != "" {
		var err error
		end, err = parseFlexTime(endStr)
		if err != nil {
			return mcp.NewToolResultError("invalid end date: " + err.Error()), nil
		}
	}
	start := end.AddDate(0, 0, -windowDays)

	sessions, err := h.ds.QuerySessions(ctx, uid, start, end)
	if err != nil {
		h.log.Error("mcp get_progress_analytics", "error", err)
		return coachError(err), nil
	}

	report := coach.Aggregate(h.cfg, uid, windowDays, end, sessions)

	result, err := mcp.NewToolResultJSON(report)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", "")

	entries := h.catalog
	if category != "" {
		filtered := make([]coach.Candidate, 0, len(entries))
		for _, c := range entries {
			if string(c.Category) == category {
				filtered = append(filtered, c)
			}
		}
		entries = filtered
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Helpers ---

// validateProfile applies the field checks shared by create and update. A nil
// return means the profile is acceptable.
func (h *handlers) validateProfile(p models.Profile) *mcp.CallToolResult {
	if err := coach.ValidateProfile(h.cfg, p); err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return nil
}

func profileView(p models.Profile) map[string]any {
	return map[string]any{
		"profile": p,
		"bmi":     p.BMI(),
	}
}

func toConditionList(values []string) []models.HealthCondition {
	if len(values) == 0 {
		return nil
	}
	out := make([]models.HealthCondition, len(values))
	for i, v := range values {
		out[i] = models.HealthCondition(v)
	}
	return out
}

func toCategoryList(values []string) []models.ExerciseCategory {
	if len(values) == 0 {
		return nil
	}
	out := make([]models.ExerciseCategory, len(values))
	for i, v := range values {
		out[i] = models.ExerciseCategory(v)
	}
	return out
}
