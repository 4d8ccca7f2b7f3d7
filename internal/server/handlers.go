package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/pulsecoach/internal/coach"
	"github.com/claude/pulsecoach/internal/models"
	"github.com/claude/pulsecoach/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := coach.ValidateProfile(s.cfg, p); err != nil {
		writeCoachError(w, err)
		return
	}

	inserted, err := s.db.InsertProfile(r.Context(), p)
	if err != nil {
		s.log.Error("create profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !inserted {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "profile already exists for user " + p.UserID})
		return
	}

	writeJSON(w, http.StatusCreated, profilePayload(p))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	p, err := s.db.GetProfile(r.Context(), userID)
	if err != nil {
		writeStorageError(w, err, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profilePayload(*p))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	p.UserID = userID

	if err := coach.ValidateProfile(s.cfg, p); err != nil {
		writeCoachError(w, err)
		return
	}

	if err := s.db.UpdateProfile(r.Context(), p); err != nil {
		writeStorageError(w, err, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profilePayload(p))
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	age := queryInt(r, "age", 0)
	restingHR := queryInt(r, "resting_heart_rate", 0)

	if age == 0 {
		p, err := s.db.GetProfile(r.Context(), userID)
		if err != nil {
			writeStorageError(w, err, "profile not found")
			return
		}
		age = p.Age
		if restingHR == 0 && p.RestingHR != nil {
			restingHR = *p.RestingHR
		}
	}

	zones, err := coach.CalculateZones(s.cfg, age, restingHR)
	if err != nil {
		writeCoachError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, zones)
}

func (s *Server) handleSafety(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	p, err := s.db.GetProfile(r.Context(), userID)
	if err != nil {
		writeStorageError(w, err, "profile not found")
		return
	}

	hr := queryInt(r, "heart_rate", 0)
	if hr == 0 {
		reading, err := s.db.LatestReading(r.Context(), userID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest,
				map[string]string{"error": "heart_rate parameter required (no stored readings)"})
			return
		}
		hr = reading.BPM
	}

	restingHR := 0
	if p.RestingHR != nil {
		restingHR = *p.RestingHR
	}
	zones, err := coach.CalculateZones(s.cfg, p.Age, restingHR)
	if err != nil {
		writeCoachError(w, err)
		return
	}
	zone, aboveMax := zones.CurrentZone(hr)
	safety := coach.EvaluateSafety(s.cfg, *p, hr, zone)

	writeJSON(w, http.StatusOK, map[string]any{
		"heart_rate":            hr,
		"zone":                  zone,
		"above_estimated_max":   aboveMax,
		"notes":                 safety.Notes,
		"blocks_recommendation": safety.BlocksRecommendation,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	hr := queryInt(r, "heart_rate", 0)
	if hr == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "heart_rate parameter required"})
		return
	}
	duration := queryInt(r, "duration_minutes", 0)

	p, err := s.db.GetProfile(r.Context(), userID)
	if err != nil {
		writeStorageError(w, err, "profile not found")
		return
	}

	recs, err := coach.Recommend(s.cfg, *p, hr, duration, s.catalog)
	if err != nil {
		writeCoachError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleLogSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var in coach.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	in.UserID = userID

	p, err := s.db.GetProfile(r.Context(), userID)
	if err != nil {
		writeStorageError(w, err, "profile not found")
		return
	}

	session, err := coach.ValidateSession(s.cfg, *p, in)
	if err != nil {
		writeCoachError(w, err)
		return
	}

	if _, err := s.db.InsertSession(r.Context(), *session); err != nil {
		s.log.Error("log session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// handleInsertRawSession accepts a fully-formed session row. Used by the
// remote MCP data source, which has already run validation locally.
func (s *Server) handleInsertRawSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var session models.WorkoutSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	session.UserID = userID
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	inserted, err := s.db.InsertSession(r.Context(), session)
	if err != nil {
		s.log.Error("insert raw session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !inserted {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session already exists"})
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleQuerySessions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.db.QuerySessions(r.Context(), userID, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []models.WorkoutSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	windowDays := queryInt(r, "window_days", 0)
	if windowDays <= 0 {
		windowDays = s.cfg.AnalyticsWindowDays
	}

	end := time.Now().UTC()
	if endStr := r.URL.Query().Get("end"); endStr != "" {
		var err error
		end, err = parseFlexTime(endStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end date"})
			return
		}
	}
	start := end.AddDate(0, 0, -windowDays)

	sessions, err := s.db.QuerySessions(r.Context(), userID, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, coach.Aggregate(s.cfg, userID, windowDays, end, sessions))
}

func (s *Server) handleInsertReadings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var readings []models.HeartRateReading
	if err := json.NewDecoder(r.Body).Decode(&readings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	for i := range readings {
		readings[i].UserID = userID
		if readings[i].BPM <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bpm must be positive"})
			return
		}
	}

	inserted, err := s.db.InsertReadings(r.Context(), readings)
	if err != nil {
		s.log.Error("insert readings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"inserted": inserted})
}

func (s *Server) handleQueryReadings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	readings, err := s.db.QueryReadings(r.Context(), userID, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if readings == nil {
		readings = []models.HeartRateReading{}
	}
	writeJSON(w, http.StatusOK, readings)
}

func (s *Server) handleLatestReading(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	reading, err := s.db.LatestReading(r.Context(), userID)
	if err != nil {
		writeStorageError(w, err, "no readings for user")
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	entries := s.catalog
	if category != "" {
		filtered := make([]coach.Candidate, 0, len(entries))
		for _, c := range entries {
			if string(c.Category) == category {
				filtered = append(filtered, c)
			}
		}
		entries = filtered
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Pool.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Helpers ---

func profilePayload(p models.Profile) map[string]any {
	return map[string]any{
		"profile": p,
		"bmi":     p.BMI(),
	}
}

// writeCoachError maps engine errors to HTTP statuses: malformed input is a
// 400, business-rule violations are a 422.
func writeCoachError(w http.ResponseWriter, err error) {
	var inputErr *coach.InvalidInputError
	if errors.As(err, &inputErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": inputErr.Error()})
		return
	}
	var valErr *coach.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      "validation failed",
			"violations": valErr.Violations,
		})
		return
	}
	var noCand *coach.NoCandidatesError
	if errors.As(err, &noCand) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": noCand.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeStorageError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFoundMsg})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = parseFlexTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// End of day for date-only values
		if len(endStr) == len("2006-01-02") {
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
