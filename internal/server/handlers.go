package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/engine"
	"github.com/Rahulvijayan123/workout-sub002/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// handleRecordSession ingests a completed session: every exercise result is
// scored through the strength estimator and the updated lift states are
// persisted alongside the session itself.
func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	var session models.CompletedSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.Date.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session date is required"})
		return
	}

	ctx := r.Context()
	updated := make(map[string]models.LiftState, len(session.Exercises))
	session.PriorStates = make(map[string]models.LiftState, len(session.Exercises))

	for _, res := range session.Exercises {
		state, _, err := s.db.GetLiftState(ctx, defaultUserID, res.ExerciseID)
		if err != nil {
			s.log.Error("loading lift state", "exercise", res.ExerciseID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		session.PriorStates[res.ExerciseID] = state.Clone()
		updated[res.ExerciseID] = engine.ScoreSession(s.engine, state, res, session.Date)
	}

	// One transaction: a session never lands without its lift states, and a
	// failed request can be retried with the same ID.
	inserted, err := s.db.RecordSession(ctx, defaultUserID, session, updated)
	if err != nil {
		s.log.Error("recording session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !inserted {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session already recorded"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":  session.ID,
		"lift_states": updated,
	})
}

type progressionRequest struct {
	Prescription models.SetPrescription `json:"prescription"`
	Date         *time.Time             `json:"date,omitempty"`
}

// handleNextLoad computes the next-load decision for one exercise. The
// prescription comes from the request; history and lift state come from
// storage. Nothing is persisted — the decision carries the updated counters
// and the caller records them when the next session completes.
func (s *Server) handleNextLoad(w http.ResponseWriter, r *http.Request) {
	exerciseID := chi.URLParam(r, "exerciseID")

	var req progressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}

	pctx, state, hist, ok := s.assembleContext(w, r, exerciseID, date)
	if !ok {
		return
	}

	decision, err := engine.NextLoad(s.engine, req.Prescription, state, hist, exerciseID, pctx)
	if err != nil {
		var perr *engine.PrescriptionError
		status := http.StatusInternalServerError
		if errors.As(err, &perr) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, decision)
}

// handleInsights evaluates the coaching insight rules for one exercise.
// Readiness defaults to the most recent logged score; substitutes are an
// optional ordered comma-separated list of exercise IDs.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	exerciseID := chi.URLParam(r, "exerciseID")

	date := time.Now().UTC()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date: " + d})
			return
		}
		date = parsed
	}

	pctx, state, hist, ok := s.assembleContext(w, r, exerciseID, date)
	if !ok {
		return
	}

	readiness := latestReadiness(hist.ReadinessLog)
	if v := r.URL.Query().Get("readiness"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 || parsed > 100 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "readiness must be 0-100"})
			return
		}
		readiness = parsed
	}

	var substitutes []models.Exercise
	if v := r.URL.Query().Get("substitutes"); v != "" {
		subs, err := s.db.GetExercises(r.Context(), splitIDList(v))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		substitutes = subs
	}

	insights := make([]models.CoachingInsight, 0)
	for in := range engine.Insights(s.engine, state, hist, pctx, readiness, substitutes) {
		insights = append(insights, in)
	}
	writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleLiftState(w http.ResponseWriter, r *http.Request) {
	exerciseID := chi.URLParam(r, "exerciseID")
	state, found, err := s.db.GetLiftState(r.Context(), defaultUserID, exerciseID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no lift state for exercise"})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleE1RMHistory(w http.ResponseWriter, r *http.Request) {
	exerciseID := chi.URLParam(r, "exerciseID")
	start, _, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	samples, err := s.db.GetE1RMHistory(r.Context(), defaultUserID, exerciseID, start)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, samples)
}

func (s *Server) handleQuerySessions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sessions, err := s.db.QuerySessions(r.Context(), start, end, defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.db.GetProfile(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	profile.ID = defaultUserID
	if err := s.db.UpsertProfile(r.Context(), profile); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpsertExercise(w http.ResponseWriter, r *http.Request) {
	var ex models.Exercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if ex.ID == "" || ex.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise id and name are required"})
		return
	}
	if err := s.db.UpsertExercise(r.Context(), ex); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// assembleContext gathers the profile, exercise, lift state, and history an
// engine evaluation needs. On failure it writes the error response and
// returns ok=false.
func (s *Server) assembleContext(w http.ResponseWriter, r *http.Request, exerciseID string, date time.Time) (engine.Context, models.LiftState, models.WorkoutHistory, bool) {
	ctx := r.Context()

	profile, err := s.db.GetProfile(ctx, defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return engine.Context{}, models.LiftState{}, models.WorkoutHistory{}, false
	}
	exercise, found, err := s.db.GetExercise(ctx, exerciseID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return engine.Context{}, models.LiftState{}, models.WorkoutHistory{}, false
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown exercise: " + exerciseID})
		return engine.Context{}, models.LiftState{}, models.WorkoutHistory{}, false
	}
	hist, err := s.db.LoadHistory(ctx, defaultUserID, date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return engine.Context{}, models.LiftState{}, models.WorkoutHistory{}, false
	}

	state, ok := hist.LiftStates[exerciseID]
	if !ok {
		state = models.NewLiftState(exerciseID)
	}
	return engine.NewContext(profile, exercise, date), state, hist, true
}

// latestReadiness returns the newest logged score, or a neutral 100 when
// nothing has been logged (no readiness insight fires without evidence).
func latestReadiness(log []models.ReadinessEntry) int {
	if len(log) == 0 {
		return 100
	}
	return log[len(log)-1].Score
}

// splitIDList parses a comma-separated ID list, dropping empty elements.
func splitIDList(v string) []string {
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 90 days
		end = time.Now()
		start = end.AddDate(0, 0, -90)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
