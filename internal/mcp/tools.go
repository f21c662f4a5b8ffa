package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/engine"
	"github.com/Rahulvijayan123/workout-sub002/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 90 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -90)
	}

	return start, end, nil
}

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

// --- Tool definitions ---

var toolGetNextLoad = mcp.NewTool("get_next_load",
	mcp.WithDescription("Decide the next working load for an exercise under double progression: hold, increase, or deload, with the exact load to prescribe. Deterministic — the same history always yields the same decision."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise ID (e.g. 'bench-press')")),
	mcp.WithNumber("sets", mcp.Required(), mcp.Description("Prescribed number of working sets")),
	mcp.WithNumber("rep_range_low", mcp.Required(), mcp.Description("Bottom of the prescribed rep range")),
	mcp.WithNumber("rep_range_high", mcp.Required(), mcp.Description("Top of the prescribed rep range")),
	mcp.WithNumber("starting_load", mcp.Description("Load for a first attempt when no history exists")),
	mcp.WithNumber("increment", mcp.Description("Base load increment override. Defaults to the configured increment.")),
	mcp.WithString("date", mcp.Description("Evaluation date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetInsights = mcp.NewTool("get_insights",
	mcp.WithDescription("Evaluate coaching insight rules for an exercise: deload, plateau, substitution, nutrition, sleep, and readiness warnings in priority order."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise ID")),
	mcp.WithNumber("readiness", mcp.Description("Today's readiness score 0-100. Defaults to the most recent logged score.")),
	mcp.WithString("substitutes", mcp.Description("Comma-separated exercise IDs to suggest as substitutions, in preference order")),
	mcp.WithString("date", mcp.Description("Evaluation date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetLiftState = mcp.NewTool("get_lift_state",
	mcp.WithDescription("Fetch the per-exercise progression state: last working load, rolling e1RM, failure count, success streak, trend, and last deload date."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise ID")),
)

var toolGetE1RMHistory = mcp.NewTool("get_e1rm_history",
	mcp.WithDescription("Fetch the dated estimated-1RM samples for an exercise, oldest first."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise ID")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetRecentSessions = mcp.NewTool("get_recent_sessions",
	mcp.WithDescription("Query completed training sessions with per-exercise prescriptions and set results."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

// --- Tool handlers ---

// evalContext assembles the profile, exercise, lift state, and history an
// engine evaluation needs for one exercise.
func (h *handlers) evalContext(ctx context.Context, uid int, exerciseID string, date time.Time) (engine.Context, models.LiftState, models.WorkoutHistory, string) {
	profile, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		return engine.Context{}, models.LiftState{}, models.WorkoutHistory{}, "profile query failed: " + err.Error()
	}
	exercise, found, err := h.ds.GetExercise(ctx, exerciseID)
	if err != nil {
		return engine.Context{}, models.LiftState{}, models.WorkoutHistory{}, "exercise query failed: " + err.Error()
	}
	if !found {
		return engine.Context{}, models.LiftState{}, models.WorkoutHistory{}, "unknown exercise: " + exerciseID
	}
	hist, err := h.ds.LoadHistory(ctx, uid, date)
	if err != nil {
		return engine.Context{}, models.LiftState{}, models.WorkoutHistory{}, "history query failed: " + err.Error()
	}

	state, ok := hist.LiftStates[exerciseID]
	if !ok {
		state = models.NewLiftState(exerciseID)
	}
	return engine.NewContext(profile, exercise, date), state, hist, ""
}

func (h *handlers) getNextLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	sets, err := req.RequireInt("sets")
	if err != nil {
		return mcp.NewToolResultError("sets parameter is required"), nil
	}
	low, err := req.RequireInt("rep_range_low")
	if err != nil {
		return mcp.NewToolResultError("rep_range_low parameter is required"), nil
	}
	high, err := req.RequireInt("rep_range_high")
	if err != nil {
		return mcp.NewToolResultError("rep_range_high parameter is required"), nil
	}

	date := time.Now().UTC()
	if d := req.GetString("date", ""); d != "" {
		date, err = parseFlexTime(d)
		if err != nil {
			return mcp.NewToolResultError("invalid date: " + err.Error()), nil
		}
	}

	p := models.SetPrescription{
		Sets:         sets,
		RepRangeLow:  low,
		RepRangeHigh: high,
		StartingLoad: req.GetFloat("starting_load", 0),
		Increment:    req.GetFloat("increment", 0),
	}

	uid := UserIDFromContext(ctx)
	pctx, state, hist, errMsg := h.evalContext(ctx, uid, exerciseID, date)
	if errMsg != "" {
		h.log.Error("mcp get_next_load", "error", errMsg)
		return mcp.NewToolResultError(errMsg), nil
	}

	decision, err := engine.NextLoad(h.engine, p, state, hist, exerciseID, pctx)
	if err != nil {
		return mcp.NewToolResultError("decision failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(decision)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	date := time.Now().UTC()
	if d := req.GetString("date", ""); d != "" {
		date, err = parseFlexTime(d)
		if err != nil {
			return mcp.NewToolResultError("invalid date: " + err.Error()), nil
		}
	}

	uid := UserIDFromContext(ctx)
	pctx, state, hist, errMsg := h.evalContext(ctx, uid, exerciseID, date)
	if errMsg != "" {
		h.log.Error("mcp get_insights", "error", errMsg)
		return mcp.NewToolResultError(errMsg), nil
	}

	readiness := 100
	if len(hist.ReadinessLog) > 0 {
		readiness = hist.ReadinessLog[len(hist.ReadinessLog)-1].Score
	}
	readiness = req.GetInt("readiness", readiness)
	if readiness < 0 || readiness > 100 {
		return mcp.NewToolResultError("readiness must be 0-100"), nil
	}

	var substitutes []models.Exercise
	if v := req.GetString("substitutes", ""); v != "" {
		substitutes, err = h.ds.GetExercises(ctx, splitIDs(v))
		if err != nil {
			h.log.Error("mcp get_insights substitutes", "error", err)
			return mcp.NewToolResultError("substitute query failed: " + err.Error()), nil
		}
	}

	insights := make([]models.CoachingInsight, 0)
	for in := range engine.Insights(h.engine, state, hist, pctx, readiness, substitutes) {
		insights = append(insights, in)
	}

	result, err := mcp.NewToolResultJSON(insights)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLiftState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	uid := UserIDFromContext(ctx)
	state, found, err := h.ds.GetLiftState(ctx, uid, exerciseID)
	if err != nil {
		h.log.Error("mcp get_lift_state", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if !found {
		return mcp.NewToolResultError("no lift state for exercise: " + exerciseID), nil
	}

	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getE1RMHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	start, _, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	samples, err := h.ds.GetE1RMHistory(ctx, uid, exerciseID, start)
	if err != nil {
		h.log.Error("mcp get_e1rm_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(samples)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	sessions, err := h.ds.QuerySessions(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_recent_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func splitIDs(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
