package engine

import (
	"slices"
	"testing"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
)

func collect(seq func(yield func(models.CoachingInsight) bool)) []models.CoachingInsight {
	var out []models.CoachingInsight
	seq(func(in models.CoachingInsight) bool {
		out = append(out, in)
		return true
	})
	return out
}

func topics(ins []models.CoachingInsight) []models.InsightTopic {
	out := make([]models.InsightTopic, len(ins))
	for i, in := range ins {
		out[i] = in.Topic
	}
	return out
}

func hasTopic(ins []models.CoachingInsight, topic models.InsightTopic) bool {
	return slices.ContainsFunc(ins, func(in models.CoachingInsight) bool { return in.Topic == topic })
}

// plateauState builds a lift whose e1RM has been flat at the given value
// across more than the plateau-qualifying span.
func plateauState(now time.Time, value float64) models.LiftState {
	state := models.NewLiftState("bench-press")
	state.LastWorkingLoad = value * 0.8
	state.E1RMHistory = samplesEvery(now, 8, 7, func(i int) float64 { return value })
	return state
}

func insightContext(now time.Time) Context {
	return NewContext(
		models.UserProfile{ID: 1, Experience: models.ExperienceAdvanced, Unit: models.UnitPounds, Bodyweight: 180},
		models.Exercise{ID: "bench-press", Name: "Bench Press"},
		now,
	)
}

// TestInsightsPlateauScenario covers the canonical case: eight constant 275
// samples spanning more than six weeks, advanced profile, no recent deload.
func TestInsightsPlateauScenario(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	state := plateauState(now, 275)

	ins := collect(Insights(cfg, state, models.WorkoutHistory{}, insightContext(now), 80, nil))
	if !hasTopic(ins, models.TopicPlateau) {
		t.Fatalf("topics = %v, want a plateau insight", topics(ins))
	}
}

// TestInsightsPlateauSuppressedByRecentDeload verifies a deload inside the
// plateau window silences the plateau insight.
func TestInsightsPlateauSuppressedByRecentDeload(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	state := plateauState(now, 275)
	recent := now.AddDate(0, 0, -14)
	state.LastDeloadDate = &recent

	ins := collect(Insights(cfg, state, models.WorkoutHistory{}, insightContext(now), 80, nil))
	if hasTopic(ins, models.TopicPlateau) {
		t.Errorf("plateau flagged despite a deload 2 weeks ago: %v", topics(ins))
	}

	old := now.AddDate(0, 0, -cfg.PlateauSpanDays-7)
	state.LastDeloadDate = &old
	ins = collect(Insights(cfg, state, models.WorkoutHistory{}, insightContext(now), 80, nil))
	if !hasTopic(ins, models.TopicPlateau) {
		t.Errorf("plateau not flagged though the last deload predates the window: %v", topics(ins))
	}
}

// TestInsightsDeloadNearFailureLimit verifies the deload warning fires when
// one more failure would trip the automatic deload.
func TestInsightsDeloadNearFailureLimit(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	state := plateauState(now, 275)
	state.FailureCount = cfg.FailuresBeforeDeload - 1

	ins := collect(Insights(cfg, state, models.WorkoutHistory{}, insightContext(now), 80, nil))
	if !hasTopic(ins, models.TopicDeload) {
		t.Fatalf("topics = %v, want a deload insight", topics(ins))
	}
	if ins[0].Topic != models.TopicDeload {
		t.Errorf("deload must rank first, got order %v", topics(ins))
	}
}

// TestInsightsDeloadOnDecliningTrend verifies the deload recommendation's
// second trigger: strength trending down with no deload on record, or with
// one older than the staleness horizon. A deload inside the horizon keeps
// the rule quiet even while the decline continues.
func TestInsightsDeloadOnDecliningTrend(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	declining := func() models.LiftState {
		state := models.NewLiftState("bench-press")
		state.LastWorkingLoad = 225
		state.E1RMHistory = samplesEvery(now, 5, 7, func(i int) float64 { return 300 - float64(i)*6 })
		return state
	}

	// No deload on record: the decline alone triggers the recommendation.
	state := declining()
	ins := collect(Insights(cfg, state, models.WorkoutHistory{}, insightContext(now), 80, nil))
	if !hasTopic(ins, models.TopicDeload) {
		t.Fatalf("topics = %v, want a deload insight for an unaddressed decline", topics(ins))
	}

	// A deload inside the staleness horizon silences it.
	state = declining()
	recent := now.AddDate(0, 0, -cfg.DeloadStaleDays/2)
	state.LastDeloadDate = &recent
	ins = collect(Insights(cfg, state, models.WorkoutHistory{}, insightContext(now), 80, nil))
	if hasTopic(ins, models.TopicDeload) {
		t.Errorf("deload recommended despite one %d days ago: %v", cfg.DeloadStaleDays/2, topics(ins))
	}

	// A deload beyond the horizon no longer counts.
	state = declining()
	stale := now.AddDate(0, 0, -cfg.DeloadStaleDays-14)
	state.LastDeloadDate = &stale
	ins = collect(Insights(cfg, state, models.WorkoutHistory{}, insightContext(now), 80, nil))
	if !hasTopic(ins, models.TopicDeload) {
		t.Errorf("topics = %v, want a deload insight when the last deload is stale", topics(ins))
	}
}

// TestInsightsRecoveryRequiresPerformanceEvidence verifies poor recovery
// signals alone emit nothing; they surface only alongside a plateau or
// decline.
func TestInsightsRecoveryRequiresPerformanceEvidence(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	protein := 60.0
	sleep := 5.5
	pctx := insightContext(now)
	pctx.Profile.Recovery = &models.RecoverySignals{ProteinGrams: &protein, SleepHours: &sleep}

	// Increasing trend: no recovery insights despite the low signals.
	climbing := models.NewLiftState("bench-press")
	climbing.E1RMHistory = samplesEvery(now, 5, 7, func(i int) float64 { return 250 + float64(i)*5 })
	ins := collect(Insights(cfg, climbing, models.WorkoutHistory{}, pctx, 80, nil))
	if hasTopic(ins, models.TopicNutrition) || hasTopic(ins, models.TopicSleep) {
		t.Errorf("recovery insights emitted without performance evidence: %v", topics(ins))
	}

	// Plateau: both recovery insights surface.
	ins = collect(Insights(cfg, plateauState(now, 275), models.WorkoutHistory{}, pctx, 80, nil))
	if !hasTopic(ins, models.TopicNutrition) || !hasTopic(ins, models.TopicSleep) {
		t.Errorf("recovery insights missing on a plateau: %v", topics(ins))
	}
}

// TestInsightsSubstitutionOnlyWhenStalled verifies the substitution list is
// ignored unless the trend is plateau or decreasing.
func TestInsightsSubstitutionOnlyWhenStalled(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	subs := []models.Exercise{{ID: "db-bench-press", Name: "Dumbbell Bench Press"}}

	climbing := models.NewLiftState("bench-press")
	climbing.E1RMHistory = samplesEvery(now, 5, 7, func(i int) float64 { return 250 + float64(i)*5 })
	ins := collect(Insights(cfg, climbing, models.WorkoutHistory{}, insightContext(now), 80, subs))
	if hasTopic(ins, models.TopicSubstitution) {
		t.Errorf("substitution suggested while still progressing: %v", topics(ins))
	}

	ins = collect(Insights(cfg, plateauState(now, 275), models.WorkoutHistory{}, insightContext(now), 80, subs))
	if !hasTopic(ins, models.TopicSubstitution) {
		t.Fatalf("substitution missing on plateau: %v", topics(ins))
	}
	for _, in := range ins {
		if in.Topic == models.TopicSubstitution && in.SubstituteID != "db-bench-press" {
			t.Errorf("substitute ID = %q, want the first candidate", in.SubstituteID)
		}
	}
}

// TestInsightsInsufficientTrendOnlyReadiness verifies a sparse history
// suppresses everything except the session-local readiness rule.
func TestInsightsInsufficientTrendOnlyReadiness(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	state := models.NewLiftState("bench-press")
	state.FailureCount = cfg.FailuresBeforeDeload - 1 // would trip the deload rule

	ins := collect(Insights(cfg, state, models.WorkoutHistory{}, insightContext(now), 25, nil))
	if len(ins) != 1 || ins[0].Topic != models.TopicReadiness {
		t.Errorf("topics = %v, want readiness only", topics(ins))
	}

	ins = collect(Insights(cfg, state, models.WorkoutHistory{}, insightContext(now), 90, nil))
	if len(ins) != 0 {
		t.Errorf("topics = %v, want none", topics(ins))
	}
}

// TestInsightsOrderedAndRestartable verifies priority ordering and that the
// sequence can be iterated more than once with identical results.
func TestInsightsOrderedAndRestartable(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	protein := 60.0
	pctx := insightContext(now)
	pctx.Profile.Recovery = &models.RecoverySignals{ProteinGrams: &protein}
	state := plateauState(now, 275)
	state.FailureCount = cfg.FailuresBeforeDeload - 1
	subs := []models.Exercise{{ID: "db-bench-press", Name: "Dumbbell Bench Press"}}

	seq := Insights(cfg, state, models.WorkoutHistory{}, pctx, 25, subs)
	first := collect(seq)
	second := collect(seq)

	if !slices.Equal(topics(first), topics(second)) {
		t.Fatalf("sequence not restartable: %v vs %v", topics(first), topics(second))
	}
	for i := 1; i < len(first); i++ {
		if first[i].Priority < first[i-1].Priority {
			t.Fatalf("insights out of priority order: %v", topics(first))
		}
	}
	want := []models.InsightTopic{
		models.TopicDeload, models.TopicPlateau, models.TopicSubstitution,
		models.TopicNutrition, models.TopicReadiness,
	}
	if !slices.Equal(topics(first), want) {
		t.Errorf("topics = %v, want %v", topics(first), want)
	}
}
