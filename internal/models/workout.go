package models

import (
	"time"

	"github.com/google/uuid"
)

// LoadStrategy determines how a prescription's working load is expressed.
type LoadStrategy string

const (
	// LoadAbsolute prescribes a fixed load in the user's unit.
	LoadAbsolute LoadStrategy = "absolute"
	// LoadPercentOfMax prescribes a percentage of the rolling e1RM.
	LoadPercentOfMax LoadStrategy = "percent_of_max"
)

// SetPrescription is the plan for one exercise in one session.
type SetPrescription struct {
	Sets          int          `json:"sets"`
	RepRangeLow   int          `json:"rep_range_low"`
	RepRangeHigh  int          `json:"rep_range_high"`
	TargetRIR     float64      `json:"target_rir"`
	Tempo         string       `json:"tempo,omitempty"`
	RestSec       int          `json:"rest_sec"`
	Strategy      LoadStrategy `json:"strategy"`
	TargetPercent *float64     `json:"target_percent,omitempty"`
	StartingLoad  float64      `json:"starting_load"`
	// Increment overrides the configured base load step when positive.
	Increment float64 `json:"increment,omitempty"`
}

// SetResult records one executed set.
type SetResult struct {
	Reps      int      `json:"reps"`
	Load      float64  `json:"load"`
	RIR       *float64 `json:"rir,omitempty"`
	Completed bool     `json:"completed"`
}

// ExerciseSessionResult is the outcome of one exercise within a session.
type ExerciseSessionResult struct {
	ExerciseID   string          `json:"exercise_id"`
	Prescription SetPrescription `json:"prescription"`
	Sets         []SetResult     `json:"sets"`
	Position     int             `json:"position"`
}

// CompletedSession is one finished workout. PriorStates snapshots each lift's
// state as it was before this session was scored, copied by value so the
// snapshot never aliases the live LiftState.
type CompletedSession struct {
	ID          uuid.UUID               `json:"id"`
	Date        time.Time               `json:"date"`
	TemplateID  *uuid.UUID              `json:"template_id,omitempty"`
	Name        string                  `json:"name"`
	Exercises   []ExerciseSessionResult `json:"exercises"`
	StartedAt   time.Time               `json:"started_at"`
	EndedAt     time.Time               `json:"ended_at"`
	IsDeload    bool                    `json:"is_deload"`
	PriorStates map[string]LiftState    `json:"prior_states,omitempty"`
	Readiness   int                     `json:"readiness"`
}

// ResultFor returns the result for the given exercise within this session,
// or nil when the exercise was not performed.
func (s *CompletedSession) ResultFor(exerciseID string) *ExerciseSessionResult {
	for i := range s.Exercises {
		if s.Exercises[i].ExerciseID == exerciseID {
			return &s.Exercises[i]
		}
	}
	return nil
}

// ReadinessEntry is one day's reported readiness score (0-100).
type ReadinessEntry struct {
	Date  time.Time `json:"date"`
	Score int       `json:"score"`
}

// WorkoutHistory is the accumulated training log the engine reads from.
// Sessions are ordered oldest to newest.
type WorkoutHistory struct {
	Sessions     []CompletedSession   `json:"sessions"`
	LiftStates   map[string]LiftState `json:"lift_states"`
	ReadinessLog []ReadinessEntry     `json:"readiness_log,omitempty"`
	// DailyVolume maps an ISO date (YYYY-MM-DD) to total tonnage lifted.
	DailyVolume map[string]float64 `json:"daily_volume,omitempty"`
}

// LastSessionFor returns the most recent session containing the exercise,
// or nil when the exercise has never been performed.
func (h *WorkoutHistory) LastSessionFor(exerciseID string) *CompletedSession {
	for i := len(h.Sessions) - 1; i >= 0; i-- {
		if h.Sessions[i].ResultFor(exerciseID) != nil {
			return &h.Sessions[i]
		}
	}
	return nil
}
