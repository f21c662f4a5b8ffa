package models

import "time"

// TrendState classifies a lift's e1RM trajectory.
type TrendState string

const (
	TrendInsufficient TrendState = "insufficient"
	TrendIncreasing   TrendState = "increasing"
	TrendStable       TrendState = "stable"
	TrendPlateau      TrendState = "plateau"
	TrendDecreasing   TrendState = "decreasing"
)

// E1RMSample is one estimated one-rep-max data point. Samples are append-only
// and time-ordered per exercise.
type E1RMSample struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// LiftState is the per-exercise progression state. It is the only mutable
// entity in the model; one exists per (user, exercise) pair.
type LiftState struct {
	ExerciseID      string       `json:"exercise_id"`
	LastWorkingLoad float64      `json:"last_working_load"`
	RollingE1RM     float64      `json:"rolling_e1rm"`
	FailureCount    int          `json:"failure_count"`
	LastDeloadDate  *time.Time   `json:"last_deload_date,omitempty"`
	Trend           TrendState   `json:"trend"`
	E1RMHistory     []E1RMSample `json:"e1rm_history,omitempty"`
	LastSessionDate *time.Time   `json:"last_session_date,omitempty"`
	SuccessStreak   int          `json:"success_streak"`
}

// NewLiftState returns the initial state for an exercise never attempted.
func NewLiftState(exerciseID string) LiftState {
	return LiftState{ExerciseID: exerciseID, Trend: TrendInsufficient}
}

// Clone returns a deep copy, so snapshots stored inside a CompletedSession
// never alias the live state's history slice.
func (s LiftState) Clone() LiftState {
	out := s
	if s.E1RMHistory != nil {
		out.E1RMHistory = make([]E1RMSample, len(s.E1RMHistory))
		copy(out.E1RMHistory, s.E1RMHistory)
	}
	if s.LastDeloadDate != nil {
		d := *s.LastDeloadDate
		out.LastDeloadDate = &d
	}
	if s.LastSessionDate != nil {
		d := *s.LastSessionDate
		out.LastSessionDate = &d
	}
	return out
}
