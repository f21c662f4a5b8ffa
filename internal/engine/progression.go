package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
)

// Action names what the load progression policy decided to do.
type Action string

const (
	// ActionStart prescribes the starting load for a first attempt.
	ActionStart Action = "start"
	// ActionHold keeps the load unchanged.
	ActionHold Action = "hold"
	// ActionIncrease moves the load up by a scaled increment.
	ActionIncrease Action = "increase"
	// ActionDeload reduces the load after accumulated failures.
	ActionDeload Action = "deload"
)

// Decision is the outcome of one load progression evaluation. The counter
// fields are the updated LiftState values the caller must persist.
type Decision struct {
	Action         Action     `json:"action"`
	Load           float64    `json:"load"`
	FailureCount   int        `json:"failure_count"`
	SuccessStreak  int        `json:"success_streak"`
	LastDeloadDate *time.Time `json:"last_deload_date,omitempty"`
}

// PrescriptionError reports a malformed prescription. The engine refuses to
// compute a decision from one rather than guess.
type PrescriptionError struct {
	Reason string
}

func (e *PrescriptionError) Error() string {
	return "invalid prescription: " + e.Reason
}

func validatePrescription(cfg Config, p models.SetPrescription) error {
	if p.Sets <= 0 {
		return &PrescriptionError{Reason: fmt.Sprintf("set count must be positive, got %d", p.Sets)}
	}
	if p.RepRangeLow <= 0 || p.RepRangeHigh < p.RepRangeLow {
		return &PrescriptionError{Reason: fmt.Sprintf("rep range %d-%d is empty", p.RepRangeLow, p.RepRangeHigh)}
	}
	if p.Increment < 0 {
		return &PrescriptionError{Reason: fmt.Sprintf("load increment must not be negative, got %g", p.Increment)}
	}
	if p.Increment == 0 && cfg.LoadIncrement <= 0 {
		return &PrescriptionError{Reason: "no usable load increment configured"}
	}
	return nil
}

type sessionOutcome int

const (
	outcomeFailure sessionOutcome = iota
	outcomePartial
	outcomeSuccess
)

// classifySession judges the last session against the prescribed rep range:
// every completed set at or above the top is a success, any set below the
// bottom is a failure, anything else is a partial success.
func classifySession(p models.SetPrescription, sets []models.SetResult) sessionOutcome {
	if len(sets) == 0 {
		return outcomeFailure
	}
	allAtTop := true
	for _, set := range sets {
		if !set.Completed || set.Reps < p.RepRangeLow {
			return outcomeFailure
		}
		if set.Reps < p.RepRangeHigh {
			allAtTop = false
		}
	}
	if allAtTop {
		return outcomeSuccess
	}
	return outcomePartial
}

// NextLoad decides the next working load for an exercise. It is deterministic
// and idempotent: the same inputs always yield the same decision, and nothing
// is mutated — the caller persists the returned counters.
func NextLoad(cfg Config, p models.SetPrescription, state models.LiftState, hist models.WorkoutHistory, exerciseID string, pctx Context) (Decision, error) {
	if err := validatePrescription(cfg, p); err != nil {
		return Decision{}, err
	}

	last := hist.LastSessionFor(exerciseID)
	if last == nil {
		return Decision{
			Action: ActionStart,
			Load:   startingLoad(cfg, p, state),
		}, nil
	}
	res := last.ResultFor(exerciseID)

	switch classifySession(p, res.Sets) {
	case outcomeFailure:
		failures := state.FailureCount + 1
		if failures >= cfg.FailuresBeforeDeload {
			d := pctx.Date
			return Decision{
				Action:         ActionDeload,
				Load:           state.LastWorkingLoad * (1 - cfg.DeloadPercentage),
				FailureCount:   0,
				SuccessStreak:  0,
				LastDeloadDate: &d,
			}, nil
		}
		return Decision{
			Action:         ActionHold,
			Load:           state.LastWorkingLoad,
			FailureCount:   failures,
			SuccessStreak:  0,
			LastDeloadDate: state.LastDeloadDate,
		}, nil

	case outcomeSuccess:
		streak := state.SuccessStreak + 1
		if streak >= cfg.SessionsAtTopBeforeIncrease {
			return Decision{
				Action:         ActionIncrease,
				Load:           state.LastWorkingLoad + incrementFor(cfg, p, pctx.Profile.Experience, state.Trend),
				FailureCount:   0,
				SuccessStreak:  0,
				LastDeloadDate: state.LastDeloadDate,
			}, nil
		}
		return Decision{
			Action:         ActionHold,
			Load:           state.LastWorkingLoad,
			FailureCount:   0,
			SuccessStreak:  streak,
			LastDeloadDate: state.LastDeloadDate,
		}, nil

	default: // partial: reps still climbing inside the range
		return Decision{
			Action:         ActionHold,
			Load:           state.LastWorkingLoad,
			FailureCount:   0,
			SuccessStreak:  state.SuccessStreak,
			LastDeloadDate: state.LastDeloadDate,
		}, nil
	}
}

// startingLoad resolves the load for a first attempt. A percentage
// prescription can only resolve against an existing rolling estimate; without
// one the prescribed starting load passes through untouched.
func startingLoad(cfg Config, p models.SetPrescription, state models.LiftState) float64 {
	if p.Strategy == models.LoadPercentOfMax && p.TargetPercent != nil && state.RollingE1RM > 0 {
		return snapLoad(state.RollingE1RM*(*p.TargetPercent)/100, cfg.PlateStep)
	}
	return p.StartingLoad
}

// experienceFactor scales the base increment by training experience. Newer
// lifters progress on larger jumps; the mapping is monotonically
// non-increasing in experience.
var experienceFactor = map[models.ExperienceLevel]float64{
	models.ExperienceBeginner:     2.0,
	models.ExperienceIntermediate: 1.0,
	models.ExperienceAdvanced:     0.5,
}

// incrementFor computes the load step for an increase: the base step scaled
// by experience, halved again when the lift is already flat or declining,
// then snapped to plate granularity. The result is never below one plate step.
func incrementFor(cfg Config, p models.SetPrescription, exp models.ExperienceLevel, trend models.TrendState) float64 {
	base := cfg.LoadIncrement
	if p.Increment > 0 {
		base = p.Increment
	}

	factor, ok := experienceFactor[exp]
	if !ok {
		factor = 1.0
	}
	switch trend {
	case models.TrendPlateau, models.TrendDecreasing:
		factor *= 0.5
	}

	return snapLoad(base*factor, cfg.PlateStep)
}

// snapLoad rounds to the nearest plate-friendly multiple, never below one step.
func snapLoad(load, step float64) float64 {
	if step <= 0 {
		return load
	}
	snapped := math.Round(load/step) * step
	if snapped < step {
		snapped = step
	}
	return snapped
}
