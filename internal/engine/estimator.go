package engine

import (
	"sort"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
)

// EstimateOneRepMax converts a submaximal set into an estimated one-rep max
// using the Epley formula: load * (1 + reps/30). The estimate is monotonic in
// both load and reps. Reps at or beyond the ceiling are clamped there, since
// the formula stops being reliable for high-rep sets.
func EstimateOneRepMax(reps int, load float64, repCeiling int) float64 {
	if load <= 0 || reps <= 0 {
		return 0
	}
	if reps > repCeiling {
		reps = repCeiling
	}
	if reps == 1 {
		return load
	}
	return load * (1 + float64(reps)/30.0)
}

// UpdateRolling folds a new e1RM sample into the rolling estimate with
// exponential smoothing. A zero previous value means no estimate exists yet,
// so the sample is adopted directly.
func UpdateRolling(previous, sample, alpha float64) float64 {
	if previous == 0 {
		return sample
	}
	return alpha*sample + (1-alpha)*previous
}

// ScoreSession folds one completed exercise result into the lift's state: the
// best-set e1RM is appended to the raw history, blended into the rolling
// estimate, and the trend is reclassified against the updated history.
// The input state is not mutated; a scored copy is returned.
func ScoreSession(cfg Config, state models.LiftState, res models.ExerciseSessionResult, date time.Time) models.LiftState {
	out := state.Clone()

	best := 0.0
	workingLoad := 0.0
	for _, set := range res.Sets {
		if !set.Completed {
			continue
		}
		if e := EstimateOneRepMax(set.Reps, set.Load, cfg.RepCeiling); e > best {
			best = e
		}
		if set.Load > workingLoad {
			workingLoad = set.Load
		}
	}
	if best == 0 {
		// Nothing completed; the session contributes no sample.
		return out
	}

	out.E1RMHistory = appendSample(out.E1RMHistory, models.E1RMSample{Date: date, Value: best})
	out.RollingE1RM = UpdateRolling(out.RollingE1RM, best, cfg.SmoothingAlpha)
	out.LastWorkingLoad = workingLoad
	d := date
	out.LastSessionDate = &d
	out.Trend = ClassifyTrend(cfg, out.E1RMHistory, date)
	return out
}

// appendSample keeps the history non-decreasing in date order. Samples arrive
// in order during normal operation; a backdated import is inserted at its
// place instead of breaking the invariant.
func appendSample(history []models.E1RMSample, s models.E1RMSample) []models.E1RMSample {
	if n := len(history); n == 0 || !s.Date.Before(history[n-1].Date) {
		return append(history, s)
	}
	i := sort.Search(len(history), func(i int) bool {
		return history[i].Date.After(s.Date)
	})
	history = append(history, models.E1RMSample{})
	copy(history[i+1:], history[i:])
	history[i] = s
	return history
}
