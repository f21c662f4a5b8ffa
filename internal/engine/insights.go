package engine

import (
	"fmt"
	"iter"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
)

// Insights scans a lift's state, trend, and the user's recovery signals and
// yields applicable coaching insights in priority order: deload first, then
// plateau, substitution, nutrition, sleep, and readiness. The sequence is
// lazy, finite, and restartable; rules fire independently of each other.
//
// Every rule except readiness needs an interpretable trend, so an
// insufficient trend yields readiness insights only.
func Insights(cfg Config, state models.LiftState, hist models.WorkoutHistory, pctx Context, currentReadiness int, substitutes []models.Exercise) iter.Seq[models.CoachingInsight] {
	return func(yield func(models.CoachingInsight) bool) {
		trend := ClassifyTrend(cfg, state.E1RMHistory, pctx.Date)
		stalled := trend == models.TrendPlateau || trend == models.TrendDecreasing

		if trend != models.TrendInsufficient {
			if in, ok := deloadInsight(cfg, state, trend, pctx); ok && !yield(in) {
				return
			}
			if in, ok := plateauInsight(cfg, state, trend, pctx); ok && !yield(in) {
				return
			}
			if stalled && len(substitutes) > 0 {
				in := models.CoachingInsight{
					Topic:        models.TopicSubstitution,
					Severity:     models.SeverityInfo,
					Priority:     3,
					Message:      fmt.Sprintf("%s has stopped responding; rotating to %s could provide a fresh stimulus.", pctx.Exercise.Name, substitutes[0].Name),
					SubstituteID: substitutes[0].ID,
				}
				if !yield(in) {
					return
				}
			}
			if stalled {
				if in, ok := nutritionInsight(cfg, pctx.Profile); ok && !yield(in) {
					return
				}
				if in, ok := sleepInsight(cfg, pctx.Profile); ok && !yield(in) {
					return
				}
			}
		}

		if currentReadiness < cfg.ReadinessFloor {
			yield(models.CoachingInsight{
				Topic:    models.TopicReadiness,
				Severity: models.SeverityWarn,
				Priority: 6,
				Message:  fmt.Sprintf("Readiness is %d today (floor %d); consider lighter work or extra rest.", currentReadiness, cfg.ReadinessFloor),
			})
		}
	}
}

// deloadInsight fires when the lifter is one failed session away from an
// automatic deload, or when the trend is decreasing and no deload has
// happened for a long stretch.
func deloadInsight(cfg Config, state models.LiftState, trend models.TrendState, pctx Context) (models.CoachingInsight, bool) {
	nearFailureLimit := state.FailureCount > 0 && state.FailureCount >= cfg.FailuresBeforeDeload-1

	staleDeload := false
	if trend == models.TrendDecreasing {
		if state.LastDeloadDate == nil {
			staleDeload = true
		} else if pctx.calendar().DaysBetween(*state.LastDeloadDate, pctx.Date) > cfg.DeloadStaleDays {
			staleDeload = true
		}
	}

	if !nearFailureLimit && !staleDeload {
		return models.CoachingInsight{}, false
	}

	msg := "Strength is trending down and it has been a long time since the last deload; a planned back-off week is due."
	if nearFailureLimit {
		msg = fmt.Sprintf("%d consecutive missed sessions on this lift; one more triggers an automatic deload. Backing off now keeps it on your terms.", state.FailureCount)
	}
	return models.CoachingInsight{
		Topic:    models.TopicDeload,
		Severity: models.SeverityAlert,
		Priority: 1,
		Message:  msg,
	}, true
}

// plateauInsight fires on a classified plateau unless a deload already
// happened inside the plateau's qualifying window — that plateau has been
// addressed and is not re-flagged immediately.
func plateauInsight(cfg Config, state models.LiftState, trend models.TrendState, pctx Context) (models.CoachingInsight, bool) {
	if trend != models.TrendPlateau {
		return models.CoachingInsight{}, false
	}
	if state.LastDeloadDate != nil && pctx.calendar().DaysBetween(*state.LastDeloadDate, pctx.Date) <= cfg.PlateauSpanDays {
		return models.CoachingInsight{}, false
	}
	return models.CoachingInsight{
		Topic:    models.TopicPlateau,
		Severity: models.SeverityWarn,
		Priority: 2,
		Message:  fmt.Sprintf("Estimated strength on %s has been flat for over %d weeks despite regular training.", pctx.Exercise.Name, cfg.PlateauSpanDays/7),
	}, true
}

func nutritionInsight(cfg Config, profile models.UserProfile) (models.CoachingInsight, bool) {
	if profile.Recovery == nil || profile.Recovery.ProteinGrams == nil {
		return models.CoachingInsight{}, false
	}
	need := cfg.ProteinMinPerKg * profile.BodyweightKg()
	if *profile.Recovery.ProteinGrams >= need {
		return models.CoachingInsight{}, false
	}
	return models.CoachingInsight{
		Topic:    models.TopicNutrition,
		Severity: models.SeverityInfo,
		Priority: 4,
		Message:  fmt.Sprintf("Progress has stalled and protein intake (%.0f g/day) is below the %.0f g/day target for your body weight.", *profile.Recovery.ProteinGrams, need),
	}, true
}

func sleepInsight(cfg Config, profile models.UserProfile) (models.CoachingInsight, bool) {
	if profile.Recovery == nil || profile.Recovery.SleepHours == nil {
		return models.CoachingInsight{}, false
	}
	if *profile.Recovery.SleepHours >= cfg.SleepMinHours {
		return models.CoachingInsight{}, false
	}
	return models.CoachingInsight{
		Topic:    models.TopicSleep,
		Severity: models.SeverityInfo,
		Priority: 5,
		Message:  fmt.Sprintf("Progress has stalled and average sleep (%.1f h) is under the %.1f h recovery target.", *profile.Recovery.SleepHours, cfg.SleepMinHours),
	}, true
}
