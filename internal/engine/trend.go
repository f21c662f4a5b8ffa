package engine

import (
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
)

// ClassifyTrend labels a lift's trajectory from its ordered e1RM history
// (oldest to newest) as seen at the given date.
//
// The fractional change between the earliest and the latest sample inside the
// trailing window decides the label. A flat change over a long enough span
// with enough samples is a plateau; a flat change over a shorter span is
// merely stable. Plateau wins over stable because it is the stricter call.
func ClassifyTrend(cfg Config, history []models.E1RMSample, now time.Time) models.TrendState {
	if len(history) < cfg.TrendMinSamples {
		return models.TrendInsufficient
	}
	totalSpan := history[len(history)-1].Date.Sub(history[0].Date)
	if totalSpan < time.Duration(cfg.TrendMinSpanDays)*24*time.Hour {
		return models.TrendInsufficient
	}

	windowStart := now.AddDate(0, 0, -cfg.TrendWindowDays)
	window := history[len(history):]
	for i, s := range history {
		if !s.Date.Before(windowStart) {
			window = history[i:]
			break
		}
	}
	if len(window) < 2 {
		// The window holds at most the newest sample — the lifter has been
		// away. Judge the two most recent samples instead of the stale whole.
		window = history[len(history)-2:]
	}

	first := window[0]
	last := window[len(window)-1]
	if first.Value <= 0 {
		return models.TrendInsufficient
	}
	change := (last.Value - first.Value) / first.Value

	switch {
	case change > cfg.StableBand:
		return models.TrendIncreasing
	case change < -cfg.StableBand:
		return models.TrendDecreasing
	}

	windowSpan := last.Date.Sub(first.Date)
	if windowSpan > time.Duration(cfg.PlateauSpanDays)*24*time.Hour && len(window) >= cfg.PlateauMinSamples {
		return models.TrendPlateau
	}
	return models.TrendStable
}
