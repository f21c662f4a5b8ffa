// Package engine implements the progression decision engine: the strength
// estimator, trend classifier, load progression policy, and coaching insights
// policy. Everything in this package is a pure function over immutable inputs;
// callers persist whatever state updates come back.
package engine

import "fmt"

// Config carries every tunable threshold the engine uses. Values are fixed
// configuration, never learned.
type Config struct {
	// Load progression
	SessionsAtTopBeforeIncrease int     // top-of-range successes required before the load moves up
	LoadIncrement               float64 // base step added on an increase
	DeloadPercentage            float64 // fractional reduction on a deload (0.10 = 10%)
	FailuresBeforeDeload        int     // consecutive failures that trigger a deload
	PlateStep                   float64 // smallest plate-friendly load granularity

	// Strength estimator
	SmoothingAlpha float64 // exponential smoothing factor for the rolling e1RM
	RepCeiling     int     // reps at and beyond which the e1RM formula saturates

	// Trend classifier
	TrendWindowDays   int     // trailing window scanned for the trend
	TrendMinSamples   int     // samples required before any trend is judged
	TrendMinSpanDays  int     // calendar span required before any trend is judged
	StableBand        float64 // |fractional change| below this is flat
	PlateauSpanDays   int     // flat span that qualifies as a plateau
	PlateauMinSamples int     // in-window samples required for a plateau call

	// Coaching insights
	ReadinessFloor  int     // readiness scores below this get flagged
	ProteinMinPerKg float64 // grams of protein per kg bodyweight considered adequate
	SleepMinHours   float64 // nightly sleep considered adequate
	DeloadStaleDays int     // a deload older than this no longer counts as recent
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		SessionsAtTopBeforeIncrease: 2,
		LoadIncrement:               5.0,
		DeloadPercentage:            0.10,
		FailuresBeforeDeload:        3,
		PlateStep:                   2.5,

		SmoothingAlpha: 0.30,
		RepCeiling:     15,

		TrendWindowDays:   56,
		TrendMinSamples:   3,
		TrendMinSpanDays:  14,
		StableBand:        0.02,
		PlateauSpanDays:   42,
		PlateauMinSamples: 4,

		ReadinessFloor:  40,
		ProteinMinPerKg: 1.4,
		SleepMinHours:   7.0,
		DeloadStaleDays: 70,
	}
}

// Validate reports the first nonsensical threshold.
func (c Config) Validate() error {
	if c.SessionsAtTopBeforeIncrease < 1 {
		return fmt.Errorf("sessions_at_top_before_increase must be >= 1, got %d", c.SessionsAtTopBeforeIncrease)
	}
	if c.LoadIncrement <= 0 {
		return fmt.Errorf("load_increment must be positive, got %g", c.LoadIncrement)
	}
	if c.DeloadPercentage <= 0 || c.DeloadPercentage >= 1 {
		return fmt.Errorf("deload_percentage must be in (0,1), got %g", c.DeloadPercentage)
	}
	if c.FailuresBeforeDeload < 1 {
		return fmt.Errorf("failures_before_deload must be >= 1, got %d", c.FailuresBeforeDeload)
	}
	if c.PlateStep <= 0 {
		return fmt.Errorf("plate_step must be positive, got %g", c.PlateStep)
	}
	if c.SmoothingAlpha <= 0 || c.SmoothingAlpha > 1 {
		return fmt.Errorf("smoothing_alpha must be in (0,1], got %g", c.SmoothingAlpha)
	}
	if c.RepCeiling < 2 {
		return fmt.Errorf("rep_ceiling must be >= 2, got %d", c.RepCeiling)
	}
	if c.TrendMinSamples < 2 {
		return fmt.Errorf("trend_min_samples must be >= 2, got %d", c.TrendMinSamples)
	}
	if c.TrendWindowDays < c.TrendMinSpanDays {
		return fmt.Errorf("trend_window_days (%d) must cover trend_min_span_days (%d)", c.TrendWindowDays, c.TrendMinSpanDays)
	}
	if c.StableBand <= 0 {
		return fmt.Errorf("stable_band must be positive, got %g", c.StableBand)
	}
	return nil
}
