package engine

import (
	"testing"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
)

// samplesEvery builds n samples spaced the given number of days apart, ending
// at (or before) now, with values produced by the supplied function of index.
func samplesEvery(now time.Time, n, spacingDays int, value func(i int) float64) []models.E1RMSample {
	out := make([]models.E1RMSample, n)
	start := now.AddDate(0, 0, -spacingDays*(n-1))
	for i := range out {
		out[i] = models.E1RMSample{Date: start.AddDate(0, 0, spacingDays*i), Value: value(i)}
	}
	return out
}

func TestClassifyTrend(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		history []models.E1RMSample
		want    models.TrendState
	}{
		{
			name:    "no samples",
			history: nil,
			want:    models.TrendInsufficient,
		},
		{
			name:    "two samples is below the minimum regardless of span",
			history: samplesEvery(now, 2, 28, func(i int) float64 { return 250 }),
			want:    models.TrendInsufficient,
		},
		{
			name:    "enough samples but under two weeks of span",
			history: samplesEvery(now, 4, 3, func(i int) float64 { return 250 }),
			want:    models.TrendInsufficient,
		},
		{
			name:    "steady gains",
			history: samplesEvery(now, 5, 7, func(i int) float64 { return 250 + float64(i)*5 }),
			want:    models.TrendIncreasing,
		},
		{
			name:    "steady decline",
			history: samplesEvery(now, 5, 7, func(i int) float64 { return 250 - float64(i)*5 }),
			want:    models.TrendDecreasing,
		},
		{
			name:    "flat but short of the plateau span",
			history: samplesEvery(now, 4, 7, func(i int) float64 { return 250 }),
			want:    models.TrendStable,
		},
		{
			name:    "flat across seven weeks is a plateau",
			history: samplesEvery(now, 8, 7, func(i int) float64 { return 275 }),
			want:    models.TrendPlateau,
		},
		{
			name: "flat long span but too few points in window is stable",
			history: []models.E1RMSample{
				{Date: now.AddDate(0, 0, -50), Value: 250},
				{Date: now.AddDate(0, 0, -25), Value: 251},
				{Date: now.AddDate(0, 0, -1), Value: 250},
			},
			want: models.TrendStable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyTrend(cfg, tc.history, now)
			if got != tc.want {
				t.Errorf("ClassifyTrend = %q, want %q", got, tc.want)
			}
		})
	}
}

// TestClassifyTrendWindowing verifies samples older than the trailing window
// do not drag the classification: a long-ago low value followed by recent
// flat values must not read as increasing.
func TestClassifyTrendWindowing(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	history := []models.E1RMSample{
		{Date: now.AddDate(0, 0, -200), Value: 180}, // ancient, outside window
	}
	history = append(history, samplesEvery(now, 8, 7, func(i int) float64 { return 275 })...)

	if got := ClassifyTrend(cfg, history, now); got != models.TrendPlateau {
		t.Errorf("ClassifyTrend = %q, want %q (old sample must be excluded)", got, models.TrendPlateau)
	}
}

// TestClassifyTrendDormantHistory verifies a history that ended before the
// trailing window began is judged on its two most recent samples, not the
// whole stale record: an overall climb that finished with a drop must not
// read as increasing.
func TestClassifyTrendDormantHistory(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// Weekly samples ending 90 days ago: 200 → 260 overall, final drop to 240.
	values := []float64{200, 220, 240, 260, 240}
	history := make([]models.E1RMSample, len(values))
	for i, v := range values {
		history[i] = models.E1RMSample{Date: now.AddDate(0, 0, -90-7*(len(values)-1-i)), Value: v}
	}

	if got := ClassifyTrend(cfg, history, now); got != models.TrendDecreasing {
		t.Errorf("ClassifyTrend = %q, want %q (last two samples decide after a layoff)", got, models.TrendDecreasing)
	}
}

// TestClassifyTrendStableBandEdges verifies the ±2% band boundaries.
func TestClassifyTrendStableBandEdges(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// +1.9% over three weeks: inside the band, stable.
	up := samplesEvery(now, 4, 7, func(i int) float64 { return 200 })
	up[3].Value = 203.8
	if got := ClassifyTrend(cfg, up, now); got != models.TrendStable {
		t.Errorf("+1.9%% = %q, want stable", got)
	}

	// +3% over three weeks: increasing.
	up[3].Value = 206
	if got := ClassifyTrend(cfg, up, now); got != models.TrendIncreasing {
		t.Errorf("+3%% = %q, want increasing", got)
	}

	// -3% over three weeks: decreasing.
	down := samplesEvery(now, 4, 7, func(i int) float64 { return 200 })
	down[3].Value = 194
	if got := ClassifyTrend(cfg, down, now); got != models.TrendDecreasing {
		t.Errorf("-3%% = %q, want decreasing", got)
	}
}
