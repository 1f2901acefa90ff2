// Package analysis derives operational facts from a dense tide curve:
// high/low tide events and workable shore-operation windows. Both scans are
// pure functions over an immutable series and can run independently.
package analysis

import (
	"fmt"
	"time"

	"github.com/harborops/tidecast/internal/models"
)

// Detection defaults: a ±60-sample window is ±60 minutes at the standard
// one-minute cadence, and 60 minutes separates genuinely distinct tides in
// a semidiurnal regime.
const (
	DefaultWindowRadius = 60
	DefaultDedup        = 60 * time.Minute
)

// FindPeaks scans the series for local extremes. A sample is a HIGH
// candidate when it equals the maximum of the symmetric window of
// windowRadius samples on each side and exceeds the series mean (rejecting
// noise near the midline); LOW analogously. Candidates within dedup of the
// previously kept event of any kind are discarded, so a broad flat crest
// reports as one tide.
//
// A series shorter than 2·windowRadius+1 samples yields an empty result,
// not an error. A perfectly flat series yields no peaks.
func FindPeaks(series []models.TideSample, windowRadius int, dedup time.Duration) ([]models.PeakEvent, error) {
	if windowRadius < 1 {
		return nil, models.ConfigurationError{Message: fmt.Sprintf("window radius must be at least 1, got %d", windowRadius)}
	}
	if dedup < 0 {
		return nil, models.ConfigurationError{Message: "dedup distance cannot be negative"}
	}
	if len(series) < 2*windowRadius+1 {
		return nil, nil
	}

	mean := 0.0
	for _, s := range series {
		mean += s.LevelCm
	}
	mean /= float64(len(series))

	var candidates []models.PeakEvent
	for i := windowRadius; i < len(series)-windowRadius; i++ {
		wmax, wmin := windowExtremes(series, i, windowRadius)
		level := series[i].LevelCm

		switch {
		case level == wmax && level > mean:
			candidates = append(candidates, models.PeakEvent{
				Kind:    models.TideKindHigh,
				Time:    series[i].Time,
				LevelCm: level,
			})
		case level == wmin && level < mean:
			candidates = append(candidates, models.PeakEvent{
				Kind:    models.TideKindLow,
				Time:    series[i].Time,
				LevelCm: level,
			})
		}
	}

	return dedupPeaks(candidates, dedup), nil
}

func windowExtremes(series []models.TideSample, center, radius int) (wmax, wmin float64) {
	wmax = series[center-radius].LevelCm
	wmin = wmax
	for i := center - radius + 1; i <= center+radius; i++ {
		level := series[i].LevelCm
		if level > wmax {
			wmax = level
		}
		if level < wmin {
			wmin = level
		}
	}
	return wmax, wmin
}

// dedupPeaks keeps the first candidate of each cluster, scanning in time
// order and measuring against the last kept event regardless of kind.
func dedupPeaks(candidates []models.PeakEvent, dedup time.Duration) []models.PeakEvent {
	if len(candidates) == 0 {
		return nil
	}

	kept := []models.PeakEvent{candidates[0]}
	for _, c := range candidates[1:] {
		if c.Time.Sub(kept[len(kept)-1].Time) < dedup {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
