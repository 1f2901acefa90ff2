// Package curve densifies sparse anchor samples into a smooth continuous
// tide curve.
//
// Interpolation is cosine easing between consecutive anchor pairs:
//
//	level(μ) = y1·(1−g(μ)) + y2·g(μ),  g(μ) = (1 − cos(μπ)) / 2
//
// which gives an S-curve with zero slope at each anchor, so hourly anchors
// join without derivative kinks. The interpolation is local: each output
// sample depends only on the two anchors bracketing it, so densifying one
// time window is independent of densifying another.
package curve

import (
	"fmt"
	"math"
	"time"

	"github.com/harborops/tidecast/internal/models"
)

// DefaultInterval is the output cadence used for plotting and analysis.
const DefaultInterval = time.Minute

// Densify produces one sample per interval between the first and last
// anchor, inclusive. The curve passes exactly through every anchor level at
// the anchor's timestamp: anchors are the only externally verified ground
// truth, and reproducing them is the primary correctness contract here.
// Every interpolated level lies strictly between its bracketing anchors.
func Densify(anchors []models.TideSample, interval time.Duration) ([]models.TideSample, error) {
	if interval <= 0 {
		return nil, models.ConfigurationError{Message: fmt.Sprintf("densify interval must be positive, got %s", interval)}
	}
	if len(anchors) < 2 {
		return nil, models.InvalidInputError{Message: "densify needs at least two anchors"}
	}
	if err := models.ValidateSeries(anchors); err != nil {
		return nil, err
	}

	first := anchors[0].Time
	last := anchors[len(anchors)-1].Time

	out := make([]models.TideSample, 0, last.Sub(first)/interval+2)
	seg := 0
	for t := first; t.Before(last); t = t.Add(interval) {
		for !t.Before(anchors[seg+1].Time) {
			seg++
		}
		out = append(out, models.TideSample{
			Time:    t,
			LevelCm: evalSegment(anchors[seg], anchors[seg+1], t),
		})
	}

	// Edge anchors are reproduced verbatim at the output boundary.
	out = append(out, anchors[len(anchors)-1])
	return out, nil
}

// evalSegment interpolates between anchors a and b at time t, a.Time ≤ t <
// b.Time. At μ=0 it returns a's level exactly.
func evalSegment(a, b models.TideSample, t time.Time) float64 {
	mu := float64(t.Sub(a.Time)) / float64(b.Time.Sub(a.Time))
	g := (1 - math.Cos(mu*math.Pi)) / 2
	return a.LevelCm*(1-g) + b.LevelCm*g
}
