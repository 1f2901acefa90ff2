// Package correction applies the empirical scalar corrections that map a
// reference station's tide curve onto a target port: a fixed datum offset,
// an atmospheric-pressure surge offset, and a fixed time-of-day shift.
package correction

import (
	"math"
	"time"

	"github.com/harborops/tidecast/internal/models"
)

// StandardPressureHpa is the reference atmospheric pressure. A reading
// below it raises the predicted level, one above it lowers it.
const StandardPressureHpa = 1013.0

// Config carries the correction constants for one computation. It is an
// immutable value produced by the caller; zero PressureHpa and
// StandardPressureHpa default to the standard atmosphere.
type Config struct {
	BaseOffsetCm        float64
	PressureHpa         float64
	StandardPressureHpa float64
	TimeOffset          time.Duration
}

// Validate rejects non-finite correction constants.
func (c Config) Validate() error {
	for _, v := range []float64{c.BaseOffsetCm, c.PressureHpa, c.StandardPressureHpa} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.InvalidInputError{Message: "correction config has non-finite value"}
		}
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.StandardPressureHpa == 0 {
		c.StandardPressureHpa = StandardPressureHpa
	}
	if c.PressureHpa == 0 {
		c.PressureHpa = c.StandardPressureHpa
	}
	return c
}

// HeightOffsetCm is the total additive level correction: the datum offset
// plus the inverse barometric term, approximately 1 cm of rise per 1 hPa of
// pressure drop. The pressure term is an empirical simplification, not a
// physical simulation.
func (c Config) HeightOffsetCm() float64 {
	c = c.withDefaults()
	return c.BaseOffsetCm + (c.StandardPressureHpa - c.PressureHpa)
}

// Apply returns a corrected copy of samples: every level raised by
// HeightOffsetCm and every timestamp shifted by TimeOffset. The input is
// never mutated, and height offsets from separate configs compose by
// summation.
func Apply(samples []models.TideSample, cfg Config) ([]models.TideSample, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := models.ValidateSeries(samples); err != nil {
		return nil, err
	}

	offset := cfg.HeightOffsetCm()
	corrected := make([]models.TideSample, len(samples))
	for i, s := range samples {
		corrected[i] = models.TideSample{
			Time:    s.Time.Add(cfg.TimeOffset),
			LevelCm: s.LevelCm + offset,
		}
	}
	return corrected, nil
}
