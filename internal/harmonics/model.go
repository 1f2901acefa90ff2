// Package harmonics synthesizes tide height from a table of harmonic
// constituents. It is the primary predictor when no observed samples exist
// for an hour and the documented fallback generator, so the rest of the
// pipeline never special-cases missing data.
package harmonics

import (
	"math"
	"time"

	"github.com/harborops/tidecast/internal/models"
)

// epoch is the fixed reference all phase lags are expressed against.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Model evaluates level = mean + Σ A_i · cos(speed_i·Δh − phase_i), with Δh
// the elapsed hours since the epoch. Speeds and phases are in degrees and
// converted to radians before the trigonometric evaluation.
type Model struct {
	table models.ConstituentTable
}

// NewModel validates the table up front so LevelAt can stay error-free.
func NewModel(table models.ConstituentTable) (*Model, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Model{table: table}, nil
}

// LevelAt returns the synthesized level in centimeters at t. Pure and
// deterministic: repeated calls with the same t return the same value.
func (m *Model) LevelAt(t time.Time) float64 {
	deltaHours := t.Sub(epoch).Hours()

	level := m.table.MeanLevelCm
	for _, c := range m.table.Constituents {
		angleDeg := c.SpeedDegPerHour*deltaHours - c.PhaseDeg
		level += c.AmplitudeCm * math.Cos(deg2rad(angleDeg))
	}
	return level
}

// HourlySamples synthesizes the 24 hourly samples for one calendar day in
// the given timezone, mirroring the shape of an observed tide-table day.
func (m *Model) HourlySamples(day time.Time, loc *time.Location) []models.TideSample {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	samples := make([]models.TideSample, 24)
	for h := 0; h < 24; h++ {
		t := midnight.Add(time.Duration(h) * time.Hour)
		samples[h] = models.TideSample{Time: t, LevelCm: m.LevelAt(t)}
	}
	return samples
}

// TableName identifies the constituent table the model was built from.
func (m *Model) TableName() string {
	return m.table.Name
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}
