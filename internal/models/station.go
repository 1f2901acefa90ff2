package models

import (
	"math"
	"time"
)

// Constituent is one sinusoidal term of the harmonic synthesis: a named
// tidal wave with fixed angular speed and empirically fitted amplitude and
// phase.
type Constituent struct {
	Name            string  `json:"name"`
	AmplitudeCm     float64 `json:"amplitudeCm"`
	PhaseDeg        float64 `json:"phaseDeg"`
	SpeedDegPerHour float64 `json:"speedDegPerHour"`
}

// ConstituentTable is a named set of constituents plus the mean sea level
// they oscillate around. It is the sole configuration of the harmonic model
// and is treated as read-only for the duration of a computation.
type ConstituentTable struct {
	Name         string        `json:"name"`
	MeanLevelCm  float64       `json:"meanLevelCm"`
	Constituents []Constituent `json:"constituents"`
}

// Validate rejects tables with non-finite entries.
func (t ConstituentTable) Validate() error {
	if math.IsNaN(t.MeanLevelCm) || math.IsInf(t.MeanLevelCm, 0) {
		return InvalidInputError{Message: "constituent table " + t.Name + " has non-finite mean level"}
	}
	for _, c := range t.Constituents {
		if !isFinite(c.AmplitudeCm) || !isFinite(c.PhaseDeg) || !isFinite(c.SpeedDegPerHour) {
			return InvalidInputError{Message: "constituent " + c.Name + " has non-finite parameters"}
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Station is the profile of one port: its harmonic constants plus the
// empirical corrections that map the reference station's curve onto it.
type Station struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TimeZoneOffset int    `json:"timeZoneOffset"` // seconds east of UTC

	// BaseOffsetCm raises the reference datum to this port's datum.
	BaseOffsetCm float64 `json:"baseOffsetCm"`
	// TimeOffsetMinutes shifts the reference curve to this port's
	// empirically observed lag or lead.
	TimeOffsetMinutes int `json:"timeOffsetMinutes"`
	// DefaultThresholdCm is the level below which shore work is feasible
	// at this port, used when the caller supplies none.
	DefaultThresholdCm float64 `json:"defaultThresholdCm"`

	Table ConstituentTable `json:"constituents"`
}

// Location returns the fixed-offset timezone the station reports in.
func (s Station) Location() *time.Location {
	return time.FixedZone(s.ID, s.TimeZoneOffset)
}
