package models

import (
	"fmt"
	"math"
	"time"
)

type TideKind string

const (
	TideKindHigh TideKind = "HIGH"
	TideKindLow  TideKind = "LOW"
)

// TideSample is a single point of a tide curve: a timestamp and a sea level
// in centimeters above the station datum. Sequences of samples are always
// ordered ascending by time; every pipeline stage relies on that ordering.
type TideSample struct {
	Time    time.Time `json:"time"`
	LevelCm float64   `json:"levelCm"`
}

// Validate rejects samples with a zero timestamp or a non-finite level.
func (s TideSample) Validate() error {
	if s.Time.IsZero() {
		return InvalidInputError{Message: "sample has zero timestamp"}
	}
	if math.IsNaN(s.LevelCm) || math.IsInf(s.LevelCm, 0) {
		return InvalidInputError{Message: fmt.Sprintf("sample at %s has non-finite level", s.Time.Format(time.RFC3339))}
	}
	return nil
}

// ValidateSeries checks every sample and the ascending-time invariant.
func ValidateSeries(samples []TideSample) error {
	for i, s := range samples {
		if err := s.Validate(); err != nil {
			return err
		}
		if i > 0 && !samples[i-1].Time.Before(s.Time) {
			return InvalidInputError{Message: fmt.Sprintf("samples out of order at index %d", i)}
		}
	}
	return nil
}

// PeakEvent is a detected high or low tide.
type PeakEvent struct {
	Kind    TideKind  `json:"kind"`
	Time    time.Time `json:"time"`
	LevelCm float64   `json:"levelCm"`
}

// WorkWindow is a contiguous interval in which the tide stays at or below a
// threshold during allowed hours, long enough to schedule shore work in.
type WorkWindow struct {
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	Duration     time.Duration `json:"duration"`
	MinLevelCm   float64       `json:"minLevelCm"`
	MinLevelTime time.Time     `json:"minLevelTime"`
}

// CurveResponse is the full tide computation result for a station and date
// range: the dense curve for plotting plus the detected extremes.
type CurveResponse struct {
	ResponseType          string       `json:"responseType"`
	StationID             string       `json:"stationId"`
	StationName           string       `json:"stationName"`
	CalculationMethod     string       `json:"calculationMethod"`
	Predictions           []TideSample `json:"predictions"`
	Extremes              []PeakEvent  `json:"extremes"`
	TimeZoneOffsetSeconds int          `json:"timeZoneOffsetSeconds"`
}
