// Package tide orchestrates the prediction pipeline: per-day samples
// (cache, tide table, or harmonic fallback) flow through corrections,
// densification, and the extremum and window analyses. Every stage is a
// pure function over an immutable sequence, so recomputation is simply
// re-invocation and per-day fetches can run in parallel.
package tide

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harborops/tidecast/internal/analysis"
	"github.com/harborops/tidecast/internal/cache"
	"github.com/harborops/tidecast/internal/correction"
	"github.com/harborops/tidecast/internal/curve"
	"github.com/harborops/tidecast/internal/models"
	"github.com/harborops/tidecast/internal/source"
)

const (
	// maxRangeDays bounds one computation; longer horizons are requested
	// as independent chunks by the caller.
	maxRangeDays = 5

	fetchWorkers = 4

	methodObserved  = "tide-table"
	methodSynthetic = "harmonic-synthesis"
	methodMixed     = "mixed"
)

type Service struct {
	stations  StationFinder
	observed  source.SampleSource
	synthetic source.SampleSource
	pressure  PressureProvider
	cache     SampleCache

	interval     time.Duration
	windowRadius int
	dedup        time.Duration
}

// NewService wires the pipeline. observed and sampleCache may be nil: a
// nil observed source predicts from harmonics alone, a nil cache fetches
// every day fresh.
func NewService(stations StationFinder, observed, synthetic source.SampleSource, pressure PressureProvider, sampleCache SampleCache) *Service {
	return &Service{
		stations:     stations,
		observed:     observed,
		synthetic:    synthetic,
		pressure:     pressure,
		cache:        sampleCache,
		interval:     curve.DefaultInterval,
		windowRadius: analysis.DefaultWindowRadius,
		dedup:        analysis.DefaultDedup,
	}
}

// GetTideCurve computes the dense corrected curve and its extremes for a
// station over [start, end].
func (s *Service) GetTideCurve(ctx context.Context, stationID string, start, end time.Time) (*models.CurveResponse, error) {
	station, err := s.stations.FindStation(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("finding station: %w", err)
	}

	loc := station.Location()
	start = start.In(loc)
	end = end.In(loc)

	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	days := daysCovering(start, end, loc)
	fetched, err := s.fetchDays(ctx, *station, days)
	if err != nil {
		return nil, err
	}

	var anchors []models.TideSample
	observedDays, syntheticDays := 0, 0
	for _, day := range fetched {
		anchors = append(anchors, day.samples...)
		if day.origin == source.OriginObserved {
			observedDays++
		} else {
			syntheticDays++
		}
	}

	cfg := correction.Config{
		BaseOffsetCm:        station.BaseOffsetCm,
		PressureHpa:         s.currentPressure(ctx),
		StandardPressureHpa: correction.StandardPressureHpa,
		TimeOffset:          time.Duration(station.TimeOffsetMinutes) * time.Minute,
	}

	corrected, err := correction.Apply(anchors, cfg)
	if err != nil {
		return nil, fmt.Errorf("applying corrections: %w", err)
	}

	dense, err := curve.Densify(corrected, s.interval)
	if err != nil {
		return nil, fmt.Errorf("densifying curve: %w", err)
	}

	dense = clipSeries(dense, start, end)

	peaks, err := analysis.FindPeaks(dense, s.windowRadius, s.dedup)
	if err != nil {
		return nil, fmt.Errorf("detecting extremes: %w", err)
	}

	return &models.CurveResponse{
		ResponseType:          "tide",
		StationID:             station.ID,
		StationName:           station.Name,
		CalculationMethod:     method(observedDays, syntheticDays),
		Predictions:           dense,
		Extremes:              peaks,
		TimeZoneOffsetSeconds: station.TimeZoneOffset,
	}, nil
}

// GetWorkWindows computes the workable windows for a station over
// [start, end]: intervals where the corrected level stays at or below
// thresholdCm during the allowed hours. A zero threshold uses the
// station's default.
func (s *Service) GetWorkWindows(ctx context.Context, stationID string, start, end time.Time, thresholdCm float64, hours analysis.HourRange, minDuration time.Duration) ([]models.WorkWindow, error) {
	// Reject bad parameters before any fetch or computation runs.
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(thresholdCm) || math.IsInf(thresholdCm, 0) || thresholdCm < 0 {
		return nil, models.ConfigurationError{Message: fmt.Sprintf("threshold must be a non-negative level in cm, got %v", thresholdCm)}
	}

	resp, err := s.GetTideCurve(ctx, stationID, start, end)
	if err != nil {
		return nil, err
	}

	if thresholdCm == 0 {
		station, err := s.stations.FindStation(ctx, stationID)
		if err != nil {
			return nil, fmt.Errorf("finding station: %w", err)
		}
		thresholdCm = station.DefaultThresholdCm
	}

	return analysis.FindWindows(resp.Predictions, thresholdCm, hours, minDuration)
}

type fetchedDay struct {
	samples []models.TideSample
	origin  string

	// record is set for freshly fetched days so fetchDays can batch the
	// cache writes after the pool drains.
	record *cache.DailySampleRecord
}

// fetchDays loads each day's samples on a small worker pool, preserving
// day order in the result. Freshly fetched days are written back to the
// cache in one batch; a failed write is logged, never fatal.
func (s *Service) fetchDays(ctx context.Context, station models.Station, days []time.Time) ([]fetchedDay, error) {
	results := make([]fetchedDay, len(days))
	errs := make([]error, len(days))

	work := make(chan int, len(days))
	var wg sync.WaitGroup
	for w := 0; w < fetchWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				results[i], errs[i] = s.fetchDay(ctx, station, days[i])
			}
		}()
	}

	for i := range days {
		work <- i
	}
	close(work)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		var records []cache.DailySampleRecord
		for _, day := range results {
			if day.record != nil {
				records = append(records, *day.record)
			}
		}
		if len(records) > 0 {
			if err := s.cache.SaveDailySamplesBatch(ctx, records); err != nil {
				log.Warn().Err(err).Str("station_id", station.ID).Msg("Sample cache write failed")
			}
		}
	}

	return results, nil
}

// fetchDay resolves one station-day: cache, then the tide-table service,
// then harmonic synthesis. Only an upstream availability failure
// (TideTableAPIError) triggers the synthetic fallback; a malformed
// observed document is invalid input and propagates, never coerced.
func (s *Service) fetchDay(ctx context.Context, station models.Station, day time.Time) (fetchedDay, error) {
	if s.cache != nil {
		record, err := s.cache.GetDailySamples(ctx, station.ID, day)
		if err != nil {
			log.Warn().Err(err).Str("station_id", station.ID).Msg("Sample cache read failed")
		} else if record != nil {
			return fetchedDay{samples: record.ToSamples(station.Location()), origin: record.Origin}, nil
		}
	}

	origin := source.OriginObserved
	var samples []models.TideSample
	var err error

	if s.observed != nil {
		samples, err = s.observed.HourlySamples(ctx, station, day)
		if err != nil {
			var apiErr *source.TideTableAPIError
			if !errors.As(err, &apiErr) {
				return fetchedDay{}, fmt.Errorf("fetching observed samples for %s: %w", day.Format("2006-01-02"), err)
			}
		}
	}
	if s.observed == nil || err != nil {
		if err != nil {
			log.Info().
				Err(err).
				Str("station_id", station.ID).
				Str("date", day.Format("2006-01-02")).
				Msg("No observed tide table, falling back to harmonic synthesis")
		}
		origin = source.OriginSynthetic
		samples, err = s.synthetic.HourlySamples(ctx, station, day)
		if err != nil {
			return fetchedDay{}, fmt.Errorf("synthesizing samples for %s: %w", day.Format("2006-01-02"), err)
		}
	}

	result := fetchedDay{samples: samples, origin: origin}
	if s.cache != nil {
		record := cache.NewDailySampleRecord(station.ID, day, origin, samples)
		result.record = &record
	}
	return result, nil
}

func (s *Service) currentPressure(ctx context.Context) float64 {
	if s.pressure == nil {
		return correction.StandardPressureHpa
	}
	return s.pressure.CurrentPressure(ctx)
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return models.ConfigurationError{Message: "start and end must be set"}
	}
	if !end.After(start) {
		return models.ConfigurationError{Message: "end must be after start"}
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return models.ConfigurationError{Message: fmt.Sprintf("date range cannot exceed %d days", maxRangeDays)}
	}
	return nil
}

// daysCovering lists the calendar days whose samples are needed to cover
// [start, end], plus one day on each side so the smoother has anchors
// beyond the clip boundary.
func daysCovering(start, end time.Time, loc *time.Location) []time.Time {
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func clipSeries(series []models.TideSample, start, end time.Time) []models.TideSample {
	var clipped []models.TideSample
	for _, s := range series {
		if !s.Time.Before(start) && !s.Time.After(end) {
			clipped = append(clipped, s)
		}
	}
	return clipped
}

func method(observedDays, syntheticDays int) string {
	switch {
	case syntheticDays == 0:
		return methodObserved
	case observedDays == 0:
		return methodSynthetic
	default:
		return methodMixed
	}
}
