package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/harborops/tidecast/internal/models"
)

// DefaultMinWindow filters out runs too short to schedule work in.
const DefaultMinWindow = 10 * time.Minute

// HourRange is an allowed hour-of-day constraint, half-open: a sample is
// allowed when StartHour ≤ hour < EndHour in the sample's own timezone.
// StartHour == EndHour denotes an empty allowed range.
type HourRange struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

// Validate rejects hour bounds outside 0..24 or a start after the end.
func (r HourRange) Validate() error {
	if r.StartHour < 0 || r.StartHour > 24 || r.EndHour < 0 || r.EndHour > 24 {
		return models.ConfigurationError{Message: fmt.Sprintf("hour range %d-%d outside 0..24", r.StartHour, r.EndHour)}
	}
	if r.StartHour > r.EndHour {
		return models.ConfigurationError{Message: fmt.Sprintf("hour range start %d after end %d", r.StartHour, r.EndHour)}
	}
	return nil
}

// Contains reports whether t's hour of day falls in the range.
func (r HourRange) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= r.StartHour && h < r.EndHour
}

// FindWindows extracts the maximal contiguous intervals in which every
// sample satisfies level ≤ thresholdCm and falls within the allowed hours,
// discarding runs shorter than minDuration (DefaultMinWindow when zero).
// Each window records the minimum-level sample within it so presentation
// layers can anchor annotations. Windows come back in ascending start order
// and are non-overlapping by construction.
//
// A threshold below the series minimum or an empty hour range yields zero
// windows, not an error. Runs touching the series boundary are still valid
// if they meet the duration threshold.
func FindWindows(series []models.TideSample, thresholdCm float64, hours HourRange, minDuration time.Duration) ([]models.WorkWindow, error) {
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(thresholdCm) || math.IsInf(thresholdCm, 0) {
		return nil, models.ConfigurationError{Message: "threshold must be finite"}
	}
	if minDuration < 0 {
		return nil, models.ConfigurationError{Message: "minimum window duration cannot be negative"}
	}
	if minDuration == 0 {
		minDuration = DefaultMinWindow
	}
	if err := models.ValidateSeries(series); err != nil {
		return nil, err
	}

	eligible := func(s models.TideSample) bool {
		return s.LevelCm <= thresholdCm && hours.Contains(s.Time)
	}

	var windows []models.WorkWindow
	runStart := -1
	for i := 0; i <= len(series); i++ {
		inRun := i < len(series) && eligible(series[i])

		if inRun && runStart < 0 {
			runStart = i
		}
		if !inRun && runStart >= 0 {
			if w, ok := buildWindow(series[runStart:i], minDuration); ok {
				windows = append(windows, w)
			}
			runStart = -1
		}
	}

	return windows, nil
}

func buildWindow(run []models.TideSample, minDuration time.Duration) (models.WorkWindow, bool) {
	start := run[0]
	end := run[len(run)-1]

	duration := end.Time.Sub(start.Time)
	if duration < minDuration {
		return models.WorkWindow{}, false
	}

	lowest := run[0]
	for _, s := range run[1:] {
		if s.LevelCm < lowest.LevelCm {
			lowest = s
		}
	}

	return models.WorkWindow{
		Start:        start.Time,
		End:          end.Time,
		Duration:     duration,
		MinLevelCm:   lowest.LevelCm,
		MinLevelTime: lowest.Time,
	}, true
}
