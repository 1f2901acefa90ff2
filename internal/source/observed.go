package source

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harborops/tidecast/internal/models"
	"github.com/harborops/tidecast/pkg/http/client"
)

// ObservedSource fetches a day's hourly levels from the tide-table service
// that mirrors the meteorological agency's published tables.
type ObservedSource struct {
	httpClient client.Interface
}

func NewObservedSource(httpClient client.Interface) *ObservedSource {
	return &ObservedSource{httpClient: httpClient}
}

// hourlyResponse is the tide-table service's day document: exactly 24
// levels, one per hour starting at local midnight.
type hourlyResponse struct {
	Station  string    `json:"station"`
	Date     string    `json:"date"`
	LevelsCm []float64 `json:"levelsCm"`
}

func (s *ObservedSource) HourlySamples(ctx context.Context, station models.Station, day time.Time) ([]models.TideSample, error) {
	dateStr := day.Format("2006-01-02")

	query := url.Values{}
	query.Set("station", station.ID)
	query.Set("date", dateStr)

	resp, err := s.httpClient.Get(ctx, "/api/v1/tides/hourly?"+query.Encode())
	if err != nil {
		return nil, NewTideTableAPIError("fetching hourly levels", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewTideTableAPIError(fmt.Sprintf("unexpected status %d for station %s date %s", resp.StatusCode, station.ID, dateStr), nil)
	}

	var doc hourlyResponse
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return nil, NewTideTableAPIError("decoding hourly response", err)
	}

	if len(doc.LevelsCm) != 24 {
		return nil, models.InvalidInputError{Message: fmt.Sprintf("hourly array for %s has %d entries, want 24", dateStr, len(doc.LevelsCm))}
	}

	loc := station.Location()
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	samples := make([]models.TideSample, 24)
	for h, level := range doc.LevelsCm {
		if math.IsNaN(level) || math.IsInf(level, 0) {
			return nil, models.InvalidInputError{Message: fmt.Sprintf("hourly array for %s has non-finite level at hour %d", dateStr, h)}
		}
		samples[h] = models.TideSample{
			Time:    midnight.Add(time.Duration(h) * time.Hour),
			LevelCm: level,
		}
	}

	log.Debug().Str("station_id", station.ID).Str("date", dateStr).Msg("Fetched hourly levels from tide table")
	return samples, nil
}
