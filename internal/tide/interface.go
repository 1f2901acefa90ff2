package tide

import (
	"context"
	"time"

	"github.com/harborops/tidecast/internal/cache"
	"github.com/harborops/tidecast/internal/models"
)

// StationFinder resolves a station ID to its port profile.
type StationFinder interface {
	FindStation(ctx context.Context, stationID string) (*models.Station, error)
}

// PressureProvider supplies the current sea-level pressure in hPa for the
// surge correction.
type PressureProvider interface {
	CurrentPressure(ctx context.Context) float64
}

// SampleCache stores station-day sample records. The service works without
// one; a nil cache just means every day is fetched fresh. Freshly fetched
// days are written back as one batch per request.
type SampleCache interface {
	GetDailySamples(ctx context.Context, stationID string, date time.Time) (*cache.DailySampleRecord, error)
	SaveDailySamples(ctx context.Context, record cache.DailySampleRecord) error
	SaveDailySamplesBatch(ctx context.Context, records []cache.DailySampleRecord) error
}
