package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harborops/tidecast/internal/harmonics"
	"github.com/harborops/tidecast/internal/models"
)

// SyntheticSource generates a day of samples by querying the station's
// harmonic model hour by hour. It is the documented fallback when no
// observed table exists for a day, so downstream stages never see a gap.
type SyntheticSource struct {
	mu     sync.Mutex
	models map[string]*harmonics.Model
}

func NewSyntheticSource() *SyntheticSource {
	return &SyntheticSource{
		models: make(map[string]*harmonics.Model),
	}
}

func (s *SyntheticSource) HourlySamples(_ context.Context, station models.Station, day time.Time) ([]models.TideSample, error) {
	model, err := s.modelFor(station)
	if err != nil {
		return nil, err
	}
	return model.HourlySamples(day, station.Location()), nil
}

// modelFor builds the station's harmonic model once and reuses it; tables
// are immutable so the cached model stays valid.
func (s *SyntheticSource) modelFor(station models.Station) (*harmonics.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if model, ok := s.models[station.ID]; ok {
		return model, nil
	}

	model, err := harmonics.NewModel(station.Table)
	if err != nil {
		return nil, fmt.Errorf("building harmonic model for station %s: %w", station.ID, err)
	}
	s.models[station.ID] = model
	return model, nil
}
