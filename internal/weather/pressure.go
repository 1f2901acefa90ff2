// Package weather supplies the single atmospheric-pressure scalar the
// surge correction needs. The weather API is a best-effort collaborator:
// any failure falls back to the standard atmosphere so a flaky upstream
// never interrupts a tide computation.
package weather

import (
	"context"
	"encoding/json"
	"math"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/harborops/tidecast/internal/correction"
	"github.com/harborops/tidecast/pkg/http/client"
)

type Provider struct {
	httpClient client.Interface
	path       string
}

func NewProvider(httpClient client.Interface, path string) *Provider {
	if path == "" {
		path = "/api/v1/observations/current"
	}
	return &Provider{httpClient: httpClient, path: path}
}

type observationResponse struct {
	PressureHpa float64 `json:"pressureHpa"`
}

// CurrentPressure returns the latest sea-level pressure in hPa, or the
// standard atmosphere when the reading is unavailable or malformed.
func (p *Provider) CurrentPressure(ctx context.Context) float64 {
	resp, err := p.httpClient.Get(ctx, p.path)
	if err != nil {
		log.Warn().Err(err).Msg("Pressure fetch failed, using standard atmosphere")
		return correction.StandardPressureHpa
	}
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("Pressure fetch returned non-OK status, using standard atmosphere")
		return correction.StandardPressureHpa
	}

	var obs observationResponse
	if err := json.Unmarshal(resp.Body, &obs); err != nil {
		log.Warn().Err(err).Msg("Decoding pressure observation failed, using standard atmosphere")
		return correction.StandardPressureHpa
	}

	if obs.PressureHpa <= 0 || math.IsNaN(obs.PressureHpa) || math.IsInf(obs.PressureHpa, 0) {
		log.Warn().Float64("pressure_hpa", obs.PressureHpa).Msg("Implausible pressure reading, using standard atmosphere")
		return correction.StandardPressureHpa
	}

	return obs.PressureHpa
}
