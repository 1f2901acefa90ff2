// Package source unifies the incompatible ways a day of tide data can be
// obtained — a remote tide-table service or harmonic synthesis — behind one
// interface, so the pipeline consumes a sample sequence and stays agnostic
// to its origin.
package source

import (
	"context"
	"time"

	"github.com/harborops/tidecast/internal/models"
)

// Origin labels where a day's samples came from.
const (
	OriginObserved  = "observed"
	OriginSynthetic = "synthetic"
)

// SampleSource produces the 24 hourly samples for one calendar day at a
// station, ordered ascending by time.
type SampleSource interface {
	HourlySamples(ctx context.Context, station models.Station, day time.Time) ([]models.TideSample, error)
}
