package source

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborops/tidecast/internal/harmonics"
	"github.com/harborops/tidecast/internal/models"
)

func TestSyntheticSourceHourlySamples(t *testing.T) {
	t.Parallel()

	station := observedStation()
	day := time.Date(2026, time.August, 10, 0, 0, 0, 0, station.Location())
	synthetic := NewSyntheticSource()

	samples, err := synthetic.HourlySamples(context.Background(), station, day)
	require.NoError(t, err)
	require.Len(t, samples, 24)
	require.NoError(t, models.ValidateSeries(samples))

	assert.Equal(t, day, samples[0].Time)
	assert.Equal(t, time.Hour, samples[1].Time.Sub(samples[0].Time))

	// Samples match a model built directly from the same table.
	model, err := harmonics.NewModel(station.Table)
	require.NoError(t, err)
	for _, s := range samples {
		assert.InDelta(t, model.LevelAt(s.Time), s.LevelCm, 1e-9)
	}
}

func TestSyntheticSourceDeterministic(t *testing.T) {
	t.Parallel()

	station := observedStation()
	day := time.Date(2026, time.August, 10, 0, 0, 0, 0, station.Location())
	synthetic := NewSyntheticSource()

	first, err := synthetic.HourlySamples(context.Background(), station, day)
	require.NoError(t, err)
	second, err := synthetic.HourlySamples(context.Background(), station, day)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSyntheticSourceRejectsInvalidTable(t *testing.T) {
	t.Parallel()

	station := observedStation()
	station.Table.Constituents[0].AmplitudeCm = math.NaN()
	synthetic := NewSyntheticSource()

	_, err := synthetic.HourlySamples(context.Background(), station, time.Now())
	require.Error(t, err)

	var invalidInput models.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput)
}
