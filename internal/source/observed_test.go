package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborops/tidecast/internal/harmonics"
	"github.com/harborops/tidecast/internal/models"
	"github.com/harborops/tidecast/pkg/http/client"
)

func observedStation() models.Station {
	return models.Station{
		ID:             "takehara",
		Name:           "Takehara",
		TimeZoneOffset: 9 * 60 * 60,
		Table:          harmonics.SetoReferenceTable(),
	}
}

func stubClient(fn func(ctx context.Context, path string) (*client.Response, error)) client.Interface {
	return &client.Client{GetFunc: fn}
}

func TestObservedSourceHourlySamples(t *testing.T) {
	t.Parallel()

	station := observedStation()
	day := time.Date(2026, time.August, 10, 0, 0, 0, 0, station.Location())

	var requestedPath string
	httpClient := stubClient(func(_ context.Context, path string) (*client.Response, error) {
		requestedPath = path
		body := `{"station": "takehara", "date": "2026-08-10", "levelsCm": [
			230, 275, 290, 265, 210, 140, 70, 30, 40, 100, 180, 260,
			315, 330, 300, 240, 170, 110, 80, 85, 130, 190, 250, 290]}`
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
	})

	samples, err := NewObservedSource(httpClient).HourlySamples(context.Background(), station, day)
	require.NoError(t, err)
	require.Len(t, samples, 24)

	assert.Equal(t, "/api/v1/tides/hourly?date=2026-08-10&station=takehara", requestedPath)
	assert.Equal(t, day, samples[0].Time)
	assert.Equal(t, 230.0, samples[0].LevelCm)
	assert.Equal(t, day.Add(23*time.Hour), samples[23].Time)
	assert.Equal(t, 290.0, samples[23].LevelCm)
	require.NoError(t, models.ValidateSeries(samples))
}

func TestObservedSourceEscapesQueryParameters(t *testing.T) {
	t.Parallel()

	station := observedStation()
	station.ID = "onishi east/2"
	day := time.Date(2026, time.August, 10, 0, 0, 0, 0, station.Location())

	var requestedPath string
	httpClient := stubClient(func(_ context.Context, path string) (*client.Response, error) {
		requestedPath = path
		return &client.Response{StatusCode: http.StatusNotFound}, nil
	})

	_, _ = NewObservedSource(httpClient).HourlySamples(context.Background(), station, day)

	parsed, err := url.ParseQuery(strings.TrimPrefix(requestedPath, "/api/v1/tides/hourly?"))
	require.NoError(t, err)
	assert.Equal(t, "onishi east/2", parsed.Get("station"))
	assert.NotContains(t, requestedPath, "onishi east")
}

func TestObservedSourceRejectsBadDocuments(t *testing.T) {
	t.Parallel()

	station := observedStation()
	day := time.Date(2026, time.August, 10, 0, 0, 0, 0, station.Location())

	tests := []struct {
		name         string
		body         string
		invalidInput bool
	}{
		{
			name:         "wrong level count",
			body:         `{"station": "takehara", "date": "2026-08-10", "levelsCm": [230, 275, 290]}`,
			invalidInput: true,
		},
		{
			name: "non-finite level",
			body: `{"station": "takehara", "date": "2026-08-10", "levelsCm": [
				230, 275, 290, 265, 210, 140, 70, 30, 40, 100, 180, 260,
				315, 330, 300, 240, 170, 110, 80, 85, 130, 190, 250, 1e999]}`,
		},
		{
			name: "malformed json",
			body: `{not json`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			httpClient := stubClient(func(context.Context, string) (*client.Response, error) {
				return &client.Response{StatusCode: http.StatusOK, Body: []byte(tt.body)}, nil
			})

			_, err := NewObservedSource(httpClient).HourlySamples(context.Background(), station, day)
			require.Error(t, err)
			if tt.invalidInput {
				var invalidInput models.InvalidInputError
				assert.ErrorAs(t, err, &invalidInput)
			}
		})
	}
}

func TestObservedSourceUpstreamFailures(t *testing.T) {
	t.Parallel()

	station := observedStation()
	day := time.Date(2026, time.August, 10, 0, 0, 0, 0, station.Location())
	transportErr := errors.New("connection refused")

	tests := []struct {
		name string
		get  func(context.Context, string) (*client.Response, error)
	}{
		{
			name: "transport error",
			get: func(context.Context, string) (*client.Response, error) {
				return nil, transportErr
			},
		},
		{
			name: "not found",
			get: func(context.Context, string) (*client.Response, error) {
				return &client.Response{StatusCode: http.StatusNotFound}, nil
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewObservedSource(stubClient(tt.get)).HourlySamples(context.Background(), station, day)
			require.Error(t, err)

			var apiErr *TideTableAPIError
			require.ErrorAs(t, err, &apiErr)
		})
	}
}

func TestTideTableAPIErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("dial tcp: timeout")
	err := NewTideTableAPIError("fetching hourly levels", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "tide table API error")
	assert.Contains(t, err.Error(), "fetching hourly levels")
}
