// Package station holds the registry of port profiles: the harmonic
// constants and empirical correction constants for each station the
// service can predict. Profiles live in an S3 document so constants can be
// refit without a deploy; the embedded defaults keep the service working
// when the bucket is unreachable or unconfigured.
package station

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/harborops/tidecast/internal/models"
)

const profileKey = "stations.json"

// S3Client defines the interface for the S3 operations the registry needs.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// profileDocument is the stored station list with metadata.
type profileDocument struct {
	Stations    []models.Station `json:"stations"`
	LastUpdated int64            `json:"lastUpdated"`
}

// Registry resolves station IDs to profiles. The S3 fetch result is cached
// in memory with a TTL.
type Registry struct {
	client S3Client
	bucket string
	ttl    time.Duration
	clock  clockwork.Clock

	mu        sync.RWMutex
	cached    []models.Station
	fetchedAt time.Time
}

// NewRegistry creates a registry backed by bucket. A nil client or empty
// bucket serves the embedded defaults only.
func NewRegistry(client S3Client, bucket string, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &Registry{
		client: client,
		bucket: bucket,
		ttl:    ttl,
		clock:  clockwork.NewRealClock(),
	}
}

// FindStation returns the profile for stationID.
func (r *Registry) FindStation(ctx context.Context, stationID string) (*models.Station, error) {
	stations, err := r.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}

	for _, st := range stations {
		if st.ID == stationID {
			return &st, nil
		}
	}

	return nil, fmt.Errorf("station not found: %s", stationID)
}

// ListStations returns all known profiles: the S3 document when available,
// the embedded defaults otherwise.
func (r *Registry) ListStations(ctx context.Context) ([]models.Station, error) {
	r.mu.RLock()
	if r.cached != nil && r.clock.Now().Sub(r.fetchedAt) < r.ttl {
		stations := r.cached
		r.mu.RUnlock()
		return stations, nil
	}
	r.mu.RUnlock()

	stations := r.fetchProfiles(ctx)
	if stations == nil {
		stations = DefaultStations()
	}

	// Profiles without a constituent table inherit the reference table so
	// the synthetic fallback always has constants to work with.
	for i := range stations {
		if len(stations[i].Table.Constituents) == 0 {
			stations[i].Table = defaultTable()
		}
	}

	r.mu.Lock()
	r.cached = stations
	r.fetchedAt = r.clock.Now()
	r.mu.Unlock()

	return stations, nil
}

// fetchProfiles loads the S3 profile document, returning nil on any
// failure so the caller falls back to defaults.
func (r *Registry) fetchProfiles(ctx context.Context) []models.Station {
	if r.client == nil || r.bucket == "" {
		return nil
	}

	result, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(profileKey),
	})
	if err != nil {
		log.Debug().Err(err).Str("bucket", r.bucket).Msg("Profile document unavailable, using embedded defaults")
		return nil
	}
	defer func(body io.ReadCloser) {
		if closeErr := body.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var doc profileDocument
	if err := json.NewDecoder(result.Body).Decode(&doc); err != nil {
		log.Warn().Err(err).Msg("Malformed profile document, using embedded defaults")
		return nil
	}
	if len(doc.Stations) == 0 {
		return nil
	}

	for _, st := range doc.Stations {
		if err := st.Table.Validate(); err != nil {
			log.Warn().Err(err).Str("station_id", st.ID).Msg("Profile has invalid constituent table, using embedded defaults")
			return nil
		}
	}

	log.Debug().Int("station_count", len(doc.Stations)).Msg("Loaded station profiles from S3")
	return doc.Stations
}
