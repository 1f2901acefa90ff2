package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.NotEmpty(t, cfg.TideTableBaseURL)
	assert.NotEmpty(t, cfg.WeatherBaseURL)
}

func TestOptions(t *testing.T) {
	cfg := New(
		WithEnvironment("local"),
		WithLogLevel("debug"),
		WithHTTPTimeout(3*time.Second),
	)

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
}

func TestWithLogLevelFallsBackToInfo(t *testing.T) {
	cfg := New(WithLogLevel("shouting"))
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("TIDE_TABLE_BASE_URL", "http://localhost:9100")
	t.Setenv("PROFILE_BUCKET", "tidecast-profiles-dev")

	cfg := LoadFromEnv()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "http://localhost:9100", cfg.TideTableBaseURL)
	assert.Equal(t, "tidecast-profiles-dev", cfg.ProfileBucket)
}

func TestLoadFromEnvIgnoresMalformedDuration(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "whenever")
	cfg := LoadFromEnv()
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}

func TestGetCacheConfigDefaults(t *testing.T) {
	cfg := GetCacheConfig()

	assert.Equal(t, 1000, cfg.SampleLRUSize)
	assert.Equal(t, 15*time.Minute, cfg.GetSampleLRUTTL())
	assert.Equal(t, 48*time.Hour, cfg.GetDynamoTTL())
	assert.Equal(t, 48*time.Hour, cfg.GetProfileTTL())
	assert.Equal(t, 25, cfg.BatchSize)
	assert.True(t, cfg.EnableLRUCache)
	assert.True(t, cfg.EnableDynamoCache)
}

func TestGetCacheConfigFromEnv(t *testing.T) {
	t.Setenv("CACHE_SAMPLE_LRU_SIZE", "50")
	t.Setenv("CACHE_SAMPLE_LRU_TTL_MINUTES", "5")
	t.Setenv("CACHE_DYNAMO_TTL_DAYS", "1")
	t.Setenv("CACHE_ENABLE_DYNAMO", "false")

	cfg := GetCacheConfig()

	assert.Equal(t, 50, cfg.SampleLRUSize)
	assert.Equal(t, 5*time.Minute, cfg.GetSampleLRUTTL())
	assert.Equal(t, 24*time.Hour, cfg.GetDynamoTTL())
	assert.False(t, cfg.EnableDynamoCache)
}

func TestGetCacheConfigIgnoresMalformedInt(t *testing.T) {
	t.Setenv("CACHE_SAMPLE_LRU_SIZE", "many")
	cfg := GetCacheConfig()
	assert.Equal(t, 1000, cfg.SampleLRUSize)
}
