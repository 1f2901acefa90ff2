package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU Cache settings
	SampleLRUSize       int
	SampleLRUTTLMinutes int

	// DynamoDB Cache settings
	SampleDynamoTTLDays int

	// Station profile settings
	ProfileTTLDays int

	// Batch processing settings
	BatchSize       int
	MaxBatchRetries int

	// General settings
	EnableLRUCache    bool
	EnableDynamoCache bool
}

const (
	// Default values
	defaultSampleLRUSize       = 1000
	defaultSampleTTLMinutes    = 15
	defaultSampleDynamoTTLDays = 2
	defaultProfileTTLDays      = 2
	defaultBatchSize           = 25
	defaultMaxBatchRetries     = 3
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		// Set defaults
		SampleLRUSize:       getEnvInt("CACHE_SAMPLE_LRU_SIZE", defaultSampleLRUSize),
		SampleLRUTTLMinutes: getEnvInt("CACHE_SAMPLE_LRU_TTL_MINUTES", defaultSampleTTLMinutes),
		SampleDynamoTTLDays: getEnvInt("CACHE_DYNAMO_TTL_DAYS", defaultSampleDynamoTTLDays),
		ProfileTTLDays:      getEnvInt("CACHE_PROFILE_TTL_DAYS", defaultProfileTTLDays),
		BatchSize:           getEnvInt("CACHE_BATCH_SIZE", defaultBatchSize),
		MaxBatchRetries:     getEnvInt("CACHE_MAX_BATCH_RETRIES", defaultMaxBatchRetries),
		EnableLRUCache:      getEnvBool("CACHE_ENABLE_LRU", true),
		EnableDynamoCache:   getEnvBool("CACHE_ENABLE_DYNAMO", true),
	}

	log.Debug().
		Int("SampleLRUSize", config.SampleLRUSize).
		Int("SampleLRUTTLMinutes", config.SampleLRUTTLMinutes).
		Int("SampleDynamoTTLDays", config.SampleDynamoTTLDays).
		Int("ProfileTTLDays", config.ProfileTTLDays).
		Int("BatchSize", config.BatchSize).
		Int("MaxBatchRetries", config.MaxBatchRetries).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableDynamoCache", config.EnableDynamoCache).
		Msg("Cache configuration loaded")

	return config
}

// Helper methods for the CacheConfig struct
func (c *CacheConfig) GetSampleLRUTTL() time.Duration {
	return time.Duration(c.SampleLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetDynamoTTL() time.Duration {
	return time.Duration(c.SampleDynamoTTLDays) * 24 * time.Hour
}

func (c *CacheConfig) GetProfileTTL() time.Duration {
	return time.Duration(c.ProfileTTLDays) * 24 * time.Hour
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
