// Package cache provides a two-layer cache of station-day sample sets: an
// in-process LRU in front of a DynamoDB table. Tide tables change at most
// daily, so short LRU TTLs plus a day-scale DynamoDB TTL keep upstream
// fetches rare without serving stale corrections.
package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"

	"github.com/harborops/tidecast/internal/config"
)

// LRUCacheEntry wraps the cached data with metadata
type LRUCacheEntry struct {
	Data      *DailySampleRecord
	ExpiresAt time.Time
}

// SampleCacheService provides a two-layer caching system using LRU and DynamoDB
type SampleCacheService struct {
	lru          *lru.Cache[string, *LRUCacheEntry]
	dynamoCache  *DynamoSampleCache
	ttl          time.Duration
	clock        clockwork.Clock

	// Hit/miss counters are updated from concurrent per-day fetches.
	lruHits      uint64
	lruMisses    uint64
	dynamoHits   uint64
	dynamoMisses uint64
}

// NewSampleCacheService creates a cache service over an injected DynamoDB
// client (pass the result of NewDynamoClient in production). With
// EnableLRUCache off, reads and writes go straight to DynamoDB.
func NewSampleCacheService(client DynamoDBClient, cacheConfig *config.CacheConfig) (*SampleCacheService, error) {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}

	var lruCache *lru.Cache[string, *LRUCacheEntry]
	if cacheConfig.EnableLRUCache {
		var err error
		lruCache, err = lru.New[string, *LRUCacheEntry](cacheConfig.SampleLRUSize)
		if err != nil {
			return nil, fmt.Errorf("creating LRU cache: %w", err)
		}
	}

	return &SampleCacheService{
		lru:         lruCache,
		dynamoCache: NewDynamoSampleCache(client, cacheConfig),
		ttl:         cacheConfig.GetSampleLRUTTL(),
		clock:       clockwork.NewRealClock(),
	}, nil
}

// getCacheKey generates a unique cache key for a station and date
func getCacheKey(stationID string, date time.Time) string {
	return fmt.Sprintf("%s:%s", stationID, date.Format("2006-01-02"))
}

// GetDailySamples tries the LRU cache first, then DynamoDB.
func (c *SampleCacheService) GetDailySamples(ctx context.Context, stationID string, date time.Time) (*DailySampleRecord, error) {
	key := getCacheKey(stationID, date)
	if c.lru != nil {
		if entry, ok := c.lru.Get(key); ok {
			if c.clock.Now().Before(entry.ExpiresAt) {
				atomic.AddUint64(&c.lruHits, 1)
				return entry.Data, nil
			}
			// Entry expired, remove it
			c.lru.Remove(key)
		}
		atomic.AddUint64(&c.lruMisses, 1)
	}

	record, err := c.dynamoCache.GetDailySamples(ctx, stationID, date)
	if err != nil {
		return nil, fmt.Errorf("getting samples from DynamoDB: %w", err)
	}

	if record != nil {
		atomic.AddUint64(&c.dynamoHits, 1)
		// Hit in DynamoDB, promote into the LRU layer
		c.addToLRU(key, record)
		return record, nil
	}
	atomic.AddUint64(&c.dynamoMisses, 1)

	return nil, nil
}

// SaveDailySamples saves one record to both layers.
func (c *SampleCacheService) SaveDailySamples(ctx context.Context, record DailySampleRecord) error {
	date, err := time.Parse("2006-01-02", record.Date)
	if err != nil {
		return fmt.Errorf("parsing date: %w", err)
	}

	c.addToLRU(getCacheKey(record.StationID, date), &record)

	if err := c.dynamoCache.SaveDailySamples(ctx, record); err != nil {
		return fmt.Errorf("saving samples to DynamoDB: %w", err)
	}

	return nil
}

// SaveDailySamplesBatch saves a set of records: each is seeded into the
// LRU layer, then the DynamoDB writes go out as batched puts.
func (c *SampleCacheService) SaveDailySamplesBatch(ctx context.Context, records []DailySampleRecord) error {
	for i := range records {
		date, err := time.Parse("2006-01-02", records[i].Date)
		if err != nil {
			return fmt.Errorf("parsing date: %w", err)
		}
		c.addToLRU(getCacheKey(records[i].StationID, date), &records[i])
	}

	if err := c.dynamoCache.SaveDailySamplesBatch(ctx, records); err != nil {
		return fmt.Errorf("batch saving samples to DynamoDB: %w", err)
	}

	return nil
}

func (c *SampleCacheService) addToLRU(key string, record *DailySampleRecord) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, &LRUCacheEntry{
		Data:      record,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// GetCacheStats returns statistics about cache hits and misses
func (c *SampleCacheService) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":      atomic.LoadUint64(&c.lruHits),
		"lru_misses":    atomic.LoadUint64(&c.lruMisses),
		"dynamo_hits":   atomic.LoadUint64(&c.dynamoHits),
		"dynamo_misses": atomic.LoadUint64(&c.dynamoMisses),
	}
}

// Clear removes all entries from the LRU cache
func (c *SampleCacheService) Clear() {
	if c.lru != nil {
		c.lru.Purge()
	}
}
