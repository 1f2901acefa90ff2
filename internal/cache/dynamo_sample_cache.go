package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/harborops/tidecast/internal/config"
)

const tableName = "tide-samples-cache"

// DynamoSampleCache persists station-day sample records in DynamoDB with a
// TTL, so cold starts and parallel lambdas share one tide-table fetch.
type DynamoSampleCache struct {
	client DynamoDBClient
	config *config.CacheConfig
	clock  clockwork.Clock
}

func NewDynamoSampleCache(client DynamoDBClient, cacheConfig *config.CacheConfig) *DynamoSampleCache {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	return &DynamoSampleCache{
		client: client,
		config: cacheConfig,
		clock:  clockwork.NewRealClock(),
	}
}

// GetDailySamples retrieves the cached record for a station and date, or
// nil when absent or expired.
func (c *DynamoSampleCache) GetDailySamples(ctx context.Context, stationID string, date time.Time) (*DailySampleRecord, error) {
	dateStr := date.Format("2006-01-02")

	input := &dynamodb.GetItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			"stationId": &types.AttributeValueMemberS{Value: stationID},
			"date":      &types.AttributeValueMemberS{Value: dateStr},
		},
	}

	result, err := c.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("getting samples from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record DailySampleRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling sample record: %w", err)
	}

	if !c.isValid(record) {
		log.Debug().
			Str("station_id", stationID).
			Str("date", dateStr).
			Msg("Cache expired")
		return nil, nil
	}

	return &record, nil
}

// SaveDailySamples saves one record to the cache.
func (c *DynamoSampleCache) SaveDailySamples(ctx context.Context, record DailySampleRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid sample record: %w", err)
	}

	now := c.clock.Now().Unix()
	record.LastUpdated = now
	record.TTL = now + int64(c.config.GetDynamoTTL().Seconds())

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling sample record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      item,
	}

	if _, err := c.client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("putting samples in DynamoDB: %w", err)
	}

	log.Debug().
		Str("station_id", record.StationID).
		Str("date", record.Date).
		Str("origin", record.Origin).
		Msg("Saved samples to cache")

	return nil
}

// SaveDailySamplesBatch saves multiple records using batched writes.
func (c *DynamoSampleCache) SaveDailySamplesBatch(ctx context.Context, records []DailySampleRecord) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("invalid sample record: %w", err)
		}
	}

	batchSize := c.config.BatchSize
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := records[i:end]
		var writeRequests []types.WriteRequest

		for _, record := range batch {
			now := c.clock.Now().Unix()
			record.LastUpdated = now
			record.TTL = now + int64(c.config.GetDynamoTTL().Seconds())

			item, err := attributevalue.MarshalMap(record)
			if err != nil {
				return fmt.Errorf("marshaling sample record: %w", err)
			}

			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{
					Item: item,
				},
			})
		}

		var lastErr error
		for retry := 0; retry < c.config.MaxBatchRetries; retry++ {
			input := &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					tableName: writeRequests,
				},
			}

			if _, err := c.client.BatchWriteItem(ctx, input); err != nil {
				lastErr = err
				// Exponential backoff between attempts
				c.clock.Sleep(time.Duration(1<<retry) * 100 * time.Millisecond)
				continue
			}
			lastErr = nil
			break
		}
		if lastErr != nil {
			return fmt.Errorf("batch writing samples after %d retries: %w",
				c.config.MaxBatchRetries, lastErr)
		}
	}

	return nil
}

func (c *DynamoSampleCache) isValid(record DailySampleRecord) bool {
	return c.clock.Now().Unix() < record.TTL
}
