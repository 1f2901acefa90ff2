package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborops/tidecast/internal/config"
	"github.com/harborops/tidecast/internal/models"
)

// mockDynamoClient is an in-memory DynamoDBClient keyed by stationId:date.
type mockDynamoClient struct {
	mu            sync.Mutex
	items         map[string]map[string]types.AttributeValue
	getErr        error
	putErr        error
	batchFailures int
	batchCalls    int
}

func newMockDynamoClient() *mockDynamoClient {
	return &mockDynamoClient{items: map[string]map[string]types.AttributeValue{}}
}

func itemKey(attrs map[string]types.AttributeValue) string {
	station, _ := attrs["stationId"].(*types.AttributeValueMemberS)
	date, _ := attrs["date"].(*types.AttributeValueMemberS)
	return station.Value + ":" + date.Value
}

func (m *mockDynamoClient) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	item, ok := m.items[itemKey(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (m *mockDynamoClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.items[itemKey(params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoClient) BatchWriteItem(_ context.Context, params *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.batchCalls <= m.batchFailures {
		return nil, errors.New("throttled")
	}
	for _, requests := range params.RequestItems {
		for _, request := range requests {
			m.items[itemKey(request.PutRequest.Item)] = request.PutRequest.Item
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func testCacheConfig() *config.CacheConfig {
	return &config.CacheConfig{
		SampleLRUSize:       16,
		SampleLRUTTLMinutes: 15,
		SampleDynamoTTLDays: 2,
		ProfileTTLDays:      2,
		BatchSize:           25,
		MaxBatchRetries:     3,
		EnableLRUCache:      true,
		EnableDynamoCache:   true,
	}
}

func testRecord(t *testing.T, stationID string, date time.Time) DailySampleRecord {
	t.Helper()
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	samples := make([]models.TideSample, 24)
	for h := range samples {
		samples[h] = models.TideSample{Time: midnight.Add(time.Duration(h) * time.Hour), LevelCm: float64(100 + h)}
	}
	return NewDailySampleRecord(stationID, date, "tide-table", samples)
}

func TestDynamoSampleCacheRoundtrip(t *testing.T) {
	t.Parallel()

	client := newMockDynamoClient()
	dynamoCache := NewDynamoSampleCache(client, testCacheConfig())
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, dynamoCache.SaveDailySamples(context.Background(), testRecord(t, "onishi", date)))

	got, err := dynamoCache.GetDailySamples(context.Background(), "onishi", date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "onishi", got.StationID)
	assert.Equal(t, "2026-08-10", got.Date)
	assert.Equal(t, "tide-table", got.Origin)
	require.Len(t, got.Samples, 24)
	assert.Equal(t, 100.0, got.Samples[0].LevelCm)

	samples := got.ToSamples(time.UTC)
	require.NoError(t, models.ValidateSeries(samples))
	assert.Equal(t, date, samples[0].Time)
}

func TestDynamoSampleCacheMiss(t *testing.T) {
	t.Parallel()

	dynamoCache := NewDynamoSampleCache(newMockDynamoClient(), testCacheConfig())

	got, err := dynamoCache.GetDailySamples(context.Background(), "onishi", time.Now())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDynamoSampleCacheExpiry(t *testing.T) {
	t.Parallel()

	client := newMockDynamoClient()
	dynamoCache := NewDynamoSampleCache(client, testCacheConfig())
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC))
	dynamoCache.clock = clock
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, dynamoCache.SaveDailySamples(context.Background(), testRecord(t, "onishi", date)))

	got, err := dynamoCache.GetDailySamples(context.Background(), "onishi", date)
	require.NoError(t, err)
	require.NotNil(t, got)

	// Two days is the configured DynamoDB TTL; past it the record is
	// treated as absent even before DynamoDB reaps the item.
	clock.Advance(49 * time.Hour)
	got, err = dynamoCache.GetDailySamples(context.Background(), "onishi", date)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDynamoSampleCacheRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	dynamoCache := NewDynamoSampleCache(newMockDynamoClient(), testCacheConfig())

	var invalidInput models.InvalidInputError
	err := dynamoCache.SaveDailySamples(context.Background(), DailySampleRecord{StationID: "", Date: "2026-08-10"})
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalidInput)

	err = dynamoCache.SaveDailySamples(context.Background(), DailySampleRecord{StationID: "onishi", Date: "10/08/2026"})
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalidInput)
}

func TestDynamoSampleCacheBatchRetries(t *testing.T) {
	t.Parallel()

	client := newMockDynamoClient()
	client.batchFailures = 1
	dynamoCache := NewDynamoSampleCache(client, testCacheConfig())

	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	records := []DailySampleRecord{
		testRecord(t, "onishi", date),
		testRecord(t, "takehara", date),
	}

	require.NoError(t, dynamoCache.SaveDailySamplesBatch(context.Background(), records))
	assert.Equal(t, 2, client.batchCalls)

	for _, stationID := range []string{"onishi", "takehara"} {
		got, err := dynamoCache.GetDailySamples(context.Background(), stationID, date)
		require.NoError(t, err)
		require.NotNil(t, got)
	}
}

func TestDynamoSampleCacheBatchExhaustsRetries(t *testing.T) {
	t.Parallel()

	client := newMockDynamoClient()
	client.batchFailures = 100
	dynamoCache := NewDynamoSampleCache(client, testCacheConfig())

	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	err := dynamoCache.SaveDailySamplesBatch(context.Background(), []DailySampleRecord{testRecord(t, "onishi", date)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 retries")
	assert.Equal(t, 3, client.batchCalls)
}
