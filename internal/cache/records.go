package cache

import (
	"time"

	"github.com/harborops/tidecast/internal/models"
)

// SampleRecord is the storage form of one tide sample. Timestamps are
// stored as Unix milliseconds so DynamoDB items stay compact and sortable.
type SampleRecord struct {
	Timestamp int64   `json:"t" dynamodbav:"t"`
	LevelCm   float64 `json:"v" dynamodbav:"v"`
}

// DailySampleRecord is one station-day of hourly samples plus provenance.
type DailySampleRecord struct {
	StationID   string         `json:"stationId" dynamodbav:"stationId"`
	Date        string         `json:"date" dynamodbav:"date"` // Format: YYYY-MM-DD
	Origin      string         `json:"origin" dynamodbav:"origin"`
	Samples     []SampleRecord `json:"samples" dynamodbav:"samples"`
	LastUpdated int64          `json:"lastUpdated" dynamodbav:"lastUpdated"`
	TTL         int64          `json:"ttl" dynamodbav:"ttl"`
}

// Validate checks the record is storable.
func (r DailySampleRecord) Validate() error {
	if r.StationID == "" {
		return models.InvalidInputError{Message: "sample record missing station ID"}
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return models.InvalidInputError{Message: "sample record has malformed date " + r.Date}
	}
	if len(r.Samples) == 0 {
		return models.InvalidInputError{Message: "sample record has no samples"}
	}
	return nil
}

// NewDailySampleRecord converts a day of samples into storage form.
func NewDailySampleRecord(stationID string, date time.Time, origin string, samples []models.TideSample) DailySampleRecord {
	stored := make([]SampleRecord, len(samples))
	for i, s := range samples {
		stored[i] = SampleRecord{Timestamp: s.Time.UnixMilli(), LevelCm: s.LevelCm}
	}
	return DailySampleRecord{
		StationID: stationID,
		Date:      date.Format("2006-01-02"),
		Origin:    origin,
		Samples:   stored,
	}
}

// ToSamples converts the record back into pipeline samples in loc.
func (r DailySampleRecord) ToSamples(loc *time.Location) []models.TideSample {
	samples := make([]models.TideSample, len(r.Samples))
	for i, s := range r.Samples {
		samples[i] = models.TideSample{
			Time:    time.UnixMilli(s.Timestamp).In(loc),
			LevelCm: s.LevelCm,
		}
	}
	return samples
}
