package models

// InvalidInputError reports malformed data handed to the pipeline:
// non-finite levels, wrong-length hourly arrays, unordered samples.
// These fail fast and are never silently coerced.
type InvalidInputError struct {
	Message string
}

func (e InvalidInputError) Error() string {
	return "invalid input: " + e.Message
}

// ConfigurationError reports caller-supplied parameters that are rejected
// at the boundary before any computation runs: bad hour ranges, negative
// intervals, date ranges that are too long.
type ConfigurationError struct {
	Message string
}

func (e ConfigurationError) Error() string {
	return "invalid configuration: " + e.Message
}
