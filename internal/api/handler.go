package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/harborops/tidecast/internal/analysis"
	"github.com/harborops/tidecast/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type WindowsResponse struct {
	APIResponse
	StationID string              `json:"stationId"`
	Windows   []models.WorkWindow `json:"windows"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewWindowsResponse(stationID string, windows []models.WorkWindow) *WindowsResponse {
	return &WindowsResponse{
		APIResponse: APIResponse{ResponseType: "windows"},
		StationID:   stationID,
		Windows:     windows,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// StatusForError maps the pipeline's error taxonomy to HTTP statuses:
// caller mistakes are 400s, everything else is a 500.
func StatusForError(err error) int {
	var invalidInput models.InvalidInputError
	var badConfig models.ConfigurationError
	if errors.As(err, &invalidInput) || errors.As(err, &badConfig) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ParseDateRange reads startDate/endDate (YYYY-MM-DD, in the station's
// zone) from query parameters. A missing start defaults to today, a
// missing end to one day after start.
func ParseDateRange(params map[string]string, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if str, ok := params["startDate"]; ok {
		parsed, err := time.ParseInLocation("2006-01-02", str, loc)
		if err != nil {
			return time.Time{}, time.Time{}, models.ConfigurationError{Message: "malformed startDate " + str}
		}
		start = parsed
	}

	end := start.AddDate(0, 0, 1)
	if str, ok := params["endDate"]; ok {
		parsed, err := time.ParseInLocation("2006-01-02", str, loc)
		if err != nil {
			return time.Time{}, time.Time{}, models.ConfigurationError{Message: "malformed endDate " + str}
		}
		// endDate names the last requested day; the range runs to its end.
		end = parsed.AddDate(0, 0, 1)
	}

	return start, end, nil
}

// ParseHourRange reads startHour/endHour query parameters, defaulting to
// daylight shore-work hours.
func ParseHourRange(params map[string]string) (analysis.HourRange, error) {
	hours := analysis.HourRange{StartHour: 7, EndHour: 23}

	if str, ok := params["startHour"]; ok {
		v, err := strconv.Atoi(str)
		if err != nil {
			return analysis.HourRange{}, models.ConfigurationError{Message: "malformed startHour " + str}
		}
		hours.StartHour = v
	}
	if str, ok := params["endHour"]; ok {
		v, err := strconv.Atoi(str)
		if err != nil {
			return analysis.HourRange{}, models.ConfigurationError{Message: "malformed endHour " + str}
		}
		hours.EndHour = v
	}

	return hours, hours.Validate()
}

// ParseThreshold reads the thresholdCm parameter; zero means "use the
// station default".
func ParseThreshold(params map[string]string) (float64, error) {
	str, ok := params["thresholdCm"]
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, models.ConfigurationError{Message: "malformed thresholdCm " + str}
	}
	return v, nil
}

// ParseMinDuration reads minDurationMinutes; zero falls through to the
// analyzer default.
func ParseMinDuration(params map[string]string) (time.Duration, error) {
	str, ok := params["minDurationMinutes"]
	if !ok {
		return 0, nil
	}
	v, err := strconv.Atoi(str)
	if err != nil || v < 0 {
		return 0, models.ConfigurationError{Message: "malformed minDurationMinutes " + str}
	}
	return time.Duration(v) * time.Minute, nil
}
