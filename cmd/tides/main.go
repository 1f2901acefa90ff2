package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/harborops/tidecast/internal/api"
	"github.com/harborops/tidecast/internal/cache"
	"github.com/harborops/tidecast/internal/config"
	"github.com/harborops/tidecast/internal/source"
	"github.com/harborops/tidecast/internal/station"
	"github.com/harborops/tidecast/internal/tide"
	"github.com/harborops/tidecast/internal/weather"
	"github.com/harborops/tidecast/pkg/http/client"
	"github.com/jonboulle/clockwork"
)

var (
	tideService *tide.Service
	registry    *station.Registry
	clock       = clockwork.NewRealClock()
	setupOnce   sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		cacheConfig := config.GetCacheConfig()

		tideTableClient := client.New(client.Options{
			BaseURL:    cfg.TideTableBaseURL,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})
		weatherClient := client.New(client.Options{
			BaseURL:    cfg.WeatherBaseURL,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})

		ctx := context.Background()

		var s3Client station.S3Client
		if cfg.ProfileBucket != "" {
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("AWS config unavailable, serving embedded station profiles")
			} else {
				s3Client = s3.NewFromConfig(awsCfg)
			}
		}
		registry = station.NewRegistry(s3Client, cfg.ProfileBucket, cacheConfig.GetProfileTTL())

		var sampleCache tide.SampleCache
		if cacheConfig.EnableDynamoCache {
			dynamoClient, err := cache.NewDynamoClient(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("DynamoDB unavailable, running without sample cache")
			} else {
				svc, err := cache.NewSampleCacheService(dynamoClient, cacheConfig)
				if err != nil {
					log.Warn().Err(err).Msg("Sample cache init failed, running without it")
				} else {
					sampleCache = svc
				}
			}
		}

		tideService = tide.NewService(
			registry,
			source.NewObservedSource(tideTableClient),
			source.NewSyntheticSource(),
			weather.NewProvider(weatherClient, ""),
			sampleCache,
		)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters
	log.Info().Str("path", request.Path).Msg("Handling tides request")

	stationID, ok := params["stationId"]
	if !ok {
		return api.Error("stationId is required", 400)
	}

	st, err := registry.FindStation(ctx, stationID)
	if err != nil {
		return api.Error(err.Error(), 404)
	}

	start, end, err := api.ParseDateRange(params, st.Location(), clock.Now())
	if err != nil {
		return api.Error(err.Error(), api.StatusForError(err))
	}

	if params["product"] == "windows" {
		hours, err := api.ParseHourRange(params)
		if err != nil {
			return api.Error(err.Error(), api.StatusForError(err))
		}
		threshold, err := api.ParseThreshold(params)
		if err != nil {
			return api.Error(err.Error(), api.StatusForError(err))
		}
		minDuration, err := api.ParseMinDuration(params)
		if err != nil {
			return api.Error(err.Error(), api.StatusForError(err))
		}

		windows, err := tideService.GetWorkWindows(ctx, stationID, start, end, threshold, hours, minDuration)
		if err != nil {
			log.Error().Err(err).Msg("Error computing work windows")
			return api.Error("Error computing work windows", api.StatusForError(err))
		}
		return api.Success(api.NewWindowsResponse(stationID, windows))
	}

	response, err := tideService.GetTideCurve(ctx, stationID, start, end)
	if err != nil {
		log.Error().Err(err).Msg("Error computing tide curve")
		return api.Error("Error computing tide curve", api.StatusForError(err))
	}

	return api.Success(response)
}

func main() {
	lambda.Start(handleRequest)
}
