// Command planner prints the workable shore-operation windows for a
// station over the next few days. It runs entirely locally: embedded
// station profiles, harmonic synthesis when the tide-table service is not
// configured, no sample cache.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/harborops/tidecast/internal/analysis"
	"github.com/harborops/tidecast/internal/source"
	"github.com/harborops/tidecast/internal/station"
	"github.com/harborops/tidecast/internal/tide"
	"github.com/harborops/tidecast/internal/weather"
	"github.com/harborops/tidecast/pkg/http/client"
)

type Env struct {
	Station            string  `default:"onishi"`
	Days               int     `default:"3"`
	ThresholdCm        float64 `split_words:"true" default:"0"` // 0 = station default
	StartHour          int     `split_words:"true" default:"7"`
	EndHour            int     `split_words:"true" default:"23"`
	MinDurationMinutes int     `split_words:"true" default:"10"`
	TideTableURL       string  `split_words:"true"`
	WeatherURL         string  `split_words:"true"`
	LogLevel           string  `split_words:"true" default:"warn"`
}

func main() {
	var env Env
	if err := envconfig.Process("planner", &env); err != nil {
		fmt.Fprintf(os.Stderr, "reading environment: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(env.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var observed source.SampleSource
	if env.TideTableURL != "" {
		observed = source.NewObservedSource(client.New(client.Options{BaseURL: env.TideTableURL}))
	}

	var pressure tide.PressureProvider
	if env.WeatherURL != "" {
		pressure = weather.NewProvider(client.New(client.Options{BaseURL: env.WeatherURL}), "")
	}

	registry := station.NewRegistry(nil, "", 0)
	svc := tide.NewService(registry, observed, source.NewSyntheticSource(), pressure, nil)

	ctx := context.Background()
	st, err := registry.FindStation(ctx, env.Station)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	loc := st.Location()
	now := time.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, env.Days)

	hours := analysis.HourRange{StartHour: env.StartHour, EndHour: env.EndHour}
	windows, err := svc.GetWorkWindows(ctx, st.ID, start, end,
		env.ThresholdCm, hours, time.Duration(env.MinDurationMinutes)*time.Minute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "computing windows: %v\n", err)
		os.Exit(1)
	}

	if len(windows) == 0 {
		fmt.Printf("No workable windows at %s in the next %d day(s).\n", st.Name, env.Days)
		return
	}

	fmt.Printf("Workable windows at %s (hours %02d-%02d):\n", st.Name, hours.StartHour, hours.EndHour)
	for _, w := range windows {
		fmt.Printf("  %s  %s - %s  (%d min, low %.0f cm at %s)\n",
			w.Start.Format("Mon 01/02"),
			w.Start.Format("15:04"),
			w.End.Format("15:04"),
			int(w.Duration.Minutes()),
			w.MinLevelCm,
			w.MinLevelTime.Format("15:04"))
	}
}
