package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/config"
	"github.com/UnknownOlympus/aeolus/internal/geocoding"
	"github.com/UnknownOlympus/aeolus/internal/locations"
	"github.com/UnknownOlympus/aeolus/internal/metrics"
	"github.com/UnknownOlympus/aeolus/internal/models"
	"github.com/UnknownOlympus/aeolus/internal/render"
	"github.com/UnknownOlympus/aeolus/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// cliFlags holds the parsed command line.
type cliFlags struct {
	lat, lon   float64
	name       string
	place      string
	csvPath    string
	radius     float64
	types      []string
	jsonOutput bool
	outputPath string
	monitor    bool
}

func parseFlags(defaultRadius float64) *cliFlags {
	flags := &cliFlags{}
	pflag.Float64Var(&flags.lat, "lat", 0, "query latitude in decimal degrees")
	pflag.Float64Var(&flags.lon, "lon", 0, "query longitude in decimal degrees")
	pflag.StringVar(&flags.name, "name", "", "display name for the query location")
	pflag.StringVar(&flags.place, "place", "", "place name to geocode instead of --lat/--lon")
	pflag.StringVar(&flags.csvPath, "csv", "", "CSV file of locations for batch mode")
	pflag.Float64Var(&flags.radius, "radius", defaultRadius, "search radius in miles")
	pflag.StringSliceVar(&flags.types, "type", nil,
		"disaster types to query (hurricane, tornado, wildfire); repeatable, default all")
	pflag.BoolVar(&flags.jsonOutput, "json", false, "emit JSON instead of console output")
	pflag.StringVar(&flags.outputPath, "output", "", "write JSON output to this file")
	pflag.BoolVar(&flags.monitor, "monitor", false, "serve /healthz and /metrics during batch runs")
	pflag.Parse()
	return flags
}

// main is the entry point of the application.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	flags := parseFlags(cfg.RadiusMiles)
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(reg)

	types, err := parseTypes(flags.types)
	if err != nil {
		log.Fatalf("Invalid --type: %v", err)
	}
	if flags.radius <= 0 {
		log.Fatalf("Invalid --radius: must be positive, got %v", flags.radius)
	}

	queryLocations, err := resolveLocations(ctx, logger, cfg, flags)
	if err != nil {
		log.Fatalf("Failed to resolve query locations: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	clock := clockwork.NewRealClock()
	aggregator := service.NewAggregator(logger, clock, appMetrics, []service.Pipeline{
		service.NewHurricanePipeline(httpClient, clock, logger, appMetrics, cfg.HurricaneURL),
		service.NewTornadoPipeline(httpClient, clock, logger, appMetrics,
			cfg.TornadoURL, cfg.TornadoDays, cfg.TornadoMinEF),
		service.NewWildfirePipeline(httpClient, clock, logger, appMetrics,
			cfg.WildfireURL, cfg.WildfireDays),
	}, cfg.Workers)

	if flags.monitor {
		go startMonitoringServer(ctx, logger, reg, cfg.Port)
	}

	var (
		results  []*models.LocationResult
		queryErr error
	)
	if len(queryLocations) == 1 {
		var result *models.LocationResult
		result, queryErr = aggregator.Query(ctx, queryLocations[0], flags.radius, types)
		results = []*models.LocationResult{result}
	} else {
		results = aggregator.QueryBatch(ctx, queryLocations, flags.radius, types)
	}

	if flags.jsonOutput || flags.outputPath != "" {
		if err := render.JSON(os.Stdout, flags.outputPath, results); err != nil {
			log.Fatalf("Failed to write results: %v", err)
		}
	} else {
		render.Console(os.Stdout, results)
	}

	if errors.Is(queryErr, service.ErrAllFeedsUnavailable) {
		logger.ErrorContext(ctx, "No disaster feed could be reached", "error", queryErr)
		os.Exit(1)
	}
}

// resolveLocations builds the query location list from the command line:
// a CSV batch, a geocoded place name, or explicit coordinates.
func resolveLocations(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	flags *cliFlags,
) ([]models.Location, error) {
	switch {
	case flags.csvPath != "":
		locs, err := locations.FromCSV(logger, flags.csvPath)
		if err != nil {
			return nil, err
		}
		if len(locs) == 0 {
			return nil, fmt.Errorf("no valid locations in %s", flags.csvPath)
		}
		return locs, nil

	case flags.place != "":
		resolver, err := geocoding.NewResolver(cfg.GeocoderKey, logger)
		if err != nil {
			return nil, err
		}
		loc, err := resolver.Resolve(ctx, flags.place)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "Resolved place",
			"place", flags.place, "lat", loc.Latitude, "lon", loc.Longitude)
		return []models.Location{loc}, nil

	default:
		if !pflag.CommandLine.Changed("lat") || !pflag.CommandLine.Changed("lon") {
			return nil, errors.New("provide --lat/--lon, --place, or --csv")
		}
		name := flags.name
		if name == "" {
			name = fmt.Sprintf("(%.4f, %.4f)", flags.lat, flags.lon)
		}
		loc, err := models.NewLocation(name, flags.lat, flags.lon)
		if err != nil {
			return nil, err
		}
		return []models.Location{loc}, nil
	}
}

func parseTypes(raw []string) ([]models.DisasterType, error) {
	var types []models.DisasterType
	for _, s := range raw {
		dt, err := models.ParseDisasterType(s)
		if err != nil {
			return nil, err
		}
		types = append(types, dt)
	}
	return types, nil
}

// startMonitoringServer starts an HTTP server that provides health check
// and metrics endpoints for long batch runs.
func startMonitoringServer(ctx context.Context, log *slog.Logger, reg *prometheus.Registry, port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
		if _, err := writer.Write([]byte("OK")); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)
		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
