// Package config loads runtime settings from the environment. Every knob
// has a working default; only the geocoder API key is genuinely optional.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the disaster proximity
// service.
//
// Fields:
// - Env: The current environment (e.g., local, dev, prod).
// - Port: The port for the monitoring server (batch mode only).
// - Workers: The number of concurrent workers for batch location queries.
// - RadiusMiles: The default search radius when the caller gives none.
// - HTTPTimeout: The per-request timeout for upstream feed calls.
// - TornadoDays: How far back tornado damage reports are fetched.
// - TornadoMinEF: The minimum EF rating included in tornado queries.
// - WildfireDays: How recently a fire perimeter must have been updated.
// - GeocoderKey: The Google Maps API key for place-name resolution.
// - HurricaneURL, TornadoURL, WildfireURL: Upstream feature-service roots.
type Config struct {
	Env          string
	Port         int
	Workers      int
	RadiusMiles  float64
	HTTPTimeout  time.Duration
	TornadoDays  int
	TornadoMinEF int
	WildfireDays int
	GeocoderKey  string
	HurricaneURL string
	TornadoURL   string
	WildfireURL  string
}

const (
	defaultHurricaneURL = "https://services9.arcgis.com/RHVPKKiFTONKtxq3/arcgis/rest/services/Active_Hurricanes_v1/FeatureServer"
	defaultTornadoURL   = "https://services.dat.noaa.gov/arcgis/rest/services/nws_damageassessmenttoolkit/DamageViewer/FeatureServer"
	defaultWildfireURL  = "https://services3.arcgis.com/T4QMspbfLg3qTGWY/arcgis/rest/services/WFIGS_Interagency_Perimeters_Current/FeatureServer"
)

// MustLoad reads the environment (and an optional .env file) and returns
// the resolved configuration. It panics on values that cannot be parsed;
// there is no sensible way to run with a broken configuration.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AEOLUS")
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("health_port", 8080)
	v.SetDefault("workers", 5)
	v.SetDefault("radius_miles", 100.0)
	v.SetDefault("http_timeout", "30s")
	v.SetDefault("tornado_days", 14)
	v.SetDefault("tornado_min_ef", 0)
	v.SetDefault("wildfire_days", 7)
	v.SetDefault("hurricane_url", defaultHurricaneURL)
	v.SetDefault("tornado_url", defaultTornadoURL)
	v.SetDefault("wildfire_url", defaultWildfireURL)

	cfg := &Config{
		Env:          v.GetString("env"),
		Port:         v.GetInt("health_port"),
		Workers:      v.GetInt("workers"),
		RadiusMiles:  v.GetFloat64("radius_miles"),
		HTTPTimeout:  v.GetDuration("http_timeout"),
		TornadoDays:  v.GetInt("tornado_days"),
		TornadoMinEF: v.GetInt("tornado_min_ef"),
		WildfireDays: v.GetInt("wildfire_days"),
		GeocoderKey:  v.GetString("geocoder_key"),
		HurricaneURL: v.GetString("hurricane_url"),
		TornadoURL:   v.GetString("tornado_url"),
		WildfireURL:  v.GetString("wildfire_url"),
	}

	if cfg.Workers <= 0 {
		panic(fmt.Sprintf("config: workers must be positive, got %d", cfg.Workers))
	}
	if cfg.RadiusMiles <= 0 {
		panic(fmt.Sprintf("config: radius must be positive, got %v", cfg.RadiusMiles))
	}
	if cfg.HTTPTimeout <= 0 {
		panic("config: http timeout must be positive")
	}
	if cfg.TornadoDays <= 0 || cfg.WildfireDays <= 0 {
		panic("config: lookback windows must be positive")
	}

	return cfg
}
