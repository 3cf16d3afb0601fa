package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	FeedSubjectBase     string
	JWTSecret           string
	GeoRadiusMeters     float64
	SatisfactoryPercent float64
	ReportCacheTTL      time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ATTENDLY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Attendly API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("feed.subject_base", "attendly.attendance")
	v.SetDefault("geo.radius_meters", 50.0)
	v.SetDefault("report.satisfactory_percent", 75.0)
	v.SetDefault("report.cache_ttl", "2m")

	ttlString := v.GetString("report.cache_ttl")
	if ttlString == "" {
		ttlString = "2m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid report cache ttl: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		FeedSubjectBase:     v.GetString("feed.subject_base"),
		JWTSecret:           v.GetString("jwt.secret"),
		GeoRadiusMeters:     v.GetFloat64("geo.radius_meters"),
		SatisfactoryPercent: v.GetFloat64("report.satisfactory_percent"),
		ReportCacheTTL:      ttl,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.GeoRadiusMeters <= 0 {
		cfg.GeoRadiusMeters = 50
	}

	if cfg.SatisfactoryPercent <= 0 || cfg.SatisfactoryPercent > 100 {
		cfg.SatisfactoryPercent = 75
	}

	return cfg, nil
}
