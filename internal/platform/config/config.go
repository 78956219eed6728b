// Package config loads deployment configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds everything cmd/api needs to wire the service.
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// TripBackend selects the trip/photo source: memory, jsonfeed or postgres.
	TripBackend string `env:"TRIP_BACKEND" envDefault:"memory"`
	// FeedPath is required when TripBackend is jsonfeed.
	FeedPath string `env:"FEED_PATH"`
	// DatabaseURL is required when TripBackend is postgres.
	DatabaseURL string `env:"DATABASE_URL"`

	// CacheBackend selects the view cache: memory or redis.
	CacheBackend  string        `env:"CACHE_BACKEND" envDefault:"memory"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string        `env:"REDIS_PREFIX" envDefault:"views"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"15m"`
}

// Load parses the environment and validates backend-specific requirements.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.TripBackend {
	case "memory":
	case "jsonfeed":
		if cfg.FeedPath == "" {
			return Config{}, fmt.Errorf("TRIP_BACKEND=jsonfeed requires FEED_PATH")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("TRIP_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("unknown TRIP_BACKEND %q", cfg.TripBackend)
	}

	switch cfg.CacheBackend {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}
	return cfg, nil
}
