package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.TripBackend != "memory" || cfg.CacheBackend != "memory" {
		t.Fatalf("unexpected backends: %s/%s", cfg.TripBackend, cfg.CacheBackend)
	}
	if cfg.StatsCacheTTL != 15*time.Minute {
		t.Fatalf("StatsCacheTTL = %s, want 15m", cfg.StatsCacheTTL)
	}
}

func TestLoad_JSONFeedRequiresPath(t *testing.T) {
	t.Setenv("TRIP_BACKEND", "jsonfeed")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without FEED_PATH")
	}

	t.Setenv("FEED_PATH", "/srv/feed.json")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FeedPath != "/srv/feed.json" {
		t.Fatalf("FeedPath = %q", cfg.FeedPath)
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("TRIP_BACKEND", "postgres")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

func TestLoad_UnknownBackends(t *testing.T) {
	t.Setenv("TRIP_BACKEND", "ftp")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown trip backend")
	}
}
