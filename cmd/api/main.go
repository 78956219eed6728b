package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rembish/rembish-org-sub000/internal/adapters/httpapi"
	"github.com/rembish/rembish-org-sub000/internal/adapters/jsonfeed"
	memphotosource "github.com/rembish/rembish-org-sub000/internal/adapters/memory/photosource"
	memtripsource "github.com/rembish/rembish-org-sub000/internal/adapters/memory/tripsource"
	memviewcache "github.com/rembish/rembish-org-sub000/internal/adapters/memory/viewcache"
	postgres "github.com/rembish/rembish-org-sub000/internal/adapters/postgres"
	pgphotosource "github.com/rembish/rembish-org-sub000/internal/adapters/postgres/photosource"
	pgtripsource "github.com/rembish/rembish-org-sub000/internal/adapters/postgres/tripsource"
	redisviewcache "github.com/rembish/rembish-org-sub000/internal/adapters/redis/viewcache"
	"github.com/rembish/rembish-org-sub000/internal/app/stats"
	platformclock "github.com/rembish/rembish-org-sub000/internal/platform/clock"
	"github.com/rembish/rembish-org-sub000/internal/platform/config"
	"github.com/rembish/rembish-org-sub000/internal/platform/logging"
	photosourceport "github.com/rembish/rembish-org-sub000/internal/ports/out/photosource"
	tripsourceport "github.com/rembish/rembish-org-sub000/internal/ports/out/tripsource"
	viewcacheport "github.com/rembish/rembish-org-sub000/internal/ports/out/viewcache"
)

func main() {
	// Local convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		trips   tripsourceport.Source
		photos  photosourceport.Source
		cleanup func()
	)
	switch cfg.TripBackend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			logger.Fatal("postgres", zap.Error(err))
		}
		cleanup = pool.Close
		trips = pgtripsource.NewRepo(pool)
		photos = pgphotosource.NewRepo(pool)
	case "jsonfeed":
		feed, err := jsonfeed.Open(cfg.FeedPath)
		if err != nil {
			logger.Fatal("jsonfeed", zap.Error(err))
		}
		trips, photos = feed, feed
	default:
		repo := memtripsource.NewRepo()
		trips = repo
		photos = memphotosource.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	var cache viewcacheport.Store
	if cfg.CacheBackend == "redis" {
		store, err := redisviewcache.NewStore(ctx, redisviewcache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer func() { _ = store.Close() }()
		cache = store
	} else {
		cache = memviewcache.NewStore(platformclock.NewSystemClock())
	}

	statsSvc := stats.NewService(trips, cache, cfg.StatsCacheTTL, logger.Named("stats"))
	api := httpapi.NewServer(trips, photos, statsSvc, logger.Named("http"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api listening",
			zap.Int("port", cfg.Port),
			zap.String("trip_backend", cfg.TripBackend),
			zap.String("cache_backend", cfg.CacheBackend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
