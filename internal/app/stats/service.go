package stats

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/rembish/rembish-org-sub000/internal/ports/out/tripsource"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/viewcache"
)

const timelineCacheKey = "stats:timeline"

// Service serves the timeline, memoizing the aggregated payload in the view
// cache. Cache failures only cost the memoization, never the response.
type Service struct {
	trips tripsource.Source
	cache viewcache.Store
	log   *zap.Logger

	ttl time.Duration
}

func NewService(trips tripsource.Source, cache viewcache.Store, ttl time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{trips: trips, cache: cache, log: log, ttl: ttl}
}

func (s *Service) Timeline(ctx context.Context) ([]YearStats, error) {
	if s.cache != nil {
		if payload, ok, err := s.cache.Get(ctx, timelineCacheKey); err == nil && ok {
			var cached []YearStats
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
			s.log.Warn("discarding unreadable cached timeline")
		}
	}

	trips, err := s.trips.ListTrips(ctx)
	if err != nil {
		return nil, err
	}
	out := Aggregate(trips)

	if s.cache != nil {
		if payload, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, timelineCacheKey, payload, s.ttl); err != nil {
				s.log.Warn("timeline cache write failed", zap.Error(err))
			}
		}
	}
	return out, nil
}

// InvalidateTimeline drops the memoized payload, e.g. after a trip mutation.
func (s *Service) InvalidateTimeline(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, timelineCacheKey); err != nil {
		s.log.Warn("timeline cache invalidation failed", zap.Error(err))
	}
}
