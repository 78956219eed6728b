package viewcache

import (
	"context"
	"time"
)

// Store is a keyed byte cache for derived view payloads (timeline stats,
// map encodings). Implementations are best-effort: a miss is never an error.
type Store interface {
	// Get returns the cached payload and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	Invalidate(ctx context.Context, keys ...string) error
}
