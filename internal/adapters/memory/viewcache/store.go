package viewcache

import (
	"context"
	"sync"
	"time"

	"github.com/rembish/rembish-org-sub000/internal/ports/out/clock"
)

type entry struct {
	payload []byte
	expires time.Time
}

// Store is an in-memory implementation of viewcache.Store with lazy expiry.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	clk     clock.Clock
	entries map[string]entry
}

func NewStore(clk clock.Clock) *Store {
	return &Store{clk: clk, entries: make(map[string]entry)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if s.clk.Now().After(e.expires) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.payload...), true, nil
}

func (s *Store) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		payload: append([]byte(nil), payload...),
		expires: s.clk.Now().Add(ttl),
	}
	return nil
}

func (s *Store) Invalidate(ctx context.Context, keys ...string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}
