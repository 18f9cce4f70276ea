package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// RateLimitMemoryStore is an in-memory sliding-window implementation of
// ratelimit.Store, used in tests and single-instance deployments where a
// shared Redis window is not needed.
type RateLimitMemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

// NewRateLimitMemoryStore creates an in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		windows: make(map[string][]time.Time),
	}
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	// Timestamps are appended in order, so the live portion of the window
	// starts at the first entry past the cutoff.
	entries := s.windows[key]
	first := sort.Search(len(entries), func(i int) bool {
		return entries[i].After(cutoff)
	})

	live := append(entries[first:], now)
	s.windows[key] = live

	return int64(len(live)), nil
}
