package analytics

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const dayFormat = "2006-01-02"

// VisitStore accumulates per-day visit counts per slug. Counts here are
// analytics-only and eventually consistent; the authoritative clicks_count
// lives on the link row.
type VisitStore interface {
	IncrementDaily(ctx context.Context, slug string, day time.Time) error
}

// StatsReader reads accumulated visit counts.
type StatsReader interface {
	DailyVisits(ctx context.Context, slug string) (map[string]int64, error)
}

// RedisVisitStore keeps daily counters in a Redis hash per slug, keyed by
// date.
type RedisVisitStore struct {
	client *redis.Client
	prefix string
}

// NewRedisVisitStore creates a Redis-backed visit store.
func NewRedisVisitStore(client *redis.Client) *RedisVisitStore {
	return &RedisVisitStore{
		client: client,
		prefix: "visits:daily:",
	}
}

func (s *RedisVisitStore) IncrementDaily(ctx context.Context, slug string, day time.Time) error {
	return s.client.HIncrBy(ctx, s.prefix+slug, day.UTC().Format(dayFormat), 1).Err()
}

func (s *RedisVisitStore) DailyVisits(ctx context.Context, slug string) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, s.prefix+slug).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(raw))

	for day, count := range raw {
		n, err := strconv.ParseInt(count, 10, 64)
		if err != nil {
			continue
		}

		out[day] = n
	}

	return out, nil
}
