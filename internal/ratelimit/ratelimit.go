package ratelimit

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Store records requests and reports how many fall inside the current
// window, pruning expired entries as it goes.
type Store interface {
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// LimitConfig is a single window/max pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// MetadataKey attaches an EndpointConfig to a huma operation's Metadata.
const MetadataKey = "rateLimit"

// EndpointConfig defines per-endpoint rate limiting. Endpoints without a
// config fall back to the limiter's default limits.
type EndpointConfig struct {
	// Limits replaces the default limits for this endpoint.
	Limits []LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// ConfigFromOperation extracts the EndpointConfig from operation metadata,
// if present.
func ConfigFromOperation(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}

// Exceeded describes which limit was hit.
type Exceeded struct {
	Config LimitConfig
	Count  int64
}

// Limiter checks a set of window limits against a store. All limits must
// pass for a request to be allowed.
type Limiter struct {
	store    Store
	defaults []LimitConfig
}

// NewLimiter creates a limiter with the given default limits.
func NewLimiter(store Store, defaults []LimitConfig) *Limiter {
	return &Limiter{
		store:    store,
		defaults: defaults,
	}
}

// Allow records the request under each applicable limit and reports whether
// all of them pass. When limits is empty the limiter's defaults apply.
func (l *Limiter) Allow(ctx context.Context, key string, limits []LimitConfig) (bool, *Exceeded, error) {
	if len(limits) == 0 {
		limits = l.defaults
	}

	for _, limit := range limits {
		// Key includes the window so each limit tracks independently.
		windowKey := key + ":" + limit.Window.String()

		count, err := l.store.Record(ctx, windowKey, limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			return false, &Exceeded{Config: limit, Count: count}, nil
		}
	}

	return true, nil, nil
}
