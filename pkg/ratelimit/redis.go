package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "ratelimit:"

// Redis is a fixed-window counter store shared between replicas.
type Redis struct {
	client redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithKeyPrefix namespaces counter keys. An empty prefix keeps the default.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// NewRedis creates a store that admits cfg.Burst requests per cfg.Window().
func NewRedis(client redis.Cmdable, cfg Config, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: defaultKeyPrefix,
		limit:  int64(cfg.Burst),
		window: max(cfg.Window(), time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Allow increments the counter for key in the current window.
func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	k := r.prefix + key

	count, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return Result{}, errors.Join(ErrStoreUnavailable, err)
	}

	if count == 1 {
		if err := r.client.PExpire(ctx, k, r.window).Err(); err != nil {
			return Result{}, errors.Join(ErrStoreUnavailable, err)
		}
	}

	if count <= r.limit {
		return Result{Allowed: true, Remaining: int(r.limit - count)}, nil
	}

	ttl, err := r.client.PTTL(ctx, k).Result()
	if err != nil {
		return Result{}, errors.Join(ErrStoreUnavailable, err)
	}
	if ttl < 0 {
		// Key lost its expiry; restart the window.
		if err := r.client.PExpire(ctx, k, r.window).Err(); err != nil {
			return Result{}, fmt.Errorf("%w: reset window: %w", ErrStoreUnavailable, err)
		}
		ttl = r.window
	}

	return Result{Allowed: false, RetryAfter: ttl}, nil
}
