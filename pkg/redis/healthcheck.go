package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrPingFailed is reported by the readiness check when Redis does not answer.
var ErrPingFailed = errors.New("redis: ping failed")

// Healthcheck returns a readiness check that pings the client.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrPingFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrPingFailed, err)
		}
		return nil
	}
}
