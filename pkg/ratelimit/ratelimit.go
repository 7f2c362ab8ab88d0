// Package ratelimit limits how often a single client may hit an endpoint.
//
// Two stores share one contract: Memory keeps a token bucket per key in
// process, Redis keeps a fixed-window counter per key so that limits hold
// across replicas.
package ratelimit

import (
	"context"
	"errors"
	"math"
	"time"
)

// ErrStoreUnavailable is returned when the backing store cannot be reached.
var ErrStoreUnavailable = errors.New("ratelimit: store unavailable")

// Config defines the allowed rate per key.
type Config struct {
	RPS     float64       `env:"RATE_LIMIT_RPS" envDefault:"0.2"`
	Burst   int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	IdleTTL time.Duration `env:"RATE_LIMIT_IDLE_TTL" envDefault:"10m"`
	// KeyPrefix namespaces counters when Redis is shared with other services.
	KeyPrefix string `env:"RATE_LIMIT_KEY_PREFIX" envDefault:"gateway:ratelimit:"`
}

// Enabled reports whether limiting is active. A non-positive rate or burst
// turns the limiter off.
func (c Config) Enabled() bool {
	return c.RPS > 0 && c.Burst > 0
}

// Window is the fixed window length that admits Burst requests at RPS.
func (c Config) Window() time.Duration {
	if !c.Enabled() {
		return 0
	}
	return time.Duration(math.Ceil(float64(c.Burst) / c.RPS * float64(time.Second)))
}

// Result is the outcome of a single Allow call.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Store decides whether a request for key may proceed.
type Store interface {
	Allow(ctx context.Context, key string) (Result, error)
}
