package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type memoryEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// Memory is an in-process token bucket store.
type Memory struct {
	cfg      Config
	limiters map[string]*memoryEntry
	mu       sync.Mutex

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewMemory creates a store and starts the idle-entry cleanup loop.
// Call Stop to release it.
func NewMemory(cfg Config) *Memory {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}

	m := &Memory{
		cfg:      cfg,
		limiters: make(map[string]*memoryEntry),
		stopCh:   make(chan struct{}),
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

// Allow consumes one token for key.
func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	now := time.Now()

	m.mu.Lock()
	entry, ok := m.limiters[key]
	if !ok {
		entry = &memoryEntry{limiter: rate.NewLimiter(rate.Limit(m.cfg.RPS), m.cfg.Burst)}
		m.limiters[key] = entry
	}
	entry.lastUsed = now
	m.mu.Unlock()

	res := entry.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return Result{Allowed: false, RetryAfter: delay}, nil
	}

	return Result{
		Allowed:   true,
		Remaining: max(int(entry.limiter.TokensAt(now)), 0),
	}, nil
}

// Cleanup drops limiters idle for longer than IdleTTL.
func (m *Memory) Cleanup() {
	cutoff := time.Now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, entry := range m.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(m.limiters, key)
		}
	}
}

// Len returns the number of tracked keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.limiters)
}

// Stop ends the cleanup loop. Safe to call more than once.
func (m *Memory) Stop() {
	m.once.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

func (m *Memory) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.IdleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Cleanup()
		case <-m.stopCh:
			return
		}
	}
}
