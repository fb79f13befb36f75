package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per key. A bucket holds limit
// tokens and refills completely over window.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    int
	window   time.Duration
	every    rate.Limit
}

// New creates a new rate limiter
func New(limit int, window time.Duration) *RateLimiter {
	every := rate.Limit(0)
	if limit > 0 && window > 0 {
		every = rate.Every(window / time.Duration(limit))
	}
	return &RateLimiter{
		limiters: make(map[string]*entry),
		limit:    limit,
		window:   window,
		every:    every,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rl.every, rl.limit)}
		rl.limiters[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// Allow checks if a request is allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.get(key).Allow()
}

// Limit is the bucket size.
func (rl *RateLimiter) Limit() int { return rl.limit }

// GetRemaining returns the number of whole tokens left for key
func (rl *RateLimiter) GetRemaining(key string) int {
	n := int(rl.get(key).Tokens())
	if n < 0 {
		return 0
	}
	return n
}

// RetryAfter estimates how long until key gets a token back.
func (rl *RateLimiter) RetryAfter() time.Duration {
	if rl.limit <= 0 {
		return rl.window
	}
	return rl.window / time.Duration(rl.limit)
}

// Cleanup drops buckets idle for longer than a window
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.window)
	for key, e := range rl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// StartCleanup runs Cleanup every interval until stop is closed
func (rl *RateLimiter) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
