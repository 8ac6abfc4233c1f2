package ratelimiter

import (
	"sync"
	"time"
)

// Limiter throttles requests per source key. Allow reports whether the
// request may proceed and, when denied, how many seconds to wait.
type Limiter interface {
	Allow(sourceKey string) (bool, int)
}

type bucket struct {
	tokens   float64
	lastFill time.Time
}

// TokenBucket is an in-memory per-key token bucket.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens per second
	maxBurst float64
	now      func() time.Time
}

type Options struct {
	MaxRatePerSecond int
	MaxBurst         int
}

func New(options Options) *TokenBucket {
	if options.MaxRatePerSecond <= 0 {
		options.MaxRatePerSecond = 50
	}
	if options.MaxBurst <= 0 {
		options.MaxBurst = options.MaxRatePerSecond
	}
	return &TokenBucket{
		buckets:  make(map[string]*bucket),
		rate:     float64(options.MaxRatePerSecond),
		maxBurst: float64(options.MaxBurst),
		now:      time.Now,
	}
}

func (tb *TokenBucket) Allow(sourceKey string) (bool, int) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	b, ok := tb.buckets[sourceKey]
	if !ok {
		b = &bucket{tokens: tb.maxBurst, lastFill: now}
		tb.buckets[sourceKey] = b
	}

	elapsed := now.Sub(b.lastFill).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * tb.rate
		if b.tokens > tb.maxBurst {
			b.tokens = tb.maxBurst
		}
		b.lastFill = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}

	retryAfter := int((1-b.tokens)/tb.rate) + 1
	return false, retryAfter
}
