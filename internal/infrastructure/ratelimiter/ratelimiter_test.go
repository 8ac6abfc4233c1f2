package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBurst(t *testing.T) {
	tb := New(Options{MaxRatePerSecond: 10, MaxBurst: 3})

	for i := 0; i < 3; i++ {
		ok, _ := tb.Allow("1.2.3.4")
		assert.True(t, ok, "request %d should pass", i)
	}

	ok, retryAfter := tb.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Greater(t, retryAfter, 0)
}

func TestKeysAreIndependent(t *testing.T) {
	tb := New(Options{MaxRatePerSecond: 10, MaxBurst: 1})

	ok, _ := tb.Allow("a")
	assert.True(t, ok)
	ok, _ = tb.Allow("a")
	assert.False(t, ok)

	ok, _ = tb.Allow("b")
	assert.True(t, ok, "a separate key has its own bucket")
}

func TestTokensRefillOverTime(t *testing.T) {
	now := time.Now()
	tb := New(Options{MaxRatePerSecond: 10, MaxBurst: 1})
	tb.now = func() time.Time { return now }

	ok, _ := tb.Allow("k")
	assert.True(t, ok)
	ok, _ = tb.Allow("k")
	assert.False(t, ok)

	now = now.Add(200 * time.Millisecond) // 2 tokens at 10/s, capped at burst 1
	ok, _ = tb.Allow("k")
	assert.True(t, ok)
}

func TestDefaults(t *testing.T) {
	tb := New(Options{})
	assert.Equal(t, float64(50), tb.rate)
	assert.Equal(t, float64(50), tb.maxBurst)
}
