// rate_limiter_test.go

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsBurstUpToCapacity(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	start := time.Now()
	for i := 0; i < 3; i++ {
		rl.Wait()
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond, "burst within capacity must not block")
	assert.Equal(t, 0, rl.tokens)
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(2, 10*time.Millisecond)
	rl.Wait()
	rl.Wait()

	// tokens earned while waiting let the next call through
	start := time.Now()
	rl.Wait()
	assert.Less(t, time.Since(start), time.Second)
}

func TestRateLimiterCapsAtMaxTokens(t *testing.T) {
	rl := NewRateLimiter(2, time.Millisecond)
	rl.lastRefillTime = time.Now().Add(-time.Second)

	rl.mu.Lock()
	rl.refill()
	tokens := rl.tokens
	rl.mu.Unlock()

	assert.Equal(t, 2, tokens)
}
