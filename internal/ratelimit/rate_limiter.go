// rate_limiter.go - Rate limiting to prevent hitting Gemini API limits

package ratelimit

import (
	"sync"
	"time"
)

// RateLimiter implements a simple token bucket rate limiter
type RateLimiter struct {
	tokens         int
	maxTokens      int
	refillRate     time.Duration
	lastRefillTime time.Time
	mu             sync.Mutex
}

// NewRateLimiter creates a new rate limiter.
// maxTokens: bucket capacity; refillRate: time between token refills.
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillRate:     refillRate,
		lastRefillTime: time.Now(),
	}
}

// Wait blocks until a token is available
func (rl *RateLimiter) Wait() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	for rl.tokens <= 0 {
		rl.mu.Unlock()
		time.Sleep(100 * time.Millisecond)
		rl.mu.Lock()
		rl.refill()
	}

	rl.tokens--
}

// refill adds tokens earned since the last refill. Caller holds the lock.
func (rl *RateLimiter) refill() {
	now := time.Now()
	tokensToAdd := int(now.Sub(rl.lastRefillTime) / rl.refillRate)
	if tokensToAdd > 0 {
		rl.tokens += tokensToAdd
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefillTime = now
	}
}

// Global limiter for Gemini calls, sized below the free-tier 15 RPM with a
// safety margin for network latency and burst traffic.
var globalRateLimiter = NewRateLimiter(12, 5*time.Second)

// WaitForRateLimit waits if we're hitting rate limits
func WaitForRateLimit() {
	globalRateLimiter.Wait()
}
