package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenLimiter throttles consumption of a per-minute token budget, used for
// model APIs that meter prompt tokens rather than requests.
type TokenLimiter struct {
	limiter *rate.Limiter
	max     int
}

// NewTokenLimiter creates a limiter that refills maxPerMinute tokens a minute.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(maxPerMinute)/60.0), maxPerMinute),
		max:     maxPerMinute,
	}
}

// Wait blocks until n tokens are available or the context is done.
func (t *TokenLimiter) Wait(ctx context.Context, n int) error {
	if n > t.max {
		n = t.max
	}
	return t.limiter.WaitN(ctx, n)
}

// GetRemaining reports the tokens currently available without consuming them.
func (t *TokenLimiter) GetRemaining() int {
	return int(t.limiter.Tokens())
}
