package opsengine

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedDispatcher paces mutating op-batch submissions through a
// single token-bucket limiter ahead of the Engine's own mutual-exclusion
// boundary. It is an ambient safeguard against a runaway agent loop
// hammering the mutation path, not a spec invariant: every call it admits
// still goes through the Engine's own validate/conflict/commit contract
// unchanged.
type RateLimitedDispatcher struct {
	limiter *rate.Limiter
	engine  *Engine
}

// NewRateLimitedDispatcher wraps engine with a token bucket allowing
// ratePerSecond sustained submissions and burst extra ones.
func NewRateLimitedDispatcher(engine *Engine, ratePerSecond float64, burst int) *RateLimitedDispatcher {
	return &RateLimitedDispatcher{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		engine:  engine,
	}
}

// Wait blocks until a submission slot is available or ctx is cancelled.
func (d *RateLimitedDispatcher) Wait(ctx context.Context) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limited dispatcher: %w", err)
	}
	return nil
}

// Engine returns the wrapped Engine for callers that have already waited.
func (d *RateLimitedDispatcher) Engine() *Engine { return d.engine }
