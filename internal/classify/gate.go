package classify

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinInterval keeps successive requests under the free-tier quota.
const DefaultMinInterval = 1100 * time.Millisecond

// Gate enforces a minimum interval between successive capability calls.
// The first call passes immediately.
type Gate struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewGate returns a gate with the given interval. A non-positive interval
// disables the gate.
func NewGate(interval time.Duration) *Gate {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Gate{limiter: rate.NewLimiter(limit, 1), interval: interval}
}

// Wait blocks until the next call may proceed or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// Delay reserves the next slot as of now and returns how long the caller
// has to wait for it.
func (g *Gate) Delay(now time.Time) time.Duration {
	return g.limiter.ReserveN(now, 1).DelayFrom(now)
}

func (g *Gate) Interval() time.Duration {
	return g.interval
}
