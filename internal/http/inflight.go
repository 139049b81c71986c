package http

import (
	"context"
	"sync/atomic"
	"time"
)

// InFlightTracker counts requests between MetricsMiddleware entry and exit so
// shutdown can drain them after the listener closes.
type InFlightTracker struct {
	count atomic.Int64
}

func (t *InFlightTracker) Increment() { t.count.Add(1) }

func (t *InFlightTracker) Decrement() { t.count.Add(-1) }

// Count returns the number of requests currently being served.
func (t *InFlightTracker) Count() int64 { return t.count.Load() }

// WaitForZero polls every checkInterval until no request is in flight or ctx is done.
func (t *InFlightTracker) WaitForZero(ctx context.Context, checkInterval time.Duration) error {
	if t.Count() == 0 {
		return nil
	}
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if t.Count() == 0 {
				return nil
			}
		}
	}
}

var globalInFlightTracker = &InFlightTracker{}

// InFlightCount returns the process-wide in-flight request count.
func InFlightCount() int64 {
	return globalInFlightTracker.Count()
}

// WaitForInFlight drains the process-wide tracker; see InFlightTracker.WaitForZero.
func WaitForInFlight(ctx context.Context, checkInterval time.Duration) error {
	return globalInFlightTracker.WaitForZero(ctx, checkInterval)
}
