package store

import (
	"context"
	"time"
)

// DefaultLookupDelay is the artificial latency applied by the memory store on every lookup
const DefaultLookupDelay = time.Second

// wait blocks for d or until ctx is done. It holds no locks.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
