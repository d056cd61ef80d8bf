package insight

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// Dispatcher bounds how many provider calls run at once so a slow or hung
// provider cannot stall unrelated analysis requests. Each call gets its own
// deadline; there is no cancellation propagation beyond that single call.
type Dispatcher struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewDispatcher builds a dispatcher allowing maxConcurrent in-flight calls,
// each bounded by timeout.
func NewDispatcher(maxConcurrent int64, timeout time.Duration) *Dispatcher {
	return &Dispatcher{sem: semaphore.NewWeighted(maxConcurrent), timeout: timeout}
}

// Do runs fn under the concurrency bound with a per-call deadline.
func (d *Dispatcher) Do(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer d.sem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return fn(callCtx)
}
