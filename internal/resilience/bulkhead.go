package resilience

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Bulkhead caps the number of in-flight calls to one backend. Callers over
// the limit wait for a slot or give up when their context ends.
type Bulkhead struct {
	sem *semaphore.Weighted
}

// NewBulkhead creates a Bulkhead admitting at most limit concurrent calls.
func NewBulkhead(limit int) *Bulkhead {
	if limit < 1 {
		limit = 1
	}
	return &Bulkhead{sem: semaphore.NewWeighted(int64(limit))}
}

// Run acquires a slot, runs fn, and releases the slot.
// A nil Bulkhead runs fn directly.
func (b *Bulkhead) Run(ctx context.Context, fn func(context.Context) error) error {
	if b == nil || b.sem == nil {
		return fn(ctx)
	}
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer b.sem.Release(1)
	return fn(ctx)
}
