package scanner

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter is a counting semaphore bounding in-flight connection attempts.
// It is safe for concurrent use.
type Limiter struct {
	sem  *semaphore.Weighted
	size int
}

// NewLimiter returns a limiter with n slots.
func NewLimiter(n int) *Limiter {
	return &Limiter{
		sem:  semaphore.NewWeighted(int64(n)),
		size: n,
	}
}

// Acquire blocks until a slot is free or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release returns a slot. Call exactly once per successful Acquire.
func (l *Limiter) Release() {
	l.sem.Release(1)
}

// Cap returns the number of slots.
func (l *Limiter) Cap() int {
	return l.size
}
