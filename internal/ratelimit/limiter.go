package ratelimit

import (
	"context"
	"time"

	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// CounterStore increments a windowed counter atomically. The first
// increment of a key starts its window; the counter disappears when the
// window elapses.
type CounterStore interface {
	IncrWithExpire(ctx context.Context, key string, window time.Duration) (int64, error)
}

// FixedWindowLimiter rejects the N+1th hit on a key inside one window.
type FixedWindowLimiter struct {
	store  CounterStore
	limit  int64
	window time.Duration
}

// NewFixedWindowLimiter builds a limiter over the given store.
func NewFixedWindowLimiter(store CounterStore, limit int, window time.Duration) *FixedWindowLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &FixedWindowLimiter{store: store, limit: int64(limit), window: window}
}

// Allow counts one hit for key and fails with a RATE_LIMITED error once
// the window's budget is spent. Store failures are surfaced as internal
// errors rather than silently admitting traffic.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) error {
	count, err := l.store.IncrWithExpire(ctx, key, l.window)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if count > l.limit {
		return apperrors.NewRateLimited("too many requests, try again later")
	}
	return nil
}
