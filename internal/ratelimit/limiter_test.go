package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// memoryCounterStore mimics the Redis counter with an injectable clock.
type memoryCounterStore struct {
	now     time.Time
	counts  map[string]int64
	expires map[string]time.Time
	err     error
}

func newMemoryCounterStore() *memoryCounterStore {
	return &memoryCounterStore{
		now:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		counts:  map[string]int64{},
		expires: map[string]time.Time{},
	}
}

func (m *memoryCounterStore) IncrWithExpire(_ context.Context, key string, window time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if exp, ok := m.expires[key]; ok && !m.now.Before(exp) {
		delete(m.counts, key)
		delete(m.expires, key)
	}
	m.counts[key]++
	if m.counts[key] == 1 {
		m.expires[key] = m.now.Add(window)
	}
	return m.counts[key], nil
}

func (m *memoryCounterStore) advance(d time.Duration) { m.now = m.now.Add(d) }

func TestAllowWithinBudget(t *testing.T) {
	store := newMemoryCounterStore()
	limiter := NewFixedWindowLimiter(store, 3, 10*time.Minute)

	for i := 0; i < 3; i++ {
		assert.NoError(t, limiter.Allow(context.Background(), "send_otp:9876543210"))
	}
}

func TestAllowRejectsOverBudget(t *testing.T) {
	store := newMemoryCounterStore()
	limiter := NewFixedWindowLimiter(store, 3, 10*time.Minute)

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(context.Background(), "send_otp:9876543210"))
	}

	err := limiter.Allow(context.Background(), "send_otp:9876543210")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 429, domainErr.HTTPStatus)
	assert.Equal(t, "RATE_LIMITED", domainErr.Code)
}

func TestAllowResetsAfterWindow(t *testing.T) {
	store := newMemoryCounterStore()
	limiter := NewFixedWindowLimiter(store, 3, 10*time.Minute)

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(context.Background(), "send_otp:9876543210"))
	}
	require.Error(t, limiter.Allow(context.Background(), "send_otp:9876543210"))

	store.advance(10 * time.Minute)

	assert.NoError(t, limiter.Allow(context.Background(), "send_otp:9876543210"))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	store := newMemoryCounterStore()
	limiter := NewFixedWindowLimiter(store, 1, time.Minute)

	require.NoError(t, limiter.Allow(context.Background(), "send_otp:9876543210"))
	require.Error(t, limiter.Allow(context.Background(), "send_otp:9876543210"))

	assert.NoError(t, limiter.Allow(context.Background(), "send_otp:9123456780"))
}

func TestAllowSurfacesStoreFailure(t *testing.T) {
	store := newMemoryCounterStore()
	store.err = errors.New("redis down")
	limiter := NewFixedWindowLimiter(store, 3, time.Minute)

	err := limiter.Allow(context.Background(), "send_otp:9876543210")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 500, domainErr.HTTPStatus)
}
