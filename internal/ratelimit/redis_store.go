package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore implements CounterStore on Redis INCR. The INCR and
// the EXPIRE on first hit run in one pipeline, so concurrent callers
// cannot slip past the window accounting.
type RedisCounterStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCounterStore builds a store with the given key prefix.
func NewRedisCounterStore(client *redis.Client, prefix string) *RedisCounterStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisCounterStore{client: client, prefix: prefix}
}

func (s *RedisCounterStore) IncrWithExpire(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := s.prefix + ":" + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
