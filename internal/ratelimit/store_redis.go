package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "wc:ratelimit:"

// RedisStore shares windows across processes. The key TTL is the window;
// EXPIRE NX needs Redis 7 or newer.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Hit(ctx context.Context, key string, length time.Duration) (int, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKeyPrefix+key)
	pipe.ExpireNX(ctx, redisKeyPrefix+key, length)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("count rate limit hit: %w", err)
	}
	return int(incr.Val()), nil
}
