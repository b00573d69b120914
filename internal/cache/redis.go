package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	redisClient redis.Cmdable
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisCache(redisClient redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{
		redisClient: redisClient,
		keyPrefix:   "ymlfeed:feed:",
		ttl:         ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.redisClient.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached feed %s: %w", key, err)
	}

	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte) error {
	err := c.redisClient.Set(ctx, c.keyPrefix+key, data, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache feed %s: %w", key, err)
	}
	return nil
}
