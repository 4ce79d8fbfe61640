package menu

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// mealListKey caches the default public meal listing, the hottest read in
// the system. Filtered listings always go to the database.
const mealListKey = "menu:meals"

const mealListTTL = 5 * time.Minute

// Cache is the small cache surface the menu service needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = redis.Nil

// RedisCache implements Cache on a redis client.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache creates a menu cache backed by redis.
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}
