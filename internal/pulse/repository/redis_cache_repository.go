package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisCacheRepository creates the redis-backed cache store, selected by
// the cache.driver setting. Each key maps to a hash holding the value and
// its update timestamp, written with a single HSET so the pair is replaced
// as a unit.
func NewRedisCacheRepository(client *redis.Client) CacheRepository {
	return &redisCacheRepository{client: client}
}

type redisCacheRepository struct {
	client *redis.Client
}

func (r *redisCacheRepository) cacheKey(key string) string {
	return "pulse:cache:" + key
}

// Get retrieves a cache entry by key.
func (r *redisCacheRepository) Get(ctx context.Context, key string) (string, int64, error) {
	fields, err := r.client.HGetAll(ctx, r.cacheKey(key)).Result()
	if err != nil {
		return "", 0, err
	}
	if len(fields) == 0 {
		return "", 0, ErrCacheMiss
	}

	updatedAt, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("corrupt cache timestamp for key %q: %w", key, err)
	}
	return fields["value"], updatedAt, nil
}

// Set replaces the value and timestamp in one command.
func (r *redisCacheRepository) Set(ctx context.Context, key, value string) error {
	return r.client.HSet(ctx, r.cacheKey(key),
		"value", value,
		"updated_at", time.Now().Unix(),
	).Err()
}
