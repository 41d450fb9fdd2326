package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error inspection
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache keys
const (
	OpenLotteriesKey = "lottery:open"    // List of open lotteries
	winnerKeyPrefix  = "lottery:winner:" // Winner view per closure date
)

// WinnerKey returns the cache key of the winner view for a YYYY-MM-DD date
func WinnerKey(date string) string {
	return winnerKeyPrefix + date
}

// Cache stores JSON read views in Redis. A nil *Cache is a valid, disabled
// cache: reads always miss and writes do nothing.
type Cache struct {
	rdb *redis.Client // Redis client
	ttl time.Duration // Entry lifetime
}

// NewCache wraps a Redis client. A nil client yields a nil, disabled cache.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func (c *Cache) GetCache(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil // Cache disabled
	}
	val, err := c.rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err // Corrupt entry, treat as miss
	}
	return true, nil
}

// SetCache sets a value in Redis with the cache TTL
func (c *Cache) SetCache(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err() // Set value in Redis with TTL
}

// Version returns the invalidation counter of key. Read it before loading the
// value from the store and pass it to SetCacheAt.
func (c *Cache) Version(ctx context.Context, key string) (int64, error) {
	if c == nil {
		return 0, nil
	}
	v, err := c.rdb.Get(ctx, versionKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil // Never invalidated
	}
	return v, err
}

// SetCacheAt sets key only while its invalidation counter still equals
// version. A value loaded before a concurrent DeleteCache is dropped.
func (c *Cache) SetCacheAt(ctx context.Context, key string, version int64, value any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	vk := versionKey(key)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil // Invalidated since the store read
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, c.ttl)
			return nil
		})
		return err
	}, vk)
	if errors.Is(err, redis.TxFailedErr) {
		return nil // Invalidated between WATCH and EXEC
	}
	return err
}

// DeleteCache deletes keys from Redis and bumps their invalidation counters
func (c *Cache) DeleteCache(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, versionKey(key))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}

func versionKey(key string) string {
	return key + ":version"
}
