// Package cache wraps Redis for rebuildable, never-authoritative data:
// the rate limiter's request counters, and the "progress:<name>*" keys
// the tournament service clears after each mutation. The Progress
// Inspector and Aggregated Stats handlers do not read or write it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache handles all caching operations backing the derived views.
type Cache struct {
	client *redis.Client
	logger *log.Logger
}

// New constructs a Cache over an already-connected Redis client.
func New(client *redis.Client, logger *log.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// Set stores a value with expiration.
func (c *Cache) Set(key string, value interface{}, expiration time.Duration) error {
	ctx := context.Background()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Get retrieves a value, decoding it into dest.
func (c *Cache) Get(key string, dest interface{}) error {
	ctx := context.Background()

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("key not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// Increment atomically bumps a counter and (re)sets its expiration,
// for request-rate accounting.
func (c *Cache) Increment(key string, expiration time.Duration) (int, error) {
	ctx := context.Background()

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, expiration)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment: %w", err)
	}
	return int(incr.Val()), nil
}

// Delete removes a key.
func (c *Cache) Delete(key string) error {
	ctx := context.Background()
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}

// GetOrSet returns the cached value for key, or computes it via fn,
// caches it, and returns it. No handler in this module calls it.
func (c *Cache) GetOrSet(key string, dest interface{}, fn func() (interface{}, error), expiration time.Duration) error {
	if err := c.Get(key, dest); err == nil {
		return nil
	}

	value, err := fn()
	if err != nil {
		return err
	}

	if err := c.Set(key, value, expiration); err != nil && c.logger != nil {
		c.logger.Printf("failed to cache value for key %s: %v", key, err)
	}

	data, _ := json.Marshal(value)
	return json.Unmarshal(data, dest)
}

// InvalidatePattern deletes every key matching pattern. The tournament
// service calls it with "progress:<name>*" after each mutation.
func (c *Cache) InvalidatePattern(pattern string) error {
	ctx := context.Background()

	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (c *Cache) Ping() error {
	ctx := context.Background()
	return c.client.Ping(ctx).Err()
}
