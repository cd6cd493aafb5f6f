package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"socialschema/internal/observability"

	"github.com/redis/go-redis/v9"
)

// UserKey is the cache key of a user row.
func UserKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// Delete removes keys; missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Aside tries Redis first, on miss it calls fetch (which should populate dest),
// then stores the result in Redis with ttl. A Redis failure degrades to a miss.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		observability.CacheRequests.WithLabelValues("error").Inc()
	case found:
		observability.CacheRequests.WithLabelValues("hit").Inc()
		return nil
	case c.Enabled():
		observability.CacheRequests.WithLabelValues("miss").Inc()
	}

	if err := fetch(); err != nil {
		return err
	}

	// best-effort
	_ = c.SetJSON(ctx, key, dest, ttl)
	return nil
}
