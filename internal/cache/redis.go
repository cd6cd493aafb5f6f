// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"socialschema/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Cache is an optional Redis-backed cache. A Cache without a client, including
// a nil *Cache, treats every lookup as a miss and every write as a no-op.
type Cache struct {
	client *redis.Client
}

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// New connects to Redis at addr (host:port or a redis:// URL). An empty or
// unreachable address yields a disabled cache rather than an error.
func New(ctx context.Context, addr string) *Cache {
	if addr == "" {
		return &Cache{}
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			observability.Logger.WarnContext(ctx, "Invalid REDIS_URL, continuing without cache", slog.String("error", err.Error()))
			return &Cache{}
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		observability.Logger.WarnContext(ctx, "Redis unavailable, continuing without cache", slog.String("error", err.Error()))
		_ = client.Close()
		return &Cache{}
	}

	observability.Logger.InfoContext(ctx, "Redis connected successfully")
	return NewWithClient(client)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client) *Cache {
	if client != nil {
		client.AddHook(metricsHook{})
	}
	return &Cache{client: client}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Close releases the Redis connection, if any.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
