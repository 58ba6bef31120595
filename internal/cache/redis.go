package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a redis server. Every key is namespaced with
// the configured prefix so several deployments can share one server.
type Redis struct {
	Redis  *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedis connects to redisURL and verifies the connection with PING
func NewRedis(redisURL, prefix string, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}

	logger.Info("redis cache connected", slog.String("addr", opts.Addr), slog.Int("db", opts.DB))

	return NewRedisFromClient(client, prefix, logger), nil
}

// NewRedisFromClient wraps an existing client
func NewRedisFromClient(client *redis.Client, prefix string, logger *slog.Logger) *Redis {
	return &Redis{
		Redis:  client,
		prefix: prefix,
		logger: logger.With(slog.String("component", "redis_cache")),
	}
}

// Get returns the value for key, or ok=false when the key is absent
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.Redis.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value with expiration
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.Redis.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete deletes keys
func (c *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = c.prefix + key
	}
	return c.Redis.Del(ctx, full...).Err()
}

// DeletePrefix deletes all keys starting with prefix using SCAN
func (c *Redis) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := c.prefix + prefix + "*"
	var cursor uint64
	var deleted int

	for {
		keys, next, err := c.Redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			if err := c.Redis.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.DebugContext(ctx, "deleted keys by prefix",
		slog.String("pattern", pattern),
		slog.Int("count", deleted))
	return nil
}

// Close closes the redis connection
func (c *Redis) Close() error {
	return c.Redis.Close()
}
