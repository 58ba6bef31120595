// Package cache stores decoded sheet snapshots and revoked session tokens.
// Values are opaque bytes; GetJSON and SetJSON handle encoding.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"indentdesk/internal/config"
)

// Cache is a TTL key/value store shared by the services
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// New builds the cache backend selected by configuration
func New(cfg config.CacheConfig, logger *slog.Logger) (Cache, error) {
	switch cfg.Backend {
	case config.CacheMemory:
		return NewMemory(cfg.MaxEntries), nil
	case config.CacheRedis:
		c, err := NewRedis(cfg.RedisURL, cfg.KeyPrefix, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.CacheNone:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}

// GetJSON decodes a cached JSON value into dst. A decode failure is
// reported as a miss so callers refetch.
func GetJSON(ctx context.Context, c Cache, key string, dst interface{}) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON encodes value as JSON and stores it
func SetJSON(ctx context.Context, c Cache, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error                  { return nil }
func (Noop) DeletePrefix(context.Context, string) error               { return nil }
func (Noop) Close() error                                             { return nil }
