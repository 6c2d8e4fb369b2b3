package cache

// Package cache provides caching for the normalized catalog snapshot and
// the exchange-rate table.

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider defines the interface for string-valued caching with TTLs.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var ErrNotFound = errors.New("key not found")

type Config struct {
	Provider              string
	RedisConnectionString string
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider()
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

// CatalogKey is the cache key for the normalized catalog snapshot.
func CatalogKey() string {
	return "catalog:snapshot"
}

// ProductKey is the cache key for a single normalized product by handle.
func ProductKey(handle string) string {
	return fmt.Sprintf("catalog:product:%s", handle)
}

// RatesKey is the cache key for the exchange-rate table.
func RatesKey(base string) string {
	return fmt.Sprintf("rates:%s", base)
}
