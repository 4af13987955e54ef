// Package cache stores solved max-flow results keyed by a network hash so
// that repeated runs on the same network skip the solve. Two backends are
// provided: an in-process LRU and Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"distflow/pkg/config"
)

// Backend types for cache implementations.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Standard errors returned by cache operations.
var (
	// ErrKeyNotFound is returned when a requested key does not exist in the cache.
	ErrKeyNotFound = errors.New("key not found")
	// ErrCacheClosed is returned when an operation is attempted on a closed cache.
	ErrCacheClosed = errors.New("cache is closed")
)

// Cache is a byte-oriented key/value store with TTLs.
type Cache interface {
	// Get returns ErrKeyNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value; ttl <= 0 uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeleteByPattern removes keys matching a glob with a single '*'.
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// Stats holds cache counters.
type Stats struct {
	TotalKeys int64
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
	Backend   string
}

// Options contains configuration parameters for creating a Cache instance.
type Options struct {
	Backend    string
	DefaultTTL time.Duration

	// Memory cache
	MaxEntries      int
	CleanupInterval time.Duration

	// Redis cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
	KeyPrefix     string
}

// DefaultOptions returns options for a small in-memory cache.
func DefaultOptions() *Options {
	return &Options{
		Backend:         BackendMemory,
		DefaultTTL:      10 * time.Minute,
		MaxEntries:      1000,
		CleanupInterval: time.Minute,
		RedisAddr:       "localhost:6379",
		RedisPoolSize:   10,
		KeyPrefix:       "distflow:",
	}
}

// FromConfig создаёт опции из конфигурации
func FromConfig(cfg *config.CacheConfig) *Options {
	opts := DefaultOptions()
	opts.Backend = cfg.Driver
	if cfg.DefaultTTL > 0 {
		opts.DefaultTTL = cfg.DefaultTTL
	}
	if cfg.MaxEntries > 0 {
		opts.MaxEntries = cfg.MaxEntries
	}
	opts.RedisAddr = cfg.Address()
	opts.RedisPassword = cfg.Password
	opts.RedisDB = cfg.DB
	return opts
}

// New создаёт кэш на основе опций
func New(opts *Options) (Cache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	switch opts.Backend {
	case BackendRedis:
		return NewRedisCache(opts)
	case BackendMemory, "":
		return NewMemoryCache(opts), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
