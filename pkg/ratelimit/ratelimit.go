// Package ratelimit ограничивает частоту запросов к HTTP серверу по ключу клиента.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"distflow/pkg/config"
)

// Стандартные ошибки
var (
	ErrLimiterClosed = errors.New("limiter is closed")
)

// Стратегии
const (
	StrategySlidingWindow = "sliding_window"
	StrategyTokenBucket   = "token_bucket"
)

// Хранилища
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Limiter интерфейс ограничителя запросов
type Limiter interface {
	// Allow учитывает запрос клиента key и сообщает, пропускать ли его
	Allow(ctx context.Context, key string) (*Decision, error)

	// Reset сбрасывает лимит для ключа
	Reset(ctx context.Context, key string) error

	// Close закрывает лимитер
	Close() error
}

// Decision результат проверки одного запроса
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Options параметры лимитера
type Options struct {
	Backend  string
	Strategy string

	// Requests запросов за Window; Burst добавляется к ёмкости token bucket
	Requests int
	Window   time.Duration
	Burst    int

	// CleanupInterval интервал очистки для in-memory
	CleanupInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() *Options {
	return &Options{
		Backend:         BackendMemory,
		Strategy:        StrategySlidingWindow,
		Requests:        100,
		Window:          time.Minute,
		Burst:           10,
		CleanupInterval: 5 * time.Minute,
		RedisAddr:       "localhost:6379",
		KeyPrefix:       "distflow:ratelimit:",
	}
}

// FromConfig создаёт опции из конфигурации; адрес Redis общий с кэшем
func FromConfig(rl *config.RateLimitConfig, cc *config.CacheConfig) *Options {
	opts := DefaultOptions()
	opts.Backend = rl.Backend
	opts.Strategy = rl.Strategy
	if rl.Requests > 0 {
		opts.Requests = rl.Requests
	}
	if rl.Window > 0 {
		opts.Window = rl.Window
	}
	opts.Burst = rl.Burst
	if cc != nil {
		opts.RedisAddr = cc.Address()
		opts.RedisPassword = cc.Password
		opts.RedisDB = cc.DB
	}
	return opts
}

// New создаёт лимитер на основе опций
func New(opts *Options) (Limiter, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	switch opts.Backend {
	case BackendRedis:
		return NewRedisLimiter(opts)
	case BackendMemory, "":
		return NewMemoryLimiter(opts), nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", opts.Backend)
	}
}

// ClientKey извлекает ключ клиента: первый адрес X-Forwarded-For,
// затем X-Real-IP, затем хост из RemoteAddr.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
