package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindow атомарно чистит окно, считает и добавляет запрос.
// Возвращает {allowed, remaining, retry_after_ms}.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
	local current = redis.call('ZCARD', key)

	if current < limit then
		redis.call('ZADD', key, now, ARGV[4])
		redis.call('PEXPIRE', key, window)
		return {1, limit - current - 1, 0}
	end

	local retry = window
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	if oldest[2] then
		retry = tonumber(oldest[2]) + window - now
	end
	return {0, 0, retry}
`)

// RedisLimiter Redis реализация rate limiter.
// Всегда считает скользящим окном: лимит общий для всех реплик serve.
type RedisLimiter struct {
	client *redis.Client
	opts   Options
}

// NewRedisLimiter создаёт Redis rate limiter и проверяет соединение
func NewRedisLimiter(opts *Options) (*RedisLimiter, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisLimiter{client: client, opts: *opts}, nil
}

func (l *RedisLimiter) key(k string) string {
	return l.opts.KeyPrefix + k
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (*Decision, error) {
	now := time.Now().UnixMilli()
	window := l.opts.Window.Milliseconds()

	result, err := slidingWindow.Run(ctx, l.client, []string{l.key(key)},
		l.opts.Requests, window, now, uuid.NewString()).Int64Slice()
	if err != nil {
		if errors.Is(err, redis.ErrClosed) {
			return nil, ErrLimiterClosed
		}
		return nil, fmt.Errorf("redis script error: %w", err)
	}
	if len(result) != 3 {
		return nil, fmt.Errorf("unexpected redis script result %v", result)
	}

	return &Decision{
		Allowed:    result[0] == 1,
		Limit:      l.opts.Requests,
		Remaining:  int(result[1]),
		RetryAfter: time.Duration(result[2]) * time.Millisecond,
	}, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key)).Err()
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
