package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	if os.Getenv("REDIS_TEST_ADDR") == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis tests")
	}

	c, err := NewRedisCache(&Options{
		Backend:       BackendRedis,
		RedisAddr:     os.Getenv("REDIS_TEST_ADDR"),
		RedisPassword: os.Getenv("REDIS_TEST_PASSWORD"),
		DefaultTTL:    time.Minute,
		KeyPrefix:     "distflow-test:",
	})
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	t.Cleanup(func() {
		c.DeleteByPattern(context.Background(), "*")
		c.Close()
	})
	return c
}

func TestRedisCache_SetGet(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	val, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(val) != "value" {
		t.Errorf("Get() = %s, want value", val)
	}
}

func TestRedisCache_NotFound(t *testing.T) {
	c := newTestRedisCache(t)

	if _, err := c.Get(context.Background(), "missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}

func TestRedisCache_DeleteByPatternAndStats(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	c.Set(ctx, "solution:a:1", []byte("v"), 0)
	c.Set(ctx, "solution:a:2", []byte("v"), 0)
	c.Set(ctx, "solution:b:1", []byte("v"), 0)

	n, err := c.DeleteByPattern(ctx, "solution:a:*")
	if err != nil {
		t.Fatalf("DeleteByPattern() error = %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalKeys != 1 || stats.Backend != BackendRedis {
		t.Errorf("stats = %+v", stats)
	}
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(&Options{RedisAddr: "127.0.0.1:1"})
	if err == nil {
		t.Error("expected ping error for unreachable server")
	}
}
