package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// MemoryLimiter in-memory реализация rate limiter
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	opts    Options
	stopCh  chan struct{}
	closed  bool

	now func() time.Time
}

type bucket struct {
	tokens    float64
	lastCheck time.Time
	requests  []time.Time // для sliding window
}

// NewMemoryLimiter создаёт in-memory rate limiter
func NewMemoryLimiter(opts *Options) *MemoryLimiter {
	if opts == nil {
		opts = DefaultOptions()
	}

	l := &MemoryLimiter{
		buckets: make(map[string]*bucket),
		opts:    *opts,
		stopCh:  make(chan struct{}),
		now:     time.Now,
	}

	if l.opts.CleanupInterval > 0 {
		go l.cleanup()
	}

	return l
}

func (l *MemoryLimiter) capacity() float64 {
	if l.opts.Strategy == StrategyTokenBucket {
		return float64(l.opts.Requests + l.opts.Burst)
	}
	return float64(l.opts.Requests)
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (*Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrLimiterClosed
	}

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity(), lastCheck: now}
		l.buckets[key] = b
	}

	if l.opts.Strategy == StrategyTokenBucket {
		return l.allowTokenBucket(b, now), nil
	}
	return l.allowSlidingWindow(b, now), nil
}

func (l *MemoryLimiter) allowTokenBucket(b *bucket, now time.Time) *Decision {
	limit := int(l.capacity())

	// Восполняем токены
	rate := float64(l.opts.Requests) / l.opts.Window.Seconds()
	b.tokens = math.Min(l.capacity(), b.tokens+now.Sub(b.lastCheck).Seconds()*rate)
	b.lastCheck = now

	if b.tokens >= 1 {
		b.tokens--
		return &Decision{Allowed: true, Limit: limit, Remaining: int(b.tokens)}
	}

	wait := time.Duration((1 - b.tokens) / rate * float64(time.Second))
	return &Decision{Limit: limit, RetryAfter: wait}
}

func (l *MemoryLimiter) allowSlidingWindow(b *bucket, now time.Time) *Decision {
	b.requests = trimBefore(b.requests, now.Add(-l.opts.Window))
	b.lastCheck = now

	limit := l.opts.Requests
	if len(b.requests) < limit {
		b.requests = append(b.requests, now)
		return &Decision{Allowed: true, Limit: limit, Remaining: limit - len(b.requests)}
	}

	// Слот освободится, когда старейший запрос выйдет из окна
	return &Decision{Limit: limit, RetryAfter: b.requests[0].Add(l.opts.Window).Sub(now)}
}

// trimBefore удаляет отметки не позже start; отметки упорядочены по времени
func trimBefore(requests []time.Time, start time.Time) []time.Time {
	i := 0
	for i < len(requests) && !requests[i].After(start) {
		i++
	}
	return requests[i:]
}

func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.buckets, key)
	return nil
}

func (l *MemoryLimiter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	close(l.stopCh)
	l.buckets = nil

	return nil
}

// Len возвращает число отслеживаемых ключей
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(l.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.doCleanup()
		}
	}
}

// doCleanup удаляет ключи без активности дольше двух окон
func (l *MemoryLimiter) doCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	idle := now.Add(-2 * l.opts.Window)

	for key, b := range l.buckets {
		b.requests = trimBefore(b.requests, now.Add(-l.opts.Window))
		if len(b.requests) == 0 && b.lastCheck.Before(idle) {
			delete(l.buckets, key)
		}
	}
}
