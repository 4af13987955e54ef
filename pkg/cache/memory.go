package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache in-memory реализация кэша с LRU вытеснением
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	lru        *list.List // front - самый свежий
	defaultTTL time.Duration
	maxEntries int

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	closed atomic.Bool
	stopCh chan struct{}
	wg     sync.WaitGroup

	now func() time.Time
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryCache создаёт новый in-memory кэш
func NewMemoryCache(opts *Options) *MemoryCache {
	if opts == nil {
		opts = DefaultOptions()
	}

	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1000
	}

	cleanupInterval := opts.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	c := &MemoryCache{
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		defaultTTL: opts.DefaultTTL,
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
		now:        time.Now,
	}

	c.wg.Add(1)
	go c.cleanupLoop(cleanupInterval)

	return c
}

// Get возвращает копию значения и поднимает запись в LRU
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return nil, ErrKeyNotFound
	}

	entry := el.Value.(*memoryEntry)
	if entry.expired(c.now()) {
		c.removeElement(el)
		c.misses.Add(1)
		return nil, ErrKeyNotFound
	}

	c.hits.Add(1)
	c.lru.MoveToFront(el)

	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Set сохраняет копию значения; при переполнении вытесняет самую старую запись
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	entry := &memoryEntry{key: key, value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value = entry
		c.lru.MoveToFront(el)
		return nil
	}

	for c.lru.Len() >= c.maxEntries {
		c.removeElement(c.lru.Back())
		c.evictions.Add(1)
	}

	c.items[key] = c.lru.PushFront(entry)
	return nil
}

// Delete удаляет ключ; отсутствие ключа не ошибка
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
	c.mu.Unlock()

	return nil
}

// DeleteByPattern удаляет ключи по шаблону
func (c *MemoryCache) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var count int64
	for key, el := range c.items {
		if matchPattern(pattern, key) {
			c.removeElement(el)
			count++
		}
	}

	return count, nil
}

// Stats возвращает счётчики кэша
func (c *MemoryCache) Stats(ctx context.Context) (*Stats, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.Lock()
	total := int64(c.lru.Len())
	c.mu.Unlock()

	stats := &Stats{
		TotalKeys: total,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Backend:   BackendMemory,
	}
	if lookups := stats.Hits + stats.Misses; lookups > 0 {
		stats.HitRate = float64(stats.Hits) / float64(lookups)
	}

	return stats, nil
}

// Close останавливает фоновую очистку; повторный вызов безопасен
func (c *MemoryCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	close(c.stopCh)
	c.wg.Wait()

	c.mu.Lock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
	c.mu.Unlock()

	return nil
}

func (c *MemoryCache) removeElement(el *list.Element) {
	c.lru.Remove(el)
	delete(c.items, el.Value.(*memoryEntry).key)
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup удаляет просроченные записи
func (c *MemoryCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for el := c.lru.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*memoryEntry).expired(now) {
			c.removeElement(el)
		}
		el = prev
	}
}

// matchPattern проверяет соответствие ключа шаблону с одной '*'
func matchPattern(pattern, key string) bool {
	if pattern == "*" {
		return true
	}

	star := strings.Index(pattern, "*")
	if star == -1 {
		return pattern == key
	}

	prefix, suffix := pattern[:star], pattern[star+1:]
	if len(key) < len(prefix)+len(suffix) {
		return false
	}
	return strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix)
}
