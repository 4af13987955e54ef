package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// registerRuntime добавляет go_* и process_* метрики в собственный реестр.
// Глобальный реестр prometheus содержит их с самого начала.
func registerRuntime(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		var already prometheus.AlreadyRegisteredError
		if err := reg.Register(c); err != nil && !errors.As(err, &already) {
			panic(err)
		}
	}
}

// CacheSnapshot счётчики кэша решений на момент сбора
type CacheSnapshot struct {
	Entries   int64
	Hits      int64
	Misses    int64
	Evictions int64
}

// CacheStatsFunc читает текущие счётчики кэша
type CacheStatsFunc func(ctx context.Context) (CacheSnapshot, error)

// CacheCollector отдаёт состояние кэша решений при каждом scrape.
// Ошибка чтения пропускает серию, а не валит весь /metrics.
type CacheCollector struct {
	stats   CacheStatsFunc
	backend string
	timeout time.Duration

	entries   *prometheus.Desc
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
}

// NewCacheCollector создаёт коллектор для кэша с драйвером backend
func NewCacheCollector(namespace, backend string, stats CacheStatsFunc) *CacheCollector {
	labels := prometheus.Labels{"backend": backend}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "solution_cache", name), help, nil, labels)
	}

	return &CacheCollector{
		stats:     stats,
		backend:   backend,
		timeout:   time.Second,
		entries:   desc("entries", "Solutions currently held in the cache"),
		hits:      desc("hits_total", "Cache reads that found an entry"),
		misses:    desc("misses_total", "Cache reads that found nothing"),
		evictions: desc("evictions_total", "Entries evicted to respect the size limit"),
	}
}

// Describe implements prometheus.Collector
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
}

// Collect implements prometheus.Collector
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	s, err := c.stats(ctx)
	if err != nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Entries))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
}

// InFlight ведёт счёт активных запросов по маршрутам поверх общего gauge
type InFlight struct {
	mu     sync.Mutex
	byPath map[string]int
	total  prometheus.Gauge
}

// NewInFlight создаёт трекер
func NewInFlight(total prometheus.Gauge) *InFlight {
	return &InFlight{byPath: make(map[string]int), total: total}
}

// Start отмечает начало запроса
func (f *InFlight) Start(path string) {
	f.mu.Lock()
	f.byPath[path]++
	f.mu.Unlock()
	f.total.Inc()
}

// End отмечает завершение запроса; лишний End игнорируется
func (f *InFlight) End(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.byPath[path] == 0 {
		return
	}
	f.byPath[path]--
	f.total.Dec()
}

// Active число запросов в обработке на path
func (f *InFlight) Active(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byPath[path]
}
