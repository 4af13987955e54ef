package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Статусы запусков
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Результаты обращения к кэшу
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
	CacheSkip = "skip"
)

// Metrics контейнер метрик расчёта пропускной способности
type Metrics struct {
	// HTTP метрики
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	RateLimited          *prometheus.CounterVec

	// Бизнес-метрики
	RunsTotal       *prometheus.CounterVec
	SolveDuration   *prometheus.HistogramVec
	MaxFlowValue    *prometheus.GaugeVec
	AugmentingPaths prometheus.Histogram
	NetworkNodes    prometheus.Histogram
	NetworkEdges    prometheus.Histogram
	CacheLookups    *prometheus.CounterVec
	AttributionRows *prometheus.HistogramVec

	// Информация о сервисе
	ServiceInfo *prometheus.GaugeVec

	namespace  string
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
}

var (
	defaultMetrics *Metrics
	defaultMu      sync.Mutex
)

// New регистрирует метрики в переданном реестре.
// Реестр должен реализовывать и Gatherer (например prometheus.NewRegistry()).
func New(reg *prometheus.Registry, namespace string) *Metrics {
	return newMetrics(reg, reg, namespace)
}

func newMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer, namespace string) *Metrics {
	factory := promauto.With(reg)
	registerRuntime(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"path", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"path"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		RateLimited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_rate_limited_total",
				Help:      "Requests rejected by the rate limiter",
			},
			[]string{"path"},
		),

		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of throughput runs",
			},
			[]string{"strategy", "status"},
		),

		SolveDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "Duration of max-flow solves",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
			[]string{"strategy"},
		),

		MaxFlowValue: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "max_flow_value",
				Help:      "Last calculated max flow value",
			},
			[]string{"network"},
		),

		AugmentingPaths: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "augmenting_paths",
				Help:      "Number of augmenting paths per solve",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 500, 1000, 10000},
			},
		),

		NetworkNodes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "network_nodes",
				Help:      "Number of nodes in solved networks",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
		),

		NetworkEdges: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "network_edges",
				Help:      "Number of edges in solved networks",
				Buckets:   []float64{20, 100, 500, 1000, 5000, 10000, 50000, 100000},
			},
		),

		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Solution cache lookups by result",
			},
			[]string{"result"},
		),

		AttributionRows: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "attribution_rows",
				Help:      "Number of terminal to store rows per attribution",
				Buckets:   []float64{1, 10, 50, 100, 500, 1000, 10000},
			},
			[]string{"strategy"},
		),

		ServiceInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),

		namespace:  namespace,
		registerer: reg,
		gatherer:   gatherer,
	}
}

// InitMetrics регистрирует метрики в глобальном реестре prometheus.
// Повторный вызов с тем же реестром паникует, как и MustRegister.
func InitMetrics(namespace string) *Metrics {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultMetrics = newMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer, namespace)
	return defaultMetrics
}

// Get возвращает глобальные метрики
func Get() *Metrics {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultMetrics == nil {
		defaultMetrics = newMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer, "distflow")
	}
	return defaultMetrics
}

// RecordRun записывает итог запуска
func (m *Metrics) RecordRun(strategy string, success bool) {
	status := StatusSuccess
	if !success {
		status = StatusError
	}
	m.RunsTotal.WithLabelValues(strategy, status).Inc()
}

// RecordSolve записывает метрики решения
func (m *Metrics) RecordSolve(network, strategy string, duration time.Duration, maxFlow float64, iterations int) {
	m.SolveDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	m.MaxFlowValue.WithLabelValues(network).Set(maxFlow)
	m.AugmentingPaths.Observe(float64(iterations))
}

// RecordNetworkSize записывает размер сети
func (m *Metrics) RecordNetworkSize(nodes, edges int) {
	m.NetworkNodes.Observe(float64(nodes))
	m.NetworkEdges.Observe(float64(edges))
}

// RecordCacheLookup записывает обращение к кэшу решений
func (m *Metrics) RecordCacheLookup(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

// RecordAttribution записывает размер таблицы атрибуции
func (m *Metrics) RecordAttribution(strategy string, rows int) {
	m.AttributionRows.WithLabelValues(strategy).Observe(float64(rows))
}

// RecordHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) RecordHTTPRequest(path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordRateLimited записывает отклонённый лимитером запрос
func (m *Metrics) RecordRateLimited(path string) {
	m.RateLimited.WithLabelValues(path).Inc()
}

// SetServiceInfo устанавливает информацию о сервисе
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// RegisterCacheStats публикует счётчики кэша решений
func (m *Metrics) RegisterCacheStats(backend string, stats CacheStatsFunc) error {
	return m.registerer.Register(NewCacheCollector(m.namespace, backend, stats))
}

// Handler возвращает HTTP handler для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Push отправляет метрики в Pushgateway (пакетные запуски CLI)
func (m *Metrics) Push(gatewayURL, job string) error {
	return push.New(gatewayURL, job).Gatherer(m.gatherer).Push()
}

// Handler возвращает handler глобального реестра
func Handler() http.Handler {
	return promhttp.Handler()
}
