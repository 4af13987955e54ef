// Package service runs the full throughput pipeline: augmentation of the
// base network, maximum flow, verification and terminal-to-store
// attribution, with caching, metrics, tracing and logging around it.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"distflow/pkg/apperror"
	"distflow/pkg/cache"
	"distflow/pkg/domain"
	"distflow/pkg/logger"
	"distflow/pkg/metrics"
	"distflow/pkg/telemetry"
	"distflow/services/throughput-svc/internal/algorithms"
	"distflow/services/throughput-svc/internal/attribution"
	"distflow/services/throughput-svc/internal/network"
	"distflow/services/throughput-svc/internal/report"
)

// Options параметры сервиса
type Options struct {
	Version string

	// Strategy is used when a request does not name one.
	Strategy       string
	ParallelShares bool

	Verify  bool
	Epsilon float64

	// Metrics and Solutions are optional.
	Metrics   *metrics.Metrics
	Solutions *cache.SolutionCache
	CacheTTL  time.Duration
}

// ThroughputService вычисляет пропускную способность сети и атрибуцию
type ThroughputService struct {
	version   string
	strategy  string
	parallel  bool
	verify    bool
	epsilon   float64
	metrics   *metrics.Metrics
	solutions *cache.SolutionCache
	cacheTTL  time.Duration
}

// NewThroughputService создаёт сервис
func NewThroughputService(opts Options) *ThroughputService {
	if opts.Strategy == "" {
		opts.Strategy = attribution.StrategyProportional
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = domain.Epsilon
	}
	return &ThroughputService{
		version:   opts.Version,
		strategy:  opts.Strategy,
		parallel:  opts.ParallelShares,
		verify:    opts.Verify,
		epsilon:   opts.Epsilon,
		metrics:   opts.Metrics,
		solutions: opts.Solutions,
		cacheTTL:  opts.CacheTTL,
	}
}

// Version возвращает версию сервиса
func (s *ThroughputService) Version() string {
	return s.version
}

// Request запрос на расчёт
type Request struct {
	Network *domain.Network

	// Terminals and Stores select the supply and demand sets. An empty set
	// is taken from the node roles, independently of the other one.
	Terminals []string
	Stores    []string

	Strategy    string
	ReturnPaths bool
}

// Result результат расчёта
type Result struct {
	RunID   string
	Network string

	MaxFlow float64
	// Assignment covers every edge of the augmented network.
	Assignment *domain.FlowAssignment
	Augmented  *network.Augmented
	Table      *attribution.Table
	Cut        *algorithms.CutResult
	Paths      []domain.Path

	Iterations int
	Sentinel   float64
	Duration   time.Duration
	CacheHit   bool
}

// BaseFlows возвращает поток по рёбрам исходной сети без виртуальных рёбер
func (r *Result) BaseFlows() []domain.EdgeFlow {
	if r.Assignment == nil || r.Augmented == nil {
		return nil
	}
	return r.Assignment.Without(r.Augmented.IsSuperEdge).Edges()
}

// ReportOptions параметры отчёта
type ReportOptions struct {
	Title        string
	Author       string
	Precision    int
	IncludeFlows bool
}

// ReportData собирает данные для генератора отчётов
func (r *Result) ReportData(opts ReportOptions) *report.Data {
	if opts.Precision <= 0 {
		opts.Precision = attribution.DefaultPrecision
	}

	data := &report.Data{
		RunID:        r.RunID,
		Title:        opts.Title,
		Author:       opts.Author,
		Network:      r.Network,
		MaxFlow:      r.MaxFlow,
		Iterations:   r.Iterations,
		Table:        r.Table,
		Precision:    opts.Precision,
		IncludeFlows: opts.IncludeFlows,
		GeneratedAt:  time.Now().UTC(),
	}
	if r.Table != nil {
		data.Strategy = r.Table.Strategy
	}
	if r.Augmented != nil {
		data.Nodes = r.Augmented.Network.NodeCount()
		data.Edges = r.Augmented.Network.EdgeCount()
	}
	if opts.IncludeFlows {
		data.Flows = r.BaseFlows()
	}
	return data
}

// Run выполняет полный расчёт для запроса
func (s *ThroughputService) Run(ctx context.Context, req *Request) (res *Result, err error) {
	runID := uuid.NewString()
	log := logger.WithRunID(runID)
	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "ThroughputService.Run",
		telemetry.WithAttributes(attribute.String(telemetry.AttrRunID, runID)),
	)
	defer span.End()

	strategyName := s.strategy
	if req != nil && req.Strategy != "" {
		strategyName = req.Strategy
	}

	defer func() {
		if s.metrics != nil {
			s.metrics.RecordRun(strategyName, err == nil)
		}
		if err != nil {
			telemetry.SetError(ctx, err)
			log.Warn("run failed", "error", err, "code", apperror.Code(err))
		}
	}()

	if req == nil || req.Network == nil {
		return nil, apperror.ErrNilNetwork
	}

	strategy, err := attribution.New(strategyName, s.parallel)
	if err != nil {
		return nil, err
	}

	aug, err := augment(req)
	if err != nil {
		return nil, err
	}

	name := req.Network.Name
	telemetry.SetAttributes(ctx, telemetry.NetworkAttributes(name,
		aug.Network.NodeCount(), aug.Network.EdgeCount(),
		len(aug.Terminals), len(aug.Warehouses), len(aug.Stores))...)
	if s.metrics != nil {
		s.metrics.RecordNetworkSize(req.Network.NodeCount(), req.Network.EdgeCount())
	}
	log.Info("network augmented",
		"network", name,
		"nodes", aug.Network.NodeCount(),
		"edges", aug.Network.EdgeCount(),
		"terminals", len(aug.Terminals),
		"stores", len(aug.Stores),
	)

	res = &Result{
		RunID:     runID,
		Network:   name,
		Augmented: aug,
	}

	if !s.loadCached(ctx, aug, res, req.ReturnPaths) {
		if err := s.solve(ctx, aug, res, req.ReturnPaths, strategy.Name()); err != nil {
			return nil, err
		}
	}

	telemetry.SetAttributes(ctx, telemetry.SolveAttributes(res.MaxFlow, res.Iterations, len(res.Cut.Edges), res.CacheHit)...)

	table, err := strategy.Attribute(ctx, attribution.NewInput(aug, res.Assignment))
	if err != nil {
		return nil, err
	}
	res.Table = table

	telemetry.SetAttributes(ctx, telemetry.AttributionAttributes(table.Strategy, len(table.Rows))...)
	if s.metrics != nil {
		s.metrics.RecordAttribution(table.Strategy, len(table.Rows))
	}
	log.Info("attribution finished", "strategy", table.Strategy, "rows", len(table.Rows))

	res.Duration = time.Since(start)
	return res, nil
}

// solve считает максимальный поток и сохраняет решение в кэш
func (s *ThroughputService) solve(ctx context.Context, aug *network.Augmented, res *Result, returnPaths bool, strategy string) error {
	ctx, span := telemetry.StartSpan(ctx, "ThroughputService.solve")
	defer span.End()

	opts := algorithms.DefaultSolverOptions().
		WithEpsilon(s.epsilon).
		WithVerify(s.verify).
		WithReturnPaths(returnPaths)

	sol, err := algorithms.Solve(aug.Network, aug.Source, aug.Sink, opts)
	if err != nil {
		return err
	}

	res.MaxFlow = sol.MaxFlow
	res.Assignment = sol.Assignment
	res.Cut = sol.Cut
	res.Paths = sol.Paths
	res.Iterations = sol.Iterations
	res.Sentinel = sol.Sentinel

	if s.metrics != nil {
		s.metrics.RecordSolve(res.Network, strategy, sol.Duration, sol.MaxFlow, sol.Iterations)
	}
	logger.WithRunID(res.RunID).Info("solve finished",
		"max_flow", sol.MaxFlow,
		"iterations", sol.Iterations,
		"cut_edges", len(sol.Cut.Edges),
		"duration", sol.Duration,
	)

	if s.solutions == nil {
		return nil
	}

	cached := &cache.CachedSolution{
		RunID:       res.RunID,
		MaxFlow:     sol.MaxFlow,
		Iterations:  sol.Iterations,
		Sentinel:    sol.Sentinel,
		Flows:       sol.Assignment.Edges(),
		CutSide:     sol.Cut.SourceSide,
		CutEdges:    sol.Cut.Edges,
		CutCapacity: sol.Cut.Capacity,
	}
	if err := s.solutions.Set(ctx, aug.Network, aug.Source, aug.Sink, cached, s.cacheTTL); err != nil {
		logger.WithRunID(res.RunID).Warn("failed to cache solution", "error", err)
	}
	return nil
}

// loadCached заполняет результат из кэша; false означает промах.
// Запросы с путями всегда решаются заново: пути не кэшируются.
func (s *ThroughputService) loadCached(ctx context.Context, aug *network.Augmented, res *Result, returnPaths bool) bool {
	if s.solutions == nil || returnPaths {
		s.recordCache(metrics.CacheSkip)
		return false
	}

	log := logger.WithRunID(res.RunID)

	cached, ok, err := s.solutions.Get(ctx, aug.Network, aug.Source, aug.Sink)
	if err != nil {
		log.Warn("solution cache lookup failed", "error", err)
	}
	if !ok {
		s.recordCache(metrics.CacheMiss)
		log.Debug("solution cache miss")
		return false
	}

	assignment := cached.Assignment()
	if s.verify {
		verr := algorithms.ValidateAssignment(aug.Network, assignment, aug.Source, aug.Sink, domain.Epsilon)
		telemetry.SetAttributes(ctx, telemetry.ValidationAttributes(len(verr.Errors), verr.IsValid())...)
		if !verr.IsValid() {
			log.Warn("cached solution failed verification, solving again", "errors", verr.ErrorMessages())
			_ = s.solutions.Invalidate(ctx, aug.Network) //nolint:errcheck // best effort cleanup
			s.recordCache(metrics.CacheMiss)
			return false
		}
	}

	res.MaxFlow = cached.MaxFlow
	res.Assignment = assignment
	res.Iterations = cached.Iterations
	res.Sentinel = cached.Sentinel
	res.Cut = &algorithms.CutResult{
		SourceSide: cached.CutSide,
		Edges:      cached.CutEdges,
		Capacity:   cached.CutCapacity,
	}
	res.CacheHit = true

	s.recordCache(metrics.CacheHit)
	telemetry.AddEvent(ctx, "cache_hit", attribute.Float64(telemetry.AttrMaxFlow, cached.MaxFlow))
	log.Info("solution cache hit", "max_flow", cached.MaxFlow, "computed_by", cached.RunID)
	return true
}

func (s *ThroughputService) recordCache(result string) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(result)
	}
}

// augment достраивает пустой набор терминалов или магазинов по ролям узлов,
// каждый независимо от другого
func augment(req *Request) (*network.Augmented, error) {
	if len(req.Terminals) == 0 && len(req.Stores) == 0 {
		return network.AugmentByRole(req.Network)
	}
	if req.Network == nil {
		return nil, apperror.ErrNilNetwork
	}

	terminals, stores := req.Terminals, req.Stores
	if len(terminals) == 0 {
		terminals = req.Network.NodesByRole(domain.RoleTerminal)
	}
	if len(stores) == 0 {
		stores = req.Network.NodesByRole(domain.RoleStore)
	}
	return network.Augment(req.Network, terminals, stores)
}
