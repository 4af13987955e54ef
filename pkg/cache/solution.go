package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"distflow/pkg/domain"
)

// SolutionCache кэш решённых сетей.
// Хранит поток по рёбрам и минимальный разрез; атрибуция пересчитывается.
type SolutionCache struct {
	cache      Cache
	defaultTTL time.Duration
	now        func() time.Time
}

// CachedSolution кэшированное решение
type CachedSolution struct {
	RunID       string            `json:"run_id"`
	MaxFlow     float64           `json:"max_flow"`
	Iterations  int               `json:"iterations"`
	Sentinel    float64           `json:"sentinel"`
	Flows       []domain.EdgeFlow `json:"flows"`
	CutSide     []string          `json:"cut_side,omitempty"`
	CutEdges    []domain.EdgeKey  `json:"cut_edges,omitempty"`
	CutCapacity float64           `json:"cut_capacity"`
	ComputedAt  time.Time         `json:"computed_at"`
}

// Assignment восстанавливает назначение потока
func (s *CachedSolution) Assignment() *domain.FlowAssignment {
	return domain.NewFlowAssignment(s.Flows)
}

// NewSolutionCache создаёт кэш решений
func NewSolutionCache(cache Cache, defaultTTL time.Duration) *SolutionCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &SolutionCache{
		cache:      cache,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get возвращает решение для сети; промах не ошибка
func (sc *SolutionCache) Get(ctx context.Context, n *domain.Network, source, sink string) (*CachedSolution, bool, error) {
	key := BuildSolutionKey(NetworkHash(n), source, sink)

	data, err := sc.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var sol CachedSolution
	if err := json.Unmarshal(data, &sol); err != nil {
		// Повреждённая запись: удаляем и считаем промахом
		_ = sc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}

	return &sol, true, nil
}

// Set сохраняет решение; ttl <= 0 использует значение по умолчанию
func (sc *SolutionCache) Set(ctx context.Context, n *domain.Network, source, sink string, sol *CachedSolution, ttl time.Duration) error {
	if sol == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = sc.defaultTTL
	}

	stored := *sol
	stored.ComputedAt = sc.now().UTC()

	data, err := json.Marshal(&stored)
	if err != nil {
		return err
	}

	return sc.cache.Set(ctx, BuildSolutionKey(NetworkHash(n), source, sink), data, ttl)
}

// Invalidate удаляет все решения для сети
func (sc *SolutionCache) Invalidate(ctx context.Context, n *domain.Network) error {
	_, err := sc.cache.DeleteByPattern(ctx, "solution:"+NetworkHash(n)+":*")
	return err
}

// InvalidateAll удаляет все кэшированные решения
func (sc *SolutionCache) InvalidateAll(ctx context.Context) (int64, error) {
	return sc.cache.DeleteByPattern(ctx, "solution:*")
}

// Stats возвращает статистику нижележащего кэша
func (sc *SolutionCache) Stats(ctx context.Context) (*Stats, error) {
	return sc.cache.Stats(ctx)
}

// Close закрывает нижележащий кэш
func (sc *SolutionCache) Close() error {
	return sc.cache.Close()
}
