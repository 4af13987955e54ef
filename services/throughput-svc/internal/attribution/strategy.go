// Package attribution splits the store deliveries of a solved network back
// onto the terminals that supplied them.
//
// A maximum flow says how much moves along every edge but not which terminal
// a unit delivered to a store came from. Recovering that needs a modeling
// assumption, so the split is behind the Strategy interface:
//
//   - Proportional treats every warehouse as well mixed: each outgoing unit
//     carries the same terminal mix as the warehouse's terminal inflow.
//   - PathDecomposition decomposes the flow into source-to-sink paths in a
//     fixed order and credits every path to its own terminal and store.
//
// Both produce a row for every (terminal, store) pair, zero rows included,
// ordered terminal-major, store-minor.
package attribution

import (
	"context"
	"sort"

	"distflow/pkg/apperror"
	"distflow/pkg/domain"
	"distflow/services/throughput-svc/internal/network"
)

// Имена стратегий
const (
	StrategyProportional = "proportional"
	StrategyPaths        = "paths"
)

// Strategy распределяет поставки магазинов по терминалам
type Strategy interface {
	Name() string
	Attribute(ctx context.Context, in *Input) (*Table, error)
}

// Input входные данные атрибуции
type Input struct {
	// Network is optional; when set every listed node must exist in it.
	Network    *domain.Network
	Assignment *domain.FlowAssignment

	Source string
	Sink   string

	Terminals  []string
	Warehouses []string
	Stores     []string
}

// NewInput собирает вход атрибуции из расширенной сети и рассчитанного потока
func NewInput(aug *network.Augmented, a *domain.FlowAssignment) *Input {
	return &Input{
		Network:    aug.Network,
		Assignment: a,
		Source:     aug.Source,
		Sink:       aug.Sink,
		Terminals:  aug.Terminals,
		Warehouses: aug.Warehouses,
		Stores:     aug.Stores,
	}
}

func (in *Input) validate() error {
	if in == nil || in.Assignment == nil {
		return apperror.New(apperror.CodeNilInput, "attribution input and flow assignment are required")
	}
	if len(in.Terminals) == 0 || len(in.Stores) == 0 {
		return apperror.ErrNoTerminalOrStore
	}
	if in.Network == nil {
		return nil
	}
	for _, group := range [][]string{in.Terminals, in.Warehouses, in.Stores} {
		for _, id := range group {
			if !in.Network.HasNode(id) {
				return apperror.Newf(apperror.CodeUnknownNode, "node %s is not in the network", id).
					WithDetails("node", id)
			}
		}
	}
	return nil
}

var registry = map[string]func(parallel bool) Strategy{
	StrategyProportional: func(parallel bool) Strategy { return &Proportional{Parallel: parallel} },
	StrategyPaths:        func(bool) Strategy { return &PathDecomposition{} },
}

// New возвращает стратегию по имени. Пустое имя означает proportional.
func New(name string, parallel bool) (Strategy, error) {
	if name == "" {
		name = StrategyProportional
	}
	factory, ok := registry[name]
	if !ok {
		return nil, apperror.Newf(apperror.CodeInvalidStrategy, "unknown attribution strategy %q", name).
			WithField("strategy").
			WithDetails("available", Names())
	}
	return factory(parallel), nil
}

// Names возвращает имена зарегистрированных стратегий
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
