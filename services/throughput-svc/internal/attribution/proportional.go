package attribution

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Proportional распределяет поток в предположении полного смешения на складах.
//
// For a warehouse w with terminal inflow in(w) = Σ_t flow(t→w), terminal t
// owns the share flow(t→w) / in(w) of everything w ships, or 0 when in(w)
// is 0. The flow credited to (t, s) is Σ_w flow(w→s) · share(t, w).
// Only terminal→warehouse edges count towards in(w).
type Proportional struct {
	// Parallel computes the per-warehouse shares concurrently.
	Parallel bool
}

// Name implements Strategy.
func (p *Proportional) Name() string {
	return StrategyProportional
}

// Attribute implements Strategy.
func (p *Proportional) Attribute(ctx context.Context, in *Input) (*Table, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		shares [][]float64
		err    error
	)
	if p.Parallel {
		shares, err = parallelShares(ctx, in)
	} else {
		shares = make([][]float64, len(in.Warehouses))
		for i, w := range in.Warehouses {
			shares[i] = warehouseShares(in, w)
		}
	}
	if err != nil {
		return nil, err
	}

	g := newGrid(in)
	for ti, terminal := range in.Terminals {
		for _, store := range in.Stores {
			for wi, w := range in.Warehouses {
				share := shares[wi][ti]
				if share == 0 {
					continue
				}
				shipped := in.Assignment.Flow(w, store)
				if shipped == 0 {
					continue
				}
				g.add(terminal, w, store, shipped*share)
			}
		}
	}
	return g.table(p.Name()), nil
}

// warehouseShares доли терминалов во входящем потоке склада
func warehouseShares(in *Input, warehouse string) []float64 {
	shares := make([]float64, len(in.Terminals))

	var inflow float64
	for _, t := range in.Terminals {
		inflow += in.Assignment.Flow(t, warehouse)
	}
	if inflow <= 0 {
		return shares
	}

	for i, t := range in.Terminals {
		shares[i] = in.Assignment.Flow(t, warehouse) / inflow
	}
	return shares
}

// parallelShares считает доли складов в пуле горутин
func parallelShares(ctx context.Context, in *Input) ([][]float64, error) {
	shares := make([][]float64, len(in.Warehouses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, w := range in.Warehouses {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			shares[i] = warehouseShares(in, w)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return shares, nil
}
