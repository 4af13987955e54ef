package attribution

import (
	"context"
	"math"

	"distflow/pkg/domain"
)

// PathDecomposition разлагает поток на пути source→sink и приписывает
// каждый путь его терминалу и магазину.
//
// Paths are peeled greedily: from the source, always follow the first
// outgoing edge (in assignment order) that still carries flow. A walk that
// revisits a node has found a flow cycle; the cycle is cancelled and the
// walk restarts. Every peel zeroes at least one edge, so the loop ends
// after at most as many peels as there are edges.
type PathDecomposition struct{}

// Name implements Strategy.
func (p *PathDecomposition) Name() string {
	return StrategyPaths
}

// Attribute implements Strategy.
func (p *PathDecomposition) Attribute(ctx context.Context, in *Input) (*Table, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	terminals := toSet(in.Terminals)
	stores := toSet(in.Stores)
	warehouses := toSet(in.Warehouses)

	d := newDecomposer(in.Assignment)
	g := newGrid(in)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, flow, ok := d.next(in.Source, in.Sink)
		if !ok {
			break
		}

		terminal, warehouse, store := "", "", ""
		for _, node := range path {
			switch {
			case terminal == "" && terminals[node]:
				terminal = node
			case terminal != "" && warehouse == "" && warehouses[node]:
				warehouse = node
			case stores[node]:
				store = node
			}
		}
		if terminal == "" || store == "" {
			continue
		}
		g.add(terminal, warehouse, store, flow)
	}

	return g.table(p.Name()), nil
}

// decomposer хранит остаточный поток по рёбрам назначения
type decomposer struct {
	out  map[string][]domain.EdgeKey
	left map[domain.EdgeKey]float64
}

func newDecomposer(a *domain.FlowAssignment) *decomposer {
	d := &decomposer{
		out:  make(map[string][]domain.EdgeKey),
		left: make(map[domain.EdgeKey]float64),
	}
	for _, f := range a.Edges() {
		if !domain.IsPositive(f.Flow) {
			continue
		}
		key := f.Key()
		d.out[f.From] = append(d.out[f.From], key)
		d.left[key] = f.Flow
	}
	return d
}

// next снимает очередной путь source→sink. ok=false, когда путей не осталось.
func (d *decomposer) next(source, sink string) ([]string, float64, bool) {
	if source == sink {
		return nil, 0, false
	}
	for {
		nodes := []string{source}
		var edges []domain.EdgeKey
		pos := map[string]int{source: 0}

		current := source
		for current != sink {
			key, found := d.firstActive(current)
			if !found {
				// Тупик: остаток потока не доходит до стока
				return nil, 0, false
			}
			edges = append(edges, key)
			current = key.To

			if at, seen := pos[current]; seen {
				// Цикл потока: гасим его и начинаем обход заново
				d.peel(edges[at:])
				break
			}
			pos[current] = len(nodes)
			nodes = append(nodes, current)
		}

		if current == sink {
			flow := d.peel(edges)
			return nodes, flow, true
		}
	}
}

func (d *decomposer) firstActive(node string) (domain.EdgeKey, bool) {
	for _, key := range d.out[node] {
		if domain.IsPositive(d.left[key]) {
			return key, true
		}
	}
	return domain.EdgeKey{}, false
}

// peel вычитает минимальный остаток вдоль рёбер и возвращает его
func (d *decomposer) peel(edges []domain.EdgeKey) float64 {
	flow := math.Inf(1)
	for _, key := range edges {
		flow = math.Min(flow, d.left[key])
	}
	for _, key := range edges {
		d.left[key] -= flow
		if domain.IsZero(d.left[key]) {
			d.left[key] = 0
		}
	}
	return flow
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
