// Package converter translates between the string-keyed domain network and
// the integer-keyed residual graph the flow engine works on.
package converter

import (
	"distflow/pkg/domain"
	"distflow/services/throughput-svc/internal/graph"
)

// PathWithFlow путь в residual графе с потоком
type PathWithFlow struct {
	NodeIDs []int64
	Flow    float64
}

// Mapping связывает узлы и рёбра сети с узлами и дугами residual графа
type Mapping struct {
	// Graph is the residual graph built from the network.
	Graph *graph.ResidualGraph

	// Sentinel is the finite capacity given to unbounded edges.
	Sentinel float64

	ids   map[string]int64
	names []string
	edges []domain.Edge
	arcs  []*graph.ResidualEdge
}

// Sentinel возвращает ёмкость для неограниченных рёбер:
// сумма конечных ёмкостей сети плюс один. Никакой разрез из конечных
// рёбер не может её превысить, поэтому максимальный поток не меняется.
func Sentinel(n *domain.Network) float64 {
	return n.FiniteCapacitySum() + 1
}

// ToResidualGraph конвертирует сеть в ResidualGraph.
// Узлы получают ID 0..N-1 в порядке вставки; рёбра добавляются
// в порядке вставки, что задаёт детерминированный обход BFS.
func ToResidualGraph(n *domain.Network) *Mapping {
	m := &Mapping{
		Graph:    graph.NewResidualGraph(),
		Sentinel: Sentinel(n),
		ids:      make(map[string]int64, n.NodeCount()),
	}

	for _, node := range n.Nodes() {
		id := int64(len(m.names))
		m.ids[node.ID] = id
		m.names = append(m.names, node.ID)
		m.Graph.AddNode(id)
	}

	for _, e := range n.Edges() {
		capacity := e.Capacity
		if e.Unbounded {
			capacity = m.Sentinel
		}
		arc := m.Graph.AddEdgeWithReverse(m.ids[e.From], m.ids[e.To], capacity)
		m.edges = append(m.edges, e)
		m.arcs = append(m.arcs, arc)
	}

	return m
}

// ID возвращает числовой ID узла
func (m *Mapping) ID(name string) (int64, bool) {
	id, ok := m.ids[name]
	return id, ok
}

// Name возвращает имя узла по числовому ID
func (m *Mapping) Name(id int64) string {
	if id < 0 || int(id) >= len(m.names) {
		return ""
	}
	return m.names[id]
}

// Edge возвращает исходное ребро сети для прямой дуги
func (m *Mapping) Edge(arc *graph.ResidualEdge) domain.Edge {
	return m.edges[arc.Forward().Index]
}

// ToAssignment собирает поток по всем рёбрам сети в порядке вставки
func (m *Mapping) ToAssignment() *domain.FlowAssignment {
	flows := make([]domain.EdgeFlow, 0, len(m.arcs))
	for i, arc := range m.arcs {
		flow := arc.Flow
		if domain.IsZero(flow) {
			flow = 0
		}
		flows = append(flows, domain.EdgeFlow{
			From: m.edges[i].From,
			To:   m.edges[i].To,
			Flow: flow,
		})
	}
	return domain.NewFlowAssignment(flows)
}

// ToPaths конвертирует пути из числовых ID в доменные пути
func (m *Mapping) ToPaths(paths []PathWithFlow) []domain.Path {
	result := make([]domain.Path, 0, len(paths))
	for _, p := range paths {
		nodes := make([]string, len(p.NodeIDs))
		for i, id := range p.NodeIDs {
			nodes[i] = m.Name(id)
		}
		result = append(result, domain.Path{Nodes: nodes, Flow: p.Flow})
	}
	return result
}

// ToEdgeKeys конвертирует дуги в ключи рёбер сети
func (m *Mapping) ToEdgeKeys(arcs []*graph.ResidualEdge) []domain.EdgeKey {
	keys := make([]domain.EdgeKey, 0, len(arcs))
	for _, arc := range arcs {
		keys = append(keys, m.Edge(arc).Key())
	}
	return keys
}
