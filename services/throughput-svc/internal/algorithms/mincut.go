package algorithms

import (
	"distflow/pkg/domain"
	"distflow/services/throughput-svc/internal/converter"
	"distflow/services/throughput-svc/internal/graph"
)

// CutResult is a minimum source/sink cut of a solved network.
type CutResult struct {
	// SourceSide lists the nodes still reachable from the source in the
	// residual graph, in network insertion order.
	SourceSide []string `json:"source_side"`

	// Edges are the saturated network edges crossing from the source side
	// to the sink side, in network insertion order.
	Edges []domain.EdgeKey `json:"edges"`

	// Capacity is the total capacity of the cut edges. By max-flow/min-cut
	// duality it equals the maximum flow.
	Capacity float64 `json:"capacity"`
}

// MinCut extracts a minimum cut from a residual graph that already carries
// a maximum flow. It must run after EdmondsKarp on the same mapping.
func MinCut(m *converter.Mapping, source int64) *CutResult {
	reach := graph.Reachable(m.Graph, source)

	cut := &CutResult{}
	for _, id := range m.Graph.NodeList {
		if reach[id] {
			cut.SourceSide = append(cut.SourceSide, m.Name(id))
		}
	}

	for _, arc := range m.Graph.EdgesList {
		if reach[arc.From] && !reach[arc.To] {
			cut.Edges = append(cut.Edges, m.Edge(arc).Key())
			cut.Capacity += arc.OriginalCapacity
		}
	}

	return cut
}
