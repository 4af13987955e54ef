// Package graph provides data structures and utilities for network flow algorithms.
package graph

import (
	"distflow/pkg/domain"
)

// =============================================================================
// Constants
// =============================================================================

// Epsilon is the tolerance for floating-point comparisons.
// Residual capacities at or below Epsilon are treated as zero, so
// zero-capacity arcs never take part in a traversal.
const Epsilon = domain.Epsilon

// Infinity marks an unlimited bottleneck before any arc has been inspected.
const Infinity = domain.Infinity

// =============================================================================
// Residual Edge
// =============================================================================

// ResidualEdge represents an arc in the residual graph.
//
// Every network edge (u, v) with capacity c becomes a pair of twin arcs:
//   - Forward arc (u, v) with residual capacity c
//   - Reverse arc (v, u) with residual capacity 0
//
// When flow f is pushed along the forward arc its residual capacity drops
// by f and the twin's rises by f. Twins are linked by pointer, so an
// antiparallel network edge (v, u) gets its own, separate pair of arcs.
type ResidualEdge struct {
	// From is the tail node ID.
	From int64

	// To is the head node ID.
	To int64

	// Capacity is the current residual capacity.
	Capacity float64

	// Flow is the flow currently carried by a forward arc.
	// Always zero on reverse arcs.
	Flow float64

	// OriginalCapacity is the capacity the arc was created with.
	OriginalCapacity float64

	// IsReverse is true for arcs created to cancel flow.
	IsReverse bool

	// Twin is the paired arc in the opposite direction.
	Twin *ResidualEdge

	// Index is the insertion position among the forward arcs of the graph.
	// Reverse arcs share the index of their forward twin.
	Index int
}

// HasCapacity returns true if the arc has positive residual capacity.
func (e *ResidualEdge) HasCapacity() bool {
	return e.Capacity > Epsilon
}

// Forward returns the forward arc of the pair.
func (e *ResidualEdge) Forward() *ResidualEdge {
	if e.IsReverse {
		return e.Twin
	}
	return e
}

// =============================================================================
// Residual Graph
// =============================================================================

// ResidualGraph is the core data structure for the max-flow engine.
//
// Adjacency lists keep arcs in insertion order: the forward arcs of a node
// appear in the order its network edges were added, with reverse arcs
// interleaved as their forward twins are created. Breadth-first search
// walks these lists, which makes tie-breaking between equal-length
// augmenting paths deterministic.
//
// ResidualGraph is NOT safe for concurrent use; Solve builds a fresh one per call.
type ResidualGraph struct {
	// Nodes contains all node IDs in the graph.
	Nodes map[int64]bool

	// NodeList keeps node IDs in insertion order.
	NodeList []int64

	// Adjacency holds outgoing arcs (forward and reverse) per node.
	Adjacency map[int64][]*ResidualEdge

	// EdgesList holds forward arcs in insertion order.
	EdgesList []*ResidualEdge
}

// NewResidualGraph creates a new empty residual graph.
func NewResidualGraph() *ResidualGraph {
	return &ResidualGraph{
		Nodes:     make(map[int64]bool),
		Adjacency: make(map[int64][]*ResidualEdge),
	}
}

// =============================================================================
// Graph Modification
// =============================================================================

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (rg *ResidualGraph) AddNode(id int64) {
	if rg.Nodes[id] {
		return
	}
	rg.Nodes[id] = true
	rg.NodeList = append(rg.NodeList, id)
}

// AddEdgeWithReverse adds a forward arc and its zero-capacity twin.
// Endpoints are added implicitly. Returns the forward arc.
//
// Parallel calls for the same (from, to) create independent pairs;
// callers that need unique edges must enforce it themselves.
func (rg *ResidualGraph) AddEdgeWithReverse(from, to int64, capacity float64) *ResidualEdge {
	rg.AddNode(from)
	rg.AddNode(to)

	index := len(rg.EdgesList)
	fwd := &ResidualEdge{
		From:             from,
		To:               to,
		Capacity:         capacity,
		OriginalCapacity: capacity,
		Index:            index,
	}
	rev := &ResidualEdge{
		From:      to,
		To:        from,
		IsReverse: true,
		Index:     index,
	}
	fwd.Twin = rev
	rev.Twin = fwd

	rg.Adjacency[from] = append(rg.Adjacency[from], fwd)
	rg.Adjacency[to] = append(rg.Adjacency[to], rev)
	rg.EdgesList = append(rg.EdgesList, fwd)
	return fwd
}

// Push sends flow along an arc and updates its twin.
// Pushing on a reverse arc cancels flow on the forward twin.
func (rg *ResidualGraph) Push(e *ResidualEdge, flow float64) {
	e.Capacity -= flow
	e.Twin.Capacity += flow
	if e.IsReverse {
		e.Twin.Flow -= flow
	} else {
		e.Flow += flow
	}
}

// =============================================================================
// Access
// =============================================================================

// GetNeighborsList returns outgoing arcs of a node in insertion order.
func (rg *ResidualGraph) GetNeighborsList(node int64) []*ResidualEdge {
	return rg.Adjacency[node]
}

// NodeCount returns the number of nodes.
func (rg *ResidualGraph) NodeCount() int {
	return len(rg.Nodes)
}

// EdgeCount returns the number of forward arcs.
func (rg *ResidualGraph) EdgeCount() int {
	return len(rg.EdgesList)
}

// GetTotalFlow returns the net flow leaving the source.
func (rg *ResidualGraph) GetTotalFlow(source int64) float64 {
	var total float64
	for _, e := range rg.Adjacency[source] {
		if e.IsReverse {
			total -= e.Twin.Flow
		} else {
			total += e.Flow
		}
	}
	return total
}
