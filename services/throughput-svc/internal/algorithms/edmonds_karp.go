package algorithms

import (
	"distflow/services/throughput-svc/internal/converter"
	"distflow/services/throughput-svc/internal/graph"
)

// =============================================================================
// Edmonds-Karp Algorithm
// =============================================================================
//
// The Edmonds-Karp algorithm is the Ford-Fulkerson method with breadth-first
// search for augmenting paths. Always choosing a shortest augmenting path
// (fewest arcs) bounds the number of augmentations by O(V × E), independent
// of capacity values.
//
// Time Complexity: O(V × E²)
// Space Complexity: O(V + E)
//
// Loop:
//  1. BFS from source over arcs with positive residual capacity.
//  2. No path: stop, the current flow is maximum.
//  3. Bottleneck = minimum residual capacity along the path.
//  4. Push the bottleneck along the path (forward arcs gain flow,
//     reverse arcs cancel it) and add it to the running total.
//
// There is no iteration cap; termination follows from the shortest-path
// rule. Adjacency lists are scanned in insertion order, so the sequence of
// augmenting paths, and with it the final per-edge flow, is reproducible.
//
// References:
//   - Edmonds, J. & Karp, R.M. (1972). "Theoretical improvements in
//     algorithmic efficiency for network flow problems"
// =============================================================================

// EdmondsKarpResult contains the result of the Edmonds-Karp algorithm.
type EdmondsKarpResult struct {
	// MaxFlow is the maximum flow value computed.
	MaxFlow float64

	// Iterations is the number of augmenting paths found.
	Iterations int

	// Paths contains the augmenting paths found (if ReturnPaths option is enabled).
	Paths []converter.PathWithFlow
}

// EdmondsKarp computes a maximum flow from source to sink.
//
// Parameters:
//   - g: The residual graph (will be modified)
//   - source: The source node ID
//   - sink: The sink node ID
//   - options: Solver options (nil for defaults)
//
// Returns:
//   - *EdmondsKarpResult containing max flow, iteration count and optional paths
//
// A sink that cannot be reached yields a zero flow, not an error.
func EdmondsKarp(g *graph.ResidualGraph, source, sink int64, options *SolverOptions) *EdmondsKarpResult {
	if options == nil {
		options = DefaultSolverOptions()
	}

	result := &EdmondsKarpResult{}
	if source == sink {
		return result
	}

	for {
		// Find shortest augmenting path using BFS
		bfsResult := graph.BFS(g, source, sink)
		if !bfsResult.Found {
			bfsResult.Release()
			break
		}

		path := graph.ReconstructPath(bfsResult.Parent, source, sink)
		bfsResult.Release()
		if len(path) == 0 {
			break
		}

		// BFS walks only arcs above graph.Epsilon, so the bottleneck is
		// positive and every round makes progress
		pathFlow := graph.FindMinCapacityOnPath(path)

		graph.AugmentPath(g, path, pathFlow)

		result.MaxFlow += pathFlow
		result.Iterations++

		if options.ReturnPaths {
			result.Paths = append(result.Paths, converter.PathWithFlow{
				NodeIDs: graph.PathNodes(path),
				Flow:    pathFlow,
			})
		}
	}

	return result
}
