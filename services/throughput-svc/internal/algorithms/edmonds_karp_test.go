package algorithms

import (
	"testing"

	"distflow/services/throughput-svc/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdmondsKarp(t *testing.T) {
	tests := []struct {
		name         string
		setupGraph   func() *graph.ResidualGraph
		source       int64
		sink         int64
		expectedFlow float64
	}{
		{
			name: "simple_two_node",
			setupGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph()
				g.AddEdgeWithReverse(1, 2, 10)
				return g
			},
			source:       1,
			sink:         2,
			expectedFlow: 10,
		},
		{
			name: "linear_graph",
			setupGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph()
				g.AddEdgeWithReverse(1, 2, 10)
				g.AddEdgeWithReverse(2, 3, 5)
				return g
			},
			source:       1,
			sink:         3,
			expectedFlow: 5,
		},
		{
			name: "diamond_graph",
			setupGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph()
				g.AddEdgeWithReverse(1, 2, 10)
				g.AddEdgeWithReverse(1, 3, 10)
				g.AddEdgeWithReverse(2, 4, 10)
				g.AddEdgeWithReverse(3, 4, 10)
				return g
			},
			source:       1,
			sink:         4,
			expectedFlow: 20,
		},
		{
			name: "bottleneck_in_middle",
			setupGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph()
				g.AddEdgeWithReverse(1, 2, 100)
				g.AddEdgeWithReverse(2, 3, 1)
				g.AddEdgeWithReverse(3, 4, 100)
				return g
			},
			source:       1,
			sink:         4,
			expectedFlow: 1,
		},
		{
			name: "crossing_edge",
			setupGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph()
				g.AddEdgeWithReverse(1, 2, 1)
				g.AddEdgeWithReverse(1, 3, 1)
				g.AddEdgeWithReverse(2, 3, 1)
				g.AddEdgeWithReverse(3, 4, 1)
				g.AddEdgeWithReverse(2, 4, 1)
				return g
			},
			source:       1,
			sink:         4,
			expectedFlow: 2,
		},
		{
			name: "antiparallel_edges",
			setupGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph()
				g.AddEdgeWithReverse(1, 2, 5)
				g.AddEdgeWithReverse(2, 1, 3)
				g.AddEdgeWithReverse(2, 3, 10)
				return g
			},
			source:       1,
			sink:         3,
			expectedFlow: 5,
		},
		{
			name: "no_path",
			setupGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph()
				g.AddEdgeWithReverse(1, 2, 10)
				g.AddEdgeWithReverse(3, 4, 10)
				return g
			},
			source:       1,
			sink:         4,
			expectedFlow: 0,
		},
		{
			name: "zero_capacity_edge",
			setupGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph()
				g.AddEdgeWithReverse(1, 2, 0)
				g.AddEdgeWithReverse(2, 3, 10)
				return g
			},
			source:       1,
			sink:         3,
			expectedFlow: 0,
		},
		{
			name: "complex_network",
			setupGraph: func() *graph.ResidualGraph {
				// Классический пример из CLRS
				g := graph.NewResidualGraph()
				g.AddEdgeWithReverse(0, 1, 16)
				g.AddEdgeWithReverse(0, 2, 13)
				g.AddEdgeWithReverse(1, 2, 10)
				g.AddEdgeWithReverse(1, 3, 12)
				g.AddEdgeWithReverse(2, 1, 4)
				g.AddEdgeWithReverse(2, 4, 14)
				g.AddEdgeWithReverse(3, 2, 9)
				g.AddEdgeWithReverse(3, 5, 20)
				g.AddEdgeWithReverse(4, 3, 7)
				g.AddEdgeWithReverse(4, 5, 4)
				return g
			},
			source:       0,
			sink:         5,
			expectedFlow: 23,
		},
		{
			name: "fractional_capacities",
			setupGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph()
				g.AddEdgeWithReverse(1, 2, 0.1)
				g.AddEdgeWithReverse(1, 3, 0.2)
				g.AddEdgeWithReverse(2, 4, 1)
				g.AddEdgeWithReverse(3, 4, 1)
				return g
			},
			source:       1,
			sink:         4,
			expectedFlow: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.setupGraph()

			result := EdmondsKarp(g, tt.source, tt.sink, DefaultSolverOptions())

			assert.InDelta(t, tt.expectedFlow, result.MaxFlow, 1e-9, "max flow mismatch")
			assert.InDelta(t, tt.expectedFlow, g.GetTotalFlow(tt.source), 1e-9)
		})
	}
}

func TestEdmondsKarp_ReturnPaths(t *testing.T) {
	g := graph.NewResidualGraph()
	g.AddEdgeWithReverse(1, 2, 10)
	g.AddEdgeWithReverse(1, 3, 4)
	g.AddEdgeWithReverse(2, 4, 6)
	g.AddEdgeWithReverse(3, 4, 10)

	result := EdmondsKarp(g, 1, 4, DefaultSolverOptions().WithReturnPaths(true))

	require.Len(t, result.Paths, 2)
	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, []int64{1, 2, 4}, result.Paths[0].NodeIDs)
	assert.Equal(t, 6.0, result.Paths[0].Flow)
	assert.Equal(t, []int64{1, 3, 4}, result.Paths[1].NodeIDs)
	assert.Equal(t, 4.0, result.Paths[1].Flow)
}

func TestEdmondsKarp_PathsDisabledByDefault(t *testing.T) {
	g := graph.NewResidualGraph()
	g.AddEdgeWithReverse(1, 2, 10)

	result := EdmondsKarp(g, 1, 2, nil)

	assert.Equal(t, 10.0, result.MaxFlow)
	assert.Empty(t, result.Paths)
}

func TestEdmondsKarp_SourceEqualsSink(t *testing.T) {
	g := graph.NewResidualGraph()
	g.AddEdgeWithReverse(1, 2, 10)

	result := EdmondsKarp(g, 1, 1, nil)

	assert.Equal(t, 0.0, result.MaxFlow)
	assert.Equal(t, 0, result.Iterations)
}

func TestEdmondsKarp_Deterministic(t *testing.T) {
	build := func() *graph.ResidualGraph {
		g := graph.NewResidualGraph()
		g.AddEdgeWithReverse(0, 1, 5)
		g.AddEdgeWithReverse(0, 2, 5)
		g.AddEdgeWithReverse(1, 3, 5)
		g.AddEdgeWithReverse(2, 3, 5)
		g.AddEdgeWithReverse(1, 2, 5)
		g.AddEdgeWithReverse(3, 4, 7)
		return g
	}

	first := build()
	EdmondsKarp(first, 0, 4, nil)

	for i := 0; i < 20; i++ {
		g := build()
		EdmondsKarp(g, 0, 4, nil)
		for j, e := range g.EdgesList {
			assert.Equal(t, first.EdgesList[j].Flow, e.Flow, "edge %d", j)
		}
	}
}
