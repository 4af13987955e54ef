package algorithms

import (
	"testing"

	"distflow/pkg/domain"
	"distflow/services/throughput-svc/internal/converter"
	"distflow/services/throughput-svc/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinCut(t *testing.T) {
	tests := []struct {
		name       string
		edges      []testutil.SampleEdge
		sourceSide []string
		cutEdges   []domain.EdgeKey
		capacity   float64
	}{
		{
			name: "bottleneck_in_middle",
			edges: []testutil.SampleEdge{
				{From: "a", To: "b", Capacity: 10},
				{From: "b", To: "c", Capacity: 3},
				{From: "c", To: "d", Capacity: 10},
			},
			sourceSide: []string{"a", "b"},
			cutEdges:   []domain.EdgeKey{{From: "b", To: "c"}},
			capacity:   3,
		},
		{
			name: "two_branches",
			edges: []testutil.SampleEdge{
				{From: "a", To: "b", Capacity: 2},
				{From: "a", To: "c", Capacity: 10},
				{From: "b", To: "d", Capacity: 10},
				{From: "c", To: "d", Capacity: 4},
			},
			sourceSide: []string{"a", "c"},
			cutEdges:   []domain.EdgeKey{{From: "a", To: "b"}, {From: "c", To: "d"}},
			capacity:   6,
		},
		{
			name: "no_path",
			edges: []testutil.SampleEdge{
				{From: "a", To: "b", Capacity: 5},
				{From: "c", To: "d", Capacity: 5},
			},
			sourceSide: []string{"a", "b"},
			cutEdges:   nil,
			capacity:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := []testutil.Node{
				{ID: "a", Role: domain.RoleWarehouse},
				{ID: "b", Role: domain.RoleWarehouse},
				{ID: "c", Role: domain.RoleWarehouse},
				{ID: "d", Role: domain.RoleWarehouse},
			}
			m := converter.ToResidualGraph(testutil.Build(nodes, tt.edges))
			s, ok := m.ID("a")
			require.True(t, ok)
			sink, _ := m.ID("d")

			ek := EdmondsKarp(m.Graph, s, sink, nil)
			cut := MinCut(m, s)

			assert.Equal(t, tt.sourceSide, cut.SourceSide)
			assert.Equal(t, tt.cutEdges, cut.Edges)
			assert.InDelta(t, tt.capacity, cut.Capacity, 1e-9)
			assert.InDelta(t, ek.MaxFlow, cut.Capacity, 1e-9)
		})
	}
}
