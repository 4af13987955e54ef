package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResidualGraph(t *testing.T) {
	rg := NewResidualGraph()

	require.NotNil(t, rg)
	assert.Equal(t, 0, rg.NodeCount())
	assert.Equal(t, 0, rg.EdgeCount())
}

func TestResidualGraph_AddNode(t *testing.T) {
	tests := []struct {
		name    string
		nodeIDs []int64
		want    []int64
	}{
		{"single node", []int64{1}, []int64{1}},
		{"duplicates keep first position", []int64{3, 1, 3, 2, 1}, []int64{3, 1, 2}},
		{"negative ids", []int64{-1, -2, 0}, []int64{-1, -2, 0}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rg := NewResidualGraph()
			for _, id := range tt.nodeIDs {
				rg.AddNode(id)
			}
			assert.Equal(t, tt.want, rg.NodeList)
			assert.Equal(t, len(tt.want), rg.NodeCount())
		})
	}
}

func TestResidualGraph_AddEdgeWithReverse(t *testing.T) {
	rg := NewResidualGraph()
	fwd := rg.AddEdgeWithReverse(1, 2, 10)

	require.NotNil(t, fwd)
	assert.False(t, fwd.IsReverse)
	assert.Equal(t, 10.0, fwd.Capacity)
	assert.Equal(t, 10.0, fwd.OriginalCapacity)

	rev := fwd.Twin
	require.NotNil(t, rev)
	assert.True(t, rev.IsReverse)
	assert.Equal(t, int64(2), rev.From)
	assert.Equal(t, int64(1), rev.To)
	assert.Equal(t, 0.0, rev.Capacity)
	assert.Same(t, fwd, rev.Twin)
	assert.Same(t, fwd, rev.Forward())

	assert.Equal(t, 2, rg.NodeCount())
	assert.Equal(t, 1, rg.EdgeCount())
	assert.Equal(t, []*ResidualEdge{fwd}, rg.GetNeighborsList(1))
	assert.Equal(t, []*ResidualEdge{rev}, rg.GetNeighborsList(2))
}

func TestResidualGraph_AntiparallelEdges(t *testing.T) {
	rg := NewResidualGraph()
	ab := rg.AddEdgeWithReverse(1, 2, 10)
	ba := rg.AddEdgeWithReverse(2, 1, 4)

	assert.NotSame(t, ab, ba)
	assert.NotSame(t, ab.Twin, ba)
	assert.Equal(t, 10.0, ab.Capacity)
	assert.Equal(t, 4.0, ba.Capacity)
	assert.Equal(t, []*ResidualEdge{ab.Twin, ba}, rg.GetNeighborsList(2))

	rg.Push(ab, 6)
	assert.Equal(t, 6.0, ab.Flow)
	assert.Equal(t, 0.0, ba.Flow)
	assert.Equal(t, 4.0, ba.Capacity)
	assert.Equal(t, 6.0, ab.Twin.Capacity)
}

func TestResidualGraph_PushAndCancel(t *testing.T) {
	rg := NewResidualGraph()
	e := rg.AddEdgeWithReverse(1, 2, 10)

	rg.Push(e, 7)
	assert.Equal(t, 3.0, e.Capacity)
	assert.Equal(t, 7.0, e.Flow)
	assert.Equal(t, 7.0, e.Twin.Capacity)

	rg.Push(e.Twin, 2)
	assert.Equal(t, 5.0, e.Capacity)
	assert.Equal(t, 5.0, e.Flow)
	assert.Equal(t, 5.0, e.Twin.Capacity)
	assert.Equal(t, 0.0, e.Twin.Flow)

	assert.InDelta(t, 5.0, rg.GetTotalFlow(1), 1e-9)
	assert.InDelta(t, -5.0, rg.GetTotalFlow(2), 1e-9)
}

func TestResidualEdge_HasCapacity(t *testing.T) {
	assert.True(t, (&ResidualEdge{Capacity: 1}).HasCapacity())
	assert.False(t, (&ResidualEdge{Capacity: Epsilon / 2}).HasCapacity())
	assert.False(t, (&ResidualEdge{Capacity: 0}).HasCapacity())
}
