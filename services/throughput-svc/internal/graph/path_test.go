package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructPath(t *testing.T) {
	rg := NewResidualGraph()
	e12 := rg.AddEdgeWithReverse(1, 2, 10)
	e23 := rg.AddEdgeWithReverse(2, 3, 4)

	parent := map[int64]*ResidualEdge{2: e12, 3: e23}

	tests := []struct {
		name         string
		source, sink int64
		want         []int64
	}{
		{"full path", 1, 3, []int64{1, 2, 3}},
		{"partial path", 1, 2, []int64{1, 2}},
		{"sink not reached", 1, 4, nil},
		{"source equals sink", 1, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ReconstructPath(parent, tt.source, tt.sink)
			assert.Equal(t, tt.want, PathNodes(path))
		})
	}
}

func TestReconstructPath_BrokenChain(t *testing.T) {
	rg := NewResidualGraph()
	e23 := rg.AddEdgeWithReverse(2, 3, 4)

	assert.Nil(t, ReconstructPath(map[int64]*ResidualEdge{3: e23}, 1, 3))
}

func TestFindMinCapacityOnPath(t *testing.T) {
	rg := NewResidualGraph()
	e12 := rg.AddEdgeWithReverse(1, 2, 10)
	e23 := rg.AddEdgeWithReverse(2, 3, 4)
	e34 := rg.AddEdgeWithReverse(3, 4, 7)

	assert.Equal(t, 4.0, FindMinCapacityOnPath([]*ResidualEdge{e12, e23, e34}))
	assert.Equal(t, 10.0, FindMinCapacityOnPath([]*ResidualEdge{e12}))
	assert.Equal(t, 0.0, FindMinCapacityOnPath(nil))
}

func TestAugmentPath(t *testing.T) {
	rg := NewResidualGraph()
	e12 := rg.AddEdgeWithReverse(1, 2, 10)
	e23 := rg.AddEdgeWithReverse(2, 3, 4)
	path := []*ResidualEdge{e12, e23}

	AugmentPath(rg, path, FindMinCapacityOnPath(path))

	assert.Equal(t, 4.0, e12.Flow)
	assert.Equal(t, 6.0, e12.Capacity)
	assert.Equal(t, 4.0, e23.Flow)
	assert.Equal(t, 0.0, e23.Capacity)
	require.Equal(t, 4.0, e23.Twin.Capacity)
}
