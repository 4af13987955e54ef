package algorithms

import (
	"math"
	"testing"

	"distflow/pkg/apperror"
	"distflow/pkg/domain"
	"distflow/services/throughput-svc/internal/network"
	"distflow/services/throughput-svc/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solveSample(t *testing.T, opts *SolverOptions) (*network.Augmented, *Solution) {
	t.Helper()
	aug, err := network.AugmentByRole(testutil.SampleNetwork())
	require.NoError(t, err)

	sol, err := Solve(aug.Network, aug.Source, aug.Sink, opts)
	require.NoError(t, err)
	return aug, sol
}

func TestSolve_SampleNetwork(t *testing.T) {
	_, sol := solveSample(t, nil)

	assert.InDelta(t, testutil.SampleMaxFlow, sol.MaxFlow, 1e-9)
	assert.Equal(t, 11, sol.Iterations)

	expected := map[domain.EdgeKey]float64{
		{From: "Terminal 1", To: "Warehouse 1"}: 25,
		{From: "Terminal 1", To: "Warehouse 2"}: 20,
		{From: "Terminal 1", To: "Warehouse 3"}: 15,
		{From: "Terminal 2", To: "Warehouse 3"}: 15,
		{From: "Terminal 2", To: "Warehouse 4"}: 30,
		{From: "Terminal 2", To: "Warehouse 2"}: 10,
		{From: "Warehouse 1", To: "Store 1"}:    15,
		{From: "Warehouse 1", To: "Store 2"}:    10,
		{From: "Warehouse 1", To: "Store 3"}:    0,
		{From: "Warehouse 2", To: "Store 4"}:    15,
		{From: "Warehouse 2", To: "Store 5"}:    10,
		{From: "Warehouse 2", To: "Store 6"}:    5,
		{From: "Warehouse 3", To: "Store 7"}:    20,
		{From: "Warehouse 3", To: "Store 8"}:    10,
		{From: "Warehouse 3", To: "Store 9"}:    0,
		{From: "Warehouse 4", To: "Store 10"}:   20,
		{From: "Warehouse 4", To: "Store 11"}:   10,
		{From: "Warehouse 4", To: "Store 12"}:   0,
		{From: "Warehouse 4", To: "Store 13"}:   0,
		{From: "Warehouse 4", To: "Store 14"}:   0,
	}
	for key, want := range expected {
		assert.InDelta(t, want, sol.Assignment.Flow(key.From, key.To), 1e-9, key.String())
	}

	for terminal, total := range testutil.SampleTerminalTotals {
		assert.InDelta(t, total, sol.Assignment.Flow(domain.SuperSourceID, terminal), 1e-9, terminal)
	}
	assert.InDelta(t, sol.MaxFlow, sol.Assignment.Inflow(domain.SuperSinkID), 1e-9)
}

func TestSolve_Deterministic(t *testing.T) {
	_, first := solveSample(t, nil)

	for i := 0; i < 10; i++ {
		_, sol := solveSample(t, nil)
		assert.Equal(t, first.Assignment.Edges(), sol.Assignment.Edges())
		assert.Equal(t, first.Iterations, sol.Iterations)
	}
}

func TestSolve_CutMatchesFlow(t *testing.T) {
	_, sol := solveSample(t, nil)

	require.NotNil(t, sol.Cut)
	assert.InDelta(t, sol.MaxFlow, sol.Cut.Capacity, 1e-9)
	assert.Equal(t, []string{"Terminal 1", "Terminal 2", domain.SuperSourceID}, sol.Cut.SourceSide)
	assert.Len(t, sol.Cut.Edges, 6)
}

func TestSolve_ReturnPaths(t *testing.T) {
	_, sol := solveSample(t, DefaultSolverOptions().WithReturnPaths(true))

	require.Len(t, sol.Paths, sol.Iterations)
	assert.Equal(t,
		[]string{domain.SuperSourceID, "Terminal 1", "Warehouse 1", "Store 1", domain.SuperSinkID},
		sol.Paths[0].Nodes)
	assert.Equal(t, 15.0, sol.Paths[0].Flow)

	var total float64
	for _, p := range sol.Paths {
		total += p.Flow
	}
	assert.InDelta(t, sol.MaxFlow, total, 1e-9)
}

func TestSolve_Networks(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []testutil.Node
		edges    []testutil.SampleEdge
		expected float64
		flows    map[domain.EdgeKey]float64
	}{
		{
			name: "disconnected",
			nodes: []testutil.Node{
				{ID: "T1", Role: domain.RoleTerminal},
				{ID: "W1", Role: domain.RoleWarehouse},
				{ID: "W2", Role: domain.RoleWarehouse},
				{ID: "S1", Role: domain.RoleStore},
			},
			edges: []testutil.SampleEdge{
				{From: "T1", To: "W1", Capacity: 10},
				{From: "W2", To: "S1", Capacity: 5},
			},
			expected: 0,
			flows: map[domain.EdgeKey]float64{
				{From: "T1", To: "W1"}: 0,
				{From: "W2", To: "S1"}: 0,
			},
		},
		{
			name: "zero_capacity",
			nodes: []testutil.Node{
				{ID: "T1", Role: domain.RoleTerminal},
				{ID: "W1", Role: domain.RoleWarehouse},
				{ID: "S1", Role: domain.RoleStore},
			},
			edges: []testutil.SampleEdge{
				{From: "T1", To: "W1", Capacity: 0},
				{From: "W1", To: "S1", Capacity: 5},
			},
			expected: 0,
			flows: map[domain.EdgeKey]float64{
				{From: "W1", To: "S1"}: 0,
			},
		},
		{
			name: "antiparallel",
			nodes: []testutil.Node{
				{ID: "T1", Role: domain.RoleTerminal},
				{ID: "W1", Role: domain.RoleWarehouse},
				{ID: "W2", Role: domain.RoleWarehouse},
				{ID: "S1", Role: domain.RoleStore},
			},
			edges: []testutil.SampleEdge{
				{From: "T1", To: "W1", Capacity: 5},
				{From: "W1", To: "W2", Capacity: 4},
				{From: "W2", To: "W1", Capacity: 3},
				{From: "W2", To: "S1", Capacity: 10},
			},
			expected: 4,
			flows: map[domain.EdgeKey]float64{
				{From: "W1", To: "W2"}: 4,
				{From: "W2", To: "W1"}: 0,
			},
		},
		{
			name:     "shared_warehouse",
			nodes:    nil,
			expected: 15,
		},
		{
			name: "unbounded_edge_with_finite_bottleneck",
			nodes: []testutil.Node{
				{ID: "T1", Role: domain.RoleTerminal},
				{ID: "W1", Role: domain.RoleWarehouse},
				{ID: "S1", Role: domain.RoleStore},
			},
			edges: []testutil.SampleEdge{
				{From: "T1", To: "W1", Capacity: math.Inf(1)},
				{From: "W1", To: "S1", Capacity: 7},
			},
			expected: 7,
			flows: map[domain.EdgeKey]float64{
				{From: "T1", To: "W1"}: 7,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := testutil.SharedWarehouse()
			if tt.nodes != nil {
				base = testutil.Build(tt.nodes, tt.edges)
			}
			aug, err := network.AugmentByRole(base)
			require.NoError(t, err)

			sol, err := Solve(aug.Network, aug.Source, aug.Sink, nil)
			require.NoError(t, err)

			assert.InDelta(t, tt.expected, sol.MaxFlow, 1e-9)
			assert.Equal(t, aug.Network.EdgeCount(), sol.Assignment.Len())
			for key, want := range tt.flows {
				assert.InDelta(t, want, sol.Assignment.Flow(key.From, key.To), 1e-9, key.String())
			}
		})
	}
}

func TestSolve_Errors(t *testing.T) {
	unbounded := testutil.Build(
		[]testutil.Node{
			{ID: "T1", Role: domain.RoleTerminal},
			{ID: "W1", Role: domain.RoleWarehouse},
			{ID: "S1", Role: domain.RoleStore},
		},
		[]testutil.SampleEdge{
			{From: "T1", To: "W1", Capacity: math.Inf(1)},
			{From: "W1", To: "S1", Capacity: math.Inf(1)},
		},
	)
	unboundedAug, err := network.AugmentByRole(unbounded)
	require.NoError(t, err)

	tests := []struct {
		name   string
		net    *domain.Network
		source string
		sink   string
		code   apperror.ErrorCode
	}{
		{"nil_network", nil, "a", "b", apperror.CodeNilInput},
		{"unknown_source", unbounded, "X", "S1", apperror.CodeUnknownNode},
		{"unknown_sink", unbounded, "T1", "X", apperror.CodeUnknownNode},
		{"source_equals_sink", unbounded, "T1", "T1", apperror.CodeInvalidInput},
		{"unbounded_flow", unboundedAug.Network, unboundedAug.Source, unboundedAug.Sink, apperror.CodeUnboundedFlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, err := Solve(tt.net, tt.source, tt.sink, nil)
			require.Error(t, err)
			assert.Nil(t, sol)
			assert.Equal(t, tt.code, apperror.Code(err))
		})
	}
}

func TestSolverOptions(t *testing.T) {
	opts := DefaultSolverOptions()
	assert.True(t, opts.Verify)
	assert.False(t, opts.ReturnPaths)

	opts.WithReturnPaths(true).WithVerify(false).WithEpsilon(1e-6)
	assert.True(t, opts.ReturnPaths)
	assert.False(t, opts.Verify)
	assert.Equal(t, 1e-6, opts.Epsilon)
}

func TestSolve_CapacityBelowEpsilon(t *testing.T) {
	n := testutil.Build(
		[]testutil.Node{
			{ID: "A", Role: domain.RoleTerminal},
			{ID: "W", Role: domain.RoleWarehouse},
			{ID: "S", Role: domain.RoleStore},
		},
		[]testutil.SampleEdge{
			{From: "A", To: "W", Capacity: 0.25},
			{From: "W", To: "S", Capacity: 0.25},
		},
	)

	for _, eps := range []float64{1e-9, 0.25, 0.5, 10} {
		sol, err := Solve(n, "A", "S", DefaultSolverOptions().WithEpsilon(eps))
		require.NoError(t, err, "epsilon %g", eps)
		assert.InDelta(t, 0.25, sol.MaxFlow, 1e-12, "epsilon %g", eps)
		assert.InDelta(t, sol.MaxFlow, sol.Cut.Capacity, 1e-12, "epsilon %g", eps)
		assert.Equal(t, 1, sol.Iterations, "epsilon %g", eps)
	}
}
