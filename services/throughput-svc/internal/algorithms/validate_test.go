package algorithms

import (
	"testing"

	"distflow/pkg/apperror"
	"distflow/pkg/domain"
	"distflow/services/throughput-svc/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain() *domain.Network {
	return testutil.Build(
		[]testutil.Node{
			{ID: "T1", Role: domain.RoleTerminal},
			{ID: "W1", Role: domain.RoleWarehouse},
			{ID: "S1", Role: domain.RoleStore},
		},
		[]testutil.SampleEdge{
			{From: "T1", To: "W1", Capacity: 10},
			{From: "W1", To: "S1", Capacity: 6},
		},
	)
}

func TestValidateAssignment(t *testing.T) {
	tests := []struct {
		name  string
		flows []domain.EdgeFlow
		codes []apperror.ErrorCode
	}{
		{
			name: "valid",
			flows: []domain.EdgeFlow{
				{From: "T1", To: "W1", Flow: 6},
				{From: "W1", To: "S1", Flow: 6},
			},
		},
		{
			name: "within_tolerance",
			flows: []domain.EdgeFlow{
				{From: "T1", To: "W1", Flow: 6 + 1e-12},
				{From: "W1", To: "S1", Flow: 6},
			},
		},
		{
			name: "capacity_overflow",
			flows: []domain.EdgeFlow{
				{From: "T1", To: "W1", Flow: 7},
				{From: "W1", To: "S1", Flow: 7},
			},
			codes: []apperror.ErrorCode{apperror.CodeCapacityOverflow},
		},
		{
			name: "negative_flow",
			flows: []domain.EdgeFlow{
				{From: "T1", To: "W1", Flow: -1},
				{From: "W1", To: "S1", Flow: -1},
			},
			codes: []apperror.ErrorCode{apperror.CodeNegativeFlow, apperror.CodeNegativeFlow},
		},
		{
			name: "conservation_violation",
			flows: []domain.EdgeFlow{
				{From: "T1", To: "W1", Flow: 6},
				{From: "W1", To: "S1", Flow: 4},
			},
			codes: []apperror.ErrorCode{apperror.CodeConservationViolation, apperror.CodeFlowImbalance},
		},
		{
			name: "unknown_edge",
			flows: []domain.EdgeFlow{
				{From: "T1", To: "S1", Flow: 1},
			},
			codes: []apperror.ErrorCode{apperror.CodeInvalidEdge},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateAssignment(chain(), domain.NewFlowAssignment(tt.flows), "T1", "S1", 1e-9)

			var codes []apperror.ErrorCode
			for _, e := range v.Errors {
				codes = append(codes, e.Code)
			}
			assert.Equal(t, tt.codes, codes)
			assert.Equal(t, len(tt.codes) == 0, v.IsValid())
		})
	}
}

func TestValidateAssignment_NilInput(t *testing.T) {
	v := ValidateAssignment(nil, nil, "a", "b", 0)
	require.False(t, v.IsValid())
	assert.Equal(t, apperror.CodeNilInput, apperror.Code(v.Err()))
}

func TestValidateAssignment_SolvedSample(t *testing.T) {
	aug, sol := solveSample(t, nil)
	v := ValidateAssignment(aug.Network, sol.Assignment, aug.Source, aug.Sink, 0)
	assert.True(t, v.IsValid(), v.ErrorMessages())
}

func TestValidateMaximal(t *testing.T) {
	tests := []struct {
		name    string
		maxFlow float64
		cut     *CutResult
		want    apperror.ErrorCode
	}{
		{"equal", 6, &CutResult{Capacity: 6}, ""},
		{"within_tolerance", 6, &CutResult{Capacity: 6 + 1e-12}, ""},
		{"zero", 0, &CutResult{}, ""},
		{"below_cut", 0, &CutResult{Capacity: 0.25}, apperror.CodeFlowNotMaximal},
		{"partial", 4, &CutResult{Capacity: 6}, apperror.CodeFlowNotMaximal},
		{"nil_cut", 6, nil, apperror.CodeNilInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMaximal(tt.maxFlow, tt.cut, 1e-9)
			if tt.want == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.want, err.Code)
		})
	}
}

func TestValidateMaximal_SolvedSample(t *testing.T) {
	_, sol := solveSample(t, nil)
	assert.Nil(t, ValidateMaximal(sol.MaxFlow, sol.Cut, 0))
}
