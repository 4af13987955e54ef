// Package algorithms implements the max-flow engine: Edmonds-Karp over a
// residual graph, minimum cut extraction and verification of the resulting
// flow assignment.
//
// # Thread Safety
//
// EdmondsKarp and MinCut mutate or read a residual graph and are NOT
// thread-safe. Solve builds a private residual graph per call and is safe
// to call concurrently on the same network.
//
// # Determinism
//
// Given the same network (same insertion order of nodes and edges), Solve
// returns the same per-edge flow on every run.
//
// # Example Usage
//
//	sol, err := algorithms.Solve(aug.Network, aug.Source, aug.Sink, nil)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("max flow: %.2f\n", sol.MaxFlow)
package algorithms

import (
	"time"

	"distflow/pkg/apperror"
	"distflow/pkg/domain"
	"distflow/services/throughput-svc/internal/converter"
)

// =============================================================================
// Solver Options
// =============================================================================

// SolverOptions configures the behavior of the max-flow engine.
//
// Options can be chained using the builder pattern:
//
//	opts := DefaultSolverOptions().
//	    WithReturnPaths(true).
//	    WithVerify(true)
type SolverOptions struct {
	// Epsilon is the relative tolerance used by Verify. It never changes
	// which arcs the search may use: an arc is usable while its residual
	// capacity exceeds graph.Epsilon.
	// Default: 1e-9
	Epsilon float64

	// ReturnPaths indicates whether to collect the augmenting paths.
	// Default: false
	ReturnPaths bool

	// Verify re-checks capacity, conservation and maximality (flow value
	// equal to the minimum cut) and fails the solve if any does not hold.
	// Default: true
	Verify bool
}

// DefaultSolverOptions returns options with sensible defaults.
func DefaultSolverOptions() *SolverOptions {
	return &SolverOptions{
		Epsilon: domain.Epsilon,
		Verify:  true,
	}
}

// WithReturnPaths enables path collection and returns the options for chaining.
func (o *SolverOptions) WithReturnPaths(returnPaths bool) *SolverOptions {
	o.ReturnPaths = returnPaths
	return o
}

// WithVerify toggles result verification and returns the options for chaining.
func (o *SolverOptions) WithVerify(verify bool) *SolverOptions {
	o.Verify = verify
	return o
}

// WithEpsilon sets the verification tolerance and returns the options for chaining.
func (o *SolverOptions) WithEpsilon(eps float64) *SolverOptions {
	o.Epsilon = eps
	return o
}

// =============================================================================
// Solution
// =============================================================================

// Solution is the outcome of a max-flow computation on a domain network.
type Solution struct {
	// MaxFlow is the value of the maximum flow from source to sink.
	MaxFlow float64

	// Assignment carries the flow on every network edge, including the
	// unbounded edges of the super-source and super-sink.
	Assignment *domain.FlowAssignment

	// Iterations is the number of augmenting paths.
	Iterations int

	// Paths holds the augmenting paths when ReturnPaths is set.
	Paths []domain.Path

	// Cut is a minimum cut certifying MaxFlow.
	Cut *CutResult

	// Sentinel is the capacity that stood in for unbounded edges.
	Sentinel float64

	// Duration is the wall-clock time of the solve.
	Duration time.Duration
}

// =============================================================================
// Main Solver Entry Point
// =============================================================================

// Solve computes a maximum flow from source to sink on the network.
//
// Unbounded edges are given the sentinel capacity Sentinel(n). If the
// source reaches the sink through unbounded edges alone the flow would be
// infinite; this is reported as UNBOUNDED_FLOW instead of returning the
// sentinel as a flow value. A network where the sink is unreachable yields
// MaxFlow 0 and an all-zero assignment.
func Solve(n *domain.Network, source, sink string, options *SolverOptions) (*Solution, error) {
	start := time.Now()

	if options == nil {
		options = DefaultSolverOptions()
	}
	if n == nil {
		return nil, apperror.ErrNilNetwork
	}
	if !n.HasNode(source) {
		return nil, apperror.Newf(apperror.CodeUnknownNode, "source %s is not in the network", source).WithField("source")
	}
	if !n.HasNode(sink) {
		return nil, apperror.Newf(apperror.CodeUnknownNode, "sink %s is not in the network", sink).WithField("sink")
	}
	if source == sink {
		return nil, apperror.New(apperror.CodeInvalidInput, "source and sink must differ")
	}

	if domain.Reachable(n, source, domain.UnboundedOnly)[sink] {
		return nil, apperror.Newf(apperror.CodeUnboundedFlow,
			"%s reaches %s through unbounded edges only", source, sink)
	}

	m := converter.ToResidualGraph(n)
	s, _ := m.ID(source)
	t, _ := m.ID(sink)

	ek := EdmondsKarp(m.Graph, s, t, options)

	sol := &Solution{
		MaxFlow:    ek.MaxFlow,
		Assignment: m.ToAssignment(),
		Iterations: ek.Iterations,
		Paths:      m.ToPaths(ek.Paths),
		Cut:        MinCut(m, s),
		Sentinel:   m.Sentinel,
	}

	if options.Verify {
		v := ValidateAssignment(n, sol.Assignment, source, sink, options.Epsilon)
		if err := ValidateMaximal(sol.MaxFlow, sol.Cut, options.Epsilon); err != nil {
			v.Add(err)
		}
		if err := v.Err(); err != nil {
			return nil, apperror.Wrap(err, apperror.Code(err), "max-flow result failed verification")
		}
	}

	sol.Duration = time.Since(start)
	return sol, nil
}
