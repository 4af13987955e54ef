package algorithms

import (
	"fmt"
	"math"

	"distflow/pkg/apperror"
	"distflow/pkg/domain"
)

// ValidateAssignment проверяет корректность рассчитанного потока:
// ёмкости, неотрицательность, сохранение потока во всех узлах,
// кроме source и sink, и равенство выхода источника входу стока.
// Допуск масштабируется по модулю сравниваемых величин.
func ValidateAssignment(n *domain.Network, a *domain.FlowAssignment, source, sink string, tol float64) *apperror.ValidationErrors {
	v := apperror.NewValidationErrors()
	if n == nil || a == nil {
		v.Add(apperror.New(apperror.CodeNilInput, "network and assignment are required"))
		return v
	}
	if tol <= 0 {
		tol = domain.Epsilon
	}

	// 1. Каждое ребро назначения существует в сети
	for _, f := range a.Edges() {
		if _, ok := n.Edge(f.From, f.To); !ok {
			v.Add(apperror.Newf(apperror.CodeInvalidEdge, "flow on %s, which is not a network edge", f.Key()).
				WithDetails("edge", f.Key().String()))
		}
	}

	// 2. Ограничение пропускной способности (0 <= Flow <= Capacity)
	for _, e := range n.Edges() {
		flow := a.Flow(e.From, e.To)
		if flow < -scaled(tol, flow) {
			v.Add(apperror.Newf(apperror.CodeNegativeFlow, "negative flow %.6f on %s", flow, e.Key()).
				WithDetails("edge", e.Key().String()))
		}
		if !e.Unbounded && flow > e.Capacity+scaled(tol, e.Capacity) {
			v.Add(apperror.Newf(apperror.CodeCapacityOverflow, "flow %.6f exceeds capacity %.6f on %s", flow, e.Capacity, e.Key()).
				WithDetails("edge", e.Key().String()))
		}
	}

	// 3. Закон сохранения потока
	for _, node := range n.Nodes() {
		if node.ID == source || node.ID == sink {
			continue
		}
		in, out := a.Inflow(node.ID), a.Outflow(node.ID)
		if math.Abs(in-out) > scaled(tol, math.Max(in, out)) {
			v.Add(apperror.Newf(apperror.CodeConservationViolation,
				"node %s: inflow %.6f != outflow %.6f", node.ID, in, out).
				WithDetails("node", node.ID))
		}
	}

	// 4. Выход из source == вход в sink
	sourceOut := a.Outflow(source) - a.Inflow(source)
	sinkIn := a.Inflow(sink) - a.Outflow(sink)
	if math.Abs(sourceOut-sinkIn) > scaled(tol, math.Max(sourceOut, sinkIn)) {
		v.Add(apperror.New(apperror.CodeFlowImbalance,
			fmt.Sprintf("source emits %.6f but sink absorbs %.6f", sourceOut, sinkIn)))
	}

	return v
}

// ValidateMaximal сверяет величину потока с ёмкостью минимального разреза.
// Допустимый поток меньше максимального проходит ValidateAssignment,
// но здесь даёт FLOW_NOT_MAXIMAL.
func ValidateMaximal(maxFlow float64, cut *CutResult, tol float64) *apperror.Error {
	if cut == nil {
		return apperror.New(apperror.CodeNilInput, "minimum cut is required")
	}
	if tol <= 0 {
		tol = domain.Epsilon
	}
	if math.Abs(maxFlow-cut.Capacity) > scaled(tol, math.Max(maxFlow, cut.Capacity)) {
		return apperror.Newf(apperror.CodeFlowNotMaximal,
			"flow %.6f is below the minimum cut capacity %.6f", maxFlow, cut.Capacity).
			WithDetails("cut_capacity", cut.Capacity)
	}
	return nil
}

func scaled(tol, magnitude float64) float64 {
	return tol * math.Max(1, math.Abs(magnitude))
}
