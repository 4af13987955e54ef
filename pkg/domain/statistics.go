package domain

// NetworkStatistics статистика сети
type NetworkStatistics struct {
	NodeCount      int     `json:"node_count"`
	EdgeCount      int     `json:"edge_count"`
	Terminals      int     `json:"terminals"`
	Warehouses     int     `json:"warehouses"`
	Stores         int     `json:"stores"`
	TotalCapacity  float64 `json:"total_capacity"`
	UnboundedEdges int     `json:"unbounded_edges"`
	ZeroEdges      int     `json:"zero_capacity_edges"`
}

// FlowStatistics статистика потока по конечным рёбрам
type FlowStatistics struct {
	TotalFlow          float64   `json:"total_flow"`
	ActiveEdges        int       `json:"active_edges"`
	ZeroFlowEdges      int       `json:"zero_flow_edges"`
	SaturatedEdges     int       `json:"saturated_edges"`
	AverageUtilization float64   `json:"average_utilization"`
	Bottlenecks        []EdgeKey `json:"bottlenecks"`
}

// CalculateNetworkStatistics вычисляет статистику сети
func CalculateNetworkStatistics(n *Network) *NetworkStatistics {
	stats := &NetworkStatistics{
		NodeCount: n.NodeCount(),
		EdgeCount: n.EdgeCount(),
	}

	// Подсчёт узлов по ролям
	for _, node := range n.Nodes() {
		switch node.Role {
		case RoleTerminal:
			stats.Terminals++
		case RoleWarehouse:
			stats.Warehouses++
		case RoleStore:
			stats.Stores++
		}
	}

	for _, e := range n.Edges() {
		switch {
		case e.Unbounded:
			stats.UnboundedEdges++
		case e.IsZeroCapacity():
			stats.ZeroEdges++
		default:
			stats.TotalCapacity += e.Capacity
		}
	}

	return stats
}

// CalculateFlowStatistics вычисляет статистику потока.
// Рёбра, инцидентные виртуальным узлам, и неограниченные рёбра не учитываются
// в утилизации; TotalFlow считается как выход из source.
func CalculateFlowStatistics(n *Network, a *FlowAssignment, source string) *FlowStatistics {
	stats := &FlowStatistics{
		TotalFlow:   a.Outflow(source),
		Bottlenecks: make([]EdgeKey, 0),
	}

	var totalUtilization float64
	for _, e := range n.Edges() {
		if e.Unbounded || IsReservedID(e.From) || IsReservedID(e.To) {
			continue
		}

		flow := a.Flow(e.From, e.To)
		if !IsPositive(flow) {
			stats.ZeroFlowEdges++
			continue
		}

		stats.ActiveEdges++
		utilization := 0.0
		if IsPositive(e.Capacity) {
			utilization = flow / e.Capacity
		}
		totalUtilization += utilization

		if utilization >= SaturationThreshold {
			stats.SaturatedEdges++
			stats.Bottlenecks = append(stats.Bottlenecks, e.Key())
		}
	}

	if stats.ActiveEdges > 0 {
		stats.AverageUtilization = totalUtilization / float64(stats.ActiveEdges)
	}

	return stats
}
