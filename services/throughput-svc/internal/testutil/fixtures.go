// Package testutil holds network fixtures shared by the throughput-svc tests.
package testutil

import (
	"fmt"

	"distflow/pkg/domain"
)

// ================== Sample Network ==================

// SampleEdge is one capacity entry of the sample network.
type SampleEdge struct {
	From, To string
	Capacity float64
}

// SampleEdges is the two-terminal, four-warehouse, fourteen-store network.
var SampleEdges = []SampleEdge{
	{"Terminal 1", "Warehouse 1", 25},
	{"Terminal 1", "Warehouse 2", 20},
	{"Terminal 1", "Warehouse 3", 15},
	{"Terminal 2", "Warehouse 3", 15},
	{"Terminal 2", "Warehouse 4", 30},
	{"Terminal 2", "Warehouse 2", 10},
	{"Warehouse 1", "Store 1", 15},
	{"Warehouse 1", "Store 2", 10},
	{"Warehouse 1", "Store 3", 20},
	{"Warehouse 2", "Store 4", 15},
	{"Warehouse 2", "Store 5", 10},
	{"Warehouse 2", "Store 6", 25},
	{"Warehouse 3", "Store 7", 20},
	{"Warehouse 3", "Store 8", 15},
	{"Warehouse 3", "Store 9", 10},
	{"Warehouse 4", "Store 10", 20},
	{"Warehouse 4", "Store 11", 10},
	{"Warehouse 4", "Store 12", 15},
	{"Warehouse 4", "Store 13", 5},
	{"Warehouse 4", "Store 14", 10},
}

// SampleMaxFlow is the maximum throughput of the sample network.
const SampleMaxFlow = 115.0

// SampleTerminalTotals is the flow leaving each terminal at maximum throughput.
var SampleTerminalTotals = map[string]float64{
	"Terminal 1": 60,
	"Terminal 2": 55,
}

// SampleNetwork builds the sample network. Nodes are added terminals first,
// then warehouses, then stores, each in numeric order.
func SampleNetwork() *domain.Network {
	n := domain.NewNetwork()
	n.Name = "sample"

	for i := 1; i <= 2; i++ {
		must(n.AddNode(fmt.Sprintf("Terminal %d", i), domain.RoleTerminal))
	}
	for i := 1; i <= 4; i++ {
		must(n.AddNode(fmt.Sprintf("Warehouse %d", i), domain.RoleWarehouse))
	}
	for i := 1; i <= 14; i++ {
		must(n.AddNode(fmt.Sprintf("Store %d", i), domain.RoleStore))
	}
	for _, e := range SampleEdges {
		must(n.AddEdge(e.From, e.To, e.Capacity))
	}
	return n
}

// ================== Small Networks ==================

// Node is a node declaration for Build.
type Node struct {
	ID   string
	Role domain.Role
}

// Build assembles a network from node and edge declarations and panics on
// construction errors. Fixtures only.
func Build(nodes []Node, edges []SampleEdge) *domain.Network {
	n := domain.NewNetwork()
	for _, node := range nodes {
		must(n.AddNode(node.ID, node.Role))
	}
	for _, e := range edges {
		must(n.AddEdge(e.From, e.To, e.Capacity))
	}
	return n
}

// SharedWarehouse is two terminals feeding one warehouse that serves two stores.
//
//	T1 -10-> W1 -8-> S1
//	T2 -5--> W1 -7-> S2
func SharedWarehouse() *domain.Network {
	return Build(
		[]Node{
			{"T1", domain.RoleTerminal},
			{"T2", domain.RoleTerminal},
			{"W1", domain.RoleWarehouse},
			{"S1", domain.RoleStore},
			{"S2", domain.RoleStore},
		},
		[]SampleEdge{
			{"T1", "W1", 10},
			{"T2", "W1", 5},
			{"W1", "S1", 8},
			{"W1", "S2", 7},
		},
	)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
