// Package network builds the single-source single-sink flow network that the
// max-flow engine solves.
//
// A base network has many terminals and many stores. Augment adds one
// super-source with an unbounded edge to every terminal and one super-sink
// with an unbounded edge from every store. The base network is never
// modified; the result is a fresh copy.
package network

import (
	"distflow/pkg/apperror"
	"distflow/pkg/domain"
)

// Augmented сеть с виртуальными источником и стоком
type Augmented struct {
	// Network is the augmented copy. It owns all nodes of the base network
	// plus the super-source and super-sink.
	Network *domain.Network

	Source string
	Sink   string

	// Terminals, Warehouses and Stores list base node IDs in insertion order.
	Terminals  []string
	Warehouses []string
	Stores     []string
}

// IsSuperEdge проверяет, инцидентно ли ребро виртуальному узлу
func (a *Augmented) IsSuperEdge(key domain.EdgeKey) bool {
	return key.From == a.Source || key.To == a.Sink
}

// Augment строит расширенную сеть для заданных терминалов и магазинов.
// Повторы в списках игнорируются; порядок первых вхождений сохраняется.
func Augment(base *domain.Network, terminals, stores []string) (*Augmented, error) {
	if base == nil {
		return nil, apperror.ErrNilNetwork
	}

	terminals = dedupe(terminals)
	stores = dedupe(stores)
	if len(terminals) == 0 || len(stores) == 0 {
		return nil, apperror.New(apperror.CodeNoTerminalOrStore, "terminal and store sets must both be non-empty").
			WithDetails("terminals", len(terminals)).
			WithDetails("stores", len(stores))
	}

	for _, id := range []string{domain.SuperSourceID, domain.SuperSinkID} {
		if base.HasNode(id) {
			return nil, apperror.Newf(apperror.CodeReservedNodeID, "node id %s is reserved", id).
				WithField("id")
		}
	}

	if err := checkRoles(base, terminals, domain.RoleTerminal); err != nil {
		return nil, err
	}
	if err := checkRoles(base, stores, domain.RoleStore); err != nil {
		return nil, err
	}

	n := base.Clone()
	if err := n.AddNode(domain.SuperSourceID, domain.RoleSuperSource); err != nil {
		return nil, err
	}
	if err := n.AddNode(domain.SuperSinkID, domain.RoleSuperSink); err != nil {
		return nil, err
	}

	for _, t := range terminals {
		if err := n.AddUnboundedEdge(domain.SuperSourceID, t); err != nil {
			return nil, err
		}
	}
	for _, s := range stores {
		if err := n.AddUnboundedEdge(s, domain.SuperSinkID); err != nil {
			return nil, err
		}
	}

	return &Augmented{
		Network:    n,
		Source:     domain.SuperSourceID,
		Sink:       domain.SuperSinkID,
		Terminals:  terminals,
		Warehouses: base.NodesByRole(domain.RoleWarehouse),
		Stores:     stores,
	}, nil
}

// AugmentByRole строит расширенную сеть, взяв все терминалы и магазины сети
func AugmentByRole(base *domain.Network) (*Augmented, error) {
	if base == nil {
		return nil, apperror.ErrNilNetwork
	}
	return Augment(base, base.NodesByRole(domain.RoleTerminal), base.NodesByRole(domain.RoleStore))
}

func checkRoles(n *domain.Network, ids []string, want domain.Role) error {
	for _, id := range ids {
		node, ok := n.Node(id)
		if !ok {
			return apperror.Newf(apperror.CodeUnknownNode, "node %s is not in the network", id).
				WithDetails("node", id)
		}
		if node.Role != want {
			return apperror.Newf(apperror.CodeInvalidNodeRole, "node %s is a %s, expected %s", id, node.Role, want).
				WithDetails("node", id)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}
