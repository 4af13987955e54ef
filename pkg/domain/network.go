package domain

import (
	"math"
	"strings"
	"sync"

	"distflow/pkg/apperror"
)

// Role роль узла в многоуровневой сети
type Role int

const (
	RoleUnspecified Role = iota
	RoleTerminal
	RoleWarehouse
	RoleStore
	RoleSuperSource
	RoleSuperSink
)

// String возвращает строковое представление роли
func (r Role) String() string {
	switch r {
	case RoleTerminal:
		return "terminal"
	case RoleWarehouse:
		return "warehouse"
	case RoleStore:
		return "store"
	case RoleSuperSource:
		return "super_source"
	case RoleSuperSink:
		return "super_sink"
	default:
		return "unspecified"
	}
}

// ParseRole разбирает роль из строки (регистр не важен)
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "terminal":
		return RoleTerminal, nil
	case "warehouse":
		return RoleWarehouse, nil
	case "store":
		return RoleStore, nil
	case "super_source":
		return RoleSuperSource, nil
	case "super_sink":
		return RoleSuperSink, nil
	default:
		return RoleUnspecified, apperror.Newf(apperror.CodeInvalidNodeRole, "unknown node role %q", s)
	}
}

// EdgeKey уникальный ключ ребра (упорядоченная пара узлов)
type EdgeKey struct {
	From string
	To   string
}

// String возвращает строковое представление ключа ребра
func (k EdgeKey) String() string {
	return k.From + "->" + k.To
}

// Node представляет узел сети
type Node struct {
	ID   string
	Role Role
}

// Edge представляет направленное ребро с пропускной способностью.
// Unbounded рёбра не имеют конечной ёмкости; Capacity для них не используется.
type Edge struct {
	From      string
	To        string
	Capacity  float64
	Unbounded bool
}

// Key возвращает ключ ребра
func (e Edge) Key() EdgeKey {
	return EdgeKey{From: e.From, To: e.To}
}

// IsZeroCapacity проверяет, что ребро не пропускает поток
func (e Edge) IsZeroCapacity() bool {
	return !e.Unbounded && e.Capacity <= Epsilon
}

// Network направленная сеть с ролями узлов.
// Порядок вставки узлов и рёбер сохраняется и определяет
// детерминированный обход в алгоритмах.
type Network struct {
	Name string

	nodes     map[string]*Node
	nodeOrder []string
	edges     map[EdgeKey]*Edge
	edgeOrder []EdgeKey

	// Индексы для быстрого доступа
	outgoing map[string][]EdgeKey
	incoming map[string][]EdgeKey

	mu sync.RWMutex
}

// NewNetwork создаёт пустую сеть
func NewNetwork() *Network {
	return &Network{
		nodes:    make(map[string]*Node),
		edges:    make(map[EdgeKey]*Edge),
		outgoing: make(map[string][]EdgeKey),
		incoming: make(map[string][]EdgeKey),
	}
}

// AddNode добавляет узел с заданной ролью
func (n *Network) AddNode(id string, role Role) error {
	if strings.TrimSpace(id) == "" {
		return apperror.NewWithField(apperror.CodeInvalidInput, "node id must not be empty", "id")
	}
	if role == RoleUnspecified || role > RoleSuperSink {
		return apperror.Newf(apperror.CodeInvalidNodeRole, "node %s has no valid role", id)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.nodes[id]; ok {
		return apperror.Newf(apperror.CodeDuplicateNode, "node %s already exists", id).
			WithDetails("node", id)
	}

	n.nodes[id] = &Node{ID: id, Role: role}
	n.nodeOrder = append(n.nodeOrder, id)
	return nil
}

// AddEdge добавляет ребро с конечной ёмкостью.
// +Inf трактуется как неограниченная ёмкость.
func (n *Network) AddEdge(from, to string, capacity float64) error {
	if math.IsNaN(capacity) {
		return apperror.Newf(apperror.CodeInvalidCapacity, "edge %s->%s has NaN capacity", from, to).
			WithField("capacity")
	}
	if math.IsInf(capacity, 1) {
		return n.addEdge(Edge{From: from, To: to, Unbounded: true})
	}
	if capacity < 0 {
		return apperror.Newf(apperror.CodeNegativeCapacity, "edge %s->%s has negative capacity %g", from, to, capacity).
			WithField("capacity").
			WithDetails("capacity", capacity)
	}
	return n.addEdge(Edge{From: from, To: to, Capacity: capacity})
}

// AddUnboundedEdge добавляет ребро без ограничения ёмкости
func (n *Network) AddUnboundedEdge(from, to string) error {
	return n.addEdge(Edge{From: from, To: to, Unbounded: true})
}

func (n *Network) addEdge(e Edge) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	key := e.Key()
	for _, id := range []string{e.From, e.To} {
		if _, ok := n.nodes[id]; !ok {
			return apperror.Newf(apperror.CodeInvalidEdge, "edge %s references unknown node %s", key, id).
				WithDetails("edge", key.String())
		}
	}
	if e.From == e.To {
		return apperror.Newf(apperror.CodeInvalidEdge, "edge %s is a self-loop", key).
			WithDetails("edge", key.String())
	}
	if _, ok := n.edges[key]; ok {
		return apperror.Newf(apperror.CodeDuplicateEdge, "edge %s already exists", key).
			WithDetails("edge", key.String())
	}

	n.edges[key] = &e
	n.edgeOrder = append(n.edgeOrder, key)

	// Обновляем индексы
	n.outgoing[e.From] = append(n.outgoing[e.From], key)
	n.incoming[e.To] = append(n.incoming[e.To], key)
	return nil
}

// Node возвращает узел по ID
func (n *Network) Node(id string) (Node, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	node, ok := n.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *node, true
}

// HasNode проверяет наличие узла
func (n *Network) HasNode(id string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	_, ok := n.nodes[id]
	return ok
}

// Edge возвращает ребро между двумя узлами
func (n *Network) Edge(from, to string) (Edge, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	e, ok := n.edges[EdgeKey{From: from, To: to}]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Outgoing возвращает исходящие рёбра узла в порядке вставки
func (n *Network) Outgoing(id string) []Edge {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.collect(n.outgoing[id])
}

// Incoming возвращает входящие рёбра узла в порядке вставки
func (n *Network) Incoming(id string) []Edge {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.collect(n.incoming[id])
}

func (n *Network) collect(keys []EdgeKey) []Edge {
	result := make([]Edge, 0, len(keys))
	for _, k := range keys {
		result = append(result, *n.edges[k])
	}
	return result
}

// Nodes возвращает узлы в порядке вставки
func (n *Network) Nodes() []Node {
	n.mu.RLock()
	defer n.mu.RUnlock()

	result := make([]Node, 0, len(n.nodeOrder))
	for _, id := range n.nodeOrder {
		result = append(result, *n.nodes[id])
	}
	return result
}

// Edges возвращает рёбра в порядке вставки
func (n *Network) Edges() []Edge {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.collect(n.edgeOrder)
}

// NodesByRole возвращает ID узлов заданной роли в порядке вставки
func (n *Network) NodesByRole(role Role) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var result []string
	for _, id := range n.nodeOrder {
		if n.nodes[id].Role == role {
			result = append(result, id)
		}
	}
	return result
}

// NodeCount возвращает количество узлов
func (n *Network) NodeCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.nodes)
}

// EdgeCount возвращает количество рёбер
func (n *Network) EdgeCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.edges)
}

// FiniteCapacitySum возвращает сумму конечных ёмкостей
func (n *Network) FiniteCapacitySum() float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var total float64
	for _, key := range n.edgeOrder {
		if e := n.edges[key]; !e.Unbounded {
			total += e.Capacity
		}
	}
	return total
}

// Clone создаёт независимую копию сети
func (n *Network) Clone() *Network {
	n.mu.RLock()
	defer n.mu.RUnlock()

	clone := NewNetwork()
	clone.Name = n.Name
	clone.nodeOrder = make([]string, len(n.nodeOrder))
	copy(clone.nodeOrder, n.nodeOrder)
	clone.edgeOrder = make([]EdgeKey, len(n.edgeOrder))
	copy(clone.edgeOrder, n.edgeOrder)

	for id, node := range n.nodes {
		cp := *node
		clone.nodes[id] = &cp
	}
	for _, key := range n.edgeOrder {
		cp := *n.edges[key]
		clone.edges[key] = &cp
		clone.outgoing[key.From] = append(clone.outgoing[key.From], key)
		clone.incoming[key.To] = append(clone.incoming[key.To], key)
	}
	return clone
}
