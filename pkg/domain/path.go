package domain

import "strings"

// Path путь в сети с потоком, прошедшим по нему
type Path struct {
	Nodes []string `json:"nodes"`
	Flow  float64  `json:"flow"`
}

// String возвращает путь в виде A -> B -> C
func (p Path) String() string {
	return strings.Join(p.Nodes, " -> ")
}

// Len количество рёбер в пути
func (p Path) Len() int {
	if len(p.Nodes) < 2 {
		return 0
	}
	return len(p.Nodes) - 1
}

// Inner возвращает путь без первого и последнего узла
// (обычно это виртуальные источник и сток)
func (p Path) Inner() []string {
	if len(p.Nodes) <= 2 {
		return nil
	}
	return p.Nodes[1 : len(p.Nodes)-1]
}

// MinCapacityOnPath находит минимальную ёмкость рёбер пути в сети.
// Неограниченные рёбра не ограничивают минимум; если все рёбра
// неограниченные, возвращается Infinity. Отсутствующее ребро даёт 0.
func MinCapacityOnPath(n *Network, nodes []string) float64 {
	if len(nodes) < 2 {
		return 0
	}

	minCapacity := Infinity
	for i := 0; i < len(nodes)-1; i++ {
		e, ok := n.Edge(nodes[i], nodes[i+1])
		if !ok {
			return 0
		}
		if !e.Unbounded && e.Capacity < minCapacity {
			minCapacity = e.Capacity
		}
	}
	return minCapacity
}
