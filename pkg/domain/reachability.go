package domain

// EdgeFilter решает, можно ли пройти по ребру при обходе
type EdgeFilter func(Edge) bool

// PassesFlow пропускает рёбра с ненулевой ёмкостью
func PassesFlow(e Edge) bool {
	return !e.IsZeroCapacity()
}

// UnboundedOnly пропускает только неограниченные рёбра
func UnboundedOnly(e Edge) bool {
	return e.Unbounded
}

// Reachable возвращает узлы, достижимые из from по рёбрам, прошедшим фильтр.
// Обход в ширину в порядке вставки рёбер.
func Reachable(n *Network, from string, allow EdgeFilter) map[string]bool {
	visited := map[string]bool{from: true}
	if !n.HasNode(from) {
		return visited
	}

	queue := []string{from}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, e := range n.Outgoing(u) {
			if visited[e.To] || !allow(e) {
				continue
			}
			visited[e.To] = true
			queue = append(queue, e.To)
		}
	}

	return visited
}

// CoReachable возвращает узлы, из которых достижим to (обратный обход)
func CoReachable(n *Network, to string, allow EdgeFilter) map[string]bool {
	visited := map[string]bool{to: true}
	if !n.HasNode(to) {
		return visited
	}

	queue := []string{to}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, e := range n.Incoming(u) {
			if visited[e.From] || !allow(e) {
				continue
			}
			visited[e.From] = true
			queue = append(queue, e.From)
		}
	}

	return visited
}

// IsConnected проверяет, существует ли путь ненулевой ёмкости от source к sink
func IsConnected(n *Network, source, sink string) bool {
	return Reachable(n, source, PassesFlow)[sink]
}
