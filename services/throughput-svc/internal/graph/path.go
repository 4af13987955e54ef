package graph

// ReconstructPath восстанавливает путь (в виде дуг) из parent map.
// Возвращает nil, если sink не был достигнут.
func ReconstructPath(parent map[int64]*ResidualEdge, source, sink int64) []*ResidualEdge {
	if source == sink {
		return nil
	}
	if _, ok := parent[sink]; !ok {
		return nil
	}

	var reversed []*ResidualEdge
	for current := sink; current != source; {
		e, ok := parent[current]
		if !ok {
			return nil
		}
		reversed = append(reversed, e)
		current = e.From
	}

	path := make([]*ResidualEdge, len(reversed))
	for i, e := range reversed {
		path[len(reversed)-1-i] = e
	}
	return path
}

// PathNodes возвращает последовательность узлов пути
func PathNodes(path []*ResidualEdge) []int64 {
	if len(path) == 0 {
		return nil
	}
	nodes := make([]int64, 0, len(path)+1)
	nodes = append(nodes, path[0].From)
	for _, e := range path {
		nodes = append(nodes, e.To)
	}
	return nodes
}

// FindMinCapacityOnPath находит минимальную остаточную пропускную способность на пути
func FindMinCapacityOnPath(path []*ResidualEdge) float64 {
	if len(path) == 0 {
		return 0
	}

	minCapacity := Infinity
	for _, e := range path {
		if e.Capacity < minCapacity {
			minCapacity = e.Capacity
		}
	}
	return minCapacity
}

// AugmentPath увеличивает поток вдоль пути
func AugmentPath(g *ResidualGraph, path []*ResidualEdge, flow float64) {
	for _, e := range path {
		g.Push(e, flow)
	}
}
