// Package graph provides core data structures and algorithms for graph-based
// network flow computations.
//
// This file implements the breadth-first searches used by the max-flow engine:
//   - Shortest augmenting path search (Edmonds-Karp)
//   - Residual reachability (minimum cut extraction)
//
// Both walk adjacency lists in insertion order, so results are reproducible
// regardless of map iteration order.
package graph

// =============================================================================
// Queue Implementation
// =============================================================================

// Queue provides an efficient FIFO queue for BFS traversal.
// It uses a slice with a head pointer to avoid repeated allocations
// during typical BFS operations.
type Queue struct {
	data []int64 // Underlying storage
	head int     // Index of next element to dequeue
}

// NewQueue creates a new Queue with the specified initial capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{
		data: make([]int64, 0, capacity),
	}
}

// Push adds an element to the end of the queue.
func (q *Queue) Push(v int64) {
	q.data = append(q.data, v)
}

// Pop removes and returns the element at the front of the queue.
//
// Panics if the queue is empty. Always check Empty() before calling Pop().
func (q *Queue) Pop() int64 {
	v := q.data[q.head]
	q.head++
	return v
}

// Empty returns true if the queue contains no elements.
func (q *Queue) Empty() bool {
	return q.head >= len(q.data)
}

// Len returns the number of elements currently in the queue.
func (q *Queue) Len() int {
	return len(q.data) - q.head
}

// Reset clears the queue for reuse, keeping the underlying capacity.
func (q *Queue) Reset() {
	q.data = q.data[:0]
	q.head = 0
}

// =============================================================================
// Augmenting Path BFS
// =============================================================================

// BFSResult encapsulates the result of a BFS traversal.
type BFSResult struct {
	// Found is true when the sink was reached.
	Found bool

	// Parent maps each visited node (except the source) to the arc it was reached by.
	Parent map[int64]*ResidualEdge

	// Visited is the set of nodes discovered before the search stopped.
	Visited map[int64]bool

	pool *GraphPool
}

// Release returns the result's maps to the pool they came from.
// The result must not be used afterwards.
func (r *BFSResult) Release() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.ReleaseParentMap(r.Parent)
	r.pool.ReleaseBoolMap(r.Visited)
	r.Parent = nil
	r.Visited = nil
	r.pool = nil
}

// BFS performs breadth-first search from source to sink over arcs with
// positive residual capacity, stopping as soon as the sink is discovered.
//
// The first path found has the fewest arcs. Among shortest paths, the one
// whose arcs come first in adjacency order wins.
//
// Time Complexity: O(V + E)
func BFS(g *ResidualGraph, source, sink int64) *BFSResult {
	pool := GetPool()
	parent := pool.AcquireParentMap()
	visited := pool.AcquireBoolMap()

	result := &BFSResult{Parent: parent, Visited: visited, pool: pool}
	if !g.Nodes[source] || !g.Nodes[sink] {
		return result
	}

	queue := pool.AcquireQueue()
	defer pool.ReleaseQueue(queue)

	queue.Push(source)
	visited[source] = true

	for !queue.Empty() {
		u := queue.Pop()

		for _, e := range g.GetNeighborsList(u) {
			v := e.To
			if visited[v] || !e.HasCapacity() {
				continue
			}

			parent[v] = e
			visited[v] = true

			// Early termination when sink is found
			if v == sink {
				result.Found = true
				return result
			}
			queue.Push(v)
		}
	}

	return result
}

// =============================================================================
// Reachability
// =============================================================================

// Reachable returns the set of nodes reachable from source through arcs
// with positive residual capacity. On a graph carrying a maximum flow this
// is the source side of a minimum cut.
func Reachable(g *ResidualGraph, source int64) map[int64]bool {
	visited := make(map[int64]bool, len(g.Nodes))
	if !g.Nodes[source] {
		return visited
	}

	queue := NewQueue(len(g.Nodes))
	queue.Push(source)
	visited[source] = true

	for !queue.Empty() {
		u := queue.Pop()
		for _, e := range g.GetNeighborsList(u) {
			if !visited[e.To] && e.HasCapacity() {
				visited[e.To] = true
				queue.Push(e.To)
			}
		}
	}

	return visited
}
