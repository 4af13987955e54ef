package graph

import (
	"sync"
)

// =============================================================================
// Graph Pool
// =============================================================================

// GraphPool recycles the scratch structures used by every BFS round.
//
// Edmonds-Karp runs one search per augmenting path, so a solve over a large
// network allocates the same parent map, visited set and queue many times.
// The pool is safe for concurrent use from multiple goroutines.
type GraphPool struct {
	parentMaps sync.Pool
	boolMaps   sync.Pool
	queues     sync.Pool
}

// globalPool is the singleton pool instance.
var globalPool = NewGraphPool()

// NewGraphPool creates an empty pool.
func NewGraphPool() *GraphPool {
	return &GraphPool{
		parentMaps: sync.Pool{
			New: func() any {
				return make(map[int64]*ResidualEdge, 64)
			},
		},
		boolMaps: sync.Pool{
			New: func() any {
				return make(map[int64]bool, 64)
			},
		},
		queues: sync.Pool{
			New: func() any {
				return NewQueue(64)
			},
		},
	}
}

// GetPool returns the global graph pool.
func GetPool() *GraphPool {
	return globalPool
}

// AcquireParentMap obtains an empty map[int64]*ResidualEdge.
func (p *GraphPool) AcquireParentMap() map[int64]*ResidualEdge {
	return p.parentMaps.Get().(map[int64]*ResidualEdge)
}

// ReleaseParentMap clears the map and returns it to the pool.
// It is safe to pass nil.
func (p *GraphPool) ReleaseParentMap(m map[int64]*ResidualEdge) {
	if m == nil {
		return
	}
	clear(m)
	p.parentMaps.Put(m)
}

// AcquireBoolMap obtains an empty map[int64]bool.
func (p *GraphPool) AcquireBoolMap() map[int64]bool {
	return p.boolMaps.Get().(map[int64]bool)
}

// ReleaseBoolMap clears the map and returns it to the pool.
// It is safe to pass nil.
func (p *GraphPool) ReleaseBoolMap(m map[int64]bool) {
	if m == nil {
		return
	}
	clear(m)
	p.boolMaps.Put(m)
}

// AcquireQueue obtains an empty queue.
func (p *GraphPool) AcquireQueue() *Queue {
	return p.queues.Get().(*Queue)
}

// ReleaseQueue resets the queue and returns it to the pool.
// It is safe to pass nil.
func (p *GraphPool) ReleaseQueue(q *Queue) {
	if q == nil {
		return
	}
	q.Reset()
	p.queues.Put(q)
}
