// Package dijkstra implements Dijkstra's shortest-path algorithm on directed
// graphs with non-negative float64 weights.
//
// Complexity:
//
//   - Time:  O((V + E) log V), lazy decrease-key.
//   - Space: O(V + E).
//
// Notes on implementation choices:
//
//   - An upfront scan of all edges (O(E)) detects negative weights and fails fast.
//   - Predecessors are arcs, so parallel carriers on one lane stay distinguishable.
//   - Ties are broken deterministically: the heap orders equal distances by push
//     order and relaxation uses strict "<", so among equal-cost alternatives the
//     arc added to the graph first wins.
//   - The context is polled once per settled vertex.
package dijkstra

import (
	"container/heap"
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/shipflow/core"
)

// Dijkstra computes shortest distances from Options.Source to every vertex of g.
//
// Preconditions and validation (in order):
//  1. Source string must be non-empty (ErrEmptySource).
//  2. g must be non-nil (ErrNilGraph).
//  3. g must contain Source (ErrVertexNotFound).
//  4. MaxDistance must be ≥ 0 (ErrBadMaxDistance).
//  5. No edge in g can have negative weight (ErrNegativeWeight).
//
// A cancelled ctx aborts the run with ctx.Err().
func Dijkstra(ctx context.Context, g *core.Graph, opts ...Option) (*Result, error) {
	cfg := DefaultOptions("")
	var opt Option
	for _, opt = range opts {
		opt(&cfg)
	}

	if cfg.Source == "" {
		return nil, ErrEmptySource
	}
	if g == nil {
		return nil, ErrNilGraph
	}
	if !g.HasVertex(cfg.Source) {
		return nil, ErrVertexNotFound
	}
	if cfg.MaxDistance < 0 || math.IsNaN(cfg.MaxDistance) {
		return nil, ErrBadMaxDistance
	}

	var e *core.Edge
	for _, e = range g.Edges() {
		if e.Weight < 0 {
			return nil, fmt.Errorf("%w: edge %s→%s weight=%g", ErrNegativeWeight, e.From, e.To, e.Weight)
		}
	}

	V := g.VertexCount()
	r := &runner{
		ctx:     ctx,
		g:       g,
		options: cfg,
		res: &Result{
			Source:   cfg.Source,
			Dist:     make(map[string]float64, V),
			PrevEdge: make(map[string]*core.Edge, V),
		},
		visited: make(map[string]bool, V),
		pq:      make(nodePQ, 0, V),
	}

	r.init()
	if err := r.process(); err != nil {
		return nil, err
	}

	return r.res, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	ctx     context.Context
	g       *core.Graph
	options Options
	res     *Result
	visited map[string]bool
	pq      nodePQ
	pushes  uint64 // monotonically increasing heap tie-breaker
}

// init sets dist[v] = +Inf for every vertex and seeds the heap with Source=0.
func (r *runner) init() {
	for _, v := range r.g.Vertices() {
		r.res.Dist[v] = math.Inf(1)
	}
	r.res.Dist[r.options.Source] = 0

	heap.Init(&r.pq)
	r.push(r.options.Source, 0)
}

func (r *runner) push(id string, dist float64) {
	r.pushes++
	heap.Push(&r.pq, &nodeItem{id: id, dist: dist, order: r.pushes})
}

// process repeatedly settles the closest unvisited vertex and relaxes its arcs.
// It stops when the heap is empty, the cap is exceeded or the target is settled.
func (r *runner) process() error {
	cfg := r.options
	for r.pq.Len() > 0 {
		if err := r.ctx.Err(); err != nil {
			return err
		}

		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id
		if r.visited[u] {
			continue // stale entry
		}
		if item.dist > cfg.MaxDistance {
			break
		}
		r.visited[u] = true
		if cfg.Target != "" && u == cfg.Target {
			break
		}

		if err := r.relax(u); err != nil {
			return err
		}
	}

	return nil
}

// relax tries to improve every head reachable over an outgoing arc of u.
func (r *runner) relax(u string) error {
	arcs, err := r.g.Neighbors(u)
	if err != nil {
		return fmt.Errorf("dijkstra: failed to get neighbors of %q: %w", u, err)
	}

	var e *core.Edge
	for _, e = range arcs {
		if r.options.EdgeFilter != nil && !r.options.EdgeFilter(e) {
			continue
		}
		v := e.To
		if r.visited[v] {
			continue
		}
		newDist := r.res.Dist[u] + e.Weight
		if newDist > r.options.MaxDistance {
			continue
		}
		// Strict: the first arc (by Seq) to reach a given distance keeps it.
		if newDist >= r.res.Dist[v] {
			continue
		}
		r.res.Dist[v] = newDist
		r.res.PrevEdge[v] = e
		r.push(v, newDist)
	}

	return nil
}

// nodeItem represents a vertex and its tentative distance from the source.
type nodeItem struct {
	id    string
	dist  float64
	order uint64
}

// nodePQ is a min-heap of *nodeItem ordered by (dist, order).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].order < pq[j].order
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
