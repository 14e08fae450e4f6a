package flow

import (
	"fmt"
	"math"

	"github.com/katalvlaran/shipflow/core"
)

// MinCostFlow routes every unit of demand in net from the supplying vertices
// at minimum total cost, using successive shortest paths.
//
// net maps vertex ID to its balance: positive for supply, negative for
// demand. Supply may exceed demand; surplus units simply stay put, matching
// the "supply + inflow ≥ demand + outflow" conservation rule.
//
// Steps:
//  1. Normalize options and build the residual network (buildResidual).
//  2. Repeat until the demand is met:
//     a. Check for cancellation.
//     b. SPFA (queue-based Bellman-Ford) from the super source; reverse arcs
//     carry negated costs so plain Dijkstra would be unsound here.
//     c. If the super sink is unreachable, return ErrInfeasible.
//     d. Push the bottleneck along the path.
//  3. Read per-edge flow off the residual capacities.
//
// Errors: EdgeError, ErrVertexNotFound, ErrInfeasible, ErrNegativeCycle, ctx errors.
//
// Complexity:
//
//	Time:   O(F · V · E) where F is the total demand.
//	Memory: O(V + E).
func MinCostFlow(g *core.Graph, net map[string]int, opts *FlowOptions) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	o.normalize()
	ctx := o.Ctx

	if g == nil {
		return nil, fmt.Errorf("flow: graph is nil")
	}
	r, need, err := buildResidual(g, net, o)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for res.Shipped < need {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		prevArc, dist, err := r.shortestPath(o)
		if err != nil {
			return nil, err
		}
		if math.IsInf(dist[r.sink], 1) {
			return nil, fmt.Errorf("%w: shipped %d of %d units", ErrInfeasible, res.Shipped, need)
		}

		// bottleneck along the path, capped by the remaining demand
		push := need - res.Shipped
		for v := r.sink; v != r.source; {
			a := r.arcs[prevArc[v]]
			if a.cap < push {
				push = a.cap
			}
			v = r.arcs[prevArc[v]^1].to
		}
		for v := r.sink; v != r.source; {
			idx := prevArc[v]
			r.arcs[idx].cap -= push
			r.arcs[idx^1].cap += push
			v = r.arcs[idx^1].to
		}
		res.Shipped += push
		res.Augmentations++
	}

	res.Flow = r.extractFlow()
	for eid, units := range res.Flow {
		e, err := g.GetEdge(eid)
		if err != nil {
			return nil, err
		}
		res.Cost += float64(units) * e.Weight
	}

	return res, nil
}

// shortestPath runs SPFA from the super source over arcs with spare capacity.
// prevArc[v] is the arc index used to enter v; -1 if unreached.
func (r *residual) shortestPath(o FlowOptions) ([]int, []float64, error) {
	n := len(r.names)
	dist := make([]float64, n)
	prevArc := make([]int, n)
	inQueue := make([]bool, n)
	relaxed := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prevArc[i] = -1
	}
	dist[r.source] = 0
	queue := []int{r.source}
	inQueue[r.source] = true

	for len(queue) > 0 {
		if err := o.Ctx.Err(); err != nil {
			return nil, nil, err
		}
		u := queue[0]
		queue = queue[1:]
		inQueue[u] = false

		for _, idx := range r.adj[u] {
			a := r.arcs[idx]
			if a.cap <= 0 {
				continue
			}
			nd := dist[u] + a.cost
			if nd >= dist[a.to]-o.Epsilon {
				continue
			}
			dist[a.to] = nd
			prevArc[a.to] = idx
			if !inQueue[a.to] {
				relaxed[a.to]++
				if relaxed[a.to] > n {
					return nil, nil, ErrNegativeCycle
				}
				queue = append(queue, a.to)
				inQueue[a.to] = true
			}
		}
	}

	return prevArc, dist, nil
}
