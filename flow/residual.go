package flow

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/shipflow/core"
)

// residualArc is one direction of a residual pair; arcs 2k and 2k+1 are
// mutual reverses.
type residualArc struct {
	to     int
	cap    int
	cost   float64
	edgeID string // empty for reverse and super-terminal arcs
}

// residual is an index-based residual network with a super source and sink.
type residual struct {
	names   []string
	index   map[string]int
	arcs    []residualArc
	adj     [][]int
	source  int
	sink    int
	initial map[int]int // forward arc index → starting capacity
}

func (r *residual) addArc(u, v, capacity int, cost float64, edgeID string) {
	fwd := len(r.arcs)
	r.arcs = append(r.arcs,
		residualArc{to: v, cap: capacity, cost: cost, edgeID: edgeID},
		residualArc{to: u, cap: 0, cost: -cost},
	)
	r.adj[u] = append(r.adj[u], fwd)
	r.adj[v] = append(r.adj[v], fwd+1)
	r.initial[fwd] = capacity
}

// buildResidual constructs the residual network of g plus terminal arcs
// derived from net (positive = supply, negative = demand).
//
// Steps:
//  1. Index vertices in sorted order, then append the super source and sink.
//  2. Add one forward arc per non-loop edge in insertion (Seq) order;
//     negative costs yield EdgeError.
//  3. Attach supplies and demands in sorted vertex order.
//
// Returns the network and the total demand it must route.
// Complexity: O(V log V + E log E).
func buildResidual(g *core.Graph, net map[string]int, opts FlowOptions) (*residual, int, error) {
	vertices := g.Vertices()
	n := len(vertices)
	r := &residual{
		names:   append(vertices, "<source>", "<sink>"),
		index:   make(map[string]int, n),
		adj:     make([][]int, n+2),
		source:  n,
		sink:    n + 1,
		initial: make(map[int]int),
	}
	for i, v := range vertices {
		r.index[v] = i
	}

	for _, e := range g.Edges() {
		if e.From == e.To {
			continue // a loop never moves a unit anywhere
		}
		if e.Weight < -opts.Epsilon {
			return nil, 0, EdgeError{From: e.From, To: e.To, Cost: e.Weight}
		}
		r.addArc(r.index[e.From], r.index[e.To], opts.Capacity, e.Weight, e.ID)
	}

	keys := make([]string, 0, len(net))
	for k := range net {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	supply, demand := 0, 0
	for _, k := range keys {
		idx, ok := r.index[k]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %q", ErrVertexNotFound, k)
		}
		switch b := net[k]; {
		case b > 0:
			r.addArc(r.source, idx, b, 0, "")
			supply += b
		case b < 0:
			r.addArc(idx, r.sink, -b, 0, "")
			demand += -b
		}
	}
	if supply < demand {
		return nil, 0, fmt.Errorf("%w: supply %d < demand %d", ErrInfeasible, supply, demand)
	}

	return r, demand, nil
}

// extractFlow reports the units carried by every original edge.
func (r *residual) extractFlow() map[string]int {
	out := make(map[string]int)
	for idx, start := range r.initial {
		a := r.arcs[idx]
		if a.edgeID == "" {
			continue
		}
		if used := start - a.cap; used > 0 {
			out[a.edgeID] = used
		}
	}

	return out
}
