package solver

import (
	"container/heap"
	"math"

	"github.com/katalvlaran/shipflow/model"
)

// costEps is the relative tolerance used when comparing route costs.
const costEps = 1e-9

func sameCost(a, b float64) bool {
	return math.Abs(a-b) <= costEps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// label is the (cost, hops) distance from a node to the sink.
type label struct {
	cost float64
	hops int
}

func (a label) less(b label) bool {
	if !sameCost(a.cost, b.cost) {
		return a.cost < b.cost
	}

	return a.hops < b.hops
}

type labelItem struct {
	node string
	label
}

type labelQueue []labelItem

func (q labelQueue) Len() int           { return len(q) }
func (q labelQueue) Less(i, j int) bool { return q[i].label.less(q[j].label) }
func (q labelQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *labelQueue) Push(x any)        { *q = append(*q, x.(labelItem)) }
func (q *labelQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]

	return it
}

// canonicalRoute picks one route among all cheapest source→sink paths of m:
// fewest hops first, then at every node the outgoing arc with the lowest
// variable index. The choice depends only on the model, never on which
// backend found the optimum. ok is false when the sink is unreachable.
func canonicalRoute(m *model.FlowModel) (x []int, ok bool) {
	in := make(map[string][]int)
	out := make(map[string][]int)
	for _, v := range m.Variables {
		if v.Upper < 1 || v.Arc.Origin == v.Arc.Destination {
			continue
		}
		in[v.Arc.Destination] = append(in[v.Arc.Destination], v.Index)
		out[v.Arc.Origin] = append(out[v.Arc.Origin], v.Index)
	}

	// Lexicographic (cost, hops) Dijkstra on reversed arcs.
	dist := map[string]label{m.Sink: {}}
	done := make(map[string]bool)
	pq := &labelQueue{{node: m.Sink}}
	for pq.Len() > 0 {
		it := heap.Pop(pq).(labelItem)
		if done[it.node] {
			continue
		}
		done[it.node] = true
		for _, vi := range in[it.node] {
			v := m.Variables[vi]
			cand := label{cost: it.cost + v.Cost, hops: it.hops + 1}
			if cur, seen := dist[v.Arc.Origin]; !seen || cand.less(cur) {
				dist[v.Arc.Origin] = cand
				heap.Push(pq, labelItem{node: v.Arc.Origin, label: cand})
			}
		}
	}
	if _, reached := dist[m.Source]; !reached {
		return nil, false
	}

	// Hops to the sink drop by one per step, so the walk terminates.
	x = make([]int, len(m.Variables))
	for u := m.Source; u != m.Sink; {
		lu := dist[u]
		next := -1
		for _, vi := range out[u] {
			v := m.Variables[vi]
			lv, seen := dist[v.Arc.Destination]
			if seen && lv.hops+1 == lu.hops && sameCost(lv.cost+v.Cost, lu.cost) {
				next = vi
				break
			}
		}
		if next < 0 {
			return nil, false
		}
		x[next] = 1
		u = m.Variables[next].Arc.Destination
	}

	return x, true
}
