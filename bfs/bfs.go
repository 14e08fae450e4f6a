// Package bfs provides breadth-first search over a directed core.Graph,
// returning hop counts, parent arcs, and visit order.
//
// Weights are ignored: the walk answers "can a unit get from s to t at all",
// which the solver uses as a cheap feasibility pre-check.
package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/shipflow/core"
)

type queueItem struct {
	id   string
	hops int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph *core.Graph
	opts  Options
	ctx   context.Context
	queue []queueItem
	res   *Result
}

// BFS runs breadth-first search on g starting from startID.
// Returns ErrGraphNil, ErrStartVertexNotFound, ErrOptionViolation, ErrNeighbors,
// the context error, or any OnVisit error.
func BFS(g *core.Graph, startID string, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !g.HasVertex(startID) {
		return nil, ErrStartVertexNotFound
	}

	n := g.VertexCount()
	w := &walker{
		graph: g,
		opts:  o,
		ctx:   o.Ctx,
		queue: make([]queueItem, 0, n),
		res: &Result{
			Order:     make([]string, 0, n),
			Hops:      make(map[string]int, n),
			ParentArc: make(map[string]*core.Edge, n),
		},
	}
	w.res.Hops[startID] = 0
	w.queue = append(w.queue, queueItem{id: startID})

	return w.res, w.loop()
}

// Reachable reports whether to can be reached from from by following arcs
// in their direction. A missing endpoint is simply unreachable.
func Reachable(ctx context.Context, g *core.Graph, from, to string) (bool, error) {
	if g == nil {
		return false, ErrGraphNil
	}
	if !g.HasVertex(from) || !g.HasVertex(to) {
		return false, nil
	}
	found := false
	_, err := BFS(g, from, WithContext(ctx), WithOnVisit(func(id string, _ int) error {
		if id == to {
			found = true
			return errStop
		}
		return nil
	}))
	if err != nil && !errors.Is(err, errStop) {
		return false, err
	}

	return found, nil
}

// errStop ends a walk early without reporting failure.
var errStop = errors.New("bfs: stop")

func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]

		w.res.Order = append(w.res.Order, item.id)
		if err := w.opts.OnVisit(item.id, item.hops); err != nil {
			if errors.Is(err, errStop) {
				return err
			}
			return fmt.Errorf("bfs: OnVisit error at %q: %w", item.id, err)
		}
		if err := w.expand(item); err != nil {
			return err
		}
	}

	return nil
}

// expand enqueues every unseen head of an accepted outgoing arc.
// Arcs arrive in insertion order, so parent arcs are reproducible.
func (w *walker) expand(item queueItem) error {
	next := item.hops + 1
	if w.opts.MaxHops > 0 && next > w.opts.MaxHops {
		return nil
	}
	arcs, err := w.graph.Neighbors(item.id)
	if err != nil {
		return fmt.Errorf("%w: failed to get neighbors of %q: %v", ErrNeighbors, item.id, err)
	}
	for _, e := range arcs {
		if !w.opts.FilterEdge(e) {
			continue
		}
		if _, seen := w.res.Hops[e.To]; seen {
			continue
		}
		w.res.Hops[e.To] = next
		w.res.ParentArc[e.To] = e
		w.queue = append(w.queue, queueItem{id: e.To, hops: next})
	}

	return nil
}
