// Package dijkstra defines result types and configuration options
// for Dijkstra's shortest-path algorithm on float-weighted directed graphs.
//
// Options:
//
//	– Source:           ID of the starting vertex (must be non-empty and present in the graph).
//	– WithTarget:       stop as soon as the target's distance is final.
//	– WithMaxDistance:  optional cap on distances to explore; vertices beyond this are skipped.
//	– WithEdgeFilter:   skip arcs (e.g. a carrier that is not allowed).
//
// Errors (sentinel):
//
//	– ErrEmptySource     if the provided source ID is empty.
//	– ErrNilGraph        if the provided graph pointer is nil.
//	– ErrVertexNotFound  if the source vertex does not exist in the graph.
//	– ErrNegativeWeight  if a negative edge weight is detected in the graph.
//	– ErrBadMaxDistance  if MaxDistance < 0 or NaN.
//	– ErrUnreachable     from Result.PathTo when no path exists.
package dijkstra

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/shipflow/core"
)

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrEmptySource indicates that the provided source vertex ID is empty.
	ErrEmptySource = errors.New("dijkstra: source vertex ID is empty")

	// ErrNilGraph indicates that a nil *core.Graph was passed to Dijkstra.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrVertexNotFound indicates that the specified source vertex does not exist.
	ErrVertexNotFound = errors.New("dijkstra: source vertex not found in graph")

	// ErrNegativeWeight indicates that a negative edge weight was detected in the graph.
	ErrNegativeWeight = errors.New("dijkstra: negative edge weight encountered")

	// ErrBadMaxDistance indicates that MaxDistance was negative or NaN.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrUnreachable indicates that a requested destination was never reached.
	ErrUnreachable = errors.New("dijkstra: destination unreachable")
)

// Options configures the behavior of the Dijkstra algorithm.
type Options struct {
	Source      string                // The ID of the source vertex
	Target      string                // Optional early-stop vertex
	MaxDistance float64               // Maximum distance to explore
	EdgeFilter  func(*core.Edge) bool // Optional arc filter
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// Source sets the starting vertex ID. It must be supplied.
func Source(id string) Option {
	return func(o *Options) {
		o.Source = id
	}
}

// WithTarget stops the search once target is settled.
// Vertices not yet settled at that point keep tentative distances.
func WithTarget(id string) Option {
	return func(o *Options) {
		o.Target = id
	}
}

// WithMaxDistance sets a maximum distance threshold.
// Negative values are reported as ErrBadMaxDistance by Dijkstra.
func WithMaxDistance(max float64) Option {
	return func(o *Options) {
		o.MaxDistance = max
	}
}

// WithEdgeFilter skips arcs for which keep returns false.
func WithEdgeFilter(keep func(*core.Edge) bool) Option {
	return func(o *Options) {
		o.EdgeFilter = keep
	}
}

// DefaultOptions returns Options with no target, no distance cap and no filter.
func DefaultOptions(source string) Options {
	return Options{
		Source:      source,
		MaxDistance: math.Inf(1),
	}
}

// Result holds distances and the predecessor arc of every settled vertex.
//
// Dist[v] is +Inf for unreachable v. PrevEdge[v] is the arc entering v on the
// chosen shortest path; it is absent for the source and for unreachable v.
// Keeping arcs (not vertices) lets callers tell apart parallel carriers.
type Result struct {
	Source   string
	Dist     map[string]float64
	PrevEdge map[string]*core.Edge
}

// PathTo returns the arcs of the shortest path from Source to dest.
func (r *Result) PathTo(dest string) ([]*core.Edge, error) {
	d, ok := r.Dist[dest]
	if !ok || math.IsInf(d, 1) {
		return nil, fmt.Errorf("%w: %q from %q", ErrUnreachable, dest, r.Source)
	}
	var arcs []*core.Edge
	for cur := dest; cur != r.Source; {
		e, ok := r.PrevEdge[cur]
		if !ok {
			return nil, fmt.Errorf("%w: broken predecessor chain at %q", ErrUnreachable, cur)
		}
		arcs = append(arcs, e)
		cur = e.From
	}
	for i, j := 0, len(arcs)-1; i < j; i, j = i+1, j-1 {
		arcs[i], arcs[j] = arcs[j], arcs[i]
	}

	return arcs, nil
}
