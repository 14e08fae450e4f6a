package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/shipflow/core"
)

// Sentinel errors for BFS execution.
var (
	// ErrStartVertexNotFound is returned when the start ID is absent.
	ErrStartVertexNotFound = errors.New("bfs: start vertex not found")

	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("bfs: graph is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("bfs: invalid option supplied")

	// ErrNeighbors is returned when fetching neighbors from the graph fails.
	ErrNeighbors = errors.New("bfs: neighbor iteration error")
)

// Option configures BFS behavior via functional arguments.
// Invalid values are recorded and surfaced as ErrOptionViolation by BFS.
type Option func(*Options)

// Options holds parameters and callbacks to customize a traversal.
type Options struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// OnVisit is called when visiting a vertex. A non-nil error aborts the walk.
	OnVisit func(id string, hops int) error

	// MaxHops, if > 0, stops exploring beyond this many edges.
	MaxHops int

	// FilterEdge can skip individual arcs (e.g. by carrier label).
	FilterEdge func(e *core.Edge) bool

	err error
}

// DefaultOptions returns Options with background context, no hop limit,
// no filtering and a no-op visit hook.
func DefaultOptions() Options {
	return Options{
		Ctx:        context.Background(),
		OnVisit:    func(string, int) error { return nil },
		FilterEdge: func(*core.Edge) bool { return true },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit registers a callback run on each visit.
func WithOnVisit(fn func(id string, hops int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxHops limits the search depth. Zero means unlimited; negative is invalid.
func WithMaxHops(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxHops cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxHops = n
	}
}

// WithFilterEdge skips arcs for which fn returns false.
func WithFilterEdge(fn func(e *core.Edge) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.FilterEdge = fn
		}
	}
}

// Result holds the outcome of a traversal.
//
//	Order:    vertices in visit sequence.
//	Hops:     vertex → number of arcs from the start.
//	ParentArc: vertex → the arc used to first reach it.
type Result struct {
	Order     []string
	Hops      map[string]int
	ParentArc map[string]*core.Edge
}

// Reached reports whether id was visited.
func (r *Result) Reached(id string) bool {
	_, ok := r.Hops[id]

	return ok
}

// PathTo returns the arcs of the fewest-hop path from the start to dest.
// The empty slice is returned for dest == start.
func (r *Result) PathTo(dest string) ([]*core.Edge, error) {
	if !r.Reached(dest) {
		return nil, fmt.Errorf("bfs: no path to %q", dest)
	}
	var arcs []*core.Edge
	for cur := dest; ; {
		e, ok := r.ParentArc[cur]
		if !ok {
			break
		}
		arcs = append(arcs, e)
		cur = e.From
	}
	for i, j := 0, len(arcs)-1; i < j; i, j = i+1, j-1 {
		arcs[i], arcs[j] = arcs[j], arcs[i]
	}

	return arcs, nil
}
