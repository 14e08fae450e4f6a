package flow

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for min-cost flow.
var (
	// ErrVertexNotFound is returned when a supply or demand names a vertex
	// missing from the graph.
	ErrVertexNotFound = errors.New("flow: vertex not found")

	// ErrInfeasible is returned when the residual network cannot carry the
	// total demand from the supplying vertices.
	ErrInfeasible = errors.New("flow: demand cannot be satisfied")

	// ErrNegativeCycle is returned if a shortest-path round fails to settle,
	// which can only happen when the input carries negative costs.
	ErrNegativeCycle = errors.New("flow: negative-cost cycle in residual network")
)

// EdgeError is returned when an edge has a negative unit cost.
type EdgeError struct {
	From, To string
	Cost     float64
}

func (e EdgeError) Error() string {
	return fmt.Sprintf("flow: negative cost on edge %q→%q: %g", e.From, e.To, e.Cost)
}

// FlowOptions configures MinCostFlow.
//   - Ctx: cancellation; polled once per augmentation and per SPFA sweep.
//   - Epsilon: costs within Epsilon are treated as equal (default 1e-9).
//   - Capacity: units each graph edge may carry (default 1, i.e. binary arcs).
type FlowOptions struct {
	Ctx      context.Context
	Epsilon  float64
	Capacity int
}

// DefaultOptions returns the options used when nil is passed.
func DefaultOptions() *FlowOptions {
	return &FlowOptions{
		Ctx:      context.Background(),
		Epsilon:  1e-9,
		Capacity: 1,
	}
}

func (o *FlowOptions) normalize() {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.Epsilon <= 0 {
		o.Epsilon = 1e-9
	}
	if o.Capacity <= 0 {
		o.Capacity = 1
	}
}

// Result is the outcome of a min-cost flow computation.
//   - Flow maps a graph edge ID to the units routed over it; edges with zero
//     flow are omitted.
//   - Cost is Σ Flow[e]·Weight(e).
//   - Shipped is the total number of units delivered to demand vertices.
//   - Augmentations counts the shortest paths used.
type Result struct {
	Flow          map[string]int
	Cost          float64
	Shipped       int
	Augmentations int
}
