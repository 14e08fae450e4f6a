// Package flow implements minimum-cost flow on *core.Graph.
//
// Every graph edge is an arc with a fixed unit capacity (FlowOptions.Capacity,
// default 1) and a per-unit cost equal to its Weight. Vertices carry integer
// balances: positive values supply units, negative values demand them.
//
// The single algorithm offered is successive shortest paths:
//
//   - Method: repeatedly find a cheapest augmenting path in the residual
//     network with a queue-based Bellman-Ford (SPFA), then push flow along it.
//   - Time:   O(F · V · E), F = total demand (1 for a single shipment).
//   - Memory: O(V + E) for the residual arc list.
//
// With binary capacities and one unit of demand this degenerates to a
// shortest-path search, which is why the solver can cross-check it against
// the dijkstra and exhaustive ILP backends.
//
// # Determinism
//
// Arcs are added in edge insertion order and the SPFA queue is FIFO, so the
// chosen flow is reproducible across runs for the same graph.
//
// # Errors
//
//	EdgeError          – an edge has negative cost.
//	ErrVertexNotFound  – a balance names a vertex missing from the graph.
//	ErrInfeasible      – the demand cannot be routed.
//	ErrNegativeCycle   – residual network failed to settle.
package flow
