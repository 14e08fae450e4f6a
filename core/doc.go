// Package core provides a thread-safe in-memory directed multigraph used as
// the shared network representation for shipment routing.
//
// A Graph G = (V,E) carries:
//
//   - Directed edges only: an edge from→to never implies to→from.
//   - Float64 weights (unit costs); NaN and ±Inf are rejected with ErrBadWeight.
//   - Optional parallel edges (WithMultiEdges), one per carrier serving a lane.
//   - Optional self-loops (WithLoops).
//   - Per-edge labels (WithLabel) naming the carrier.
//   - Constant-time edge operations via nested maps:
//     out[from][to][edgeID] = struct{}{} and in[to][edgeID] = struct{}{}
//   - Collision-free atomic Edge.ID generation ("e1", "e2", ...) with a
//     numeric Seq that fixes enumeration order.
//
// Determinism:
//
//	Vertices() and NeighborIDs() are sorted lexicographically.
//	Edges(), Neighbors() and InEdges() are sorted by Seq (insertion order),
//	so "e10" never sorts before "e2".
//
// Core Methods:
//
//	// Vertex lifecycle
//	AddVertex(id string) error            // O(1)
//	HasVertex(id string) bool             // O(1)
//	RemoveVertex(id string) error         // O(E)
//	Degree(id string) (in, out int, err)  // O(d)
//
//	// Edge lifecycle
//	AddEdge(from, to string, weight float64, opts ...EdgeOption) (string, error)
//	RemoveEdge(edgeID string) error
//	FilterEdges(pred func(*Edge) bool)
//
//	// Queries
//	Neighbors(id) ([]*Edge, error)      // outgoing, by Seq
//	InEdges(id) ([]*Edge, error)        // incoming, by Seq
//	NeighborIDs(id) ([]string, error)   // unique successors, sorted
//	Stats() *GraphStats
//
// Example:
//
//	g := core.NewGraph(core.WithMultiEdges())
//	_, _ = g.AddEdge("A", "B", 3, core.WithLabel("UPS"))
//	_, _ = g.AddEdge("A", "B", 2, core.WithLabel("DHL"))
//	edges, _ := g.Neighbors("A") // [UPS A→B, DHL A→B]
package core
