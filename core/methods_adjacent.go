// File: methods_adjacent.go
// Role: Neighborhood APIs (Neighbors, InEdges, NeighborIDs) and adjacency helpers.
// Determinism:
//   - Neighbors() and InEdges() sort by Edge.Seq asc.
//   - NeighborIDs() returns unique IDs sorted lex asc.
// Concurrency:
//   - Read operations hold muVert or muEdgeAdj read locks as needed.
//   - Helpers are called only under muEdgeAdj write lock by mutating code.

package core

import "sort"

// Neighbors returns the outgoing edges of id sorted by insertion order.
//
// Errors:
//   - ErrEmptyVertexID: if id == "".
//   - ErrVertexNotFound: if the vertex does not exist.
//
// Complexity: O(d log d), d = out-degree.
func (g *Graph) Neighbors(id string) ([]*Edge, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	var out []*Edge
	for _, bucket := range g.out[id] {
		for eid := range bucket {
			out = append(out, g.edges[eid])
		}
	}
	sortBySeq(out)

	return out, nil
}

// InEdges returns the incoming edges of id sorted by insertion order.
// Complexity: O(d log d), d = in-degree.
func (g *Graph) InEdges(id string) ([]*Edge, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	out := make([]*Edge, 0, len(g.in[id]))
	for eid := range g.in[id] {
		out = append(out, g.edges[eid])
	}
	sortBySeq(out)

	return out, nil
}

// NeighborIDs returns the unique successor IDs of id, sorted.
// Complexity: O(d log d)
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	ids := make([]string, 0, len(g.out[id]))
	for to, bucket := range g.out[id] {
		if len(bucket) > 0 {
			ids = append(ids, to)
		}
	}
	sort.Strings(ids)

	return ids, nil
}

// ensureVertexBuckets makes out[id] and in[id] non-nil.
func ensureVertexBuckets(g *Graph, id string) {
	if _, ok := g.out[id]; !ok {
		g.out[id] = make(map[string]map[string]struct{})
	}
	if _, ok := g.in[id]; !ok {
		g.in[id] = make(map[string]struct{})
	}
}

// ensureAdjacency ensures out[from][to] and in[to] are initialized.
func ensureAdjacency(g *Graph, from, to string) {
	ensureVertexBuckets(g, from)
	ensureVertexBuckets(g, to)
	if g.out[from][to] == nil {
		g.out[from][to] = make(map[string]struct{})
	}
}

// removeAdjacency unlinks e from both indexes and drops empty buckets.
func removeAdjacency(g *Graph, e *Edge) {
	if m := g.out[e.From][e.To]; m != nil {
		delete(m, e.ID)
		if len(m) == 0 {
			delete(g.out[e.From], e.To)
		}
	}
	if m := g.in[e.To]; m != nil {
		delete(m, e.ID)
	}
}
