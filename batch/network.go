package batch

import (
	"github.com/katalvlaran/shipflow"
	"github.com/katalvlaran/shipflow/catalog"
)

// Network is the read-only context shared by every pair of a run: the arc
// catalog and the sorted node set derived from it. Do not mutate it after
// NewNetwork.
type Network struct {
	Catalog *catalog.Catalog
	Nodes   []string
	Policy  catalog.NodePolicy

	// DestinationOnly lists nodes that receive arcs but never send any.
	// Under catalog.Origins they are absent from Nodes.
	DestinationOnly []string
}

// NewNetwork derives the node set from cat. Fewer than two nodes leaves no
// pair to solve and is a *shipflow.ValidationError.
func NewNetwork(cat *catalog.Catalog, policy catalog.NodePolicy) (*Network, error) {
	if cat == nil {
		return nil, shipflow.Invalid("catalog", "catalog is nil")
	}
	nodes := cat.Nodes(policy)
	if len(nodes) < 2 {
		return nil, shipflow.Invalid("nodes", "need at least 2 nodes under the %s policy, got %d", policy, len(nodes))
	}

	return &Network{
		Catalog:         cat,
		Nodes:           nodes,
		Policy:          policy,
		DestinationOnly: cat.DestinationOnly(),
	}, nil
}

// Pair is one ordered (source, sink) combination.
type Pair struct {
	From string
	To   string
}

// Pairs enumerates every ordered pair of distinct nodes, source-major.
func (n *Network) Pairs() []Pair {
	out := make([]Pair, 0, len(n.Nodes)*(len(n.Nodes)-1))
	for _, from := range n.Nodes {
		for _, to := range n.Nodes {
			if from == to {
				continue
			}
			out = append(out, Pair{From: from, To: to})
		}
	}

	return out
}

// HasNode reports whether id belongs to the node set.
func (n *Network) HasNode(id string) bool {
	for _, v := range n.Nodes {
		if v == id {
			return true
		}
	}

	return false
}
