// Package balance assigns supply and demand to every node for one
// (source, sink) shipment: the source supplies one unit, the sink demands
// one unit, all other nodes are transit.
package balance

import (
	"sort"

	"github.com/katalvlaran/shipflow"
)

// Balance is the supply and demand of one node.
type Balance struct {
	Supply int
	Demand int
}

// Net returns Supply − Demand.
func (b Balance) Net() int { return b.Supply - b.Demand }

// Balances maps each node to its Balance.
type Balances map[string]Balance

// Build returns one entry per node: source (1,0), sink (0,1), others (0,0).
//
// Fails fast with *shipflow.ValidationError when source == sink or when
// either endpoint is not in nodes. Duplicated node names collapse.
func Build(source, sink string, nodes []string) (Balances, error) {
	if source == sink {
		return nil, shipflow.Invalid("pair", "source and sink are both %q", source)
	}

	out := make(Balances, len(nodes))
	for _, n := range nodes {
		out[n] = Balance{}
	}
	if _, ok := out[source]; !ok {
		return nil, shipflow.Invalid("source", "%q is not in the node set", source)
	}
	if _, ok := out[sink]; !ok {
		return nil, shipflow.Invalid("sink", "%q is not in the node set", sink)
	}
	out[source] = Balance{Supply: 1}
	out[sink] = Balance{Demand: 1}

	return out, nil
}

// Source returns the node with positive net supply, or "" if none.
func (b Balances) Source() string {
	for _, n := range b.Nodes() {
		if b[n].Net() > 0 {
			return n
		}
	}

	return ""
}

// Sink returns the node with positive net demand, or "" if none.
func (b Balances) Sink() string {
	for _, n := range b.Nodes() {
		if b[n].Net() < 0 {
			return n
		}
	}

	return ""
}

// Net returns the net balance of node (0 if absent).
func (b Balances) Net(node string) int { return b[node].Net() }

// Nodes returns the nodes in sorted order.
func (b Balances) Nodes() []string {
	out := make([]string, 0, len(b))
	for n := range b {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}

// NetMap returns node → net balance, omitting zeros.
func (b Balances) NetMap() map[string]int {
	out := make(map[string]int)
	for n, bal := range b {
		if v := bal.Net(); v != 0 {
			out[n] = v
		}
	}

	return out
}
