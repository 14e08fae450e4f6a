// Package model builds the per-pair minimum-cost flow formulation: one
// binary variable per catalog arc, the objective Σ cost·x, and one flow
// conservation row per node.
//
// A row for node n reads
//
//	supply[n] + Σ x(arcs into n) ≥ demand[n] + Σ x(arcs out of n)
//
// and is stored normalized as Σ(+1·in, −1·out) ≥ demand − supply, so a
// self-loop contributes +1 and −1 to the same row and cancels out.
package model

import (
	"fmt"
	"strings"
	"sync"

	"github.com/katalvlaran/shipflow"
	"github.com/katalvlaran/shipflow/balance"
	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/core"
)

// Sense is the comparison used by conservation rows.
type Sense int

const (
	// AtLeast keeps "inflow + supply ≥ outflow + demand".
	AtLeast Sense = iota
	// Exact requires equality.
	Exact
)

func (s Sense) String() string {
	if s == Exact {
		return "exact"
	}

	return "at_least"
}

// ParseSense maps "at_least"/"inequality" or "exact"/"equality" to a Sense.
func ParseSense(s string) (Sense, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "at_least", "inequality":
		return AtLeast, nil
	case "exact", "equality":
		return Exact, nil
	}

	return AtLeast, shipflow.Invalid("conservation", "unknown sense %q (want at_least|exact)", s)
}

// Variable is one binary arc-usage decision.
type Variable struct {
	Index int
	Arc   catalog.ArcKey
	Cost  float64
	Lower int
	Upper int
}

// Term is Coef·x[Var].
type Term struct {
	Var  int
	Coef int
}

// Constraint is Σ Terms (Sense) RHS for one node.
type Constraint struct {
	Node  string
	Terms []Term
	RHS   int
	Sense Sense
}

// LHS evaluates Σ Coef·x[Var].
func (c Constraint) LHS(x []int) int {
	sum := 0
	for _, t := range c.Terms {
		sum += t.Coef * x[t.Var]
	}

	return sum
}

// Satisfied reports whether x meets the row.
func (c Constraint) Satisfied(x []int) bool {
	lhs := c.LHS(x)
	if c.Sense == Exact {
		return lhs == c.RHS
	}

	return lhs >= c.RHS
}

// Option configures Build.
type Option func(*FlowModel)

// WithConservation selects AtLeast (default) or Exact rows.
func WithConservation(s Sense) Option {
	return func(m *FlowModel) { m.Sense = s }
}

// FlowModel is the complete formulation for one (source, sink) pair.
// It is immutable after Build and safe for concurrent reads.
type FlowModel struct {
	Source      string
	Sink        string
	Nodes       []string
	Balances    balance.Balances
	Variables   []Variable
	Constraints []Constraint
	Sense       Sense

	netOnce  sync.Once
	netGraph *core.Graph
	netVars  map[string]int
	netErr   error
}

// Build assembles the model.
//
// Validation (*shipflow.ValidationError):
//   - nil catalog;
//   - balance keys differ from nodes;
//   - a catalog origin outside nodes.
//
// Variables follow catalog enumeration order; rows follow nodes order.
func Build(b balance.Balances, cat *catalog.Catalog, nodes []string, opts ...Option) (*FlowModel, error) {
	if cat == nil {
		return nil, shipflow.Invalid("catalog", "catalog is nil")
	}
	inSet := make(map[string]int, len(nodes))
	for i, n := range nodes {
		inSet[n] = i
	}
	if len(inSet) != len(b) {
		return nil, shipflow.Invalid("balances", "%d balances for %d nodes", len(b), len(inSet))
	}
	for n := range b {
		if _, ok := inSet[n]; !ok {
			return nil, shipflow.Invalid("balances", "node %q is not in the node set", n)
		}
	}

	m := &FlowModel{
		Source:   b.Source(),
		Sink:     b.Sink(),
		Nodes:    append([]string(nil), nodes...),
		Balances: b,
	}
	for _, opt := range opts {
		opt(m)
	}

	keys := cat.Keys()
	m.Variables = make([]Variable, len(keys))
	rows := make([][]Term, len(nodes))
	for i, k := range keys {
		if _, ok := inSet[k.Origin]; !ok {
			return nil, shipflow.Invalid("catalog", "origin %q of arc %s is not in the node set", k.Origin, k)
		}
		d, _ := cat.Get(k)
		m.Variables[i] = Variable{Index: i, Arc: k, Cost: d.Cost, Lower: d.MinFlow, Upper: d.MaxFlow}
		if k.Origin == k.Destination {
			continue // +1 and −1 on the same row
		}
		o := inSet[k.Origin]
		rows[o] = append(rows[o], Term{Var: i, Coef: -1})
		if di, ok := inSet[k.Destination]; ok {
			rows[di] = append(rows[di], Term{Var: i, Coef: 1})
		}
	}

	m.Constraints = make([]Constraint, len(nodes))
	for i, n := range nodes {
		bal := b[n]
		m.Constraints[i] = Constraint{
			Node:  n,
			Terms: rows[i],
			RHS:   bal.Demand - bal.Supply,
			Sense: m.Sense,
		}
	}

	return m, nil
}

// Objective returns Σ cost·x.
func (m *FlowModel) Objective(x []int) float64 {
	total := 0.0
	for i, v := range m.Variables {
		if i < len(x) {
			total += v.Cost * float64(x[i])
		}
	}

	return total
}

// Check verifies length, bounds and every conservation row. The first
// violation is returned as *shipflow.ModelError.
func (m *FlowModel) Check(x []int) error {
	if len(x) != len(m.Variables) {
		return &shipflow.ModelError{
			Constraint: "assignment",
			Reason:     fmt.Sprintf("%d values for %d variables", len(x), len(m.Variables)),
		}
	}
	for i, v := range m.Variables {
		if x[i] < v.Lower || x[i] > v.Upper {
			return &shipflow.ModelError{
				Constraint: "bounds of " + v.Arc.String(),
				Reason:     fmt.Sprintf("value %d outside [%d,%d]", x[i], v.Lower, v.Upper),
			}
		}
	}
	for _, c := range m.Constraints {
		if !c.Satisfied(x) {
			op := ">="
			if c.Sense == Exact {
				op = "=="
			}
			return &shipflow.ModelError{
				Constraint: fmt.Sprintf("flow conservation at %q", c.Node),
				Reason:     fmt.Sprintf("lhs %d, want %s %d", c.LHS(x), op, c.RHS),
			}
		}
	}

	return nil
}

// Activated returns the arcs with x = 1 in variable order.
func (m *FlowModel) Activated(x []int) []catalog.ArcKey {
	var out []catalog.ArcKey
	for i, v := range m.Variables {
		if i < len(x) && x[i] > 0 {
			out = append(out, v.Arc)
		}
	}

	return out
}

// Network returns the model's variables as a directed multigraph (one edge
// per variable, labelled with the carrier, added in variable order) and a
// map from edge ID to variable index. The graph is built once and shared;
// callers must not mutate it.
func (m *FlowModel) Network() (*core.Graph, map[string]int, error) {
	m.netOnce.Do(func() {
		g := core.NewGraph(core.WithMultiEdges(), core.WithLoops())
		for _, n := range m.Nodes {
			if err := g.AddVertex(n); err != nil {
				m.netErr = fmt.Errorf("model: add node %q: %w", n, err)
				return
			}
		}
		vars := make(map[string]int, len(m.Variables))
		for _, v := range m.Variables {
			eid, err := g.AddEdge(v.Arc.Origin, v.Arc.Destination, v.Cost, core.WithLabel(v.Arc.Carrier))
			if err != nil {
				m.netErr = fmt.Errorf("model: add arc %s: %w", v.Arc, err)
				return
			}
			vars[eid] = v.Index
		}
		m.netGraph, m.netVars = g, vars
	})

	return m.netGraph, m.netVars, m.netErr
}
