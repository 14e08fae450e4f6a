package model_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/shipflow"
	"github.com/katalvlaran/shipflow/balance"
	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/model"
)

type ModelSuite struct {
	suite.Suite
	cat   *catalog.Catalog
	nodes []string
}

func (s *ModelSuite) SetupTest() {
	var err error
	s.cat, err = catalog.FromRows([]catalog.Row{
		{Carrier: "X", From: "A", To: "B", Cost: 1},
		{Carrier: "X", From: "B", To: "C", Cost: 1},
		{Carrier: "Y", From: "A", To: "C", Cost: 5},
		{Carrier: "Y", From: "C", To: "C", Cost: 0},
	})
	s.Require().NoError(err)
	s.nodes = s.cat.Nodes(catalog.Endpoints)
}

func (s *ModelSuite) build(from, to string, opts ...model.Option) *model.FlowModel {
	b, err := balance.Build(from, to, s.nodes)
	s.Require().NoError(err)
	m, err := model.Build(b, s.cat, s.nodes, opts...)
	s.Require().NoError(err)

	return m
}

func (s *ModelSuite) TestShape() {
	m := s.build("A", "C")
	s.Equal("A", m.Source)
	s.Equal("C", m.Sink)
	s.Len(m.Variables, 4)
	s.Len(m.Constraints, 3)

	// Row for A: two outgoing arcs, RHS = 0 − 1.
	a := m.Constraints[0]
	s.Equal("A", a.Node)
	s.Equal(-1, a.RHS)
	s.Equal([]model.Term{{Var: 0, Coef: -1}, {Var: 2, Coef: -1}}, a.Terms)

	// Row for C: inflows only, the loop cancels.
	c := m.Constraints[2]
	s.Equal(1, c.RHS)
	s.Equal([]model.Term{{Var: 1, Coef: 1}, {Var: 2, Coef: 1}}, c.Terms)
}

func (s *ModelSuite) TestObjectiveAndCheck() {
	m := s.build("A", "C")

	twoHop := []int{1, 1, 0, 0}
	s.NoError(m.Check(twoHop))
	s.Equal(2.0, m.Objective(twoHop))
	s.Equal([]catalog.ArcKey{
		{Carrier: "X", Origin: "A", Destination: "B"},
		{Carrier: "X", Origin: "B", Destination: "C"},
	}, m.Activated(twoHop))

	direct := []int{0, 0, 1, 0}
	s.NoError(m.Check(direct))
	s.Equal(5.0, m.Objective(direct))

	// Loop set to 1 changes nothing for conservation.
	s.NoError(m.Check([]int{0, 0, 1, 1}))
}

func (s *ModelSuite) TestCheckViolations() {
	m := s.build("A", "C")

	err := m.Check([]int{0, 0, 0, 0})
	s.ErrorIs(err, shipflow.ErrModel)
	var me *shipflow.ModelError
	s.True(errors.As(err, &me))
	s.Contains(me.Constraint, "flow conservation")

	err = m.Check([]int{2, 0, 0, 0})
	s.ErrorIs(err, shipflow.ErrModel)
	s.True(errors.As(err, &me))
	s.Contains(me.Constraint, "bounds")

	s.ErrorIs(m.Check([]int{1}), shipflow.ErrModel)
}

func (s *ModelSuite) TestExactSense() {
	m := s.build("A", "C", model.WithConservation(model.Exact))
	s.Equal(model.Exact, m.Constraints[0].Sense)
	s.NoError(m.Check([]int{1, 1, 0, 0}))
	s.Error(m.Check([]int{1, 0, 0, 0}))

	// A surplus inflow satisfies AtLeast but not Exact.
	row := model.Constraint{Terms: []model.Term{{Var: 0, Coef: 1}}, RHS: 0}
	s.True(row.Satisfied([]int{1}))
	row.Sense = model.Exact
	s.False(row.Satisfied([]int{1}))
	s.True(row.Satisfied([]int{0}))
}

func (s *ModelSuite) TestValidation() {
	b, err := balance.Build("A", "B", []string{"A", "B"})
	s.Require().NoError(err)

	_, err = model.Build(b, s.cat, s.nodes)
	s.ErrorIs(err, shipflow.ErrValidation, "balances do not cover nodes")

	_, err = model.Build(b, nil, []string{"A", "B"})
	s.ErrorIs(err, shipflow.ErrValidation)

	// The C→C loop has origin C outside {A,B}.
	_, err = model.Build(b, s.cat, []string{"A", "B"})
	s.ErrorIs(err, shipflow.ErrValidation)
}

func (s *ModelSuite) TestNetwork() {
	m := s.build("A", "C")
	g, vars, err := m.Network()
	s.Require().NoError(err)
	s.Equal(4, g.EdgeCount())
	s.Len(vars, 4)

	for _, e := range g.Edges() {
		v := m.Variables[vars[e.ID]]
		s.Equal(v.Arc.Carrier, e.Label)
		s.Equal(v.Arc.Origin, e.From)
		s.Equal(v.Cost, e.Weight)
	}

	again, _, _ := m.Network()
	s.Same(g, again)
}

func (s *ModelSuite) TestWriteDIMACS() {
	m := s.build("A", "C")
	var buf bytes.Buffer
	s.Require().NoError(m.WriteDIMACS(&buf))

	out := buf.String()
	s.Contains(out, "p min 3 4\n")
	s.Contains(out, "n 1 1\n")
	s.Contains(out, "n 3 -1\n")
	s.Contains(out, "a 1 2 0 1 1\n")
	s.Contains(out, "a 3 3 0 1 0\n")
	s.True(strings.HasSuffix(out, "c EOI\n"))
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

func TestParseSense(t *testing.T) {
	s, err := model.ParseSense("equality")
	require.NoError(t, err)
	require.Equal(t, model.Exact, s)
	require.Equal(t, "exact", s.String())

	s, err = model.ParseSense("")
	require.NoError(t, err)
	require.Equal(t, model.AtLeast, s)

	_, err = model.ParseSense("loose")
	require.ErrorIs(t, err, shipflow.ErrValidation)
}
