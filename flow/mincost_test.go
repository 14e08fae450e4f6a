package flow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/shipflow/core"
	"github.com/katalvlaran/shipflow/flow"
)

// MinCostSuite groups tests for successive shortest paths.
type MinCostSuite struct {
	suite.Suite
	g *core.Graph
}

func (s *MinCostSuite) SetupTest() {
	s.g = core.NewGraph(core.WithMultiEdges(), core.WithLoops())
}

func (s *MinCostSuite) add(from, to string, cost float64, carrier string) string {
	eid, err := s.g.AddEdge(from, to, cost, core.WithLabel(carrier))
	s.Require().NoError(err)

	return eid
}

func unit(from, to string) map[string]int {
	return map[string]int{from: 1, to: -1}
}

// TestDirectArc: the only arc carries the unit.
func (s *MinCostSuite) TestDirectArc() {
	eid := s.add("A", "B", 5, "X")

	res, err := flow.MinCostFlow(s.g, unit("A", "B"), nil)
	s.Require().NoError(err)
	s.Equal(5.0, res.Cost)
	s.Equal(map[string]int{eid: 1}, res.Flow)
	s.Equal(1, res.Shipped)
}

// TestTwoHopBeatsDirect: 1+1 < 5.
func (s *MinCostSuite) TestTwoHopBeatsDirect() {
	ab := s.add("A", "B", 1, "X")
	bc := s.add("B", "C", 1, "X")
	s.add("A", "C", 5, "Y")

	res, err := flow.MinCostFlow(s.g, unit("A", "C"), nil)
	s.Require().NoError(err)
	s.Equal(2.0, res.Cost)
	s.Equal(map[string]int{ab: 1, bc: 1}, res.Flow)
}

// TestCheaperCarrier: parallel arcs, cheaper one wins.
func (s *MinCostSuite) TestCheaperCarrier() {
	s.add("A", "B", 3, "X")
	y := s.add("A", "B", 2, "Y")

	res, err := flow.MinCostFlow(s.g, unit("A", "B"), nil)
	s.Require().NoError(err)
	s.Equal(map[string]int{y: 1}, res.Flow)
}

// TestLoopIgnored: self-loops never carry flow.
func (s *MinCostSuite) TestLoopIgnored() {
	s.add("A", "A", 0, "X")
	ab := s.add("A", "B", 1, "X")

	res, err := flow.MinCostFlow(s.g, unit("A", "B"), nil)
	s.Require().NoError(err)
	s.Equal(map[string]int{ab: 1}, res.Flow)
}

// TestInfeasibleDirection: arcs are one-way.
func (s *MinCostSuite) TestInfeasibleDirection() {
	s.add("A", "B", 1, "X")

	_, err := flow.MinCostFlow(s.g, unit("B", "A"), nil)
	s.Require().ErrorIs(err, flow.ErrInfeasible)
}

// TestInsufficientSupply fails before searching.
func (s *MinCostSuite) TestInsufficientSupply() {
	s.add("A", "B", 1, "X")

	_, err := flow.MinCostFlow(s.g, map[string]int{"B": -1}, nil)
	s.Require().ErrorIs(err, flow.ErrInfeasible)
}

// TestUnknownVertex is reported, not ignored.
func (s *MinCostSuite) TestUnknownVertex() {
	s.add("A", "B", 1, "X")

	_, err := flow.MinCostFlow(s.g, unit("A", "Z"), nil)
	s.Require().ErrorIs(err, flow.ErrVertexNotFound)
}

// TestNegativeCost yields EdgeError.
func (s *MinCostSuite) TestNegativeCost() {
	s.add("X", "Y", -1, "X")

	_, err := flow.MinCostFlow(s.g, unit("X", "Y"), nil)
	var ee flow.EdgeError
	s.Require().True(errors.As(err, &ee), "error must be EdgeError")
	s.Equal("X", ee.From)
	s.Equal(-1.0, ee.Cost)
}

// TestUnitCapacityForcesSecondRoute: two units, binary arcs.
func (s *MinCostSuite) TestUnitCapacityForcesSecondRoute() {
	s.add("A", "B", 1, "X")
	s.add("A", "B", 4, "Y")

	res, err := flow.MinCostFlow(s.g, map[string]int{"A": 2, "B": -2}, nil)
	s.Require().NoError(err)
	s.Equal(5.0, res.Cost)
	s.Equal(2, res.Shipped)
	s.Len(res.Flow, 2)

	res, err = flow.MinCostFlow(s.g, map[string]int{"A": 2, "B": -2}, &flow.FlowOptions{Capacity: 2})
	s.Require().NoError(err)
	s.Equal(2.0, res.Cost)
}

// TestReroutesThroughReverseArc needs a negative reverse arc to reach optimum.
func (s *MinCostSuite) TestReroutesThroughReverseArc() {
	// Classic case: the first shortest path S→A→B→T must be partly undone.
	s.add("S", "A", 1, "X")
	s.add("A", "B", 1, "X")
	s.add("B", "T", 1, "X")
	s.add("S", "B", 3, "X")
	s.add("A", "T", 3, "X")

	res, err := flow.MinCostFlow(s.g, map[string]int{"S": 2, "T": -2}, nil)
	s.Require().NoError(err)
	s.Equal(2, res.Shipped)
	s.Equal(8.0, res.Cost) // S→A→T (4) + S→B→T (4)
}

// TestCancelled honors context cancellation.
func (s *MinCostSuite) TestCancelled() {
	s.add("A", "B", 1, "X")
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := flow.MinCostFlow(s.g, unit("A", "B"), &flow.FlowOptions{Ctx: ctx})
	s.Require().ErrorIs(err, context.DeadlineExceeded)
}

func TestMinCostSuite(t *testing.T) {
	suite.Run(t, new(MinCostSuite))
}

func TestMinCostFlow_NilGraph(t *testing.T) {
	_, err := flow.MinCostFlow(nil, nil, nil)
	require.Error(t, err)
}
