package solver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/shipflow/dijkstra"
	"github.com/katalvlaran/shipflow/flow"
	"github.com/katalvlaran/shipflow/model"
)

// ErrNoSolution is returned by a Backend when the model has no feasible
// assignment. The Solver turns it into *shipflow.InfeasibleError.
var ErrNoSolution = errors.New("solver: no feasible assignment")

// ErrUnknownBackend is returned by ByName.
var ErrUnknownBackend = errors.New("solver: unknown backend")

// Backend computes a 0-1 assignment for a flow model.
// Implementations must honor ctx and must not mutate m.
type Backend interface {
	Name() string
	Solve(ctx context.Context, m *model.FlowModel) ([]int, error)
}

// Backend names accepted by ByName.
const (
	BackendDijkstra = "dijkstra"
	BackendSSP      = "ssp"
	BackendILP      = "ilp"
)

var registry = map[string]func() Backend{
	BackendDijkstra: func() Backend { return Dijkstra() },
	BackendSSP:      func() Backend { return SSP() },
	BackendILP:      func() Backend { return ILP(DefaultMaxVariables) },
}

// ByName returns a fresh backend for name (case-insensitive).
func ByName(name string) (Backend, error) {
	mk, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}

	return mk(), nil
}

// Names lists the registered backends, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}

type dijkstraBackend struct{}

// Dijkstra returns the shortest-path backend. Among parallel carriers it
// picks the cheapest.
func Dijkstra() Backend { return dijkstraBackend{} }

func (dijkstraBackend) Name() string { return BackendDijkstra }

func (dijkstraBackend) Solve(ctx context.Context, m *model.FlowModel) ([]int, error) {
	g, vars, err := m.Network()
	if err != nil {
		return nil, err
	}
	res, err := dijkstra.Dijkstra(ctx, g, dijkstra.Source(m.Source), dijkstra.WithTarget(m.Sink))
	if err != nil {
		return nil, err
	}
	path, err := res.PathTo(m.Sink)
	if errors.Is(err, dijkstra.ErrUnreachable) {
		return nil, fmt.Errorf("%w: %v", ErrNoSolution, err)
	}
	if err != nil {
		return nil, err
	}

	x := make([]int, len(m.Variables))
	for _, e := range path {
		x[vars[e.ID]] = 1
	}

	return x, nil
}

type sspBackend struct{}

// SSP returns the successive-shortest-path min-cost flow backend.
func SSP() Backend { return sspBackend{} }

func (sspBackend) Name() string { return BackendSSP }

func (sspBackend) Solve(ctx context.Context, m *model.FlowModel) ([]int, error) {
	g, vars, err := m.Network()
	if err != nil {
		return nil, err
	}
	res, err := flow.MinCostFlow(g, m.Balances.NetMap(), &flow.FlowOptions{Ctx: ctx, Capacity: 1})
	if errors.Is(err, flow.ErrInfeasible) {
		return nil, fmt.Errorf("%w: %v", ErrNoSolution, err)
	}
	if err != nil {
		return nil, err
	}

	x := make([]int, len(m.Variables))
	for eid, units := range res.Flow {
		x[vars[eid]] = units
	}

	return x, nil
}
