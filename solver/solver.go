// Package solver runs one flow model through a pluggable backend and turns
// the result into a verified Solution.
//
// Every Solve:
//
//  1. checks directed reachability source→sink with bfs and reports an
//     unreachable sink as *shipflow.InfeasibleError without calling the backend;
//  2. runs the backend under its own context.WithTimeout; a deadline becomes
//     *shipflow.TimeoutError, which callers can tell apart from infeasibility;
//  3. verifies the assignment with model.Check;
//  4. replaces it with the canonical cheapest route (fewest hops, then the
//     earliest catalog arc at each node), so equal-cost ties resolve the same
//     way for every backend, and rejects a backend optimum that costs more;
//  5. logs the objective and every activated arc at debug level.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/shipflow"
	"github.com/katalvlaran/shipflow/bfs"
	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/model"
)

// DefaultTimeout is the per-solve budget used when none is configured.
const DefaultTimeout = 30 * time.Second

// Solution is a verified optimum for one model.
type Solution struct {
	Objective  float64
	Assignment []int
	Activated  []catalog.ArcKey
	Backend    string
	Elapsed    time.Duration
}

// Solver is safe for concurrent use; it holds no per-solve state.
type Solver struct {
	backend  Backend
	timeout  time.Duration
	precheck bool
	log      logrus.FieldLogger
}

// Option configures a Solver.
type Option func(*Solver)

// WithBackend selects the backend (default Dijkstra()).
func WithBackend(b Backend) Option {
	return func(s *Solver) {
		if b != nil {
			s.backend = b
		}
	}
}

// WithTimeout sets the per-solve budget. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *Solver) { s.timeout = d }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Solver) {
		if l != nil {
			s.log = l
		}
	}
}

// WithoutPrecheck skips the reachability test and lets the backend decide.
func WithoutPrecheck() Option {
	return func(s *Solver) { s.precheck = false }
}

// New builds a Solver.
func New(opts ...Option) *Solver {
	s := &Solver{
		backend:  Dijkstra(),
		timeout:  DefaultTimeout,
		precheck: true,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Backend returns the configured backend name.
func (s *Solver) Backend() string { return s.backend.Name() }

// Solve finds a minimum-cost assignment for m.
//
// Errors: *shipflow.ValidationError (nil model or missing endpoints),
// *shipflow.InfeasibleError, *shipflow.TimeoutError, *shipflow.ModelError,
// the caller's ctx error, or any other backend failure.
func (s *Solver) Solve(ctx context.Context, m *model.FlowModel) (*Solution, error) {
	if m == nil {
		return nil, shipflow.Invalid("model", "model is nil")
	}
	if m.Source == "" || m.Sink == "" {
		return nil, shipflow.Invalid("model", "model has no source or sink")
	}

	start := time.Now()
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if s.precheck {
		g, _, err := m.Network()
		if err != nil {
			return nil, err
		}
		ok, err := bfs.Reachable(runCtx, g, m.Source, m.Sink)
		if err != nil {
			return nil, s.classify(ctx, m, err)
		}
		if !ok {
			return nil, &shipflow.InfeasibleError{Source: m.Source, Sink: m.Sink, Reason: "sink is not reachable from source"}
		}
	}

	x, err := s.backend.Solve(runCtx, m)
	if err != nil {
		return nil, s.classify(ctx, m, err)
	}
	if err = m.Check(x); err != nil {
		return nil, fmt.Errorf("solver: %s returned an invalid assignment: %w", s.backend.Name(), err)
	}
	if x, err = s.normalize(m, x); err != nil {
		return nil, err
	}

	sol := &Solution{
		Objective:  m.Objective(x),
		Assignment: x,
		Activated:  m.Activated(x),
		Backend:    s.backend.Name(),
		Elapsed:    time.Since(start),
	}
	s.logSolution(m, sol)

	return sol, nil
}

// normalize swaps a verified backend optimum for the canonical route. If the
// canonical route cannot be built or does not satisfy m (bounds forcing extra
// arcs), x is kept as is.
func (s *Solver) normalize(m *model.FlowModel, x []int) ([]int, error) {
	canon, ok := canonicalRoute(m)
	if !ok || m.Check(canon) != nil {
		return x, nil
	}
	got, want := m.Objective(x), m.Objective(canon)
	if got > want && !sameCost(got, want) {
		return nil, fmt.Errorf("solver: %s returned a suboptimal assignment: %w", s.backend.Name(), &shipflow.ModelError{
			Constraint: "objective",
			Reason:     fmt.Sprintf("cost %g, cheapest route costs %g", got, want),
		})
	}

	return canon, nil
}

// classify maps backend failures onto the error taxonomy. A cancelled parent
// context is returned as-is so batch runs can stop.
func (s *Solver) classify(parent context.Context, m *model.FlowModel, err error) error {
	if perr := parent.Err(); perr != nil {
		return perr
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &shipflow.TimeoutError{Source: m.Source, Sink: m.Sink, Budget: s.timeout}
	case errors.Is(err, ErrNoSolution):
		return &shipflow.InfeasibleError{Source: m.Source, Sink: m.Sink, Reason: err.Error()}
	}

	return fmt.Errorf("solver: %s: %w", s.backend.Name(), err)
}

func (s *Solver) logSolution(m *model.FlowModel, sol *Solution) {
	entry := s.log.WithFields(logrus.Fields{
		"from":    m.Source,
		"to":      m.Sink,
		"backend": sol.Backend,
	})
	entry.WithFields(logrus.Fields{
		"objective": sol.Objective,
		"elapsed":   sol.Elapsed,
	}).Debug("total cost of transportation")
	for _, k := range sol.Activated {
		entry.WithField("arc", k.String()).Debug("arc activated")
	}
}
