package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/shipflow/model"
)

// DefaultMaxVariables bounds the exhaustive backend.
const DefaultMaxVariables = 48

// ErrTooLarge is returned when a model exceeds the ILP variable limit.
var ErrTooLarge = errors.New("solver: model too large for exact search")

// ilpCheckEvery is how many search nodes pass between context polls.
const ilpCheckEvery = 1024

type ilpBackend struct {
	maxVars int
}

// ILP returns an exact 0-1 branch-and-bound backend that works directly on
// the model's constraint rows, so it solves exactly what model.Check
// verifies. maxVars ≤ 0 means DefaultMaxVariables.
//
// Variables are branched from the last to the first, value 0 before 1, and
// an incumbent is only replaced by a strictly cheaper one, so the optimum
// returned never carries removable zero-cost arcs. Which of several
// equal-cost optima it lands on is left to the Solver, which reports the
// canonical route.
func ILP(maxVars int) Backend {
	if maxVars <= 0 {
		maxVars = DefaultMaxVariables
	}

	return ilpBackend{maxVars: maxVars}
}

func (ilpBackend) Name() string { return BackendILP }

func (b ilpBackend) Solve(ctx context.Context, m *model.FlowModel) ([]int, error) {
	n := len(m.Variables)
	if n > b.maxVars {
		return nil, fmt.Errorf("%w: %d variables > %d", ErrTooLarge, n, b.maxVars)
	}

	s := newSearch(ctx, m)
	for r := range m.Constraints {
		if !s.rowCanHold(r) {
			return nil, fmt.Errorf("%w: row %q unsatisfiable", ErrNoSolution, m.Constraints[r].Node)
		}
	}
	if err := s.branch(n - 1); err != nil {
		return nil, err
	}
	if s.bestX == nil {
		return nil, ErrNoSolution
	}

	return s.bestX, nil
}

type rowRef struct {
	row  int
	coef int
}

// search is the mutable branch-and-bound state.
//
// For every row r, lhs[r] sums the fixed variables while maxLeft[r] and
// minLeft[r] bound what the free variables can still add.
type search struct {
	ctx     context.Context
	m       *model.FlowModel
	rowsOf  [][]rowRef
	lhs     []int
	maxLeft []int
	minLeft []int
	x       []int
	cost    float64
	best    float64
	bestX   []int
	visited int
}

func newSearch(ctx context.Context, m *model.FlowModel) *search {
	s := &search{
		ctx:     ctx,
		m:       m,
		rowsOf:  make([][]rowRef, len(m.Variables)),
		lhs:     make([]int, len(m.Constraints)),
		maxLeft: make([]int, len(m.Constraints)),
		minLeft: make([]int, len(m.Constraints)),
		x:       make([]int, len(m.Variables)),
		best:    math.Inf(1),
	}
	for r, c := range m.Constraints {
		for _, t := range c.Terms {
			s.rowsOf[t.Var] = append(s.rowsOf[t.Var], rowRef{row: r, coef: t.Coef})
			v := m.Variables[t.Var]
			hi, lo := t.Coef*v.Upper, t.Coef*v.Lower
			if hi < lo {
				hi, lo = lo, hi
			}
			s.maxLeft[r] += hi
			s.minLeft[r] += lo
		}
	}

	return s
}

func (s *search) rowCanHold(r int) bool {
	c := s.m.Constraints[r]
	if s.lhs[r]+s.maxLeft[r] < c.RHS {
		return false
	}
	if c.Sense == model.Exact && s.lhs[r]+s.minLeft[r] > c.RHS {
		return false
	}

	return true
}

func (s *search) branch(i int) error {
	s.visited++
	if s.visited%ilpCheckEvery == 0 {
		if err := s.ctx.Err(); err != nil {
			return err
		}
	}
	if s.cost >= s.best-1e-12 {
		return nil // costs are non-negative, so this subtree cannot improve
	}
	if i < 0 {
		s.best = s.cost
		s.bestX = append([]int(nil), s.x...)
		return nil
	}

	v := s.m.Variables[i]
	for val := v.Lower; val <= v.Upper; val++ {
		if s.fix(i, val) {
			if err := s.branch(i - 1); err != nil {
				return err
			}
		}
		s.unfix(i, val)
	}

	return nil
}

// fix assigns x[i] = val and reports whether every touched row can still be met.
func (s *search) fix(i, val int) bool {
	v := s.m.Variables[i]
	s.x[i] = val
	s.cost += v.Cost * float64(val)
	ok := true
	for _, ref := range s.rowsOf[i] {
		hi, lo := ref.coef*v.Upper, ref.coef*v.Lower
		if hi < lo {
			hi, lo = lo, hi
		}
		s.maxLeft[ref.row] -= hi
		s.minLeft[ref.row] -= lo
		s.lhs[ref.row] += ref.coef * val
		if !s.rowCanHold(ref.row) {
			ok = false
		}
	}

	return ok
}

func (s *search) unfix(i, val int) {
	v := s.m.Variables[i]
	s.x[i] = 0
	s.cost -= v.Cost * float64(val)
	for _, ref := range s.rowsOf[i] {
		hi, lo := ref.coef*v.Upper, ref.coef*v.Lower
		if hi < lo {
			hi, lo = lo, hi
		}
		s.maxLeft[ref.row] += hi
		s.minLeft[ref.row] += lo
		s.lhs[ref.row] -= ref.coef * val
	}
}
