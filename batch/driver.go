// Package batch solves every ordered node pair of a Network and collects one
// Record per pair.
//
// Each pair runs the full pipeline on its own data: balances, model, solve
// and path reconstruction. Pairs fan out over an ants worker pool and write
// into pre-assigned result slots, so the output order is source-major over
// the sorted node set no matter how the workers are scheduled.
//
// Pair failures (infeasible, timeout, bad path) never stop a run; they are
// logged and recorded or skipped according to the FailurePolicy. A cancelled
// context, invalid input or a failing model sink does stop it.
package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/shipflow"
	"github.com/katalvlaran/shipflow/balance"
	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/internal/metrics"
	"github.com/katalvlaran/shipflow/model"
	"github.com/katalvlaran/shipflow/route"
	"github.com/katalvlaran/shipflow/solver"
)

// Record is the outcome for one ordered pair. Failed pairs carry NaN cost,
// no path and a non-nil Err.
type Record struct {
	From string
	To   string
	Cost float64
	Path []catalog.ArcKey
	Hops int
	Err  error
}

// Failed reports whether the pair could not be solved.
func (r Record) Failed() bool { return r.Err != nil }

// Driver runs pairs against one Network with one Solver.
type Driver struct {
	net        *Network
	solver     *solver.Solver
	workers    int
	failures   FailurePolicy
	pathPolicy route.Policy
	sense      model.Sense
	dump       ModelSink
	log        logrus.FieldLogger
}

// NewDriver builds a Driver. A nil solver means solver.New().
func NewDriver(n *Network, s *solver.Solver, opts ...Option) (*Driver, error) {
	if n == nil {
		return nil, shipflow.Invalid("network", "network is nil")
	}
	if s == nil {
		s = solver.New()
	}
	d := &Driver{
		net:     n,
		solver:  s,
		workers: runtime.NumCPU(),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Run solves every pair and returns the records in source-major order.
func (d *Driver) Run(ctx context.Context) ([]Record, error) {
	log := d.log.WithField("run_id", uuid.New().String())
	start := time.Now()

	metrics.CatalogArcs.Set(float64(d.net.Catalog.Len()))
	metrics.CatalogDuplicates.Set(float64(d.net.Catalog.Duplicates()))
	metrics.Nodes.Set(float64(len(d.net.Nodes)))
	if only := d.net.DestinationOnly; len(only) > 0 {
		log.WithFields(logrus.Fields{
			"nodes":    only,
			"node_set": d.net.Policy.String(),
		}).Warn("nodes only appear as destinations")
	}

	pairs := d.net.Pairs()
	slots := make([]Record, len(pairs))
	fatal := make([]error, len(pairs))

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(d.workers, func(arg any) {
		i := arg.(int)
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				fatal[i] = fmt.Errorf("batch: panic solving %s→%s: %v", pairs[i].From, pairs[i].To, r)
			}
		}()
		slots[i], fatal[i] = d.solvePair(ctx, log, pairs[i])
	})
	if err != nil {
		return nil, fmt.Errorf("batch: create pool: %w", err)
	}
	defer pool.Release()

	log.WithFields(logrus.Fields{
		"pairs":   len(pairs),
		"workers": d.workers,
		"backend": d.solver.Backend(),
	}).Info("batch started")

	for i := range pairs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		if err := pool.Invoke(i); err != nil {
			wg.Done()
			fatal[i] = fmt.Errorf("batch: submit %s→%s: %w", pairs[i].From, pairs[i].To, err)
			break
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range fatal {
		if err != nil {
			return nil, err
		}
	}

	out := make([]Record, 0, len(slots))
	failed := 0
	for _, rec := range slots {
		if rec.Failed() {
			failed++
			if d.failures == SkipFailures {
				continue
			}
		}
		out = append(out, rec)
	}

	log.WithFields(logrus.Fields{
		"pairs":   len(pairs),
		"failed":  failed,
		"written": len(out),
		"elapsed": time.Since(start),
	}).Info("batch finished")

	return out, nil
}

// SolvePair runs the pipeline for one pair. Pair failures are returned inside
// the Record; the error is reserved for invalid endpoints, a cancelled ctx
// and model sink failures.
func (d *Driver) SolvePair(ctx context.Context, from, to string) (Record, error) {
	for _, id := range []string{from, to} {
		if !d.net.HasNode(id) {
			return Record{}, shipflow.Invalid("node", "%q is not in the node set", id)
		}
	}

	return d.solvePair(ctx, d.log, Pair{From: from, To: to})
}

func (d *Driver) solvePair(ctx context.Context, log logrus.FieldLogger, p Pair) (Record, error) {
	log = log.WithFields(logrus.Fields{"from": p.From, "to": p.To})

	b, err := balance.Build(p.From, p.To, d.net.Nodes)
	if err != nil {
		return Record{}, err
	}
	m, err := model.Build(b, d.net.Catalog, d.net.Nodes, model.WithConservation(d.sense))
	if err != nil {
		return Record{}, err
	}
	if d.dump != nil {
		if err := d.dump(p.From, p.To, m); err != nil {
			return Record{}, fmt.Errorf("batch: dump model %s→%s: %w", p.From, p.To, err)
		}
	}

	sol, err := d.solver.Solve(ctx, m)
	if ctx.Err() != nil {
		return Record{}, ctx.Err()
	}
	if err != nil {
		return d.fail(log, p, err), nil
	}
	metrics.SolveDuration.WithLabelValues(sol.Backend).Observe(sol.Elapsed.Seconds())

	path, err := route.Reconstruct(p.From, sol.Activated, route.WithPolicy(d.pathPolicy), route.WithSink(p.To))
	if err != nil {
		return d.fail(log, p, err), nil
	}
	metrics.PairsTotal.WithLabelValues(metrics.OutcomeSolved).Inc()

	return Record{
		From: p.From,
		To:   p.To,
		Cost: sol.Objective,
		Path: path.Arcs,
		Hops: path.Hops,
	}, nil
}

func (d *Driver) fail(log logrus.FieldLogger, p Pair, err error) Record {
	outcome := metrics.OutcomeError
	switch {
	case errors.Is(err, shipflow.ErrInfeasible):
		outcome = metrics.OutcomeInfeasible
	case errors.Is(err, shipflow.ErrTimeout):
		outcome = metrics.OutcomeTimeout
	}
	metrics.PairsTotal.WithLabelValues(outcome).Inc()
	log.WithError(err).WithField("outcome", outcome).Warn("pair not solved")

	return Record{From: p.From, To: p.To, Cost: math.NaN(), Err: err}
}
