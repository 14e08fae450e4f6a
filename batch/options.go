package batch

import (
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/shipflow"
	"github.com/katalvlaran/shipflow/model"
	"github.com/katalvlaran/shipflow/route"
)

// FailurePolicy decides what happens to pairs that could not be solved.
type FailurePolicy int

const (
	// RecordFailures keeps a record with NaN cost, no path and Err set.
	RecordFailures FailurePolicy = iota
	// SkipFailures drops failed pairs from the result.
	SkipFailures
)

func (p FailurePolicy) String() string {
	if p == SkipFailures {
		return "skip"
	}

	return "record"
}

// ParseFailurePolicy accepts "record" and "skip"; empty means RecordFailures.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "record":
		return RecordFailures, nil
	case "skip":
		return SkipFailures, nil
	}

	return RecordFailures, shipflow.Invalid("failures", "unknown policy %q (want record|skip)", s)
}

// ModelSink receives every per-pair model before it is solved. Workers call
// it concurrently, so it must be safe for concurrent use.
type ModelSink func(from, to string, m *model.FlowModel) error

// Option configures a Driver.
type Option func(*Driver)

// WithWorkers sets the pool size. n < 1 means runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		d.workers = n
	}
}

// WithFailurePolicy sets how unsolved pairs are reported.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(d *Driver) { d.failures = p }
}

// WithPathPolicy sets the arc ordering used for every record.
func WithPathPolicy(p route.Policy) Option {
	return func(d *Driver) { d.pathPolicy = p }
}

// WithConservation sets the constraint sense of every model.
func WithConservation(s model.Sense) Option {
	return func(d *Driver) { d.sense = s }
}

// WithModelDump installs a sink called with each model before solving.
// The sink runs on the worker goroutines. A sink error aborts the run.
func WithModelDump(sink ModelSink) Option {
	return func(d *Driver) { d.dump = sink }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}
