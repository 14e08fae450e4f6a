// Package metrics defines Prometheus metrics for batch runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Pair outcomes used as the "outcome" label of PairsTotal.
const (
	OutcomeSolved     = "solved"
	OutcomeInfeasible = "infeasible"
	OutcomeTimeout    = "timeout"
	OutcomeError      = "error"
)

var (
	PairsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipflow_pairs_total",
			Help: "Solved source/sink pairs by outcome",
		},
		[]string{"outcome"},
	)

	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shipflow_solve_duration_seconds",
			Help:    "Per-pair solve duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"backend"},
	)

	CatalogArcs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shipflow_catalog_arcs",
			Help: "Arcs in the loaded catalog",
		},
	)

	CatalogDuplicates = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shipflow_catalog_duplicates",
			Help: "Input rows that overwrote an earlier arc",
		},
	)

	Nodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shipflow_nodes",
			Help: "Nodes in the network",
		},
	)
)

func init() {
	prometheus.MustRegister(
		PairsTotal, SolveDuration,
		CatalogArcs, CatalogDuplicates, Nodes,
	)
}

// WriteTextfile dumps the default registry in the node_exporter textfile
// format. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}

	return nil
}
