package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/shipflow/batch"
	"github.com/katalvlaran/shipflow/internal/metrics"
	"github.com/katalvlaran/shipflow/internal/tabular"
	"github.com/katalvlaran/shipflow/model"
)

func newSolveCmd() *cobra.Command {
	var (
		outputPath  string
		failures    string
		metricsFile string
		modelDir    string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve every ordered node pair and write the result table",
		Long: `Read the arc catalog, solve a minimum-cost unit flow for every ordered
pair of distinct nodes and write one record per pair (from, to, cost, path,
num_of_days). Unsolvable pairs are logged and kept with an empty cost unless
--failures=skip.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output") {
				cfg.Output = outputPath
			}
			if cmd.Flags().Changed("failures") {
				cfg.Failures = failures
			}
			if cmd.Flags().Changed("metrics-file") {
				cfg.MetricsFile = metricsFile
			}
			if cmd.Flags().Changed("model-dir") {
				cfg.ModelDir = modelDir
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}

			start := time.Now()
			net, err := loadNetwork()
			if err != nil {
				return err
			}

			var extra []batch.Option
			if cfg.ModelDir != "" {
				if err := os.MkdirAll(cfg.ModelDir, 0o755); err != nil {
					return fmt.Errorf("creating model dir: %w", err)
				}
				extra = append(extra, batch.WithModelDump(dimacsDump(cfg.ModelDir)))
			}
			d, err := newDriver(net, extra...)
			if err != nil {
				return err
			}

			records, err := d.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("solve failed: %w", err)
			}

			if err := writeRecords(cfg.Output, records); err != nil {
				return err
			}
			if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
				return err
			}

			if cfg.Output != "-" {
				fmt.Fprintf(os.Stderr, "Wrote %d records for %d nodes to %s in %s\n",
					len(records), len(net.Nodes), cfg.Output, elapsedSince(start))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: result.csv, use - for stdout)")
	cmd.Flags().StringVar(&failures, "failures", "", "Failed pairs: record|skip")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format")
	cmd.Flags().StringVar(&modelDir, "model-dir", "", "Dump every pair's model as DIMACS into this directory")

	return cmd
}

// dimacsDump writes one <from>__<to>.dimacs file per pair. Every pair gets
// its own file, so concurrent calls never share one.
func dimacsDump(dir string) batch.ModelSink {
	return func(from, to string, m *model.FlowModel) error {
		name := filepath.Join(dir, pairFileName(from, to, ".dimacs"))
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := m.WriteDIMACS(f); err != nil {
			_ = f.Close()
			return err
		}

		return f.Close()
	}
}

func writeRecords(path string, records []batch.Record) error {
	if path == "-" || path == "" {
		return tabular.Write(os.Stdout, cfg.OutputFormat(), records)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := tabular.Write(f, cfg.OutputFormat(), records); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing output: %w", err)
	}

	return f.Close()
}
