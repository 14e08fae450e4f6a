package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/shipflow/batch"
	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/internal/config"
	"github.com/katalvlaran/shipflow/internal/logging"
	"github.com/katalvlaran/shipflow/internal/tabular"
	"github.com/katalvlaran/shipflow/solver"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

var (
	cfg    *config.Config
	logger *logrus.Logger

	flagConfig  string
	flagEnvFile string
	overrides   *config.Config
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("shipflow version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("shipflow version %s-dev", version)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	overrides = config.Default()
	rootCmd := &cobra.Command{
		Use:     "shipflow",
		Short:   "shipflow: cheapest multi-carrier routes for every pair of nodes",
		Version: versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd.Flags())
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "TOML config file")
	pf.StringVar(&flagEnvFile, "env-file", "", "Env file to load (default: ./.env when present)")
	pf.StringVarP(&overrides.Input, "input", "i", overrides.Input, "Input CSV (env: SHIPFLOW_INPUT)")
	pf.StringVar(&overrides.Format, "format", overrides.Format, "Output format: csv|json|yaml")
	pf.StringVar(&overrides.Backend, "backend", overrides.Backend, "Solver backend: dijkstra|ssp|ilp")
	pf.DurationVar(&overrides.Timeout.Duration, "timeout", overrides.Timeout.Duration, "Per-pair solve timeout (0 disables)")
	pf.IntVar(&overrides.Workers, "workers", overrides.Workers, "Concurrent pair solves")
	pf.StringVar(&overrides.NodeSet, "node-set", overrides.NodeSet, "Node set: endpoints|origins")
	pf.StringVar(&overrides.PathOrder, "path-order", overrides.PathOrder, "Path order: stitch|legacy")
	pf.StringVar(&overrides.Conservation, "conservation", overrides.Conservation, "Conservation rows: at_least|exact")
	pf.StringVar(&overrides.Duplicates, "duplicates", overrides.Duplicates, "Duplicate arcs: overwrite|reject")
	pf.StringVar(&overrides.LogLevel, "log-level", overrides.LogLevel, "Log level")
	pf.StringVar(&overrides.LogFormat, "log-format", overrides.LogFormat, "Log format: text|json")

	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newRouteCmd())
	rootCmd.AddCommand(newModelCmd())
	rootCmd.AddCommand(newNodesCmd())

	return rootCmd
}

// setup loads the config and lets explicitly set flags win over it.
func setup(flags *pflag.FlagSet) error {
	var envFiles []string
	if flagEnvFile != "" {
		envFiles = append(envFiles, flagEnvFile)
	}
	loaded, err := config.Load(flagConfig, envFiles...)
	if err != nil {
		return err
	}

	apply := map[string]func(){
		"input":        func() { loaded.Input = overrides.Input },
		"format":       func() { loaded.Format = overrides.Format },
		"backend":      func() { loaded.Backend = overrides.Backend },
		"timeout":      func() { loaded.Timeout = overrides.Timeout },
		"workers":      func() { loaded.Workers = overrides.Workers },
		"node-set":     func() { loaded.NodeSet = overrides.NodeSet },
		"path-order":   func() { loaded.PathOrder = overrides.PathOrder },
		"conservation": func() { loaded.Conservation = overrides.Conservation },
		"duplicates":   func() { loaded.Duplicates = overrides.Duplicates },
		"log-level":    func() { loaded.LogLevel = overrides.LogLevel },
		"log-format":   func() { loaded.LogFormat = overrides.LogFormat },
	}
	flags.Visit(func(f *pflag.Flag) {
		if fn, ok := apply[f.Name]; ok {
			fn()
		}
	})
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	l, err := logging.New(loaded.LogLevel, loaded.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	cfg, logger = loaded, l

	return nil
}

// loadNetwork reads the input and derives the shared network.
func loadNetwork() (*batch.Network, error) {
	f, err := os.Open(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	rows, err := tabular.ReadRows(f, cfg.Columns)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", cfg.Input, err)
	}
	cat, err := catalog.FromRows(rows, catalog.WithDuplicatePolicy(cfg.DuplicatePolicy()))
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	if n := cat.Duplicates(); n > 0 {
		logger.WithField("duplicates", n).Warn("duplicate arcs overwritten, last cost wins")
	}

	return batch.NewNetwork(cat, cfg.NodePolicy())
}

func newSolver() (*solver.Solver, error) {
	b, err := solver.ByName(cfg.Backend)
	if err != nil {
		return nil, err
	}

	return solver.New(
		solver.WithBackend(b),
		solver.WithTimeout(cfg.Timeout.Duration),
		solver.WithLogger(logger),
	), nil
}

func newDriver(net *batch.Network, extra ...batch.Option) (*batch.Driver, error) {
	sv, err := newSolver()
	if err != nil {
		return nil, err
	}
	opts := []batch.Option{
		batch.WithWorkers(cfg.Workers),
		batch.WithFailurePolicy(cfg.FailurePolicy()),
		batch.WithPathPolicy(cfg.PathPolicy()),
		batch.WithConservation(cfg.Sense()),
		batch.WithLogger(logger),
	}

	return batch.NewDriver(net, sv, append(opts, extra...)...)
}

func elapsedSince(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
