package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/shipflow/batch"
	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/internal/config"
	"github.com/katalvlaran/shipflow/internal/tabular"
	"github.com/katalvlaran/shipflow/model"
	"github.com/katalvlaran/shipflow/route"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", writeFile(t, ".env", "# nothing\n"))
	require.NoError(t, err)
	require.Equal(t, "shipment_prices.csv", cfg.Input)
	require.Equal(t, tabular.DefaultColumns(), cfg.Columns)
	require.Equal(t, 30*time.Second, cfg.Timeout.Duration)
	require.Equal(t, tabular.CSV, cfg.OutputFormat())
	require.Equal(t, catalog.Endpoints, cfg.NodePolicy())
	require.Equal(t, route.Stitch, cfg.PathPolicy())
	require.Equal(t, model.AtLeast, cfg.Sense())
	require.Equal(t, catalog.OverwriteDuplicates, cfg.DuplicatePolicy())
	require.Equal(t, batch.RecordFailures, cfg.FailurePolicy())
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "shipflow.toml", `
input = "lanes.csv"
format = "yaml"
workers = 2
timeout = "5s"
backend = "ssp"
node_set = "origins"
path_order = "legacy"
conservation = "exact"
duplicates = "reject"
failures = "skip"

[columns]
carrier = "carrier"
from = "src"
to = "dst"
cost = "price"
`)
	cfg, err := config.Load(path, writeFile(t, ".env", ""))
	require.NoError(t, err)
	require.Equal(t, "lanes.csv", cfg.Input)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, 5*time.Second, cfg.Timeout.Duration)
	require.Equal(t, "ssp", cfg.Backend)
	require.Equal(t, "src", cfg.Columns.From)
	require.Equal(t, tabular.YAML, cfg.OutputFormat())
	require.Equal(t, catalog.Origins, cfg.NodePolicy())
	require.Equal(t, route.Legacy, cfg.PathPolicy())
	require.Equal(t, model.Exact, cfg.Sense())
	require.Equal(t, catalog.RejectDuplicates, cfg.DuplicatePolicy())
	require.Equal(t, batch.SkipFailures, cfg.FailurePolicy())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "shipflow.toml", "workers = 2\nbackend = \"ssp\"\n")
	t.Setenv("SHIPFLOW_WORKERS", "7")
	t.Setenv("SHIPFLOW_TIMEOUT", "250ms")
	t.Cleanup(func() { _ = os.Unsetenv("SHIPFLOW_BACKEND") })

	cfg, err := config.Load(path, writeFile(t, ".env", "SHIPFLOW_BACKEND=ilp\n"))
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Workers)
	require.Equal(t, 250*time.Millisecond, cfg.Timeout.Duration)
	require.Equal(t, "ilp", cfg.Backend)
}

func TestLoad_Errors(t *testing.T) {
	env := writeFile(t, ".env", "")
	cases := map[string]string{
		"workers":  "workers = 0\n",
		"backend":  "backend = \"simplex\"\n",
		"format":   "format = \"xlsx\"\n",
		"node set": "node_set = \"all\"\n",
		"level":    "log_level = \"chatty\"\n",
		"columns":  "[columns]\ncost = \"\"\n",
		"syntax":   "workers = \n",
		"timeout":  "timeout = \"soon\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, "bad.toml", body), env)
			require.Error(t, err)
		})
	}

	_, err := config.Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestValidate_AfterOverride(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	cfg.PathOrder = "legacy"
	require.NoError(t, cfg.Validate())
	require.Equal(t, route.Legacy, cfg.PathPolicy())

	cfg.Failures = "abort"
	require.Error(t, cfg.Validate())
}
