// Package config loads shipflow settings from an optional TOML file, an
// optional .env file and SHIPFLOW_* environment variables, in that order of
// increasing precedence. CLI flags are applied on top by the caller, who then
// calls Validate again.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/katalvlaran/shipflow/batch"
	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/internal/tabular"
	"github.com/katalvlaran/shipflow/model"
	"github.com/katalvlaran/shipflow/route"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SHIPFLOW_"

// Duration is a time.Duration decoded from TOML strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds all settings of a run.
type Config struct {
	Input        string          `toml:"input"`
	Output       string          `toml:"output"`
	Format       string          `toml:"format"`
	Columns      tabular.Columns `toml:"columns"`
	Workers      int             `toml:"workers"`
	Timeout      Duration        `toml:"timeout"`
	Backend      string          `toml:"backend"`
	NodeSet      string          `toml:"node_set"`
	PathOrder    string          `toml:"path_order"`
	Conservation string          `toml:"conservation"`
	Duplicates   string          `toml:"duplicates"`
	Failures     string          `toml:"failures"`
	LogLevel     string          `toml:"log_level"`
	LogFormat    string          `toml:"log_format"`
	MetricsFile  string          `toml:"metrics_file"`
	ModelDir     string          `toml:"model_dir"`

	parsed parsed
}

type parsed struct {
	format       tabular.Format
	nodeSet      catalog.NodePolicy
	pathOrder    route.Policy
	conservation model.Sense
	duplicates   catalog.DuplicatePolicy
	failures     batch.FailurePolicy
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Input:        "shipment_prices.csv",
		Output:       "result.csv",
		Format:       "csv",
		Columns:      tabular.DefaultColumns(),
		Workers:      runtime.NumCPU(),
		Timeout:      Duration{30 * time.Second},
		Backend:      "dijkstra",
		NodeSet:      "endpoints",
		PathOrder:    "stitch",
		Conservation: "at_least",
		Duplicates:   "overwrite",
		Failures:     "record",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load builds a Config. path names an optional TOML file; envFiles name .env
// files to load (when none are given, ./.env is tried and may be absent).
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("config: load env: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Input = envOrDefault("INPUT", c.Input)
	c.Output = envOrDefault("OUTPUT", c.Output)
	c.Format = envOrDefault("FORMAT", c.Format)
	c.Columns.Carrier = envOrDefault("COLUMN_CARRIER", c.Columns.Carrier)
	c.Columns.From = envOrDefault("COLUMN_FROM", c.Columns.From)
	c.Columns.To = envOrDefault("COLUMN_TO", c.Columns.To)
	c.Columns.Cost = envOrDefault("COLUMN_COST", c.Columns.Cost)
	c.Backend = envOrDefault("BACKEND", c.Backend)
	c.NodeSet = envOrDefault("NODE_SET", c.NodeSet)
	c.PathOrder = envOrDefault("PATH_ORDER", c.PathOrder)
	c.Conservation = envOrDefault("CONSERVATION", c.Conservation)
	c.Duplicates = envOrDefault("DUPLICATES", c.Duplicates)
	c.Failures = envOrDefault("FAILURES", c.Failures)
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOrDefault("LOG_FORMAT", c.LogFormat)
	c.MetricsFile = envOrDefault("METRICS_FILE", c.MetricsFile)
	c.ModelDir = envOrDefault("MODEL_DIR", c.ModelDir)

	workers, err := strconv.Atoi(envOrDefault("WORKERS", strconv.Itoa(c.Workers)))
	if err != nil {
		return fmt.Errorf("%sWORKERS must be an integer", EnvPrefix)
	}
	c.Workers = workers

	timeout, err := time.ParseDuration(envOrDefault("TIMEOUT", c.Timeout.String()))
	if err != nil {
		return fmt.Errorf("%sTIMEOUT must be a duration: %w", EnvPrefix, err)
	}
	c.Timeout.Duration = timeout

	return nil
}

// OutputFormat returns the parsed output format. Valid after Validate.
func (c *Config) OutputFormat() tabular.Format { return c.parsed.format }

// NodePolicy returns the parsed node set policy. Valid after Validate.
func (c *Config) NodePolicy() catalog.NodePolicy { return c.parsed.nodeSet }

// PathPolicy returns the parsed path order. Valid after Validate.
func (c *Config) PathPolicy() route.Policy { return c.parsed.pathOrder }

// Sense returns the parsed conservation sense. Valid after Validate.
func (c *Config) Sense() model.Sense { return c.parsed.conservation }

// DuplicatePolicy returns the parsed duplicate policy. Valid after Validate.
func (c *Config) DuplicatePolicy() catalog.DuplicatePolicy { return c.parsed.duplicates }

// FailurePolicy returns the parsed failure policy. Valid after Validate.
func (c *Config) FailurePolicy() batch.FailurePolicy { return c.parsed.failures }

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}

	return fallback
}
