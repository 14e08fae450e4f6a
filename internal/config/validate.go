package config

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/shipflow/batch"
	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/internal/logging"
	"github.com/katalvlaran/shipflow/internal/tabular"
	"github.com/katalvlaran/shipflow/model"
	"github.com/katalvlaran/shipflow/route"
	"github.com/katalvlaran/shipflow/solver"
)

const maxWorkers = 1024

// Validate checks every setting and caches the parsed policies.
func (c *Config) Validate() error {
	if err := c.validateIO(); err != nil {
		return err
	}

	if err := c.validateSolver(); err != nil {
		return err
	}

	if err := c.validatePolicies(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateIO() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}

	f, err := tabular.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	c.parsed.format = f

	if c.Columns.Carrier == "" || c.Columns.From == "" || c.Columns.To == "" || c.Columns.Cost == "" {
		return fmt.Errorf("column names must not be empty")
	}

	return nil
}

func (c *Config) validateSolver() error {
	if c.Workers < 1 || c.Workers > maxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", maxWorkers, c.Workers)
	}

	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	if _, err := solver.ByName(c.Backend); err != nil {
		return err
	}

	return nil
}

func (c *Config) validatePolicies() error {
	var err error

	if c.parsed.nodeSet, err = catalog.ParseNodePolicy(c.NodeSet); err != nil {
		return err
	}

	if c.parsed.pathOrder, err = route.ParsePolicy(c.PathOrder); err != nil {
		return err
	}

	if c.parsed.conservation, err = model.ParseSense(c.Conservation); err != nil {
		return err
	}

	if c.parsed.duplicates, err = catalog.ParseDuplicatePolicy(c.Duplicates); err != nil {
		return err
	}

	if c.parsed.failures, err = batch.ParseFailurePolicy(c.Failures); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if c.LogFormat != logging.FormatText && c.LogFormat != logging.FormatJSON {
		return fmt.Errorf("log_format must be %s or %s, got %q", logging.FormatText, logging.FormatJSON, c.LogFormat)
	}

	return nil
}
