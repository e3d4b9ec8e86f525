package config

import (
	"github.com/leapstack-labs/archlint/internal/cli/output"
	"github.com/leapstack-labs/archlint/pkg/core"
)

// Validate checks the CLI options. Rule set problems are reported by the
// pipeline, which validates before extraction.
func (c *Config) Validate() error {
	var cerr core.ConfigurationError
	if _, err := output.ParseMode(c.Format); err != nil {
		cerr.Add("format: %v", err)
	}
	return cerr.OrNil()
}
