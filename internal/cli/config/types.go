// Package config loads archlint configuration from defaults, archlint.yaml,
// ARCHLINT_* environment variables and command-line flags.
package config

import "github.com/leapstack-labs/archlint/pkg/core"

// Config file names, in lookup order.
var configFileNames = []string{"archlint.yaml", "archlint.yml", ".archlint.yaml"}

// Default configuration values.
const (
	DefaultFormat = "auto" // text on a terminal, text without colour otherwise
	EnvPrefix     = "ARCHLINT_"
)

// Config holds the rule set plus CLI options.
type Config struct {
	core.RuleSetConfig `koanf:",squash"`

	Format        string   `koanf:"format"`
	FailOnWarning bool     `koanf:"fail_on_warning"`
	Rules         string   `koanf:"rules"`
	Include       []string `koanf:"include"`
	Exclude       []string `koanf:"exclude"`
	NoGo          bool     `koanf:"no_go"`
	Watch         bool     `koanf:"watch"`
	Verbose       bool     `koanf:"verbose"`

	// ConfigFile is the file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// RuleSet returns the rule set part of the configuration.
func (c *Config) RuleSet() *core.RuleSetConfig {
	rs := c.RuleSetConfig
	return &rs
}
