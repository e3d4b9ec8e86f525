package lint

import (
	"strings"

	"github.com/leapstack-labs/archlint/pkg/core"
)

// Config controls which rules are enabled, their severity and which are
// suppressed wholesale.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]core.Severity

	// SuppressedRules are evaluated but their diagnostics are marked suppressed
	SuppressedRules map[string]bool
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
		SuppressedRules:   make(map[string]bool),
	}
}

// ConfigFromRuleSet derives the engine configuration from a validated rule
// set and an optional --rules selection.
func ConfigFromRuleSet(rs *core.RuleSetConfig, selection string) (*Config, error) {
	cfg := NewConfig()
	for _, id := range rs.DisabledRules {
		cfg.Disable(id)
	}
	for id, sev := range rs.RuleSeverityOverrides {
		if s, ok := core.ParseSeverity(sev); ok {
			cfg.SetSeverity(id, s)
		}
	}
	for _, id := range rs.SuppressedRules {
		cfg.Suppress(id)
	}
	if err := cfg.ApplySelection(selection); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[normalizeID(ruleID)]
}

// IsSuppressed returns true if every diagnostic of the rule is suppressed.
func (c *Config) IsSuppressed(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.SuppressedRules[normalizeID(ruleID)] || c.SuppressedRules["*"]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity core.Severity) core.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[normalizeID(ruleID)]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[normalizeID(ruleID)] = true
	return c
}

// Enable re-enables a rule by ID.
func (c *Config) Enable(ruleID string) *Config {
	delete(c.DisabledRules, normalizeID(ruleID))
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity core.Severity) *Config {
	c.SeverityOverrides[normalizeID(ruleID)] = severity
	return c
}

// Suppress marks every diagnostic of a rule as suppressed.
func (c *Config) Suppress(ruleID string) *Config {
	c.SuppressedRules[normalizeID(ruleID)] = true
	return c
}

// ApplySelection applies a comma separated include/exclude list such as
// "R1,R2" (only these) or "-R3" (all but R3). Includes restrict the enabled
// set to the listed rules; excludes are applied afterwards.
func (c *Config) ApplySelection(selection string) error {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return nil
	}

	var (
		includes []string
		excludes []string
		cerr     core.ConfigurationError
	)
	for _, item := range strings.Split(selection, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		exclude := strings.HasPrefix(item, "-")
		id := normalizeID(strings.TrimLeft(item, "+-"))
		if !IsKnown(id) {
			cerr.Add("unknown rule id %q in rule selection", id)
			continue
		}
		if exclude {
			excludes = append(excludes, id)
		} else {
			includes = append(includes, id)
		}
	}
	if err := cerr.OrNil(); err != nil {
		return err
	}

	if len(includes) > 0 {
		for _, rule := range GetAll() {
			c.Disable(rule.ID)
		}
		for _, id := range includes {
			c.Enable(id)
		}
	}
	for _, id := range excludes {
		c.Disable(id)
	}
	return nil
}

func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "*" {
		return id
	}
	return strings.ToUpper(id)
}
