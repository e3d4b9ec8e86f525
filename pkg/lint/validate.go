package lint

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/leapstack-labs/archlint/pkg/core"
)

// ValidateRuleSet checks a rule set before extraction starts. All problems
// are collected into a single *core.ConfigurationError.
func ValidateRuleSet(rs *core.RuleSetConfig) error {
	var cerr core.ConfigurationError

	if strings.TrimSpace(rs.ConfigNamespace) == "" {
		cerr.Add("config_namespace must not be empty")
	}
	if strings.TrimSpace(rs.CommonNamespace) == "" {
		cerr.Add("common_namespace must not be empty")
	}
	if rs.ConfigNamespace != "" && rs.ConfigNamespace == rs.CommonNamespace {
		cerr.Add("config_namespace and common_namespace must differ (both %q)", rs.ConfigNamespace)
	}
	for _, n := range append([]string{rs.ConfigNamespace, rs.CommonNamespace}, rs.ReservedNames...) {
		if strings.ContainsAny(n, ". \t") {
			cerr.Add("reserved name %q must be a single namespace segment", n)
		}
	}

	thresholds := []struct {
		key   string
		value int
	}{
		{"thresholds.use_cases_per_module", rs.Thresholds.UseCasesPerModule},
		{"thresholds.classes_per_module", rs.Thresholds.ClassesPerModule},
		{"thresholds.aggregates_per_module", rs.Thresholds.AggregatesPerModule},
	}
	for _, th := range thresholds {
		if th.value <= 0 {
			cerr.Add("%s must be positive, got %d", th.key, th.value)
		}
	}

	for role, suffix := range rs.SuffixConventions {
		if _, ok := core.ParseTag(role); !ok {
			cerr.Add("suffix_conventions: unknown role %q", role)
		}
		if strings.TrimSpace(suffix) == "" {
			cerr.Add("suffix_conventions: empty suffix for role %q", role)
		}
	}
	for marker, role := range rs.RoleMarkers {
		if _, ok := core.ParseTag(role); !ok {
			cerr.Add("role_markers: marker %q maps to unknown role %q", marker, role)
		}
	}

	for _, pattern := range rs.EscapeHatchAllowList {
		if strings.TrimSpace(pattern) == "" || !doublestar.ValidatePattern(fqnToPath(pattern)) {
			cerr.Add("escape_hatch_allow_list: malformed pattern %q", pattern)
		}
	}

	for id, sev := range rs.RuleSeverityOverrides {
		if !IsKnown(id) {
			cerr.Add("rule_severity_overrides: unknown rule id %q", id)
		}
		if _, ok := core.ParseSeverity(sev); !ok {
			cerr.Add("rule_severity_overrides: invalid severity %q for %s (want error or warning)", sev, id)
		}
	}
	for _, id := range rs.DisabledRules {
		if !IsKnown(id) {
			cerr.Add("disabled_rules: unknown rule id %q", id)
		}
	}
	for _, id := range rs.SuppressedRules {
		if id != "*" && !IsKnown(id) {
			cerr.Add("suppressed_rules: unknown rule id %q", id)
		}
	}

	for _, p := range rs.PromoteSignals {
		if p != "*" && !isKnownMetric(p) {
			cerr.Add("promote_signals: unknown metric %q", p)
		}
	}

	return cerr.OrNil()
}

func isKnownMetric(name string) bool {
	for _, m := range core.KnownSignalMetrics {
		if strings.EqualFold(string(m), name) {
			return true
		}
	}
	return false
}

// MatchesAllowList reports whether fqn matches any escape-hatch pattern.
// Patterns are dotted FQN globs: "*" matches one segment, "**" any number.
// fqn is relative to root; a pattern may be written either relative to root
// or as the full name including it.
func MatchesAllowList(patterns []string, root, fqn string) bool {
	targets := []string{fqnToPath(fqn)}
	if root != "" {
		targets = append(targets, fqnToPath(core.JoinPath(root, fqn)))
	}
	for _, p := range patterns {
		pattern := fqnToPath(p)
		for _, target := range targets {
			if ok, err := doublestar.Match(pattern, target); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func fqnToPath(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ".", "/")
}
