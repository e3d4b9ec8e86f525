package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/lint"
)

func TestValidateRuleSet(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(rs *core.RuleSetConfig)
		problem string
	}{
		{name: "defaults are valid", mutate: func(*core.RuleSetConfig) {}},
		{name: "zero threshold", mutate: func(rs *core.RuleSetConfig) { rs.Thresholds.ClassesPerModule = 0 }, problem: "classes_per_module must be positive"},
		{name: "negative threshold", mutate: func(rs *core.RuleSetConfig) { rs.Thresholds.UseCasesPerModule = -1 }, problem: "use_cases_per_module"},
		{name: "unknown disabled rule", mutate: func(rs *core.RuleSetConfig) { rs.DisabledRules = []string{"R42"} }, problem: `unknown rule id "R42"`},
		{name: "unknown override rule", mutate: func(rs *core.RuleSetConfig) { rs.RuleSeverityOverrides = map[string]string{"X1": "error"} }, problem: "rule_severity_overrides"},
		{name: "bad severity", mutate: func(rs *core.RuleSetConfig) { rs.RuleSeverityOverrides = map[string]string{"R1": "fatal"} }, problem: "invalid severity"},
		{name: "malformed glob", mutate: func(rs *core.RuleSetConfig) { rs.EscapeHatchAllowList = []string{"billing.[Service"} }, problem: "malformed pattern"},
		{name: "unknown role", mutate: func(rs *core.RuleSetConfig) { rs.SuffixConventions["Gateway"] = "Gateway" }, problem: "unknown role"},
		{name: "unknown marker role", mutate: func(rs *core.RuleSetConfig) { rs.RoleMarkers["Bean"] = "Bean" }, problem: "unknown role"},
		{name: "unknown metric", mutate: func(rs *core.RuleSetConfig) { rs.PromoteSignals = []string{"lines"} }, problem: "unknown metric"},
		{name: "dotted reserved name", mutate: func(rs *core.RuleSetConfig) { rs.ReservedNames = []string{"a.b"} }, problem: "single namespace segment"},
		{name: "same config and common", mutate: func(rs *core.RuleSetConfig) { rs.CommonNamespace = "config" }, problem: "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := core.DefaultRuleSetConfig()
			tt.mutate(rs)
			err := lint.ValidateRuleSet(rs)
			if tt.problem == "" {
				assert.NoError(t, err)
				return
			}
			var cerr *core.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Contains(t, cerr.Error(), tt.problem)
		})
	}
}

func TestMatchesAllowList(t *testing.T) {
	patterns := []string{"billing.legacy.**", "*.BatchJob", "shipping.*Service"}

	assert.True(t, lint.MatchesAllowList(patterns, "", "billing.legacy.import.Importer"))
	assert.True(t, lint.MatchesAllowList(patterns, "", "audit.BatchJob"))
	assert.True(t, lint.MatchesAllowList(patterns, "", "shipping.ShippingService"))
	assert.False(t, lint.MatchesAllowList(patterns, "", "shipping.run.ShippingService"))
	assert.False(t, lint.MatchesAllowList(patterns, "", "billing.BatchJob.Inner"))
	assert.False(t, lint.MatchesAllowList(nil, "", "billing.Anything"))
}

func TestMatchesAllowList_RootNamespace(t *testing.T) {
	root := "com.acme.shop"

	assert.True(t, lint.MatchesAllowList([]string{"com.acme.shop.billing.LedgerWriter"}, root, "billing.LedgerWriter"))
	assert.True(t, lint.MatchesAllowList([]string{"billing.LedgerWriter"}, root, "billing.LedgerWriter"))
	assert.True(t, lint.MatchesAllowList([]string{"com.acme.**.LedgerWriter"}, root, "billing.LedgerWriter"))
	assert.False(t, lint.MatchesAllowList([]string{"com.acme.shop.shipping.LedgerWriter"}, root, "billing.LedgerWriter"))
}
