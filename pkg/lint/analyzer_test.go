package lint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/core/coretest"
	"github.com/leapstack-labs/archlint/pkg/depgraph"
	"github.com/leapstack-labs/archlint/pkg/lint"
	_ "github.com/leapstack-labs/archlint/pkg/lint/rules"
)

func violatingModel() *coretest.Builder {
	return coretest.NewBuilder(nil).
		Class("billing.BillingService", coretest.Tags(core.TagServiceFacade), coretest.Transactional(), coretest.Refs("shipping.ShippingService")).
		Class("shipping.ShippingService", coretest.Tags(core.TagServiceFacade), coretest.Refs("billing.BillingService")).
		Class("billing.create.Policy", coretest.Tags(core.TagPersistentEntity), coretest.At("billing/create/Policy.java:3"))
}

func analyze(t *testing.T, cfg *lint.Config, b *coretest.Builder) []lint.Diagnostic {
	t.Helper()
	a := lint.NewAnalyzer(cfg, nil)
	diags, err := a.Analyze(context.Background(), lint.NewContext(depgraph.Build(b.Model()), b.Config()))
	require.NoError(t, err)
	return diags
}

func ruleIDs(diags []lint.Diagnostic) []string {
	ids := make([]string, len(diags))
	for i, d := range diags {
		ids[i] = d.RuleID
	}
	return ids
}

func TestRegistry_AllRulesRegistered(t *testing.T) {
	var ids []string
	for _, r := range lint.GetAll() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"R1", "R2", "R3", "R4", "R5", "R6", "R7", "R8"}, ids)

	rule, ok := lint.GetByID("r7")
	require.True(t, ok)
	assert.Equal(t, "cycle-freedom", rule.Name)
	assert.Len(t, lint.GetByGroup("isolation"), 3)
	assert.Len(t, lint.GetByGroup("Placement"), 2)
	assert.Empty(t, lint.GetByGroup("unknown"))
}

func TestCompareRuleIDs(t *testing.T) {
	assert.Negative(t, lint.CompareRuleIDs("R2", "R10"))
	assert.Positive(t, lint.CompareRuleIDs("R10", "R9"))
	assert.Zero(t, lint.CompareRuleIDs("R1", "R1"))
}

func TestAnalyzer_MergesInRuleOrder(t *testing.T) {
	diags := analyze(t, nil, violatingModel())
	assert.Equal(t, []string{"R4", "R5", "R7"}, ruleIDs(diags))
	for _, d := range diags {
		assert.Equal(t, core.SeverityError, d.Severity)
		assert.False(t, d.Suppressed)
	}
}

func TestAnalyzer_Deterministic(t *testing.T) {
	first := analyze(t, nil, violatingModel())
	for i := 0; i < 20; i++ {
		again := analyze(t, nil, violatingModel())
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].RuleID, again[j].RuleID)
			assert.Equal(t, first[j].Message, again[j].Message)
		}
	}
}

func TestAnalyzer_ConfigDrivenBehaviour(t *testing.T) {
	cfg := lint.NewConfig().
		Disable("R7").
		SetSeverity("R5", core.SeverityWarning).
		Suppress("R4")

	diags := analyze(t, cfg, violatingModel())
	require.Equal(t, []string{"R4", "R5"}, ruleIDs(diags))
	assert.True(t, diags[0].Suppressed)
	assert.Equal(t, core.SeverityWarning, diags[1].Severity)
}

func TestAnalyzer_InlineSuppression(t *testing.T) {
	b := coretest.NewBuilder(nil).
		Namespace("billing.legacy", "R5").
		Class("billing.BillingService", coretest.Tags(core.TagServiceFacade), coretest.Transactional(), coretest.Suppress("R4")).
		Class("billing.legacy.Policy", coretest.Tags(core.TagPersistentEntity))

	diags := analyze(t, nil, b)
	require.Equal(t, []string{"R4", "R5"}, ruleIDs(diags))
	assert.True(t, diags[0].Suppressed, "class-level marker")
	assert.True(t, diags[1].Suppressed, "namespace-level marker")
}

func TestAnalyzer_CycleSuppressedOnlyWhenAllModulesSuppress(t *testing.T) {
	build := func(suppressShipping bool) *coretest.Builder {
		b := coretest.NewBuilder(nil).Namespace("billing", "R7")
		if suppressShipping {
			b.Namespace("shipping", "R7")
		}
		return b.
			Class("billing.BillingService", coretest.Tags(core.TagServiceFacade), coretest.Refs("shipping.ShippingService")).
			Class("shipping.ShippingService", coretest.Tags(core.TagServiceFacade), coretest.Refs("billing.BillingService"))
	}

	diags := analyze(t, nil, build(false))
	require.Len(t, diags, 1)
	assert.False(t, diags[0].Suppressed)

	diags = analyze(t, nil, build(true))
	require.Len(t, diags, 1)
	assert.True(t, diags[0].Suppressed)
}

func TestConfig_ApplySelection(t *testing.T) {
	tests := []struct {
		name      string
		selection string
		enabled   []string
		wantErr   bool
	}{
		{name: "empty", selection: "", enabled: []string{"R1", "R2", "R3", "R4", "R5", "R6", "R7", "R8"}},
		{name: "include", selection: "R1, r2", enabled: []string{"R1", "R2"}},
		{name: "exclude", selection: "-R3,-R8", enabled: []string{"R1", "R2", "R4", "R5", "R6", "R7"}},
		{name: "include and exclude", selection: "R1,R2,-R2", enabled: []string{"R1"}},
		{name: "unknown", selection: "R1,R99", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := lint.NewConfig()
			err := cfg.ApplySelection(tt.selection)
			if tt.wantErr {
				var cerr *core.ConfigurationError
				assert.ErrorAs(t, err, &cerr)
				return
			}
			require.NoError(t, err)

			var enabled []string
			for _, r := range lint.NewAnalyzer(cfg, nil).Rules() {
				enabled = append(enabled, r.ID)
			}
			assert.Equal(t, tt.enabled, enabled)
		})
	}
}

func TestConfigFromRuleSet(t *testing.T) {
	rs := core.DefaultRuleSetConfig()
	rs.DisabledRules = []string{"R3"}
	rs.RuleSeverityOverrides = map[string]string{"R5": "warning"}
	rs.SuppressedRules = []string{"R4"}

	cfg, err := lint.ConfigFromRuleSet(rs, "-R8")
	require.NoError(t, err)
	assert.True(t, cfg.IsDisabled("R3"))
	assert.True(t, cfg.IsDisabled("R8"))
	assert.True(t, cfg.IsSuppressed("R4"))
	assert.Equal(t, core.SeverityWarning, cfg.GetSeverity("R5", core.SeverityError))
}
