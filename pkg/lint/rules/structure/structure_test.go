package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/core/coretest"
	"github.com/leapstack-labs/archlint/pkg/depgraph"
	"github.com/leapstack-labs/archlint/pkg/lint"
)

func newContext(b *coretest.Builder) *lint.Context {
	return lint.NewContext(depgraph.Build(b.Model()), b.Config())
}

func TestR7_CycleFreedom_TwoModules(t *testing.T) {
	b := coretest.NewBuilder(nil).
		Class("billing.BillingService", coretest.Tags(core.TagServiceFacade), coretest.Refs("shipping.ShippingService")).
		Class("shipping.ShippingService", coretest.Tags(core.TagServiceFacade), coretest.Refs("billing.BillingService"))

	diags := checkCycleFreedom(newContext(b))
	require.Len(t, diags, 1)
	assert.ElementsMatch(t, []string{"billing -> shipping", "shipping -> billing"}, diags[0].Edges)
	assert.Equal(t, "billing, shipping", diags[0].Subject)
	assert.Contains(t, diags[0].Message, "between 2 nodes")
}

func TestR7_CycleThroughConfig(t *testing.T) {
	b := coretest.NewBuilder(nil).
		Class("billing.BillingService", coretest.Tags(core.TagServiceFacade), coretest.Refs("config.AppConfig")).
		Class("config.AppConfig", coretest.Tags(core.TagConfigType), coretest.Refs("billing.BillingService"))

	diags := checkCycleFreedom(newContext(b))
	require.Len(t, diags, 1)
	assert.Equal(t, "billing, config", diags[0].Subject)
	assert.Contains(t, diags[0].Message, "dependency cycle between 2 nodes")
}

func TestR7_CycleFreedom(t *testing.T) {
	tests := []struct {
		name      string
		build     func(b *coretest.Builder)
		wantDiags int
		wantEdges int
	}{
		{
			name: "acyclic - should not flag",
			build: func(b *coretest.Builder) {
				b.Class("billing.BillingService", coretest.Tags(core.TagServiceFacade), coretest.Refs("shipping.ShippingService"))
				b.Class("shipping.ShippingService", coretest.Tags(core.TagServiceFacade), coretest.Refs("common.Money"))
				b.Class("common.Money")
			},
			wantDiags: 0,
		},
		{
			name: "three module cycle",
			build: func(b *coretest.Builder) {
				b.Class("a.AService", coretest.Tags(core.TagServiceFacade), coretest.Refs("b.BService"))
				b.Class("b.BService", coretest.Tags(core.TagServiceFacade), coretest.Refs("c.CService"))
				b.Class("c.CService", coretest.Tags(core.TagServiceFacade), coretest.Refs("a.AService"))
			},
			wantDiags: 1,
			wantEdges: 3,
		},
		{
			name: "two independent cycles",
			build: func(b *coretest.Builder) {
				b.Class("a.AService", coretest.Tags(core.TagServiceFacade), coretest.Refs("b.BService"))
				b.Class("b.BService", coretest.Tags(core.TagServiceFacade), coretest.Refs("a.AService"))
				b.Class("c.CService", coretest.Tags(core.TagServiceFacade), coretest.Refs("d.DService"))
				b.Class("d.DService", coretest.Tags(core.TagServiceFacade), coretest.Refs("c.CService"))
			},
			wantDiags: 2,
			wantEdges: 2,
		},
		{
			name: "cycle through internal classes counts too",
			build: func(b *coretest.Builder) {
				b.Class("a.run.Handler", coretest.Refs("b.run.Handler"))
				b.Class("b.run.Handler", coretest.Refs("a.run.Handler"))
			},
			wantDiags: 1,
			wantEdges: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := coretest.NewBuilder(nil)
			tt.build(b)
			diags := checkCycleFreedom(newContext(b))
			require.Len(t, diags, tt.wantDiags)
			for _, d := range diags {
				assert.Len(t, d.Edges, tt.wantEdges)
			}
		})
	}
}

func TestR8_ReservedNamespace(t *testing.T) {
	tests := []struct {
		name      string
		reserved  []string
		paths     []string
		wantDiags int
	}{
		{name: "canonical layout - should not flag", paths: []string{"config.db", "common.events", "billing.common", "billing.create"}, wantDiags: 0},
		{name: "capitalised Config as module", paths: []string{"Config.db"}, wantDiags: 1},
		{name: "COMMON as module", paths: []string{"COMMON"}, wantDiags: 1},
		{name: "config nested in module", paths: []string{"billing.config"}, wantDiags: 1},
		{name: "config nested in config", paths: []string{"config.config"}, wantDiags: 1},
		{name: "misspelled common in module", paths: []string{"billing.Common"}, wantDiags: 1},
		{name: "extra reserved word as module", reserved: []string{"shared"}, paths: []string{"shared.util"}, wantDiags: 1},
		{name: "extra reserved word deeper - should not flag", reserved: []string{"shared"}, paths: []string{"billing.shared"}, wantDiags: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := core.DefaultRuleSetConfig()
			cfg.ReservedNames = append(cfg.ReservedNames, tt.reserved...)
			b := coretest.NewBuilder(cfg)
			for _, p := range tt.paths {
				b.Namespace(p)
			}
			diags := checkReservedNamespace(newContext(b))
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}
