package isolation

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

func TestR1_ConfigIsolation(t *testing.T) {
	tests := []struct {
		name      string
		build     func(b *coretest.Builder)
		wantDiags int
	}{
		{
			name: "business class referencing config type",
			build: func(b *coretest.Builder) {
				b.Class("config.DataSourceConfig", coretest.Tags(core.TagConfigType))
				b.Class("billing.create.CreateInvoiceHandler", coretest.Refs("config.DataSourceConfig"))
			},
			wantDiags: 1,
		},
		{
			name: "config namespace referencing config type - should not flag",
			build: func(b *coretest.Builder) {
				b.Class("config.DataSourceConfig", coretest.Tags(core.TagConfigType))
				b.Class("config.db.PoolConfig", coretest.Refs("config.DataSourceConfig"))
			},
			wantDiags: 0,
		},
		{
			name: "reference to plain class in config - should not flag",
			build: func(b *coretest.Builder) {
				b.Class("config.Constants")
				b.Class("billing.create.CreateInvoiceHandler", coretest.Refs("config.Constants"))
			},
			wantDiags: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := coretest.NewBuilder(nil)
			tt.build(b)
			diags := checkConfigIsolation(newContext(b))
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}

func TestR2_ModuleBoundary(t *testing.T) {
	tests := []struct {
		name      string
		build     func(b *coretest.Builder)
		wantDiags int
	}{
		{
			name: "reference to internal class of another module",
			build: func(b *coretest.Builder) {
				b.Class("billing.create.InvoiceEntity", coretest.Tags(core.TagPersistentEntity))
				b.Class("shipping.ship.ShipHandler", coretest.Refs("billing.create.InvoiceEntity"))
			},
			wantDiags: 1,
		},
		{
			name: "reference to service facade - should not flag",
			build: func(b *coretest.Builder) {
				b.Class("billing.BillingService", coretest.Tags(core.TagServiceFacade))
				b.Class("shipping.ship.ShipHandler", coretest.Refs("billing.BillingService"))
			},
			wantDiags: 0,
		},
		{
			name: "reference to event in module common - should not flag",
			build: func(b *coretest.Builder) {
				b.Class("billing.common.InvoicePaid", coretest.Tags(core.TagEventType))
				b.Class("shipping.ship.InvoicePaidListener", coretest.Refs("billing.common.InvoicePaid"))
			},
			wantDiags: 0,
		},
		{
			name: "reference to top-level common - should not flag",
			build: func(b *coretest.Builder) {
				b.Class("common.Money")
				b.Class("shipping.ship.ShipHandler", coretest.Refs("common.Money"))
			},
			wantDiags: 0,
		},
		{
			name: "intra-module reference - should not flag",
			build: func(b *coretest.Builder) {
				b.Class("billing.create.InvoiceEntity", coretest.Tags(core.TagPersistentEntity))
				b.Class("billing.cancel.CancelHandler", coretest.Refs("billing.create.InvoiceEntity"))
			},
			wantDiags: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := coretest.NewBuilder(nil)
			tt.build(b)
			diags := checkModuleBoundary(newContext(b))
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}

// Any model whose cross-module edges all target public classes is clean.
func TestR2_NoInternalCrossModuleEdges(t *testing.T) {
	b := coretest.NewBuilder(nil)
	modules := []string{"billing", "shipping", "catalog", "orders"}
	for _, mod := range modules {
		b.Class(mod+".FacadeService", coretest.Tags(core.TagServiceFacade))
		b.Class(mod+".common.Changed", coretest.Tags(core.TagEventType))
		b.Class(mod+".run.Internal", coretest.Tags(core.TagPersistentEntity))
	}
	for i, mod := range modules {
		other := modules[(i+1)%len(modules)]
		b.Class(mod+".run.Caller", coretest.Refs(
			other+".FacadeService",
			other+".common.Changed",
			mod+".run.Internal",
		))
	}

	ctx := newContext(b)
	require.NotEmpty(t, ctx.Graph().CrossEdges())
	assert.Empty(t, checkModuleBoundary(ctx))
}

func TestR3_UseCaseIsolation(t *testing.T) {
	tests := []struct {
		name      string
		build     func(b *coretest.Builder)
		wantDiags int
	}{
		{
			name: "use case depending on sibling use case",
			build: func(b *coretest.Builder) {
				b.Class("billing.create.CreateController", coretest.Tags(core.TagWebEndpoint))
				b.Class("billing.cancel.CancelController", coretest.Tags(core.TagWebEndpoint))
				b.Class("billing.cancel.CancelCalculator")
				b.Class("billing.create.CreateHandler", coretest.Refs("billing.cancel.CancelCalculator"))
			},
			wantDiags: 1,
		},
		{
			name: "event listener use case depending on endpoint use case",
			build: func(b *coretest.Builder) {
				b.Class("billing.create.CreateController", coretest.Tags(core.TagWebEndpoint))
				b.Class("billing.create.CreateHandler")
				b.Class("billing.sync.SyncListener", coretest.Tags(core.TagEventListener), coretest.Refs("billing.create.CreateHandler"))
			},
			wantDiags: 1,
		},
		{
			name: "event type use case depending on endpoint use case",
			build: func(b *coretest.Builder) {
				b.Class("billing.create.CreateController", coretest.Tags(core.TagWebEndpoint))
				b.Class("billing.create.CreateHandler")
				b.Class("billing.settle.InvoiceSettled", coretest.Tags(core.TagEventType))
				b.Class("billing.settle.SettleHandler", coretest.Refs("billing.create.CreateHandler"))
			},
			wantDiags: 1,
		},
		{
			name: "use case referencing own helper sub-namespace - should not flag",
			build: func(b *coretest.Builder) {
				b.Class("billing.create.CreateController", coretest.Tags(core.TagWebEndpoint), coretest.Refs("billing.create.rules.AmountRule"))
				b.Class("billing.create.rules.AmountRule")
			},
			wantDiags: 0,
		},
		{
			name: "use case referencing nested triggered sub use case - should not flag",
			build: func(b *coretest.Builder) {
				b.Class("billing.create.CreateController", coretest.Tags(core.TagWebEndpoint), coretest.Refs("billing.create.preview.PreviewHandler"))
				b.Class("billing.create.preview.PreviewController", coretest.Tags(core.TagWebEndpoint))
				b.Class("billing.create.preview.PreviewHandler")
			},
			wantDiags: 0,
		},
		{
			name: "untriggered namespace - should not flag",
			build: func(b *coretest.Builder) {
				b.Class("billing.create.CreateController", coretest.Tags(core.TagWebEndpoint), coretest.Refs("billing.shared.Formatter"))
				b.Class("billing.shared.Formatter")
			},
			wantDiags: 0,
		},
		{
			name: "cross-module use cases",
			build: func(b *coretest.Builder) {
				b.Class("billing.create.CreateController", coretest.Tags(core.TagWebEndpoint), coretest.Refs("shipping.ship.ShipController"))
				b.Class("shipping.ship.ShipController", coretest.Tags(core.TagWebEndpoint))
			},
			wantDiags: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := coretest.NewBuilder(nil)
			tt.build(b)
			diags := checkUseCaseIsolation(newContext(b))
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}
