package isolation

import (
	"fmt"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "R1",
		Name:        "config-isolation",
		Group:       "isolation",
		Description: "Configuration types may only be referenced from config namespaces",
		Severity:    core.SeverityError,
		Check:       checkConfigIsolation,

		Rationale: `Configuration classes wire the application together. When business code reaches into them,
modules become coupled to deployment concerns and cannot be tested or moved in isolation.`,
		Fix: "Inject the needed value through a use-case or service constructor instead of referencing the configuration type.",
	})
}

// checkConfigIsolation flags edges into ConfigType classes whose source does
// not live inside a Config namespace.
func checkConfigIsolation(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	for _, e := range ctx.Graph().Edges() {
		if !e.To.Tags.Has(core.TagConfigType) || inConfig(e.From.Namespace) {
			continue
		}
		d := ctx.ClassDiagnostic("R1", e.From,
			fmt.Sprintf("'%s' references configuration type '%s' outside a config namespace", e.From.FQN, e.To.FQN))
		d.Edges = []string{lint.FormatEdge(e.From.FQN, e.To.FQN)}
		diagnostics = append(diagnostics, d)
	}

	return diagnostics
}

func inConfig(ns *core.Namespace) bool {
	for cur := ns; cur != nil; cur = cur.Parent {
		if cur.Kind == core.KindConfig {
			return true
		}
	}
	return false
}
