package isolation

import (
	"fmt"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "R2",
		Name:        "module-boundary",
		Group:       "isolation",
		Description: "Cross-module dependencies must target the module's public surface",
		Severity:    core.SeverityError,
		Check:       checkModuleBoundary,

		Rationale: `A bounded context exposes only its service facade and its event types. Reaching into any
other class turns an internal detail into an undeclared contract between modules.`,
		Fix: "Call the target module's Service facade or listen to one of its events.",
	})
}

// checkModuleBoundary flags every boundary-violating cross-module edge.
func checkModuleBoundary(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	for _, e := range ctx.Graph().CrossEdges() {
		if e.Valid {
			continue
		}
		d := ctx.ClassDiagnostic("R2", e.From,
			fmt.Sprintf("'%s' depends on internal class '%s' of module '%s'", e.From.FQN, e.To.FQN, e.ToNode))
		d.Edges = []string{lint.FormatEdge(e.From.FQN, e.To.FQN)}
		diagnostics = append(diagnostics, d)
	}

	return diagnostics
}
