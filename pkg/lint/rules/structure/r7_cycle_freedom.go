package structure

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "R7",
		Name:        "cycle-freedom",
		Group:       "structure",
		Description: "The module dependency graph must be acyclic",
		Severity:    core.SeverityError,
		Check:       checkCycleFreedom,

		Rationale: `Modules in a cycle can only be understood, tested and released together. No cycle size is
acceptable.`,
		Fix: "Invert one dependency with an event, or extract the shared part into a new module.",
	})
}

// checkCycleFreedom reports one diagnostic per strongly connected component
// of the condensation graph, listing every edge inside it.
func checkCycleFreedom(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	m := ctx.Model()
	g := ctx.Graph()

	for _, component := range g.Cycles() {
		var edges []string
		for _, e := range g.CycleEdges(component) {
			edges = append(edges, lint.FormatEdge(e[0], e[1]))
		}

		var suppressors []lint.Suppressor
		for _, node := range component {
			if ns, ok := m.Namespace(node); ok {
				suppressors = append(suppressors, ns)
			} else {
				suppressors = append(suppressors, m.Root())
			}
		}

		location := ""
		if ns, ok := m.Namespace(component[0]); ok {
			location = ns.Location
		}

		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:      "R7",
			Module:      component[0],
			Subject:     strings.Join(component, ", "),
			Message:     fmt.Sprintf("dependency cycle between %d nodes: %s", len(component), strings.Join(edges, ", ")),
			Location:    location,
			Edges:       edges,
			Suppressors: suppressors,
		})
	}

	return diagnostics
}
