package isolation

import (
	"fmt"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "R3",
		Name:        "use-case-isolation",
		Group:       "isolation",
		Description: "Triggered use cases must not depend on one another",
		Severity:    core.SeverityError,
		Check:       checkUseCaseIsolation,

		Rationale: `Each use case is started by exactly one trigger (an endpoint, an event type or its listener) and owns
the classes it needs. Sharing classes between use cases couples operations that must evolve independently.`,
		Fix: "Move the shared class to the module's common namespace, or duplicate the small piece of logic.",
	})
}

// checkUseCaseIsolation flags edges between classes owned by two different
// triggered use cases. A use case may still reach into its own helper
// sub-namespaces, even when those hold triggers of their own.
func checkUseCaseIsolation(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	m := ctx.Model()

	for _, e := range ctx.Graph().Edges() {
		from, to := m.UseCaseOf(e.From), m.UseCaseOf(e.To)
		if from == nil || to == nil || from == to {
			continue
		}
		if !m.IsTriggered(from) || !m.IsTriggered(to) {
			continue
		}
		if e.To.Namespace.Within(from) {
			continue
		}
		d := ctx.ClassDiagnostic("R3", e.From,
			fmt.Sprintf("use case '%s' depends on '%s' owned by use case '%s'", from.Path, e.To.FQN, to.Path))
		d.Edges = []string{lint.FormatEdge(e.From.FQN, e.To.FQN)}
		diagnostics = append(diagnostics, d)
	}

	return diagnostics
}
