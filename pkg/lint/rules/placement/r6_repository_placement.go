package placement

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "R6",
		Name:        "repository-placement",
		Group:       "placement",
		Description: "Repositories live in their only use case, or in the module's common namespace when shared",
		Severity:    core.SeverityError,
		Check:       checkRepositoryPlacement,

		Rationale: `A repository used by one use case is part of that use case. Once a second use case needs it,
it becomes shared module infrastructure and belongs in common. No other module may touch it.`,
		Fix: "Move the repository next to its single use case or into <module>.common; other modules go through the Service facade.",
	})
}

// checkRepositoryPlacement applies the placement rule by counting the
// distinct use cases referencing each repository.
func checkRepositoryPlacement(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	m := ctx.Model()

	for _, repo := range m.Classes() {
		if !repo.Tags.Has(core.TagRepositoryInterface) {
			continue
		}
		mod := repo.Namespace.Module()
		if mod == nil {
			continue
		}

		var outside []string
		useCases := make(map[*core.Namespace]bool)
		for _, dep := range ctx.Graph().Dependents(repo) {
			if dep.Namespace.Module() != mod {
				outside = append(outside, dep.FQN)
				continue
			}
			if uc := m.UseCaseOf(dep); uc != nil {
				useCases[uc] = true
			}
		}

		if len(outside) > 0 {
			d := ctx.ClassDiagnostic("R6", repo,
				fmt.Sprintf("repository '%s' of module '%s' is referenced from outside the module by %s",
					repo.FQN, mod.Path, strings.Join(outside, ", ")))
			for _, from := range outside {
				d.Edges = append(d.Edges, lint.FormatEdge(from, repo.FQN))
			}
			diagnostics = append(diagnostics, d)
		}

		switch {
		case len(useCases) == 1:
			var uc *core.Namespace
			for ns := range useCases {
				uc = ns
			}
			if !repo.Namespace.Within(uc) {
				diagnostics = append(diagnostics, ctx.ClassDiagnostic("R6", repo,
					fmt.Sprintf("repository '%s' is used only by use case '%s' and must live in it", repo.FQN, uc.Path)))
			}
		case len(useCases) >= 2:
			common := mod.ChildOfKind(core.KindCommon)
			if common == nil || !repo.Namespace.Within(common) {
				diagnostics = append(diagnostics, ctx.ClassDiagnostic("R6", repo,
					fmt.Sprintf("repository '%s' is shared by %d use cases (%s) and must live in '%s'",
						repo.FQN, len(useCases), useCaseList(useCases), core.JoinPath(mod.Path, ctx.RuleSet().CommonNamespace))))
			}
		}
	}

	return diagnostics
}

func useCaseList(useCases map[*core.Namespace]bool) string {
	paths := make([]string, 0, len(useCases))
	for uc := range useCases {
		paths = append(paths, uc.Path)
	}
	sort.Strings(paths)
	return strings.Join(paths, ", ")
}
