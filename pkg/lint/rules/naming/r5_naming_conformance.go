package naming

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/lint"
)

// suffixedRoles are the roles R5 enforces a suffix for.
var suffixedRoles = []core.Tag{
	core.TagPersistentEntity,
	core.TagRepositoryInterface,
	core.TagServiceFacade,
	core.TagErrorEnum,
}

func init() {
	lint.Register(lint.RuleDef{
		ID:          "R5",
		Name:        "naming-conformance",
		Group:       "naming",
		Description: "Role-tagged classes carry the configured suffix; service facades sit at the module root",
		Severity:    core.SeverityError,
		Check:       checkNamingConformance,

		Rationale: `Suffixes make a class's role visible at every call site, and a single facade at the module
root makes the public surface obvious.`,
		Fix: "Rename the class to end with the configured suffix; move the Service facade to the module root.",
	})
}

// checkNamingConformance flags role/suffix mismatches and misplaced facades.
func checkNamingConformance(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	rs := ctx.RuleSet()

	for _, c := range ctx.Model().Classes() {
		for _, role := range suffixedRoles {
			if !c.Tags.Has(role) {
				continue
			}
			suffix, ok := rs.SuffixFor(role)
			if !ok {
				continue
			}
			if len(c.Name) <= len(suffix) || !strings.HasSuffix(c.Name, suffix) {
				diagnostics = append(diagnostics, ctx.ClassDiagnostic("R5", c,
					fmt.Sprintf("%s '%s' must be named '<Name>%s'", role, c.Name, suffix)))
			}
		}

		if c.Tags.Has(core.TagServiceFacade) {
			mod := c.Namespace.Module()
			switch {
			case mod == nil:
				diagnostics = append(diagnostics, ctx.ClassDiagnostic("R5", c,
					fmt.Sprintf("service facade '%s' does not belong to any module", c.FQN)))
			case c.Namespace != mod:
				diagnostics = append(diagnostics, ctx.ClassDiagnostic("R5", c,
					fmt.Sprintf("service facade '%s' must reside at the root of module '%s'", c.FQN, mod.Path)))
			}
		}
	}

	return diagnostics
}
