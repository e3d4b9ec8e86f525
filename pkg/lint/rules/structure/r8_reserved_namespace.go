package structure

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "R8",
		Name:        "reserved-namespace",
		Group:       "structure",
		Description: "Reserved names appear only at the namespace kinds they denote",
		Severity:    core.SeverityError,
		Check:       checkReservedNamespace,

		Rationale: `The config and common names carry meaning for every other rule. A module called Common, or a
config namespace buried inside a module, silently changes how the whole tree is classified.`,
		Fix: "Rename the namespace, or move configuration to the top-level config namespace.",
	})
}

// checkReservedNamespace flags bounded contexts named with a reserved word
// and reserved names at a depth or kind they do not denote.
func checkReservedNamespace(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	rs := ctx.RuleSet()

	for _, ns := range ctx.Model().Namespaces() {
		if ns.IsRoot() {
			continue
		}
		switch {
		case ns.Kind == core.KindBoundedContext && rs.IsReserved(ns.Name):
			diagnostics = append(diagnostics, ctx.NamespaceDiagnostic("R8", ns,
				fmt.Sprintf("bounded context '%s' is named with reserved word '%s'", ns.Path, reservedMatch(rs, ns.Name))))
		case strings.EqualFold(ns.Name, rs.ConfigNamespace) && ns.Kind != core.KindConfig:
			diagnostics = append(diagnostics, ctx.NamespaceDiagnostic("R8", ns,
				fmt.Sprintf("reserved namespace '%s' may only appear at the top level (found at depth %d)", ns.Path, ns.Depth)))
		case strings.EqualFold(ns.Name, rs.CommonNamespace) && ns.Kind != core.KindCommon:
			diagnostics = append(diagnostics, ctx.NamespaceDiagnostic("R8", ns,
				fmt.Sprintf("namespace '%s' must be spelled '%s' to act as a common namespace", ns.Path, rs.CommonNamespace)))
		}
	}

	return diagnostics
}

func reservedMatch(rs *core.RuleSetConfig, name string) string {
	for _, r := range rs.AllReservedNames() {
		if strings.EqualFold(r, name) {
			return r
		}
	}
	return name
}
