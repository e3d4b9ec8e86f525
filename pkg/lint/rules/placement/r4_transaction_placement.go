package placement

import (
	"fmt"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "R4",
		Name:        "transaction-placement",
		Group:       "placement",
		Description: "Transaction boundaries may only be declared inside use cases",
		Severity:    core.SeverityError,
		Check:       checkTransactionPlacement,

		Rationale: `A use case is the unit of work. Transactions opened in facades, repositories or shared code
nest unpredictably and hide which operation owns the commit.`,
		Fix: "Move the transactional method into the owning use case, or record a reviewed exception in escape_hatch_allow_list.",
	})
}

// checkTransactionPlacement flags transactional classes that are neither
// owned by a use case nor on the escape-hatch allow-list.
func checkTransactionPlacement(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	m := ctx.Model()
	allowList := ctx.RuleSet().EscapeHatchAllowList
	root := ctx.RuleSet().RootNamespace

	for _, c := range m.Classes() {
		if !c.Transactional || m.UseCaseOf(c) != nil {
			continue
		}
		if lint.MatchesAllowList(allowList, root, c.FQN) {
			continue
		}
		diagnostics = append(diagnostics, ctx.ClassDiagnostic("R4", c,
			fmt.Sprintf("'%s' declares a transaction outside a use case (namespace '%s' is %s)",
				c.FQN, c.Namespace.DisplayPath(), c.Namespace.Kind)))
	}

	return diagnostics
}
