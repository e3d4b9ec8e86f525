// Package lint provides the architecture rule engine.
//
// # Architecture
//
// The lint package holds the shared contracts and the analyzer; the rules
// themselves live in group packages under pkg/lint/rules:
//
//   - isolation: R1 config-isolation, R2 module-boundary, R3 use-case-isolation
//   - placement: R4 transaction-placement, R6 repository-placement
//   - naming: R5 naming-conformance
//   - structure: R7 cycle-freedom, R8 reserved-namespace
//
// # Rule Registration
//
// Rules are registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/archlint/pkg/lint/rules"
//
// # Rule Contract
//
// A rule is a pure function over a read-only Context (model, dependency graph
// and rule-set configuration). Rules never see each other's output, so the
// analyzer evaluates them in parallel and merges the results in rule ID order.
//
// # Configuration
//
// Use Config to control which rules run and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("R3")
//	config.SetSeverity("R5", core.SeverityWarning)
//	config.Suppress("R4")
package lint
