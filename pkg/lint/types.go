package lint

import (
	"github.com/leapstack-labs/archlint/pkg/core"
)

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameter.
type RuleDef struct {
	ID          string        // Unique identifier, e.g., "R2"
	Name        string        // Human-readable name, e.g., "module-boundary"
	Group       string        // Category: "isolation", "placement", "naming", "structure"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	Check       CheckFunc     // The check function

	// Documentation fields for richer rule documentation
	Rationale string // Why this rule exists, what problems it prevents
	Fix       string // How to fix violations
}

// Info returns the rule metadata for documentation and tooling.
func (r RuleDef) Info() core.RuleInfo {
	return core.RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		Rationale:       r.Rationale,
		Fix:             r.Fix,
	}
}

// CheckFunc evaluates a rule over the context and returns diagnostics.
type CheckFunc func(ctx *Context) []Diagnostic

// Suppressor is anything that can carry suppression markers:
// classes and namespaces.
type Suppressor interface {
	Suppresses(ruleID string) bool
}

// Diagnostic is a rule violation.
type Diagnostic struct {
	RuleID   string
	Severity core.Severity
	Module   string // module (or special node) the subject belongs to
	Subject  string // class FQN or namespace path
	Message  string
	Location string
	Edges    []string // participating dependency edges, "from -> to"

	// Suppressed is set by the analyzer. Suppressed diagnostics stay in the
	// report but never fail the run.
	Suppressed bool

	// Suppressors are the model elements whose markers may suppress this
	// diagnostic. All of them must suppress the rule.
	Suppressors []Suppressor
}

// suppressedByMarkers reports whether every suppressor suppresses the rule.
func (d Diagnostic) suppressedByMarkers() bool {
	if len(d.Suppressors) == 0 {
		return false
	}
	for _, s := range d.Suppressors {
		if s == nil || !s.Suppresses(d.RuleID) {
			return false
		}
	}
	return true
}
