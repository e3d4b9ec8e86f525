package lint

import (
	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/depgraph"
)

// Context provides all data a rule may read. It is shared read-only by
// rules running in parallel.
type Context struct {
	graph   *depgraph.Graph
	ruleSet *core.RuleSetConfig
}

// NewContext creates a rule context. A nil rule set uses the defaults.
func NewContext(graph *depgraph.Graph, ruleSet *core.RuleSetConfig) *Context {
	if ruleSet == nil {
		ruleSet = core.DefaultRuleSetConfig()
	}
	return &Context{graph: graph, ruleSet: ruleSet}
}

// Model returns the structural model.
func (c *Context) Model() *core.Model { return c.graph.Model() }

// Graph returns the dependency graph.
func (c *Context) Graph() *depgraph.Graph { return c.graph }

// RuleSet returns the rule-set configuration.
func (c *Context) RuleSet() *core.RuleSetConfig { return c.ruleSet }

// ModuleOf returns the display name of the module or special node a class belongs to.
func (c *Context) ModuleOf(class *core.ClassUnit) string {
	return c.Model().NodeOf(class)
}

// ModuleOfNamespace returns the display name of the module a namespace belongs to.
func (c *Context) ModuleOfNamespace(ns *core.Namespace) string {
	if mod := ns.Module(); mod != nil {
		return mod.Path
	}
	top := ns
	for top.Parent != nil && !top.Parent.IsRoot() {
		top = top.Parent
	}
	return top.DisplayPath()
}

// ClassDiagnostic builds a diagnostic about a class, suppressible by the
// class's own or its namespaces' markers.
func (c *Context) ClassDiagnostic(ruleID string, class *core.ClassUnit, message string) Diagnostic {
	return Diagnostic{
		RuleID:      ruleID,
		Module:      c.ModuleOf(class),
		Subject:     class.FQN,
		Message:     message,
		Location:    class.Location,
		Suppressors: []Suppressor{class},
	}
}

// NamespaceDiagnostic builds a diagnostic about a namespace.
func (c *Context) NamespaceDiagnostic(ruleID string, ns *core.Namespace, message string) Diagnostic {
	return Diagnostic{
		RuleID:      ruleID,
		Module:      c.ModuleOfNamespace(ns),
		Subject:     ns.DisplayPath(),
		Message:     message,
		Location:    ns.Location,
		Suppressors: []Suppressor{ns},
	}
}

// FormatEdge renders a dependency edge.
func FormatEdge(from, to string) string {
	return from + " -> " + to
}
