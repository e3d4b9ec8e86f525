// Package depgraph builds the class reference graph and the module
// condensation graph for a structural model.
//
// The graph is derived once from an immutable model and is read-only
// afterwards, so it can be shared by rules evaluated in parallel.
package depgraph

import (
	"sort"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/dag"
)

// Edge is a dependency from one class to another.
type Edge struct {
	From *core.ClassUnit
	To   *core.ClassUnit
}

// CrossEdge is a class edge that crosses condensation node boundaries.
type CrossEdge struct {
	Edge
	FromNode string
	ToNode   string
	// Valid is true when the target is part of the target module's public
	// surface or the target node is a special (non-module) node.
	Valid bool
}

// Graph holds the class graph and the module condensation graph.
type Graph struct {
	model     *core.Model
	edges     []Edge
	in        map[*core.ClassUnit][]*core.ClassUnit
	condensed *dag.Graph
	special   map[string]bool
	crossing  []CrossEdge
	cycles    [][]string
	cycleOf   map[string]int // node -> index into cycles
}

// Build derives the dependency graphs from m. References to unknown classes
// and self references are skipped; duplicate references collapse to one edge.
func Build(m *core.Model) *Graph {
	g := &Graph{
		model:     m,
		in:        make(map[*core.ClassUnit][]*core.ClassUnit),
		condensed: dag.NewGraph(),
		special:   make(map[string]bool),
		cycleOf:   make(map[string]int),
	}

	for _, mod := range m.Modules() {
		g.condensed.AddNode(mod.Path, mod)
	}

	for _, c := range m.Classes() {
		node := m.NodeOf(c)
		if _, ok := g.condensed.GetNode(node); !ok {
			g.condensed.AddNode(node, nil)
			g.special[node] = true
		}

		seen := make(map[*core.ClassUnit]bool)
		for _, ref := range c.References {
			target, ok := m.Class(ref)
			if !ok || target == c || seen[target] {
				continue
			}
			seen[target] = true
			g.edges = append(g.edges, Edge{From: c, To: target})
			g.in[target] = append(g.in[target], c)
		}
	}

	sort.Slice(g.edges, func(i, j int) bool { return edgeLess(g.edges[i], g.edges[j]) })
	for _, deps := range g.in {
		sort.Slice(deps, func(i, j int) bool { return deps[i].FQN < deps[j].FQN })
	}

	for _, e := range g.edges {
		from, to := m.NodeOf(e.From), m.NodeOf(e.To)
		if from == to {
			continue
		}
		if _, ok := g.condensed.GetNode(to); !ok {
			g.condensed.AddNode(to, nil)
			g.special[to] = true
		}
		ce := CrossEdge{
			Edge:     e,
			FromNode: from,
			ToNode:   to,
			Valid:    g.special[to] || m.IsPublic(e.To),
		}
		g.crossing = append(g.crossing, ce)
		_ = g.condensed.AddEdge(from, to)
	}

	g.cycles = g.condensed.Cycles()
	for i, c := range g.cycles {
		for _, id := range c {
			g.cycleOf[id] = i
		}
	}
	return g
}

func edgeLess(a, b Edge) bool {
	if a.From.FQN != b.From.FQN {
		return a.From.FQN < b.From.FQN
	}
	return a.To.FQN < b.To.FQN
}

// Model returns the model the graph was built from.
func (g *Graph) Model() *core.Model { return g.model }

// Edges returns every class edge sorted by source then target FQN.
func (g *Graph) Edges() []Edge { return g.edges }

// Dependents returns the classes referencing c, sorted by FQN.
func (g *Graph) Dependents(c *core.ClassUnit) []*core.ClassUnit { return g.in[c] }

// Condensation returns the module-level graph.
func (g *Graph) Condensation() *dag.Graph { return g.condensed }

// CrossEdges returns every class edge crossing node boundaries, sorted.
func (g *Graph) CrossEdges() []CrossEdge { return g.crossing }

// Cycles returns the non-trivial strongly connected components of the
// condensation graph, computed at build time.
func (g *Graph) Cycles() [][]string { return g.cycles }

// CycleOf returns the cycle a condensation node takes part in, or nil.
func (g *Graph) CycleOf(node string) []string {
	i, ok := g.cycleOf[node]
	if !ok {
		return nil
	}
	return g.cycles[i]
}

// CycleEdges returns the node edges inside the component, sorted.
func (g *Graph) CycleEdges(component []string) [][2]string {
	return g.condensed.Subgraph(component).Edges()
}
