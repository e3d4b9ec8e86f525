// Package dag provides a small directed graph used for module dependencies.
// Strongly connected components are found iteratively, and every listing is
// sorted so results do not depend on insertion order.
package dag

import (
	"fmt"
	"sort"
)

// Node represents a node in the graph.
type Node struct {
	// ID is the unique identifier (module path)
	ID string
	// Data holds arbitrary node data
	Data any
}

// Graph is a directed graph. An edge from -> to means "from depends on to".
type Graph struct {
	nodes map[string]*Node
	out   map[string][]string // from -> targets, sorted
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		out:   make(map[string][]string),
	}
}

// AddNode adds a node to the graph.
func (g *Graph) AddNode(id string, data any) {
	if n, exists := g.nodes[id]; exists {
		n.Data = data
		return
	}
	g.nodes[id] = &Node{ID: id, Data: data}
	g.out[id] = []string{}
}

// AddEdge adds a directed edge. Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to string) error {
	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("source node %q does not exist", from)
	}
	if _, exists := g.nodes[to]; !exists {
		return fmt.Errorf("target node %q does not exist", to)
	}
	if from == to {
		return fmt.Errorf("self-loop detected: %s", from)
	}

	g.out[from] = insertSorted(g.out[from], to)
	return nil
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// NodeIDs returns all node IDs sorted.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.out {
		count += len(targets)
	}
	return count
}

// Subgraph returns a new graph containing only the specified nodes and their edges.
func (g *Graph) Subgraph(nodeIDs []string) *Graph {
	subgraph := NewGraph()
	nodeSet := make(map[string]bool, len(nodeIDs))

	for _, id := range nodeIDs {
		if node, exists := g.nodes[id]; exists {
			nodeSet[id] = true
			subgraph.AddNode(id, node.Data)
		}
	}
	for id := range nodeSet {
		for _, to := range g.out[id] {
			if nodeSet[to] {
				_ = subgraph.AddEdge(id, to)
			}
		}
	}
	return subgraph
}

// Edges returns every edge as [from, to] pairs, sorted.
func (g *Graph) Edges() [][2]string {
	var edges [][2]string
	for _, from := range g.NodeIDs() {
		for _, to := range g.out[from] {
			edges = append(edges, [2]string{from, to})
		}
	}
	return edges
}

func insertSorted(slice []string, s string) []string {
	i := sort.SearchStrings(slice, s)
	if i < len(slice) && slice[i] == s {
		return slice
	}
	slice = append(slice, "")
	copy(slice[i+1:], slice[i:])
	slice[i] = s
	return slice
}
