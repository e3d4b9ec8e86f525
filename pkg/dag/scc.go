package dag

import "sort"

// StronglyConnectedComponents returns the strongly connected components of the
// graph using an iterative form of Tarjan's algorithm. Each component is
// sorted, and components are ordered by their first ID.
func (g *Graph) StronglyConnectedComponents() [][]string {
	index := 0
	indices := make(map[string]int, len(g.nodes))
	lowlink := make(map[string]int, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))
	var stack []string
	var components [][]string

	type frame struct {
		id   string
		next int
	}

	for _, start := range g.NodeIDs() {
		if _, seen := indices[start]; seen {
			continue
		}

		work := []frame{{id: start}}
		indices[start], lowlink[start] = index, index
		index++
		stack = append(stack, start)
		onStack[start] = true

		for len(work) > 0 {
			top := &work[len(work)-1]
			targets := g.out[top.id]

			if top.next < len(targets) {
				w := targets[top.next]
				top.next++
				if _, seen := indices[w]; !seen {
					indices[w], lowlink[w] = index, index
					index++
					stack = append(stack, w)
					onStack[w] = true
					work = append(work, frame{id: w})
				} else if onStack[w] && indices[w] < lowlink[top.id] {
					lowlink[top.id] = indices[w]
				}
				continue
			}

			v := top.id
			work = work[:len(work)-1]
			if len(work) > 0 {
				caller := work[len(work)-1].id
				if lowlink[v] < lowlink[caller] {
					lowlink[caller] = lowlink[v]
				}
			}

			if lowlink[v] == indices[v] {
				var component []string
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					component = append(component, w)
					if w == v {
						break
					}
				}
				sort.Strings(component)
				components = append(components, component)
			}
		}
	}

	sort.Slice(components, func(i, j int) bool { return components[i][0] < components[j][0] })
	return components
}

// Cycles returns the non-trivial strongly connected components: those with at
// least two nodes. Self loops are rejected by AddEdge so single nodes never cycle.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string
	for _, c := range g.StronglyConnectedComponents() {
		if len(c) > 1 {
			cycles = append(cycles, c)
		}
	}
	return cycles
}
