package graph

import "sort"

// FindCycles returns the groups of classes that inject each other directly
// or transitively: the strongly connected components of g with two or more
// members. Members are listed in node order and groups are ordered by their
// first member.
func FindCycles(g *Graph) [][]string {
	order := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		order[n.ID] = i
	}
	adj := adjacency(g.Edges, DirectionUpstream)

	// Tarjan's algorithm; recStack mirrors the DFS stack membership.
	var (
		next     int
		index    = make(map[string]int, len(g.Nodes))
		lowlink  = make(map[string]int, len(g.Nodes))
		recStack = make(map[string]bool, len(g.Nodes))
		stack    []string
		cycles   [][]string
	)

	var visit func(v string)
	visit = func(v string) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		recStack[v] = true

		for _, w := range adj[v] {
			if _, seen := index[w]; !seen {
				visit(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if recStack[w] {
				lowlink[v] = min(lowlink[v], index[w])
			}
		}

		if lowlink[v] != index[v] {
			return
		}
		var component []string
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			recStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		if len(component) > 1 {
			sort.Slice(component, func(i, j int) bool { return order[component[i]] < order[component[j]] })
			cycles = append(cycles, component)
		}
	}

	for _, n := range g.Nodes {
		if _, seen := index[n.ID]; !seen {
			visit(n.ID)
		}
	}

	sort.Slice(cycles, func(i, j int) bool { return order[cycles[i][0]] < order[cycles[j][0]] })
	return cycles
}
