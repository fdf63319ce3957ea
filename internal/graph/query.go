package graph

// adjacency indexes edges of g by endpoint for one traversal direction.
func adjacency(edges []EdgeData, direction Direction) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range edges {
		switch direction {
		case DirectionUpstream:
			// upstream: class depends on others -> follow source to target
			adj[e.Source] = append(adj[e.Source], e.Target)
		case DirectionDownstream:
			// downstream: others depend on class -> follow target to source
			adj[e.Target] = append(adj[e.Target], e.Source)
		}
	}
	return adj
}

// Dependencies performs a BFS from class in the given direction, up to
// maxDepth hops. It returns one DependencyChain per reachable class, in BFS
// order with neighbors in edge insertion order.
func Dependencies(edges []EdgeData, class string, direction Direction, maxDepth int) []DependencyChain {
	if maxDepth <= 0 {
		return nil
	}
	adj := adjacency(edges, direction)

	// BFS state: each entry tracks the path from class to the current node.
	type bfsEntry struct {
		id   string
		path []string
	}

	visited := map[string]bool{class: true}
	queue := []bfsEntry{{id: class, path: []string{class}}}
	var chains []DependencyChain

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var nextQueue []bfsEntry
		for _, entry := range queue {
			for _, nb := range adj[entry.id] {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				newPath := make([]string, len(entry.path), len(entry.path)+1)
				copy(newPath, entry.path)
				newPath = append(newPath, nb)
				chains = append(chains, DependencyChain{
					Nodes: newPath,
					Depth: len(newPath) - 1,
				})
				nextQueue = append(nextQueue, bfsEntry{id: nb, path: newPath})
			}
		}
		queue = nextQueue
	}

	return chains
}

// ComputeStats counts nodes, edges, roots and leaves of g.
func ComputeStats(g *Graph) GraphStats {
	stats := GraphStats{NodeCount: len(g.Nodes), EdgeCount: len(g.Edges)}
	for _, n := range g.Nodes {
		if n.In == 0 {
			stats.RootCount++
		}
		if n.Out == 0 {
			stats.LeafCount++
		}
	}
	return stats
}
