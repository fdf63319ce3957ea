package graph

import "sort"

// Cluster is a weakly connected group of classes: every member reaches every
// other member when edge direction is ignored.
type Cluster struct {
	Name    string   `json:"name"` // first member in node order
	Members []string `json:"members"`
	Edges   int      `json:"edges"`
}

// ComputeClusters finds the weakly connected components of g.
//
// Algorithm:
//  1. Build an undirected adjacency list from the graph's edges.
//  2. Find connected components via BFS, starting from nodes in node order.
//  3. Count the edges inside each component.
//
// Nodes only exist when they touch an edge, so every component has at least
// two members.
func ComputeClusters(g *Graph) []Cluster {
	adj := buildAdjacency(g)
	order := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		order[n.ID] = i
	}

	visited := make(map[string]bool, len(g.Nodes))
	memberOf := make(map[string]int, len(g.Nodes))
	var clusters []Cluster

	for _, n := range g.Nodes {
		if visited[n.ID] {
			continue
		}
		component := bfsComponent(n.ID, adj, visited)
		sort.Slice(component, func(i, j int) bool { return order[component[i]] < order[component[j]] })
		for _, m := range component {
			memberOf[m] = len(clusters)
		}
		clusters = append(clusters, Cluster{Name: component[0], Members: component})
	}

	for _, e := range g.Edges {
		if i, ok := memberOf[e.Source]; ok {
			clusters[i].Edges++
		}
	}
	return clusters
}

// buildAdjacency constructs a bidirectional adjacency list from the graph's
// edges in a single pass.
func buildAdjacency(g *Graph) map[string]map[string]bool {
	adj := make(map[string]map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		adj[n.ID] = make(map[string]bool)
	}
	for _, e := range g.Edges {
		if adj[e.Source] != nil && adj[e.Target] != nil {
			adj[e.Source][e.Target] = true
			adj[e.Target][e.Source] = true
		}
	}
	return adj
}

// bfsComponent performs BFS from start on the adjacency list and returns
// all reachable nodes. It marks visited nodes as it goes.
func bfsComponent(start string, adj map[string]map[string]bool, visited map[string]bool) []string {
	var component []string
	queue := []string{start}
	visited[start] = true

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		component = append(component, node)
		for neighbor := range adj[node] {
			if !visited[neighbor] {
				visited[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}

	return component
}
