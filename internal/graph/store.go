package graph

import (
	"context"
	"fmt"
	"io"
)

// Store is the interface for persisted dependency graphs.
// Implementations: KuzuStore (production), MemStore (tests and the MCP
// server's last-rendered graph).
type Store interface {
	io.Closer

	// Schema setup. Called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Reset removes every class and edge.
	Reset(ctx context.Context) error

	// Write operations. Insertion order is preserved on read.
	AddClass(ctx context.Context, node NodeData) error
	AddEdge(ctx context.Context, edge EdgeData) error

	// Read operations.
	GetClass(ctx context.Context, id string) (*NodeData, error)
	GetAllClasses(ctx context.Context) ([]NodeData, error)
	GetAllEdges(ctx context.Context) ([]EdgeData, error)

	// Graph traversal.
	GetDependencies(ctx context.Context, class string, direction Direction, maxDepth int) ([]DependencyChain, error)

	// Stats.
	Stats(ctx context.Context) (*GraphStats, error)
}

// Save replaces the contents of store with g.
func Save(ctx context.Context, store Store, g *Graph) error {
	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	for _, n := range g.Nodes {
		if err := store.AddClass(ctx, n); err != nil {
			return fmt.Errorf("add class %s: %w", n.ID, err)
		}
	}
	for _, e := range g.Edges {
		if err := store.AddEdge(ctx, e); err != nil {
			return fmt.Errorf("add edge %s->%s: %w", e.Source, e.Target, err)
		}
	}
	return nil
}

// Load reads the graph held by store.
func Load(ctx context.Context, store Store) (*Graph, error) {
	nodes, err := store.GetAllClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("get classes: %w", err)
	}
	edges, err := store.GetAllEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("get edges: %w", err)
	}
	if nodes == nil {
		nodes = []NodeData{}
	}
	if edges == nil {
		edges = []EdgeData{}
	}
	return &Graph{Nodes: nodes, Edges: edges}, nil
}
