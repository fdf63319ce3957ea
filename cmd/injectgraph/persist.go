//go:build cgo

package main

import (
	"context"
	"fmt"

	"github.com/dusk-indust/injectgraph/internal/graph"
)

// persistGraph replaces the graph held in the Kuzu database at dir with g.
func persistGraph(ctx context.Context, dir string, g *graph.Graph) error {
	store, err := graph.NewKuzuFileStore(dir)
	if err != nil {
		return fmt.Errorf("open graph store: %w", err)
	}
	defer store.Close()

	return graph.Save(ctx, store, g)
}

// loadPersisted reads the graph last persisted to dir.
func loadPersisted(ctx context.Context, dir string) (*graph.Graph, error) {
	store, err := graph.NewKuzuFileStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open graph store: %w", err)
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		return nil, err
	}
	return graph.Load(ctx, store)
}
