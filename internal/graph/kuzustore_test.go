//go:build cgo

package graph

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a fresh in-memory KuzuStore with an initialized schema.
// It registers a cleanup function to close the store when the test finishes.
func newTestStore(t *testing.T) *KuzuStore {
	t.Helper()
	s, err := NewKuzuStore()
	require.NoError(t, err, "NewKuzuStore should not fail")
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.InitSchema(ctx), "InitSchema should not fail")
	return s
}

func TestKuzuStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		return newTestStore(t)
	})
}

func TestKuzuStore_InitSchema(t *testing.T) {
	s, err := NewKuzuStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()

	// First call creates the tables.
	require.NoError(t, s.InitSchema(ctx))

	// Second call should be idempotent (IF NOT EXISTS).
	require.NoError(t, s.InitSchema(ctx))
}

func TestKuzuStore_AddEdgeRequiresClasses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// MATCH finds nothing, so no edge is created.
	require.NoError(t, s.AddEdge(ctx, EdgeData{Source: "A", Target: "B"}))
	edges, err := s.GetAllEdges(ctx)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestKuzuFileStore_Persists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "graph.kuzu")
	ctx := context.Background()
	g := sampleGraph()

	s, err := NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, Save(ctx, s, g))
	require.NoError(t, s.Close())

	reopened, err := NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	require.NoError(t, reopened.InitSchema(ctx))

	got, err := Load(ctx, reopened)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes, got.Nodes)
	assert.Equal(t, g.Edges, got.Edges)

	// Appending after reopen keeps the stored order.
	require.NoError(t, reopened.AddClass(ctx, NodeData{ID: "Late"}))
	classes, err := reopened.GetAllClasses(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Late", classes[len(classes)-1].ID)
}
