package graph

import (
	"context"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go slices and maps. Thread-safe via
// sync.RWMutex.
type MemStore struct {
	mu      sync.RWMutex
	classes []NodeData
	byID    map[string]int // index into classes
	edges   []EdgeData
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[string]int)}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// Reset drops all classes and edges.
func (m *MemStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes = nil
	m.byID = make(map[string]int)
	m.edges = nil
	return nil
}

// AddClass stores a class node keyed by its id. Re-adding an id replaces its
// degrees in place.
func (m *MemStore) AddClass(_ context.Context, node NodeData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.byID[node.ID]; ok {
		m.classes[i] = node
		return nil
	}
	m.byID[node.ID] = len(m.classes)
	m.classes = append(m.classes, node)
	return nil
}

// AddEdge appends an edge to the internal slice.
func (m *MemStore) AddEdge(_ context.Context, edge EdgeData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append(m.edges, edge)
	return nil
}

// GetClass returns the class with the given id, or nil if not found.
func (m *MemStore) GetClass(_ context.Context, id string) (*NodeData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	n := m.classes[i]
	return &n, nil
}

// GetAllClasses returns a copy of all classes in insertion order.
func (m *MemStore) GetAllClasses(_ context.Context) ([]NodeData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]NodeData, len(m.classes))
	copy(out, m.classes)
	return out, nil
}

// GetAllEdges returns a copy of all edges in the store.
func (m *MemStore) GetAllEdges(_ context.Context) ([]EdgeData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]EdgeData, len(m.edges))
	copy(out, m.edges)
	return out, nil
}

// GetDependencies performs a BFS on edges from class in the given direction,
// up to maxDepth hops.
func (m *MemStore) GetDependencies(_ context.Context, class string, direction Direction, maxDepth int) ([]DependencyChain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Dependencies(m.edges, class, direction, maxDepth), nil
}

// Stats returns node, edge, root and leaf counts.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := ComputeStats(&Graph{Nodes: m.classes, Edges: m.edges})
	return &stats, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
