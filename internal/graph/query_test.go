package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGraph assembles a graph from ordered (source, target) pairs.
func buildGraph(pairs ...[2]string) *Graph {
	a := NewAssembler()
	for _, p := range pairs {
		a.AddEdge(p[0], p[1])
	}
	return a.Graph()
}

func TestDependencies_Upstream(t *testing.T) {
	g := buildGraph(
		[2]string{"Controller", "Service"},
		[2]string{"Service", "Repo"},
		[2]string{"Service", "Cache"},
		[2]string{"Repo", "Db"},
	)

	chains := Dependencies(g.Edges, "Controller", DirectionUpstream, 10)

	require.Len(t, chains, 4)
	assert.Equal(t, []string{"Controller", "Service"}, chains[0].Nodes)
	assert.Equal(t, 1, chains[0].Depth)
	assert.Equal(t, []string{"Controller", "Service", "Repo"}, chains[1].Nodes)
	assert.Equal(t, []string{"Controller", "Service", "Cache"}, chains[2].Nodes)
	assert.Equal(t, []string{"Controller", "Service", "Repo", "Db"}, chains[3].Nodes)
	assert.Equal(t, 3, chains[3].Depth)
}

func TestDependencies_Downstream(t *testing.T) {
	g := buildGraph(
		[2]string{"A", "Db"},
		[2]string{"B", "Db"},
		[2]string{"C", "A"},
	)

	chains := Dependencies(g.Edges, "Db", DirectionDownstream, 10)

	require.Len(t, chains, 3)
	assert.Equal(t, []string{"Db", "A"}, chains[0].Nodes)
	assert.Equal(t, []string{"Db", "B"}, chains[1].Nodes)
	assert.Equal(t, []string{"Db", "A", "C"}, chains[2].Nodes)
}

func TestDependencies_MaxDepth(t *testing.T) {
	g := buildGraph([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"})

	assert.Len(t, Dependencies(g.Edges, "A", DirectionUpstream, 1), 1)
	assert.Len(t, Dependencies(g.Edges, "A", DirectionUpstream, 2), 2)
	assert.Empty(t, Dependencies(g.Edges, "A", DirectionUpstream, 0))
}

func TestDependencies_CycleTerminates(t *testing.T) {
	g := buildGraph([2]string{"A", "B"}, [2]string{"B", "A"})

	chains := Dependencies(g.Edges, "A", DirectionUpstream, 10)
	require.Len(t, chains, 1)
	assert.Equal(t, []string{"A", "B"}, chains[0].Nodes)
}

func TestDependencies_UnknownClass(t *testing.T) {
	g := buildGraph([2]string{"A", "B"})
	assert.Empty(t, Dependencies(g.Edges, "Nope", DirectionUpstream, 10))
}

func TestComputeStats(t *testing.T) {
	g := buildGraph(
		[2]string{"A", "B"},
		[2]string{"A", "C"},
		[2]string{"B", "C"},
		[2]string{"D", "C"},
	)

	stats := ComputeStats(g)
	assert.Equal(t, GraphStats{NodeCount: 4, EdgeCount: 4, RootCount: 2, LeafCount: 1}, stats)

	assert.Equal(t, GraphStats{}, ComputeStats(&Graph{}))
}

func TestFindCycles(t *testing.T) {
	g := buildGraph(
		[2]string{"A", "B"},
		[2]string{"B", "C"},
		[2]string{"C", "A"},
		[2]string{"C", "D"},
		[2]string{"E", "F"},
		[2]string{"F", "E"},
		[2]string{"G", "D"},
	)

	cycles := FindCycles(g)

	assert.Equal(t, [][]string{{"A", "B", "C"}, {"E", "F"}}, cycles)
}

func TestFindCycles_Acyclic(t *testing.T) {
	g := buildGraph([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"A", "C"})
	assert.Empty(t, FindCycles(g))
	assert.Empty(t, FindCycles(&Graph{}))
}

func TestComputeClusters(t *testing.T) {
	g := buildGraph(
		[2]string{"A", "B"},
		[2]string{"C", "B"},
		[2]string{"X", "Y"},
		[2]string{"Y", "Z"},
		[2]string{"Z", "X"},
	)

	clusters := ComputeClusters(g)

	require.Len(t, clusters, 2)
	assert.Equal(t, Cluster{Name: "A", Members: []string{"A", "B", "C"}, Edges: 2}, clusters[0])
	assert.Equal(t, Cluster{Name: "X", Members: []string{"X", "Y", "Z"}, Edges: 3}, clusters[1])
}

func TestComputeClusters_Empty(t *testing.T) {
	assert.Empty(t, ComputeClusters(&Graph{}))
}
