package graph

import "github.com/dusk-indust/injectgraph/internal/source"

// Extract builds the dependency graph of project in two strict phases: the
// declaration index over all units, then resolution of every class's
// injection points. It keeps no state between calls.
func Extract(project *source.Project) *Graph {
	index := BuildIndex(project)

	asm := NewAssembler()
	NewResolver(index, asm).Resolve(project)
	return asm.Graph()
}
