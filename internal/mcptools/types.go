package mcptools

import "github.com/dusk-indust/injectgraph/internal/graph"

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// RenderGraphInput is the input for the dependency-graph-render MCP tool.
type RenderGraphInput struct {
	ProjectRoot string `json:"projectRoot,omitempty" jsonschema:"the absolute path to the TypeScript project root containing tsconfig.json. Default: the server's working directory"`
}

// RenderGraphOutput is the result of the dependency-graph-render MCP tool.
type RenderGraphOutput struct {
	RunID       string           `json:"runId"`
	ProjectRoot string           `json:"projectRoot"`
	Nodes       []graph.NodeData `json:"nodes"`
	Edges       []graph.EdgeData `json:"edges"`
}

// GetDependenciesInput is the input for the get_dependencies MCP tool.
type GetDependenciesInput struct {
	Class     string `json:"class" jsonschema:"class name as it appears in the rendered graph"`
	Direction string `json:"direction,omitempty" jsonschema:"upstream (what it injects) or downstream (what injects it). Default: upstream"`
	MaxDepth  int    `json:"maxDepth,omitempty" jsonschema:"maximum traversal depth (default: 5)"`
}

// GetDependenciesOutput is the result of the get_dependencies MCP tool.
type GetDependenciesOutput struct {
	Chains []graph.DependencyChain `json:"chains"`
}

// FindCyclesInput is the input for the find_cycles MCP tool.
type FindCyclesInput struct{}

// FindCyclesOutput is the result of the find_cycles MCP tool.
type FindCyclesOutput struct {
	Cycles [][]string `json:"cycles"`
}

// GraphStatsInput is the input for the graph_stats MCP tool.
type GraphStatsInput struct{}

// GraphStatsOutput is the result of the graph_stats MCP tool.
type GraphStatsOutput struct {
	ProjectRoot string           `json:"projectRoot"`
	Stats       graph.GraphStats `json:"stats"`
}
