package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/injectgraph/internal/analysis"
	"github.com/dusk-indust/injectgraph/internal/export"
	"github.com/dusk-indust/injectgraph/internal/graph"
)

// errNoGraph is returned by query tools before any graph was rendered.
var errNoGraph = errors.New("no graph rendered yet: call dependency-graph-render first")

// Analyzer runs one dependency analysis of a project root.
type Analyzer interface {
	Analyze(ctx context.Context, root string) (*analysis.Result, error)
}

// Persister saves a rendered graph outside the server, e.g. to a Kuzu
// directory the CLI can query later.
type Persister func(ctx context.Context, root string, g *graph.Graph) error

// GraphService holds the analyzer and the store of the last rendered graph
// used by MCP tool handlers.
type GraphService struct {
	analyzer Analyzer
	store    graph.Store
	logger   *slog.Logger
	persist  Persister

	mu   sync.RWMutex
	root string // project of the graph held in store, empty before first render
}

// NewGraphService creates a GraphService with the given analyzer and store.
func NewGraphService(analyzer Analyzer, store graph.Store, logger *slog.Logger) *GraphService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GraphService{analyzer: analyzer, store: store, logger: logger}
}

// SetPersister registers a hook run after every successful render.
func (s *GraphService) SetPersister(p Persister) {
	s.persist = p
}

// RenderGraph analyzes a project, keeps the graph for the query tools and
// returns it both as Cytoscape JSON text and as structured output. An empty
// projectRoot analyzes the server's working directory.
func (s *GraphService) RenderGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenderGraphInput,
) (*mcp.CallToolResult, RenderGraphOutput, error) {
	root := input.ProjectRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, RenderGraphOutput{}, fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, RenderGraphOutput{}, fmt.Errorf("cannot access projectRoot: %w", err)
	}
	if !info.IsDir() {
		return nil, RenderGraphOutput{}, fmt.Errorf("projectRoot is not a directory: %s", root)
	}

	res, err := s.analyzer.Analyze(ctx, root)
	if err != nil {
		return nil, RenderGraphOutput{}, err
	}

	s.mu.Lock()
	err = graph.Save(ctx, s.store, res.Graph)
	if err == nil {
		s.root = res.Root
	}
	s.mu.Unlock()
	if err != nil {
		return nil, RenderGraphOutput{}, fmt.Errorf("store graph: %w", err)
	}

	if s.persist != nil {
		if err := s.persist(ctx, res.Root, res.Graph); err != nil {
			s.logger.Warn("failed to persist graph", "root", res.Root, "error", err)
		}
	}

	text, err := export.MarshalCytoscape(res.Graph)
	if err != nil {
		return nil, RenderGraphOutput{}, err
	}

	return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
		}, RenderGraphOutput{
			RunID:       res.RunID,
			ProjectRoot: res.Root,
			Nodes:       res.Graph.Nodes,
			Edges:       res.Graph.Edges,
		}, nil
}

// GetDependencies traverses the last rendered graph from a class.
func (s *GraphService) GetDependencies(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDependenciesInput,
) (*mcp.CallToolResult, GetDependenciesOutput, error) {
	if input.Class == "" {
		return nil, GetDependenciesOutput{}, fmt.Errorf("class is required")
	}

	direction := graph.DirectionUpstream
	switch strings.ToLower(input.Direction) {
	case "", "upstream":
	case "downstream":
		direction = graph.DirectionDownstream
	default:
		return nil, GetDependenciesOutput{}, fmt.Errorf("direction must be upstream or downstream, got %q", input.Direction)
	}

	maxDepth := input.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.root == "" {
		return nil, GetDependenciesOutput{}, errNoGraph
	}

	node, err := s.store.GetClass(ctx, input.Class)
	if err != nil {
		return nil, GetDependenciesOutput{}, fmt.Errorf("get class: %w", err)
	}
	if node == nil {
		return nil, GetDependenciesOutput{}, fmt.Errorf("class %q is not in the graph", input.Class)
	}

	chains, err := s.store.GetDependencies(ctx, input.Class, direction, maxDepth)
	if err != nil {
		return nil, GetDependenciesOutput{}, fmt.Errorf("get dependencies: %w", err)
	}
	if chains == nil {
		chains = []graph.DependencyChain{}
	}
	return nil, GetDependenciesOutput{Chains: chains}, nil
}

// FindCycles reports groups of classes that inject each other.
func (s *GraphService) FindCycles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ FindCyclesInput,
) (*mcp.CallToolResult, FindCyclesOutput, error) {
	g, err := s.current(ctx)
	if err != nil {
		return nil, FindCyclesOutput{}, err
	}
	cycles := graph.FindCycles(g)
	if cycles == nil {
		cycles = [][]string{}
	}
	return nil, FindCyclesOutput{Cycles: cycles}, nil
}

// GraphStats returns node, edge, root and leaf counts of the last graph.
func (s *GraphService) GraphStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GraphStatsInput,
) (*mcp.CallToolResult, GraphStatsOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.root == "" {
		return nil, GraphStatsOutput{}, errNoGraph
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, GraphStatsOutput{}, fmt.Errorf("stats: %w", err)
	}
	return nil, GraphStatsOutput{ProjectRoot: s.root, Stats: *stats}, nil
}

// current loads the last rendered graph from the store.
func (s *GraphService) current(ctx context.Context) (*graph.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.root == "" {
		return nil, errNoGraph
	}
	g, err := graph.Load(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	return g, nil
}
