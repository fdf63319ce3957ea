package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// version is set by the linker at build time.
var version = "dev"

// NewDependencyGraphMCPServer creates an MCP server with the dependency graph
// tools registered.
func NewDependencyGraphMCPServer(svc *GraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "injectgraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dependency-graph-render",
		Description: "Analyze a TypeScript project and render its dependency injection graph. Returns Cytoscape elements JSON as text and the nodes (with in/out degree) and edges as structured output.",
	}, svc.RenderGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_dependencies",
		Description: "Traverse the last rendered graph upstream (what a class injects) or downstream (what injects it). Returns dependency chains up to the specified depth.",
	}, svc.GetDependencies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_cycles",
		Description: "Return groups of classes in the last rendered graph that inject each other directly or transitively.",
	}, svc.FindCycles)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Return node, edge, root and leaf counts of the last rendered graph.",
	}, svc.GraphStats)

	return server
}

// NewHTTPHandler serves the MCP tools over streamable HTTP and Prometheus
// metrics at /metrics.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	))
	return mux
}

// RunMCPServer starts an HTTP server exposing the dependency graph MCP tools.
func RunMCPServer(ctx context.Context, svc *GraphService, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: NewHTTPHandler(NewDependencyGraphMCPServer(svc)),
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// RunMCPServerStdio runs the MCP server on stdio transport, blocking until
// stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, svc *GraphService) error {
	return NewDependencyGraphMCPServer(svc).Run(ctx, &mcp.StdioTransport{})
}
