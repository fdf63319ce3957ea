package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dusk-indust/injectgraph/internal/analysis"
	"github.com/dusk-indust/injectgraph/internal/config"
	"github.com/dusk-indust/injectgraph/internal/export"
	"github.com/dusk-indust/injectgraph/internal/graph"
)

// runRender analyzes the project and writes its graph in the configured
// format, then persists or exports it when a store or Neo4j URI is set.
func runRender(ctx context.Context, analyzer *analysis.Analyzer, root string, cfg *config.ProjectConfig, out string, stdout io.Writer, logger *slog.Logger) error {
	res, err := analyzer.Analyze(ctx, root)
	if err != nil {
		return err
	}

	if err := writeOutput(out, cfg.Format, res.Graph, stdout); err != nil {
		return err
	}

	if cfg.Store != "" {
		if err := persistGraph(ctx, cfg.Store, res.Graph); err != nil {
			return fmt.Errorf("persist graph: %w", err)
		}
		logger.Info("persisted graph", "store", cfg.Store, "nodes", len(res.Graph.Nodes))
	}

	if cfg.Neo4j.URI != "" {
		if err := exportNeo4j(ctx, cfg.Neo4j, res, logger); err != nil {
			return err
		}
	}
	return nil
}

// writeOutput writes g to path, or to stdout when path is empty.
func writeOutput(path, format string, g *graph.Graph, stdout io.Writer) error {
	if path == "" {
		return writeGraph(stdout, format, g)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeGraph(f, format, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeGraph(w io.Writer, format string, g *graph.Graph) error {
	switch format {
	case "", "json":
		return export.WriteJSON(w, g)
	case "cytoscape":
		return export.WriteCytoscape(w, g)
	case "mermaid":
		_, err := io.WriteString(w, export.GenerateMermaid(g))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func exportNeo4j(ctx context.Context, cfg config.Neo4jConfig, res *analysis.Result, logger *slog.Logger) error {
	loader, err := export.NewNeo4jLoader(cfg.URI, cfg.User, cfg.Password, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer loader.Close(ctx)

	if err := loader.Verify(ctx); err != nil {
		return err
	}
	if err := loader.Load(ctx, res.Root, res.Graph); err != nil {
		return err
	}
	logger.Info("exported graph to neo4j", "uri", cfg.URI, "nodes", len(res.Graph.Nodes), "edges", len(res.Graph.Edges))
	return nil
}

// runCycles prints every group of classes that inject each other.
func runCycles(ctx context.Context, analyzer *analysis.Analyzer, root string, stdout io.Writer) error {
	res, err := analyzer.Analyze(ctx, root)
	if err != nil {
		return err
	}

	cycles := graph.FindCycles(res.Graph)
	if len(cycles) == 0 {
		fmt.Fprintln(stdout, "No injection cycles found.")
		return nil
	}
	for i, c := range cycles {
		fmt.Fprintf(stdout, "cycle %d: %s\n", i+1, strings.Join(c, ", "))
	}
	return nil
}

// runDeps prints the dependency chains of one class.
func runDeps(ctx context.Context, analyzer *analysis.Analyzer, root string, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("deps", flag.ContinueOnError)
	fs.SetOutput(stderr)
	direction := fs.String("direction", "upstream", "upstream (what it injects) or downstream (what injects it)")
	depth := fs.Int("depth", 5, "maximum traversal depth")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: injectgraph deps [-direction upstream|downstream] [-depth n] <class>")
	}
	class := fs.Arg(0)

	var dir graph.Direction
	switch *direction {
	case "upstream":
		dir = graph.DirectionUpstream
	case "downstream":
		dir = graph.DirectionDownstream
	default:
		return fmt.Errorf("direction must be upstream or downstream, got %q", *direction)
	}

	res, err := analyzer.Analyze(ctx, root)
	if err != nil {
		return err
	}
	if _, ok := res.Graph.Node(class); !ok {
		return fmt.Errorf("class %q is not in the graph", class)
	}

	chains := graph.Dependencies(res.Graph.Edges, class, dir, *depth)
	if len(chains) == 0 {
		fmt.Fprintf(stdout, "%s has no %s dependencies.\n", class, *direction)
		return nil
	}
	for _, c := range chains {
		fmt.Fprintf(stdout, "%d  %s\n", c.Depth, strings.Join(c.Nodes, " -> "))
	}
	return nil
}

// runStats prints node, edge, root and leaf counts and the connected
// components of the graph.
func runStats(ctx context.Context, analyzer *analysis.Analyzer, root string, stdout io.Writer) error {
	res, err := analyzer.Analyze(ctx, root)
	if err != nil {
		return err
	}

	stats := graph.ComputeStats(res.Graph)
	fmt.Fprintf(stdout, "Files:      %d (%d with syntax errors)\n", res.Units, res.UnitsWithErrors)
	fmt.Fprintf(stdout, "Classes:    %d\n", stats.NodeCount)
	fmt.Fprintf(stdout, "Injections: %d\n", stats.EdgeCount)
	fmt.Fprintf(stdout, "Roots:      %d\n", stats.RootCount)
	fmt.Fprintf(stdout, "Leaves:     %d\n", stats.LeafCount)

	clusters := graph.ComputeClusters(res.Graph)
	fmt.Fprintf(stdout, "Components: %d\n", len(clusters))
	for _, c := range clusters {
		fmt.Fprintf(stdout, "  %-24s %d classes, %d injections\n", c.Name, len(c.Members), c.Edges)
	}
	return nil
}
