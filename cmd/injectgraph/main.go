package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/injectgraph/internal/analysis"
	"github.com/dusk-indust/injectgraph/internal/config"
	"github.com/dusk-indust/injectgraph/internal/graph"
	"github.com/dusk-indust/injectgraph/internal/mcptools"
	"github.com/dusk-indust/injectgraph/internal/source"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ProjectRoot string
	TSConfig    string
	Format      string
	Out         string
	Store       string
	Neo4jURI    string
	Neo4jUser   string
	Neo4jPass   string
	MCPAddr     string
	Concurrency int
	Verbose     bool
	ServeMCP    bool
	Version     bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var flags cliFlags

	fs := flag.NewFlagSet("injectgraph", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "path to the TypeScript project")
	fs.StringVar(&flags.TSConfig, "tsconfig", "", "project configuration file relative to the root (default tsconfig.json)")
	fs.StringVar(&flags.Format, "format", "", "output format: json, cytoscape or mermaid (default json)")
	fs.StringVar(&flags.Out, "out", "", "write the graph to this file instead of stdout")
	fs.StringVar(&flags.Store, "store", "", "Kuzu database directory the graph is persisted to")
	fs.StringVar(&flags.Neo4jURI, "neo4j-uri", "", "Neo4j URI to export the graph to")
	fs.StringVar(&flags.Neo4jUser, "neo4j-user", "", "Neo4j user")
	fs.StringVar(&flags.Neo4jPass, "neo4j-pass", "", "Neo4j password")
	fs.StringVar(&flags.MCPAddr, "mcp-addr", "", "serve MCP over streamable HTTP on this address instead of stdio")
	fs.IntVar(&flags.Concurrency, "concurrency", 0, "parallel file parses (default GOMAXPROCS)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Fprintln(stdout, version)
		return nil
	}

	cfg, err := config.Load(flags.ProjectRoot)
	if err != nil {
		return err
	}
	applyFlags(cfg, fs, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if flags.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}

	parser := source.NewTreeSitterParser()
	defer parser.Close()
	provider := source.NewProvider(parser, logger, source.Options{
		TSConfig:    cfg.TSConfig,
		ExcludeDirs: cfg.ExcludeDirs,
		Concurrency: cfg.Concurrency,
	})
	analyzer := analysis.New(provider, logger)

	if flags.ServeMCP {
		return serveMCP(ctx, analyzer, cfg, logger)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return runRender(ctx, analyzer, flags.ProjectRoot, cfg, flags.Out, stdout, logger)
	}

	switch rest[0] {
	case "cycles":
		return runCycles(ctx, analyzer, flags.ProjectRoot, stdout)
	case "deps":
		return runDeps(ctx, analyzer, flags.ProjectRoot, rest[1:], stdout, stderr)
	case "stats":
		return runStats(ctx, analyzer, flags.ProjectRoot, stdout)
	case "diagram":
		return runDiagram(ctx, cfg.Store, stdout)
	case "init":
		return runInit(flags.ProjectRoot, stdout)
	default:
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

// applyFlags copies every explicitly set flag over the config file value.
func applyFlags(cfg *config.ProjectConfig, fs *flag.FlagSet, flags cliFlags) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tsconfig":
			cfg.TSConfig = flags.TSConfig
		case "format":
			cfg.Format = flags.Format
		case "store":
			cfg.Store = flags.Store
		case "neo4j-uri":
			cfg.Neo4j.URI = flags.Neo4jURI
		case "neo4j-user":
			cfg.Neo4j.User = flags.Neo4jUser
		case "neo4j-pass":
			cfg.Neo4j.Password = flags.Neo4jPass
		case "mcp-addr":
			cfg.MCPAddr = flags.MCPAddr
		case "concurrency":
			cfg.Concurrency = flags.Concurrency
		}
	})
}

// serveMCP runs the MCP tools until ctx is cancelled. Logs go to stderr so
// the stdio transport keeps stdout to itself.
func serveMCP(ctx context.Context, analyzer *analysis.Analyzer, cfg *config.ProjectConfig, logger *slog.Logger) error {
	svc := mcptools.NewGraphService(analyzer, graph.NewMemStore(), logger)
	if cfg.Store != "" {
		dir := cfg.Store
		svc.SetPersister(func(ctx context.Context, _ string, g *graph.Graph) error {
			return persistGraph(ctx, dir, g)
		})
	}

	if cfg.MCPAddr != "" {
		logger.Info("serving MCP over HTTP", "addr", cfg.MCPAddr)
		return mcptools.RunMCPServer(ctx, svc, cfg.MCPAddr)
	}
	err := mcptools.RunMCPServerStdio(ctx, svc)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
