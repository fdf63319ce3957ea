package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dusk-indust/injectgraph/internal/graph"
)

// cypherRunner executes one Cypher statement. Tests replace it to capture
// statements without a database.
type cypherRunner func(ctx context.Context, cypher string, params map[string]any) error

// Neo4jLoader loads a dependency graph into a Neo4j database using batch
// UNWIND queries. Classes become :InjectClass nodes and edges :INJECTS
// relationships; a load replaces everything previously loaded for the same
// project.
type Neo4jLoader struct {
	driver neo4j.DriverWithContext
	db     string
	run    cypherRunner
	logger *slog.Logger
}

// NewNeo4jLoader connects to Neo4j and returns a ready-to-use loader. An
// empty database selects the server default.
func NewNeo4jLoader(uri, user, password, database string, logger *slog.Logger) (*Neo4jLoader, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	l := &Neo4jLoader{driver: driver, db: database, logger: logger}
	l.run = l.executeQuery
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	return l, nil
}

// Close releases the underlying Neo4j driver resources.
func (l *Neo4jLoader) Close(ctx context.Context) error {
	if l.driver == nil {
		return nil
	}
	return l.driver.Close(ctx)
}

// Verify checks that the server is reachable with the configured credentials.
func (l *Neo4jLoader) Verify(ctx context.Context) error {
	if err := l.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j connectivity: %w", err)
	}
	return nil
}

func (l *Neo4jLoader) executeQuery(ctx context.Context, cypher string, params map[string]any) error {
	var opts []neo4j.ExecuteQueryConfigurationOption
	if l.db != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(l.db))
	}
	_, err := neo4j.ExecuteQuery(ctx, l.driver, cypher, params, neo4j.EagerResultTransformer, opts...)
	return err
}

// Load replaces the graph stored for project with g.
func (l *Neo4jLoader) Load(ctx context.Context, project string, g *graph.Graph) error {
	l.logger.Info("loading graph into neo4j", "project", project, "nodes", len(g.Nodes), "edges", len(g.Edges))

	steps := []struct {
		name   string
		cypher string
		params map[string]any
	}{
		{
			name:   "index",
			cypher: "CREATE INDEX inject_class_key IF NOT EXISTS FOR (n:InjectClass) ON (n.project, n.name)",
		},
		{
			name:   "clean",
			cypher: "MATCH (n:InjectClass {project: $project}) DETACH DELETE n",
			params: map[string]any{"project": project},
		},
		{
			name: "classes",
			cypher: `UNWIND $batch AS row
			 MERGE (n:InjectClass {project: $project, name: row.name})
			 SET n.in_degree = row.in, n.out_degree = row.out, n.seq = row.seq`,
			params: map[string]any{"project": project, "batch": classBatch(g)},
		},
		{
			name: "edges",
			cypher: `UNWIND $batch AS row
			 MATCH (a:InjectClass {project: $project, name: row.source}),
			       (b:InjectClass {project: $project, name: row.target})
			 MERGE (a)-[r:INJECTS]->(b)
			 SET r.seq = row.seq`,
			params: map[string]any{"project": project, "batch": edgeBatch(g)},
		},
	}
	for _, s := range steps {
		if err := l.run(ctx, s.cypher, s.params); err != nil {
			return fmt.Errorf("neo4j %s: %w", s.name, err)
		}
	}
	return nil
}

func classBatch(g *graph.Graph) []map[string]any {
	batch := make([]map[string]any, 0, len(g.Nodes))
	for i, n := range g.Nodes {
		batch = append(batch, map[string]any{
			"name": n.ID, "in": int64(n.In), "out": int64(n.Out), "seq": int64(i),
		})
	}
	return batch
}

func edgeBatch(g *graph.Graph) []map[string]any {
	batch := make([]map[string]any, 0, len(g.Edges))
	for i, e := range g.Edges {
		batch = append(batch, map[string]any{
			"source": e.Source, "target": e.Target, "seq": int64(i),
		})
	}
	return batch
}
