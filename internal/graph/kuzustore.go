//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
// Calls are serialized on mu since they share one connection.
type KuzuStore struct {
	mu   sync.Mutex
	db   *kuzu.Database
	conn *kuzu.Connection

	// Next insertion sequence numbers. Rows are read back ordered by seq.
	nextClass int64
	nextEdge  int64
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path. KuzuDB creates the directory itself for new databases.
// A persisted graph can be reloaded with Load after InitSchema.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	// Ensure parent directory exists (KuzuDB creates the leaf directory).
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(dbPath string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database %s: %w", dbPath, err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Class(
		name STRING,
		in_degree INT64,
		out_degree INT64,
		seq INT64,
		PRIMARY KEY(name)
	)`,
	`CREATE REL TABLE IF NOT EXISTS DEPENDS_ON(FROM Class TO Class, seq INT64)`,
}

// InitSchema creates the Class and DEPENDS_ON tables if they do not exist and
// picks up the insertion counters of any graph already stored.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	classes, err := s.count("MATCH (c:Class) RETURN count(c)")
	if err != nil {
		return err
	}
	edges, err := s.count("MATCH ()-[r:DEPENDS_ON]->() RETURN count(r)")
	if err != nil {
		return err
	}
	s.nextClass, s.nextEdge = int64(classes), int64(edges)
	return nil
}

// Reset deletes every class together with its edges.
func (s *KuzuStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.exec("MATCH (c:Class) DETACH DELETE c", nil); err != nil {
		return err
	}
	s.nextClass, s.nextEdge = 0, 0
	return nil
}

// ---------- Write operations ----------

// AddClass upserts a Class node. An existing class keeps its original
// position and takes the new degrees.
func (s *KuzuStore) AddClass(_ context.Context, node NodeData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.exec(
		`MERGE (c:Class {name: $name})
		 ON CREATE SET c.in_degree = $in, c.out_degree = $out, c.seq = $seq
		 ON MATCH SET c.in_degree = $in, c.out_degree = $out`,
		map[string]any{
			"name": node.ID,
			"in":   int64(node.In),
			"out":  int64(node.Out),
			"seq":  s.nextClass,
		},
	)
	if err != nil {
		return err
	}
	s.nextClass++
	return nil
}

// AddEdge inserts a DEPENDS_ON relationship. Both endpoints must already
// exist as Class nodes.
func (s *KuzuStore) AddEdge(_ context.Context, edge EdgeData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.exec(
		`MATCH (a:Class {name: $src}), (b:Class {name: $dst})
		 CREATE (a)-[:DEPENDS_ON {seq: $seq}]->(b)`,
		map[string]any{
			"src": edge.Source,
			"dst": edge.Target,
			"seq": s.nextEdge,
		},
	)
	if err != nil {
		return err
	}
	s.nextEdge++
	return nil
}

// ---------- Read operations ----------

// GetClass retrieves a single Class node by name, or returns nil if not found.
func (s *KuzuStore) GetClass(_ context.Context, id string) (*NodeData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.query(
		"MATCH (c:Class {name: $name}) RETURN c.name, c.in_degree, c.out_degree",
		map[string]any{"name": id},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	n := rowToNode(rows[0])
	return &n, nil
}

// GetAllClasses returns every Class node in insertion order.
func (s *KuzuStore) GetAllClasses(_ context.Context) ([]NodeData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.query(
		"MATCH (c:Class) RETURN c.name, c.in_degree, c.out_degree, c.seq ORDER BY c.seq",
		nil,
	)
	if err != nil {
		return nil, err
	}
	out := make([]NodeData, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToNode(r))
	}
	return out, nil
}

// GetAllEdges returns every DEPENDS_ON edge in insertion order.
func (s *KuzuStore) GetAllEdges(_ context.Context) ([]EdgeData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.query(
		"MATCH (a:Class)-[r:DEPENDS_ON]->(b:Class) RETURN a.name, b.name, r.seq ORDER BY r.seq",
		nil,
	)
	if err != nil {
		return nil, err
	}
	out := make([]EdgeData, 0, len(rows))
	for _, r := range rows {
		out = append(out, EdgeData{Source: toString(r[0]), Target: toString(r[1])})
	}
	return out, nil
}

// ---------- Graph traversal ----------

// GetDependencies performs a BFS over DEPENDS_ON edges starting from the given
// class. It returns one DependencyChain per reachable class.
func (s *KuzuStore) GetDependencies(_ context.Context, class string, dir Direction, maxDepth int) ([]DependencyChain, error) {
	if maxDepth <= 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// BFS state.
	type bfsEntry struct {
		path  []string
		depth int
	}
	visited := map[string]bool{class: true}
	queue := []bfsEntry{{path: []string{class}, depth: 0}}
	var chains []DependencyChain

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		tip := cur.path[len(cur.path)-1]
		neighbors, err := s.neighbors(tip, dir)
		if err != nil {
			return nil, err
		}
		for _, nb := range neighbors {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			newPath := make([]string, len(cur.path)+1)
			copy(newPath, cur.path)
			newPath[len(cur.path)] = nb
			chains = append(chains, DependencyChain{
				Nodes: newPath,
				Depth: cur.depth + 1,
			})
			queue = append(queue, bfsEntry{path: newPath, depth: cur.depth + 1})
		}
	}
	return chains, nil
}

// neighbors returns immediate class neighbors along DEPENDS_ON edges in edge
// insertion order.
func (s *KuzuStore) neighbors(name string, dir Direction) ([]string, error) {
	var cypher string
	switch dir {
	case DirectionUpstream:
		cypher = "MATCH (a:Class {name: $name})-[r:DEPENDS_ON]->(b:Class) RETURN b.name, r.seq ORDER BY r.seq"
	case DirectionDownstream:
		cypher = "MATCH (a:Class)-[r:DEPENDS_ON]->(b:Class {name: $name}) RETURN a.name, r.seq ORDER BY r.seq"
	default:
		return nil, fmt.Errorf("kuzu: unknown direction: %s", dir)
	}
	rows, err := s.query(cypher, map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out, nil
}

// ---------- Stats ----------

// Stats returns node, edge, root and leaf counts.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes, err := s.count("MATCH (c:Class) RETURN count(c)")
	if err != nil {
		return nil, err
	}
	edges, err := s.count("MATCH ()-[r:DEPENDS_ON]->() RETURN count(r)")
	if err != nil {
		return nil, err
	}
	roots, err := s.count("MATCH (c:Class) WHERE c.in_degree = 0 RETURN count(c)")
	if err != nil {
		return nil, err
	}
	leaves, err := s.count("MATCH (c:Class) WHERE c.out_degree = 0 RETURN count(c)")
	if err != nil {
		return nil, err
	}
	return &GraphStats{
		NodeCount: nodes,
		EdgeCount: edges,
		RootCount: roots,
		LeafCount: leaves,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	if len(params) == 0 {
		res, err := s.conn.Query(cypher)
		if err != nil {
			return fmt.Errorf("kuzu: execute: %w", err)
		}
		res.Close()
		return nil
	}

	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// count runs a single-value count query.
func (s *KuzuStore) count(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// rowToNode converts a name, in_degree, out_degree row into a NodeData.
func rowToNode(r []any) NodeData {
	return NodeData{
		ID:  toString(r[0]),
		In:  toInt(r[1]),
		Out: toInt(r[2]),
	}
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
