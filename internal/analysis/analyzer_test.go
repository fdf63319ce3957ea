package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/injectgraph/internal/graph"
	"github.com/dusk-indust/injectgraph/internal/metrics"
	"github.com/dusk-indust/injectgraph/internal/source"
)

const fixtureRoot = "../../testdata/fixtures/ts_project"

func newFixtureAnalyzer(t *testing.T, logger *slog.Logger) *Analyzer {
	t.Helper()
	parser := source.NewTreeSitterParser()
	t.Cleanup(func() { _ = parser.Close() })
	return New(source.NewProvider(parser, logger, source.Options{}), logger)
}

func TestAnalyze_Fixture(t *testing.T) {
	a := newFixtureAnalyzer(t, nil)

	res, err := a.Analyze(context.Background(), fixtureRoot)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 10, res.Units)
	assert.Equal(t, 1, res.UnitsWithErrors)

	assert.Equal(t, []graph.NodeData{
		{ID: "Audit", In: 0, Out: 1},
		{ID: "Logger", In: 2, Out: 0},
		{ID: "Notifier", In: 0, Out: 2},
		{ID: "EmailChannel", In: 1, Out: 0},
		{ID: "SmsChannel", In: 1, Out: 0},
		{ID: "UserService", In: 0, Out: 2},
		{ID: "DatabaseService", In: 1, Out: 0},
	}, res.Graph.Nodes)
	assert.Equal(t, []graph.EdgeData{
		{Source: "Audit", Target: "Logger"},
		{Source: "Notifier", Target: "EmailChannel"},
		{Source: "Notifier", Target: "SmsChannel"},
		{Source: "UserService", Target: "DatabaseService"},
		{Source: "UserService", Target: "Logger"},
	}, res.Graph.Edges)
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := newFixtureAnalyzer(t, nil)
	ctx := context.Background()

	first, err := a.Analyze(ctx, fixtureRoot)
	require.NoError(t, err)
	second, err := a.Analyze(ctx, fixtureRoot)
	require.NoError(t, err)

	a1, err := json.Marshal(first.Graph.Elements())
	require.NoError(t, err)
	a2, err := json.Marshal(second.Graph.Elements())
	require.NoError(t, err)
	assert.Equal(t, string(a1), string(a2))
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestAnalyze_MissingConfig(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	a := newFixtureAnalyzer(t, logger)

	before := testutil.ToFloat64(metrics.AnalysesTotal.WithLabelValues(metrics.ResultError))
	res, err := a.Analyze(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, source.ErrConfigNotFound)

	var cfgErr *source.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AnalysesTotal.WithLabelValues(metrics.ResultError)))
	assert.Contains(t, logs.String(), "loading project failed")
}

// stubLoader returns a fixed project.
type stubLoader struct {
	project *source.Project
}

func (s stubLoader) Load(_ context.Context, _ string) (*source.Project, error) {
	return s.project, nil
}

func TestAnalyze_EmptyProject(t *testing.T) {
	a := New(stubLoader{project: &source.Project{Root: "/empty", Units: []source.Unit{{Path: "a.ts"}}}}, nil)

	res, err := a.Analyze(context.Background(), "/empty")
	require.NoError(t, err)

	data, err := json.Marshal(res.Graph.Elements())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.GraphNodes))
}

func TestAnalyze_RenamedImport(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"tsconfig.json": `{"include": ["src"]}`,
		"src/db.ts":     "export class DatabaseService {}",
		"src/user.ts": `
import { DatabaseService as Db } from './db';
import { Inject } from './di';

export class UserService {
  @Inject() private store: Db;

  constructor(private db: Db) {}
}
`,
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	res, err := newFixtureAnalyzer(t, nil).Analyze(context.Background(), dir)
	require.NoError(t, err)

	data, err := json.Marshal(res.Graph.Elements())
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"UserService","in":0,"out":1},
		{"id":"DatabaseService","in":1,"out":0},
		{"source":"UserService","target":"DatabaseService"}
	]`, string(data))
}
