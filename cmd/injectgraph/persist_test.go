//go:build cgo

package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_StoreThenDiagram(t *testing.T) {
	store := filepath.Join(t.TempDir(), "graph")

	_, err := runCLI(t, "-project-root", fixtureRoot, "-store", store)
	require.NoError(t, err)

	out, err := runCLI(t, "-project-root", fixtureRoot, "-store", store, "diagram")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph LR\n"))
	assert.Contains(t, out, `N0["Audit<br/>in 0 / out 1"]`)
	assert.Equal(t, 5, strings.Count(out, " --> "))
}

func TestRun_ConfiguredStoreThenDiagram(t *testing.T) {
	store := filepath.Join(t.TempDir(), "graph")
	root := writeProject(t, map[string]string{
		"tsconfig.json":   `{"include": ["src"]}`,
		"injectgraph.yml": "store: " + store + "\n",
		"src/app.ts": `
export class Repo {}
export class App { constructor(repo: Repo) {} }
`,
	})

	_, err := runCLI(t, "-project-root", root)
	require.NoError(t, err)

	out, err := runCLI(t, "-project-root", root, "diagram")
	require.NoError(t, err)
	assert.Contains(t, out, `N0["App<br/>in 0 / out 1"]`)
	assert.Contains(t, out, "N0 --> N1")
}
