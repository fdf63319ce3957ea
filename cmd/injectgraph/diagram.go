package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dusk-indust/injectgraph/internal/export"
)

// errNoStore is returned by diagram when no graph store is configured.
// Graphs are only persisted to a store named with -store or in the config.
var errNoStore = errors.New("diagram reads a persisted graph: set -store or store in injectgraph.yml")

// runDiagram prints the persisted graph as a Mermaid diagram without
// re-analyzing the project.
func runDiagram(ctx context.Context, dir string, stdout io.Writer) error {
	if dir == "" {
		return errNoStore
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("no graph found at %s\nRun 'injectgraph -store %s' first to persist one", dir, dir)
	}

	g, err := loadPersisted(ctx, dir)
	if err != nil {
		return err
	}

	_, err = io.WriteString(stdout, export.GenerateMermaid(g))
	return err
}
