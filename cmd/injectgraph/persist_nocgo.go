//go:build !cgo

package main

import (
	"context"
	"errors"

	"github.com/dusk-indust/injectgraph/internal/graph"
)

var errNoKuzu = errors.New("graph store requires a cgo build")

func persistGraph(context.Context, string, *graph.Graph) error {
	return errNoKuzu
}

func loadPersisted(context.Context, string) (*graph.Graph, error) {
	return nil, errNoKuzu
}
