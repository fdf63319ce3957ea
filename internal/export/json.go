package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dusk-indust/injectgraph/internal/graph"
)

// CytoscapeDocument is the envelope a Cytoscape.js renderer consumes:
// {"elements":[{"data":{...}}, ...]}.
type CytoscapeDocument struct {
	Elements []CytoscapeElement `json:"elements"`
}

// CytoscapeElement wraps one node or edge record.
type CytoscapeElement struct {
	Data graph.Element `json:"data"`
}

// Cytoscape wraps every element of g, nodes first.
func Cytoscape(g *graph.Graph) CytoscapeDocument {
	elems := g.Elements()
	doc := CytoscapeDocument{Elements: make([]CytoscapeElement, 0, len(elems))}
	for _, e := range elems {
		doc.Elements = append(doc.Elements, CytoscapeElement{Data: e})
	}
	return doc
}

// WriteJSON writes g as a flat element array. An empty graph writes [].
func WriteJSON(w io.Writer, g *graph.Graph) error {
	return writeIndented(w, g.Elements())
}

// WriteCytoscape writes g in the Cytoscape envelope.
func WriteCytoscape(w io.Writer, g *graph.Graph) error {
	return writeIndented(w, Cytoscape(g))
}

// MarshalCytoscape returns the compact Cytoscape JSON for g.
func MarshalCytoscape(g *graph.Graph) ([]byte, error) {
	data, err := json.Marshal(Cytoscape(g))
	if err != nil {
		return nil, fmt.Errorf("marshal cytoscape: %w", err)
	}
	return data, nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
