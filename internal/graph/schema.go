package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// --- Enums ---

// Direction controls dependency traversal direction.
type Direction string

const (
	DirectionUpstream   Direction = "upstream"   // what does this class depend on?
	DirectionDownstream Direction = "downstream" // what depends on this class?
)

// --- Models ---

// NodeData is a class taking part in at least one dependency edge.
type NodeData struct {
	ID  string `json:"id"`
	In  int    `json:"in"`
	Out int    `json:"out"`
}

// EdgeData records that Source depends on Target.
type EdgeData struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the extractor's result: nodes in insertion order followed by
// edges in insertion order.
type Graph struct {
	Nodes []NodeData `json:"nodes"`
	Edges []EdgeData `json:"edges"`
}

// Elements flattens the graph into the output element sequence, nodes first.
// An empty graph yields an empty, non-nil slice.
func (g *Graph) Elements() []Element {
	out := make([]Element, 0, len(g.Nodes)+len(g.Edges))
	for i := range g.Nodes {
		n := g.Nodes[i]
		out = append(out, Element{Node: &n})
	}
	for i := range g.Edges {
		e := g.Edges[i]
		out = append(out, Element{Edge: &e})
	}
	return out
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (NodeData, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeData{}, false
}

// Element is one output record: exactly one of Node or Edge is set. It
// marshals to {"id","in","out"} or {"source","target"}.
type Element struct {
	Node *NodeData
	Edge *EdgeData
}

// IsNode reports whether the element is a node record.
func (e Element) IsNode() bool {
	return e.Node != nil
}

// MarshalJSON encodes the element as its node or edge record.
func (e Element) MarshalJSON() ([]byte, error) {
	switch {
	case e.Node != nil:
		return json.Marshal(e.Node)
	case e.Edge != nil:
		return json.Marshal(e.Edge)
	}
	return nil, fmt.Errorf("graph: empty element")
}

// UnmarshalJSON decodes a node record (has "id") or an edge record.
func (e *Element) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if _, ok := probe["id"]; ok {
		var n NodeData
		if err := dec.Decode(&n); err != nil {
			return err
		}
		*e = Element{Node: &n}
		return nil
	}
	if _, ok := probe["source"]; ok {
		var ed EdgeData
		if err := dec.Decode(&ed); err != nil {
			return err
		}
		*e = Element{Edge: &ed}
		return nil
	}
	return fmt.Errorf("graph: element is neither node nor edge")
}

// GraphStats summarizes a dependency graph.
type GraphStats struct {
	NodeCount int `json:"nodeCount"`
	EdgeCount int `json:"edgeCount"`
	RootCount int `json:"rootCount"` // nodes nothing depends on
	LeafCount int `json:"leafCount"` // nodes that depend on nothing
}

// DependencyChain is an ordered sequence of classes forming a dependency path.
type DependencyChain struct {
	Nodes []string `json:"nodes"`
	Depth int      `json:"depth"`
}
