package export

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/injectgraph/internal/graph"
)

// GenerateMermaid produces a Mermaid graph LR diagram of g. When the graph
// splits into several connected components each one becomes a subgraph;
// injection edges become arrows.
func GenerateMermaid(g *graph.Graph) string {
	// Build class → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		nodeIDs[n.ID] = fmt.Sprintf("N%d", i)
	}
	node := func(n graph.NodeData) string {
		return fmt.Sprintf("%s[\"%s<br/>in %d / out %d\"]", nodeIDs[n.ID], escapeLabel(n.ID), n.In, n.Out)
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	clusters := graph.ComputeClusters(g)
	if len(clusters) > 1 {
		byID := make(map[string]graph.NodeData, len(g.Nodes))
		for _, n := range g.Nodes {
			byID[n.ID] = n
		}
		for i, c := range clusters {
			sb.WriteString(fmt.Sprintf("  subgraph C%d[\"%.40s\"]\n", i, escapeLabel(c.Name)))
			for _, member := range c.Members {
				sb.WriteString("    " + node(byID[member]) + "\n")
			}
			sb.WriteString("  end\n")
		}
	} else {
		for _, n := range g.Nodes {
			sb.WriteString("  " + node(n) + "\n")
		}
	}

	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", nodeIDs[e.Source], nodeIDs[e.Target]))
	}
	return sb.String()
}

// escapeLabel makes a class name safe inside a quoted Mermaid label.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
