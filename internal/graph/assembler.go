package graph

// edgeKey is the dedup key for an ordered (source, target) pair.
type edgeKey struct {
	source, target string
}

// Assembler accumulates nodes and deduplicated edges and tracks in/out
// degree. It is not safe for concurrent use; each extraction owns one.
type Assembler struct {
	nodes   []string
	nodeSet map[string]bool
	edges   []EdgeData
	edgeSet map[edgeKey]bool
	inDeg   map[string]int
	outDeg  map[string]int
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{
		nodeSet: make(map[string]bool),
		edgeSet: make(map[edgeKey]bool),
		inDeg:   make(map[string]int),
		outDeg:  make(map[string]int),
	}
}

// AddNode registers id if it is not yet present.
func (a *Assembler) AddNode(id string) {
	if a.nodeSet[id] {
		return
	}
	a.nodeSet[id] = true
	a.nodes = append(a.nodes, id)
}

// AddEdge registers source and target as nodes and records source -> target.
// It returns false for self-loops and for pairs already recorded; degrees
// only change on the first insertion of a pair.
func (a *Assembler) AddEdge(source, target string) bool {
	if source == "" || target == "" || source == target {
		return false
	}
	a.AddNode(source)
	a.AddNode(target)

	key := edgeKey{source: source, target: target}
	if a.edgeSet[key] {
		return false
	}
	a.edgeSet[key] = true
	a.edges = append(a.edges, EdgeData{Source: source, Target: target})
	a.outDeg[source]++
	a.inDeg[target]++
	return true
}

// Graph finalizes the accumulated state.
func (a *Assembler) Graph() *Graph {
	g := &Graph{
		Nodes: make([]NodeData, 0, len(a.nodes)),
		Edges: make([]EdgeData, len(a.edges)),
	}
	for _, id := range a.nodes {
		g.Nodes = append(g.Nodes, NodeData{ID: id, In: a.inDeg[id], Out: a.outDeg[id]})
	}
	copy(g.Edges, a.edges)
	return g
}
