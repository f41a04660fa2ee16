// Package graph builds and annotates the directed relationship graph between
// groups, people, and projects.
package graph

// Kind is the entity type a node represents.
type Kind string

const (
	KindGroup   Kind = "group"
	KindPerson  Kind = "person"
	KindProject Kind = "project"
)

// Relation labels a directed edge.
type Relation string

const (
	RelEmployedBy     Relation = "employed by"
	RelAffiliatedWith Relation = "affiliated with"
	RelInvolvedIn     Relation = "involved in"
	RelLedBy          Relation = "led by"
	RelMemberOf       Relation = "member of"
	RelParent         Relation = "parent"
	RelBasedIn        Relation = "based in"
)

// Relations lists every relation in the order the builder adds them.
var Relations = []Relation{
	RelEmployedBy, RelAffiliatedWith, RelInvolvedIn, RelLedBy,
	RelMemberOf, RelParent, RelBasedIn,
}

// Node colors by kind.
const (
	ColorGroup   = "lightblue"
	ColorPerson  = "lightgreen"
	ColorProject = "lightcoral"
)

// Node is a graph vertex. A node with an empty Kind was created only because
// an edge referenced its id.
type Node struct {
	ID    string
	Label string
	Kind  Kind
	Title string // HTML description shown on hover
	Color string
	URL   string
	Size  float64
}

// Dangling reports whether the node was never added explicitly.
func (n *Node) Dangling() bool {
	return n.Kind == ""
}

// Edge is a directed, labeled relationship.
type Edge struct {
	Source   string
	Target   string
	Relation Relation
}

// edgeKey identifies an edge. Relation is left empty unless the graph keeps
// parallel edges.
type edgeKey struct {
	source   string
	target   string
	relation Relation
}

// Graph is a directed graph with labeled edges.
//
// By default at most one edge exists per (source, target) pair: adding a
// second edge between the same nodes replaces the label of the first and
// keeps its position. A multi-edge graph keys edges by (source, target,
// relation) instead, so differently-labeled edges coexist.
type Graph struct {
	multi     bool
	nodes     map[string]*Node
	order     []string
	edges     []Edge
	edgeIndex map[edgeKey]int
}

// New creates an empty graph with one edge per (source, target) pair.
func New() *Graph {
	return newGraph(false)
}

// NewMulti creates an empty graph that keeps parallel edges with distinct relations.
func NewMulti() *Graph {
	return newGraph(true)
}

func newGraph(multi bool) *Graph {
	return &Graph{
		multi:     multi,
		nodes:     make(map[string]*Node),
		edgeIndex: make(map[edgeKey]int),
	}
}

// Multi reports whether the graph keeps parallel edges.
func (g *Graph) Multi() bool {
	return g.multi
}

// AddNode adds n, or updates the attributes of an existing node with the
// same id. The node keeps its original position in iteration order.
func (g *Graph) AddNode(n Node) {
	if existing, ok := g.nodes[n.ID]; ok {
		size := existing.Size
		*existing = n
		existing.Size = size
		return
	}
	node := n
	g.nodes[n.ID] = &node
	g.order = append(g.order, n.ID)
}

// ensureNode returns the node for id, creating a bare node when absent.
func (g *Graph) ensureNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &Node{ID: id}
	g.order = append(g.order, id)
}

// AddEdge adds a directed edge. Unknown endpoints are created as bare nodes.
func (g *Graph) AddEdge(source, target string, rel Relation) {
	g.ensureNode(source)
	g.ensureNode(target)

	key := edgeKey{source: source, target: target}
	if g.multi {
		key.relation = rel
	}
	if i, ok := g.edgeIndex[key]; ok {
		g.edges[i].Relation = rel
		return
	}
	g.edgeIndex[key] = len(g.edges)
	g.edges = append(g.edges, Edge{Source: source, Target: target, Relation: rel})
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// OutEdges returns the edges leaving id.
func (g *Graph) OutEdges(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// InDegree returns the number of edges entering id.
func (g *Graph) InDegree(id string) int {
	n := 0
	for _, e := range g.edges {
		if e.Target == id {
			n++
		}
	}
	return n
}

// OutDegree returns the number of edges leaving id.
func (g *Graph) OutDegree(id string) int {
	n := 0
	for _, e := range g.edges {
		if e.Source == id {
			n++
		}
	}
	return n
}
