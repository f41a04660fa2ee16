package viz

import (
	"encoding/json"
	"fmt"

	"github.com/matsen/dhnet/internal/graph"
)

// FromGraph converts an annotated graph into render data. Nodes created only
// by a reference keep their id as label.
func FromGraph(g *graph.Graph) *GraphData {
	data := &GraphData{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}

	for _, n := range g.Nodes() {
		data.Nodes = append(data.Nodes, newNode(n))
	}

	for i, e := range g.Edges() {
		data.Edges = append(data.Edges, Edge{
			ID:       edgeID(e.Source, e.Target, string(e.Relation), i),
			From:     e.Source,
			To:       e.Target,
			Relation: string(e.Relation),
			Arrows:   "to",
		})
	}

	return data
}

// newNode creates a visualization node from a graph node.
func newNode(n *graph.Node) Node {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	return Node{
		ID:    n.ID,
		Kind:  string(n.Kind),
		Label: label,
		Title: n.Title,
		Color: n.Color,
		URL:   n.URL,
		Size:  n.Size,
	}
}

// edgeID generates a unique edge ID for the current render.
// IDs are based on slice position and are not stable across different graph builds.
func edgeID(source, target, relation string, index int) string {
	return fmt.Sprintf("%s-%s-%s-%d", source, target, relation, index)
}

// ToJSON converts GraphData to the vis-network {nodes, edges} JSON format.
func (g *GraphData) ToJSON() (string, error) {
	nodes := g.Nodes
	if nodes == nil {
		nodes = []Node{}
	}
	edges := g.Edges
	if edges == nil {
		edges = []Edge{}
	}

	jsonBytes, err := json.Marshal(GraphData{Nodes: nodes, Edges: edges})
	if err != nil {
		return "", fmt.Errorf("marshaling graph to JSON: %w", err)
	}
	return string(jsonBytes), nil
}
