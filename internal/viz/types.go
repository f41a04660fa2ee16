// Package viz renders the landscape graph as an interactive HTML page.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a group, person, or project in vis-network form.
type Node struct {
	ID    string `json:"id"`
	Kind  string `json:"kind,omitempty"` // "group", "person", "project", or empty for dangling ids
	Label string `json:"label"`

	// Title is the HTML hover description.
	Title string `json:"title,omitempty"`
	Color string `json:"color,omitempty"`
	URL   string `json:"url,omitempty"`

	Size float64 `json:"size"`
}

// Edge is a directed, labeled relationship.
type Edge struct {
	ID       string `json:"id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"label"`
	Arrows   string `json:"arrows"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
