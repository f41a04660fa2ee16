package graph

import "sort"

// NodeSummary is a node listed in Stats.
type NodeSummary struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Kind  Kind    `json:"kind"`
	Size  float64 `json:"size"`
}

// Stats summarizes an annotated graph.
type Stats struct {
	Nodes      int              `json:"nodes"`
	Edges      int              `json:"edges"`
	ByKind     map[Kind]int     `json:"by_kind"`
	ByRelation map[Relation]int `json:"by_relation"`
	Dangling   []string         `json:"dangling,omitempty"`
	Top        []NodeSummary    `json:"top"`

	// Components is the number of weakly connected components; Largest is
	// the node count of the biggest one.
	Components int `json:"components"`
	Largest    int `json:"largest_component"`
}

// Summarize counts nodes and edges and lists the top n nodes by size.
// Ties are broken by id so the result is deterministic.
func Summarize(g *Graph, top int) Stats {
	s := Stats{
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		ByKind:     make(map[Kind]int),
		ByRelation: make(map[Relation]int),
	}

	nodes := g.Nodes()
	for _, n := range nodes {
		if n.Dangling() {
			s.Dangling = append(s.Dangling, n.ID)
			continue
		}
		s.ByKind[n.Kind]++
	}
	for _, e := range g.edges {
		s.ByRelation[e.Relation]++
	}

	comps := Components(g)
	s.Components = len(comps)
	if len(comps) > 0 {
		s.Largest = len(comps[0])
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Size != nodes[j].Size {
			return nodes[i].Size > nodes[j].Size
		}
		return nodes[i].ID < nodes[j].ID
	})
	if top > len(nodes) {
		top = len(nodes)
	}
	if top < 0 {
		top = 0
	}
	s.Top = make([]NodeSummary, 0, top)
	for _, n := range nodes[:top] {
		s.Top = append(s.Top, NodeSummary{ID: n.ID, Label: n.Label, Kind: n.Kind, Size: n.Size})
	}

	return s
}
