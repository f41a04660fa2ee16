package graph

import "math"

// SizeScale multiplies log(degree+1) to give the rendered node size.
const SizeScale = 30

// NodeSize returns the display size for a sizing degree.
func NodeSize(degree int) float64 {
	return math.Log(float64(degree)+1) * SizeScale
}

// SizingDegree returns the degree used to size the node with the given id.
//
// People count their in-edges plus every out-edge except "affiliated with";
// all other nodes count in- and out-edges.
func SizingDegree(g *Graph, id string) int {
	n, ok := g.Node(id)
	if !ok {
		return 0
	}
	if n.Kind != KindPerson {
		return g.InDegree(id) + g.OutDegree(id)
	}
	deg := g.InDegree(id)
	for _, e := range g.OutEdges(id) {
		if e.Relation != RelAffiliatedWith {
			deg++
		}
	}
	return deg
}

// sizingDegrees computes SizingDegree for every node in a single edge pass.
func sizingDegrees(g *Graph) map[string]int {
	degrees := make(map[string]int, len(g.nodes))
	for _, e := range g.edges {
		degrees[e.Target]++
		if src := g.nodes[e.Source]; src.Kind == KindPerson && e.Relation == RelAffiliatedWith {
			continue
		}
		degrees[e.Source]++
	}
	return degrees
}

// Annotate sets the size of every node from its sizing degree.
func Annotate(g *Graph) {
	degrees := sizingDegrees(g)
	for _, id := range g.order {
		g.nodes[id].Size = NodeSize(degrees[id])
	}
}
