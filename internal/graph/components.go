package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Components returns the weakly connected components of g, largest first.
// Ids within a component follow node insertion order; components of equal
// size are ordered by their first node.
func Components(g *Graph) [][]string {
	u := simple.NewUndirectedGraph()
	pos := make(map[string]int64, len(g.order))
	for i, id := range g.order {
		pos[id] = int64(i)
		u.AddNode(simple.Node(i))
	}
	for _, e := range g.edges {
		// simple graphs reject self loops; they never join components anyway.
		if e.Source == e.Target {
			continue
		}
		u.SetEdge(u.NewEdge(simple.Node(pos[e.Source]), simple.Node(pos[e.Target])))
	}

	var comps [][]int64
	for _, c := range topo.ConnectedComponents(u) {
		idx := make([]int64, 0, len(c))
		for _, n := range c {
			idx = append(idx, n.ID())
		}
		sort.Slice(idx, func(i, j int) bool { return idx[i] < idx[j] })
		comps = append(comps, idx)
	}
	sort.Slice(comps, func(i, j int) bool {
		if len(comps[i]) != len(comps[j]) {
			return len(comps[i]) > len(comps[j])
		}
		return comps[i][0] < comps[j][0]
	})

	out := make([][]string, 0, len(comps))
	for _, c := range comps {
		ids := make([]string, 0, len(c))
		for _, i := range c {
			ids = append(ids, g.order[i])
		}
		out = append(out, ids)
	}
	return out
}
