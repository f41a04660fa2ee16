package graph

import (
	"log/slog"

	"github.com/matsen/dhnet/internal/dataset"
)

// BuildOptions configures graph construction.
type BuildOptions struct {
	// MultiEdge keeps differently-labeled edges between the same two nodes
	// instead of letting the later label replace the earlier one.
	MultiEdge bool

	// Logger receives warnings about unresolved references. Defaults to slog.Default().
	Logger *slog.Logger
}

// Build constructs the relationship graph from the loaded datasets.
//
// Groups are added first, then people with their employer, affiliation and
// project edges, then projects with their lead edges. Group-to-group edges
// are added in a final pass once every group node exists.
func Build(ds *dataset.Datasets, opts BuildOptions) *Graph {
	g := New()
	if opts.MultiEdge {
		g = NewMulti()
	}

	for _, grp := range ds.Groups {
		g.AddNode(Node{
			ID:    grp.ID,
			Label: grp.Name,
			Kind:  KindGroup,
			Title: GroupTitle(grp),
			Color: ColorGroup,
			URL:   grp.URL,
		})
	}

	resolver := NewResolver(ds, opts.Logger)
	for _, p := range ds.People {
		g.AddNode(Node{
			ID:    p.ID,
			Label: p.Name,
			Kind:  KindPerson,
			Title: PersonTitle(p, resolver),
			Color: ColorPerson,
			URL:   p.ORCIDURL(),
		})
		addEdges(g, p.ID, p.Employer, RelEmployedBy)
		addEdges(g, p.ID, p.AffiliatedIn, RelAffiliatedWith)
		addEdges(g, p.ID, p.InvolvedIn, RelInvolvedIn)
	}

	for _, pr := range ds.Projects {
		g.AddNode(Node{
			ID:    pr.ID,
			Label: pr.Name,
			Kind:  KindProject,
			Title: ProjectTitle(pr),
			Color: ColorProject,
			URL:   pr.URL,
		})
		addEdges(g, pr.ID, pr.Lead, RelLedBy)
	}

	for _, grp := range ds.Groups {
		addEdges(g, grp.ID, grp.MemberOf, RelMemberOf)
		addEdges(g, grp.ID, grp.Parent, RelParent)
		addEdges(g, grp.ID, grp.BasedIn, RelBasedIn)
	}

	return g
}

func addEdges(g *Graph, source string, targets []string, rel Relation) {
	for _, t := range targets {
		g.AddEdge(source, t, rel)
	}
}
