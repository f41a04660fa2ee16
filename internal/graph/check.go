package graph

import (
	"fmt"
	"sort"

	"github.com/matsen/dhnet/internal/dataset"
)

// Issue types reported by Check.
const (
	IssueDuplicateID      = "duplicate_id"
	IssueUnknownReference = "unknown_reference"
	IssueKindMismatch     = "kind_mismatch"
	IssueSelfReference    = "self_reference"
	IssueBrokenLink       = "broken_link"
)

// Issue is a single integrity problem in the datasets.
type Issue struct {
	Type     string   `json:"type"`
	ID       string   `json:"id,omitempty"`
	IDs      []string `json:"ids,omitempty"`
	SourceID string   `json:"source_id,omitempty"`
	TargetID string   `json:"target_id,omitempty"`
	Relation Relation `json:"relation,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// reference is one id listed in a multi-valued cell, with the kind it should point at.
type reference struct {
	source   string
	target   string
	relation Relation
	expected Kind
}

// references lists every cross-reference in the datasets in build order.
func references(ds *dataset.Datasets) []reference {
	var refs []reference
	add := func(source string, targets []string, rel Relation, expected Kind) {
		for _, t := range targets {
			refs = append(refs, reference{source: source, target: t, relation: rel, expected: expected})
		}
	}
	for _, p := range ds.People {
		add(p.ID, p.Employer, RelEmployedBy, KindGroup)
		add(p.ID, p.AffiliatedIn, RelAffiliatedWith, KindGroup)
		add(p.ID, p.InvolvedIn, RelInvolvedIn, KindProject)
	}
	for _, pr := range ds.Projects {
		add(pr.ID, pr.Lead, RelLedBy, KindGroup)
	}
	for _, g := range ds.Groups {
		add(g.ID, g.MemberOf, RelMemberOf, KindGroup)
		add(g.ID, g.Parent, RelParent, KindGroup)
		add(g.ID, g.BasedIn, RelBasedIn, KindGroup)
	}
	return refs
}

// Check reports duplicate ids and references that would produce dangling or
// mis-typed nodes in the graph.
func Check(ds *dataset.Datasets) []Issue {
	kinds := make(map[string][]Kind)
	for _, g := range ds.Groups {
		kinds[g.ID] = append(kinds[g.ID], KindGroup)
	}
	for _, p := range ds.People {
		kinds[p.ID] = append(kinds[p.ID], KindPerson)
	}
	for _, p := range ds.Projects {
		kinds[p.ID] = append(kinds[p.ID], KindProject)
	}

	var issues []Issue

	dupIDs := make([]string, 0)
	for id, ks := range kinds {
		if len(ks) > 1 {
			dupIDs = append(dupIDs, id)
		}
	}
	sort.Strings(dupIDs)
	for _, id := range dupIDs {
		issues = append(issues, Issue{
			Type:   IssueDuplicateID,
			ID:     id,
			Reason: fmt.Sprintf("defined %d times (%s)", len(kinds[id]), joinKinds(kinds[id])),
		})
	}

	for _, r := range references(ds) {
		base := Issue{SourceID: r.source, TargetID: r.target, Relation: r.relation}
		switch ks, ok := kinds[r.target]; {
		case r.source == r.target:
			base.Type = IssueSelfReference
			issues = append(issues, base)
		case !ok:
			base.Type = IssueUnknownReference
			base.Reason = fmt.Sprintf("no %s with id %q", r.expected, r.target)
			issues = append(issues, base)
		case !containsKind(ks, r.expected):
			base.Type = IssueKindMismatch
			base.Reason = fmt.Sprintf("expected %s, found %s", r.expected, joinKinds(ks))
			issues = append(issues, base)
		}
	}

	return issues
}

func containsKind(ks []Kind, k Kind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}

func joinKinds(ks []Kind) string {
	s := ""
	for i, k := range ks {
		if i > 0 {
			s += ", "
		}
		s += string(k)
	}
	return s
}
