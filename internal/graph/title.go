package graph

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/matsen/dhnet/internal/dataset"
)

// lineBreak separates lines in a node title.
const lineBreak = "<br>"

// titleBuilder accumulates escaped "Label: value" lines, skipping empty values.
type titleBuilder struct {
	lines []string
}

func (b *titleBuilder) add(label, value string) {
	if value == "" {
		return
	}
	b.lines = append(b.lines, label+": "+html.EscapeString(value))
}

func (b *titleBuilder) addLink(label, url string) {
	if url == "" {
		return
	}
	u := html.EscapeString(url)
	b.lines = append(b.lines, fmt.Sprintf(`%s: <a href="%s" target="_blank">%s</a>`, label, u, u))
}

func (b *titleBuilder) String() string {
	return strings.Join(b.lines, lineBreak)
}

// GroupTitle renders the hover description for a group.
func GroupTitle(g dataset.Group) string {
	var b titleBuilder
	b.add("Type", g.Type)
	b.add("Focus", g.Focus)
	b.addLink("URL", g.URL)
	return b.String()
}

// ProjectTitle renders the hover description for a project. The timeline line
// appears only when both start and end year are known.
func ProjectTitle(p dataset.Project) string {
	var b titleBuilder
	b.add("Keywords", p.Keywords)
	if p.HasTimeline() {
		b.add("Timeline", fmt.Sprintf("%d - %d", p.Start, p.End))
	}
	b.addLink("URL", p.URL)
	return b.String()
}

// PersonTitle renders the hover description for a person, with referenced
// group and project ids replaced by their names.
func PersonTitle(p dataset.Person, r *Resolver) string {
	var b titleBuilder
	b.add("Employer", strings.Join(r.Groups(p.ID, p.Employer), ", "))
	b.add("Affiliated with", strings.Join(r.Groups(p.ID, p.AffiliatedIn), ", "))
	b.add("Involved in", strings.Join(r.Projects(p.ID, p.InvolvedIn), ", "))
	b.addLink("ORCID", p.ORCIDURL())
	return b.String()
}

// Resolver maps referenced ids to display names. Ids that do not resolve are
// shown as-is and reported once through the logger.
type Resolver struct {
	groups   map[string]string
	projects map[string]string
	logger   *slog.Logger
	warned   map[string]bool
}

// NewResolver creates a resolver over the loaded datasets.
func NewResolver(ds *dataset.Datasets, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		groups:   ds.GroupNames(),
		projects: ds.ProjectNames(),
		logger:   logger,
		warned:   make(map[string]bool),
	}
}

// Groups resolves group ids referenced by owner.
func (r *Resolver) Groups(owner string, ids []string) []string {
	return r.resolve(owner, ids, r.groups, KindGroup)
}

// Projects resolves project ids referenced by owner.
func (r *Resolver) Projects(owner string, ids []string) []string {
	return r.resolve(owner, ids, r.projects, KindProject)
}

func (r *Resolver) resolve(owner string, ids []string, names map[string]string, kind Kind) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			if !r.warned[id] {
				r.warned[id] = true
				r.logger.Warn("unresolved reference", "from", owner, "id", id, "expected", string(kind))
			}
			name = id
		}
		out = append(out, name)
	}
	return out
}
