package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ListSeparator separates the ids in a multi-valued cell.
const ListSeparator = "; "

// Column names shared by all tables.
const (
	ColID   = "id"
	ColName = "name"
	ColURL  = "url"
)

// Group table columns.
const (
	ColType     = "type"
	ColFocus    = "focus"
	ColMemberOf = "member of"
	ColParent   = "parent"
	ColBasedIn  = "based in"
)

// Person table columns.
const (
	ColEmployer     = "employer"
	ColAffiliatedIn = "affiliated in"
	ColInvolvedIn   = "involved in"
	ColORCID        = "orcid"
)

// Project table columns.
const (
	ColKeywords = "keywords"
	ColStart    = "start"
	ColEnd      = "end"
	ColLead     = "lead"
)

// Group is a research group, institution, or location.
type Group struct {
	ID       string
	Name     string
	Type     string
	Focus    string
	URL      string
	MemberOf []string
	Parent   []string
	BasedIn  []string
}

// Person is a researcher.
type Person struct {
	ID           string
	Name         string
	Employer     []string
	AffiliatedIn []string
	InvolvedIn   []string
	ORCID        string
}

// ORCIDBaseURL prefixes bare ORCID identifiers.
const ORCIDBaseURL = "https://orcid.org/"

// ORCIDURL returns the ORCID as a URL. Values that already look like URLs
// are returned unchanged.
func (p *Person) ORCIDURL() string {
	if p.ORCID == "" || strings.HasPrefix(p.ORCID, "http://") || strings.HasPrefix(p.ORCID, "https://") {
		return p.ORCID
	}
	return ORCIDBaseURL + p.ORCID
}

// Project is a research project. Start and End are zero when absent.
type Project struct {
	ID       string
	Name     string
	Keywords string
	Start    int
	End      int
	URL      string
	Lead     []string
}

// HasTimeline reports whether both the start and end year are known.
func (p *Project) HasTimeline() bool {
	return p.Start != 0 && p.End != 0
}

// Datasets holds the three loaded tables, both raw and typed.
type Datasets struct {
	GroupTable   *Table
	PersonTable  *Table
	ProjectTable *Table

	Groups   []Group
	People   []Person
	Projects []Project
}

// Paths locates the three source tables.
type Paths struct {
	Groups   string
	People   string
	Projects string
}

// SplitList splits a multi-valued cell on "; ". Items are trimmed and empty
// items dropped, so an empty cell yields nil.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ListSeparator) {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseYear parses a year cell. Values like "2020.0" are truncated to 2020.
// An empty or NaN cell returns 0; infinite or out-of-range values are errors.
func parseYear(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	if math.IsNaN(f) {
		return 0, nil
	}
	if math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return int(f), nil
}

func requireIDs(t *Table) error {
	if err := t.Require(ColID, ColName); err != nil {
		return err
	}
	for i := range t.Rows {
		if t.Get(i, ColID) == "" {
			return fmt.Errorf("%s: line %d: %w", t.Name, i+2, ErrEmptyID)
		}
	}
	return nil
}

// ParseGroups converts a group table into typed records.
func ParseGroups(t *Table) ([]Group, error) {
	if err := requireIDs(t); err != nil {
		return nil, err
	}
	groups := make([]Group, 0, t.Len())
	for i := range t.Rows {
		groups = append(groups, Group{
			ID:       t.Get(i, ColID),
			Name:     t.Get(i, ColName),
			Type:     t.Get(i, ColType),
			Focus:    t.Get(i, ColFocus),
			URL:      t.Get(i, ColURL),
			MemberOf: SplitList(t.Get(i, ColMemberOf)),
			Parent:   SplitList(t.Get(i, ColParent)),
			BasedIn:  SplitList(t.Get(i, ColBasedIn)),
		})
	}
	return groups, nil
}

// ParsePeople converts a person table into typed records.
func ParsePeople(t *Table) ([]Person, error) {
	if err := requireIDs(t); err != nil {
		return nil, err
	}
	people := make([]Person, 0, t.Len())
	for i := range t.Rows {
		people = append(people, Person{
			ID:           t.Get(i, ColID),
			Name:         t.Get(i, ColName),
			Employer:     SplitList(t.Get(i, ColEmployer)),
			AffiliatedIn: SplitList(t.Get(i, ColAffiliatedIn)),
			InvolvedIn:   SplitList(t.Get(i, ColInvolvedIn)),
			ORCID:        t.Get(i, ColORCID),
		})
	}
	return people, nil
}

// ParseProjects converts a project table into typed records.
func ParseProjects(t *Table) ([]Project, error) {
	if err := requireIDs(t); err != nil {
		return nil, err
	}
	projects := make([]Project, 0, t.Len())
	for i := range t.Rows {
		start, err := parseYear(t.Get(i, ColStart))
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: start: %w", t.Name, i+2, err)
		}
		end, err := parseYear(t.Get(i, ColEnd))
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: end: %w", t.Name, i+2, err)
		}
		projects = append(projects, Project{
			ID:       t.Get(i, ColID),
			Name:     t.Get(i, ColName),
			Keywords: t.Get(i, ColKeywords),
			Start:    start,
			End:      end,
			URL:      t.Get(i, ColURL),
			Lead:     SplitList(t.Get(i, ColLead)),
		})
	}
	return projects, nil
}

// FromTables parses already-read tables into a Datasets value.
func FromTables(groups, people, projects *Table) (*Datasets, error) {
	ds := &Datasets{GroupTable: groups, PersonTable: people, ProjectTable: projects}

	var err error
	if ds.Groups, err = ParseGroups(groups); err != nil {
		return nil, err
	}
	if ds.People, err = ParsePeople(people); err != nil {
		return nil, err
	}
	if ds.Projects, err = ParseProjects(projects); err != nil {
		return nil, err
	}
	return ds, nil
}

// Load reads and parses all three tables.
func Load(paths Paths, delim rune) (*Datasets, error) {
	groups, err := LoadTable(paths.Groups, "groups", delim)
	if err != nil {
		return nil, err
	}
	people, err := LoadTable(paths.People, "people", delim)
	if err != nil {
		return nil, err
	}
	projects, err := LoadTable(paths.Projects, "projects", delim)
	if err != nil {
		return nil, err
	}
	return FromTables(groups, people, projects)
}

// GroupNames maps group ids to names.
func (ds *Datasets) GroupNames() map[string]string {
	names := make(map[string]string, len(ds.Groups))
	for _, g := range ds.Groups {
		names[g.ID] = g.Name
	}
	return names
}

// ProjectNames maps project ids to names.
func (ds *Datasets) ProjectNames() map[string]string {
	names := make(map[string]string, len(ds.Projects))
	for _, p := range ds.Projects {
		names[p.ID] = p.Name
	}
	return names
}
