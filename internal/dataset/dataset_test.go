package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const groupsCSV = `id;name;type;focus;url;member of;parent;based in
G1;Digital Lab;Lab;Text mining;https://lab.example.org;G2;;L1
G2;University;Institution;;;;;L1
L1;Berlin;Location;;;;;
`

const peopleCSV = `id;name;employer;affiliated in;involved in;orcid
P1;Ada;"G1; G2";;PR-X;0000-0001
P2;Ben;G1;;;
`

const projectsCSV = `id;name;keywords;start;end;url;lead
PR1;Corpus;NLP;2020.0;2023;https://corpus.example.org;G1
PR2;Archive;Archives;;2021;;G2
`

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"G1", []string{"G1"}},
		{"G1; G2", []string{"G1", "G2"}},
		{"G1; ; G2 ", []string{"G1", "G2"}},
		{"G1;G2", []string{"G1;G2"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := SplitList(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitList(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestReadTable_PadsAndSkipsBlankRows(t *testing.T) {
	in := "id;name;url\nA;Alpha\n\n;;\nB;Beta;http://b;extra\n"
	tbl, err := ReadTable(strings.NewReader(in), "t", ';')
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if got := tbl.Get(0, "url"); got != "" {
		t.Errorf("Get(0, url) = %q, want empty", got)
	}
	if got := tbl.Get(1, "url"); got != "http://b" {
		t.Errorf("Get(1, url) = %q, want http://b", got)
	}
	if got := tbl.Get(0, "absent"); got != "" {
		t.Errorf("Get(0, absent) = %q, want empty", got)
	}
}

func TestReadTable_Empty(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""), "t", ';')
	if !errors.Is(err, ErrEmptyHeader) {
		t.Errorf("ReadTable() error = %v, want ErrEmptyHeader", err)
	}
}

func TestFromTables(t *testing.T) {
	ds := mustParse(t, groupsCSV, peopleCSV, projectsCSV)

	wantGroups := []Group{
		{ID: "G1", Name: "Digital Lab", Type: "Lab", Focus: "Text mining", URL: "https://lab.example.org", MemberOf: []string{"G2"}, BasedIn: []string{"L1"}},
		{ID: "G2", Name: "University", Type: "Institution", BasedIn: []string{"L1"}},
		{ID: "L1", Name: "Berlin", Type: "Location"},
	}
	if diff := cmp.Diff(wantGroups, ds.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}

	wantPeople := []Person{
		{ID: "P1", Name: "Ada", Employer: []string{"G1", "G2"}, InvolvedIn: []string{"PR-X"}, ORCID: "0000-0001"},
		{ID: "P2", Name: "Ben", Employer: []string{"G1"}},
	}
	if diff := cmp.Diff(wantPeople, ds.People); diff != "" {
		t.Errorf("people mismatch (-want +got):\n%s", diff)
	}

	wantProjects := []Project{
		{ID: "PR1", Name: "Corpus", Keywords: "NLP", Start: 2020, End: 2023, URL: "https://corpus.example.org", Lead: []string{"G1"}},
		{ID: "PR2", Name: "Archive", Keywords: "Archives", End: 2021, Lead: []string{"G2"}},
	}
	if diff := cmp.Diff(wantProjects, ds.Projects); diff != "" {
		t.Errorf("projects mismatch (-want +got):\n%s", diff)
	}
	if !ds.Projects[0].HasTimeline() {
		t.Error("PR1 HasTimeline() = false, want true")
	}
	if ds.Projects[1].HasTimeline() {
		t.Error("PR2 HasTimeline() = true, want false")
	}
}

func TestParsePeople_QuotedList(t *testing.T) {
	people := `id;name;employer;affiliated in;involved in;orcid
P1;Ada;"G1; G2";G3;"PR1; PR2";0000-0001
`
	tbl, err := ReadTable(strings.NewReader(people), "people", ';')
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	got, err := ParsePeople(tbl)
	if err != nil {
		t.Fatalf("ParsePeople() error = %v", err)
	}
	want := []Person{{
		ID:           "P1",
		Name:         "Ada",
		Employer:     []string{"G1", "G2"},
		AffiliatedIn: []string{"G3"},
		InvolvedIn:   []string{"PR1", "PR2"},
		ORCID:        "0000-0001",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParsePeople() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("name;url\nAlpha;\n"), "groups", ';')
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	_, err = ParseGroups(tbl)
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("ParseGroups() error = %v, want ErrMissingColumn", err)
	}
}

func TestParse_EmptyID(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("id;name\n;Alpha\n"), "groups", ';')
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	_, err = ParseGroups(tbl)
	if !errors.Is(err, ErrEmptyID) {
		t.Errorf("ParseGroups() error = %v, want ErrEmptyID", err)
	}
}

func TestParseProjects_InvalidYear(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("id;name;start;end\nPR1;X;soon;2020\n"), "projects", ';')
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if _, err := ParseProjects(tbl); err == nil {
		t.Error("ParseProjects() error = nil, want error for non-numeric year")
	}
}

func TestParseProjects_NaNYearIsMissing(t *testing.T) {
	input := "id;name;keywords;start;end;url;lead\n" +
		"PR1;Z;k;NaN;2023;;\n" +
		"PR2;W;k;NAN;N/A;;\n"
	tbl, err := ReadTable(strings.NewReader(input), "projects", ';')
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	got, err := ParseProjects(tbl)
	if err != nil {
		t.Fatalf("ParseProjects() error = %v", err)
	}
	for _, p := range got {
		if p.Start != 0 || p.HasTimeline() {
			t.Errorf("%s: Start = %d, HasTimeline() = %v, want 0, false", p.ID, p.Start, p.HasTimeline())
		}
	}
	if got[1].End != 0 {
		t.Errorf("PR2 End = %d, want 0", got[1].End)
	}
}

func TestParseProjects_InfiniteYear(t *testing.T) {
	for _, year := range []string{"inf", "-Inf", "Infinity", "1e30"} {
		t.Run(year, func(t *testing.T) {
			input := "id;name;start;end\nPR1;W;" + year + ";2023\n"
			tbl, err := ReadTable(strings.NewReader(input), "projects", ';')
			if err != nil {
				t.Fatalf("ReadTable() error = %v", err)
			}
			if _, err := ParseProjects(tbl); err == nil {
				t.Errorf("ParseProjects() error = nil, want error for start %q", year)
			}
		})
	}
}

func TestGet_MissingMarkers(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("id;name;employer;orcid\nP1;Ada;NA;null\nP2;Ben; G1 ;None\n"), "people", ';')
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	people, err := ParsePeople(tbl)
	if err != nil {
		t.Fatalf("ParsePeople() error = %v", err)
	}
	want := []Person{
		{ID: "P1", Name: "Ada"},
		{ID: "P2", Name: "Ben", Employer: []string{"G1"}},
	}
	if diff := cmp.Diff(want, people); diff != "" {
		t.Errorf("people mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Groups:   filepath.Join(dir, "01_group.csv"),
		People:   filepath.Join(dir, "02_person.csv"),
		Projects: filepath.Join(dir, "03_project.csv"),
	}
	for path, content := range map[string]string{
		paths.Groups:   groupsCSV,
		paths.People:   peopleCSV,
		paths.Projects: projectsCSV,
	} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	ds, err := Load(paths, DefaultDelimiter)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds.Groups) != 3 || len(ds.People) != 2 || len(ds.Projects) != 2 {
		t.Errorf("Load() counts = %d/%d/%d, want 3/2/2", len(ds.Groups), len(ds.People), len(ds.Projects))
	}
	if got := ds.GroupNames()["G1"]; got != "Digital Lab" {
		t.Errorf("GroupNames()[G1] = %q, want Digital Lab", got)
	}
	if got := ds.ProjectNames()["PR2"]; got != "Archive" {
		t.Errorf("ProjectNames()[PR2] = %q, want Archive", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(Paths{
		Groups:   filepath.Join(dir, "nope.csv"),
		People:   filepath.Join(dir, "nope.csv"),
		Projects: filepath.Join(dir, "nope.csv"),
	}, DefaultDelimiter)
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
}

func mustParse(t *testing.T, groups, people, projects string) *Datasets {
	t.Helper()
	read := func(name, s string) *Table {
		tbl, err := ReadTable(strings.NewReader(s), name, ';')
		if err != nil {
			t.Fatalf("ReadTable(%s) error = %v", name, err)
		}
		return tbl
	}
	ds, err := FromTables(read("groups", groups), read("people", people), read("projects", projects))
	if err != nil {
		t.Fatalf("FromTables() error = %v", err)
	}
	return ds
}

func TestORCIDURL(t *testing.T) {
	tests := map[string]string{
		"":                            "",
		"0000-0001":                   "https://orcid.org/0000-0001",
		"https://orcid.org/0000-0001": "https://orcid.org/0000-0001",
		"http://orcid.org/0000-0001":  "http://orcid.org/0000-0001",
	}
	for in, want := range tests {
		p := Person{ORCID: in}
		if got := p.ORCIDURL(); got != want {
			t.Errorf("ORCIDURL() for %q = %q, want %q", in, got, want)
		}
	}
}
