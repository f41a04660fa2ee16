package viz

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matsen/dhnet/internal/graph"
)

func testGraph() *graph.Graph {
	g := graph.New()
	g.AddNode(graph.Node{ID: "G1", Label: "Lab", Kind: graph.KindGroup, Color: graph.ColorGroup, Title: "Type: Lab"})
	g.AddNode(graph.Node{ID: "P1", Label: "Ada", Kind: graph.KindPerson, Color: graph.ColorPerson})
	g.AddEdge("P1", "G1", graph.RelEmployedBy)
	g.AddEdge("P1", "G404", graph.RelAffiliatedWith)
	graph.Annotate(g)
	return g
}

func TestFromGraph(t *testing.T) {
	data := FromGraph(testGraph())

	if len(data.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(data.Nodes))
	}
	if got := data.Nodes[2]; got.ID != "G404" || got.Label != "G404" || got.Kind != "" {
		t.Errorf("dangling node = %+v, want id used as label", got)
	}

	wantEdges := []Edge{
		{ID: "P1-G1-employed by-0", From: "P1", To: "G1", Relation: "employed by", Arrows: "to"},
		{ID: "P1-G404-affiliated with-1", From: "P1", To: "G404", Relation: "affiliated with", Arrows: "to"},
	}
	if diff := cmp.Diff(wantEdges, data.Edges); diff != "" {
		t.Errorf("Edges mismatch (-want +got):\n%s", diff)
	}

	if data.Nodes[0].Size != graph.NodeSize(1) {
		t.Errorf("G1 Size = %v, want %v", data.Nodes[0].Size, graph.NodeSize(1))
	}
}

func TestToJSON(t *testing.T) {
	out, err := FromGraph(testGraph()).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var decoded struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("ToJSON() produced invalid JSON: %v", err)
	}
	if decoded.Edges[0]["from"] != "P1" || decoded.Edges[0]["to"] != "G1" {
		t.Errorf("edge 0 = %v, want from P1 to G1", decoded.Edges[0])
	}
	if decoded.Edges[0]["label"] != "employed by" {
		t.Errorf("edge 0 label = %v, want employed by", decoded.Edges[0]["label"])
	}
}

func TestToJSON_EmptyArrays(t *testing.T) {
	out, err := (&GraphData{}).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if out != `{"nodes":[],"edges":[]}` {
		t.Errorf("ToJSON() = %s", out)
	}
}

func TestGenerateHTML(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = "DH Landscape"
	opts.Footer = `Data: <a href="https://example.org">example</a>`
	opts.Metadata = Metadata{
		Description: "Groups, people and projects",
		Authors:     []Agent{{Name: "Ada Lovelace", URL: "https://orcid.org/0000"}},
		Publisher:   &Agent{Name: "DH Lab", Organization: true},
	}

	html, err := GenerateHTML(FromGraph(testGraph()), opts)
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}

	for _, want := range []string{
		"<title>DH Landscape</title>",
		`<meta name="author" content="Ada Lovelace">`,
		`"gravitationalConstant":-20000`,
		`"springLength":150`,
		`"shape":"dot"`,
		`"multiselect":true`,
		`"hover":true`,
		`application/ld+json`,
		`"@type":"Dataset"`,
		`"@type":"Organization"`,
		`<footer>Data: <a href="https://example.org">example</a></footer>`,
		`network.focus(`,
		DefaultScriptURL,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("GenerateHTML() missing %q", want)
		}
	}
}

func TestGenerateHTML_EscapesTitle(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = "<script>x</script>"
	html, err := GenerateHTML(FromGraph(testGraph()), opts)
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if strings.Contains(html, "<title><script>") {
		t.Error("GenerateHTML() did not escape title")
	}
}

func TestGenerateHTML_Empty(t *testing.T) {
	html, err := GenerateHTML(&GraphData{}, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if !strings.Contains(html, "No graph data") {
		t.Error("empty graph did not render empty state")
	}
}

func TestGenerateHTML_Errors(t *testing.T) {
	if _, err := GenerateHTML(nil, DefaultOptions()); err == nil {
		t.Error("GenerateHTML(nil) error = nil, want error")
	}

	opts := DefaultOptions()
	opts.ScalingMin, opts.ScalingMax = 40, 10
	if _, err := GenerateHTML(FromGraph(testGraph()), opts); err == nil {
		t.Error("GenerateHTML() with min > max error = nil, want error")
	}
}

func TestMetadata_JSONLD(t *testing.T) {
	m := Metadata{
		Name:     "Landscape",
		Keywords: []string{"dh"},
		Authors:  []Agent{{Name: "Ada"}},
	}
	out, err := m.JSONLD()
	if err != nil {
		t.Fatalf("JSONLD() error = %v", err)
	}
	want := `{"@context":"https://schema.org","@type":"Dataset","name":"Landscape","keywords":["dh"],"author":[{"@type":"Person","name":"Ada"}]}`
	if out != want {
		t.Errorf("JSONLD() = %s, want %s", out, want)
	}
}
