package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matsen/dhnet/internal/graph"
	"github.com/spf13/cobra"
)

var statsTop int

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "Number of largest nodes to list")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the network",
	Long: `Build the graph without writing any files and report node counts per kind,
edge counts per relation, dangling nodes, and the largest nodes by size.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	p := newPipeline(cfg)

	ds, err := p.Load()
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	s := graph.Summarize(p.Graph(ds), statsTop)

	if !humanOutput {
		return outputJSON(s)
	}
	fmt.Println(renderStats(s, newStatsStyles(defaultTheme)))
	return nil
}

// theme is the color scheme for human output.
type theme struct {
	Primary lipgloss.Color
	Dim     lipgloss.Color
}

var defaultTheme = theme{
	Primary: lipgloss.Color("#5fafd7"),
	Dim:     lipgloss.Color("#6e7681"),
}

type statsStyles struct {
	Heading lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Dim     lipgloss.Style
}

func newStatsStyles(t theme) statsStyles {
	return statsStyles{
		Heading: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:   lipgloss.NewStyle().Width(18),
		Value:   lipgloss.NewStyle().Width(8).Align(lipgloss.Right),
		Dim:     lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// renderStats lays out the summary as labeled sections.
func renderStats(s graph.Stats, st statsStyles) string {
	var lines []string
	row := func(label string, value interface{}) {
		lines = append(lines, st.Label.Render(label)+st.Value.Render(fmt.Sprint(value)))
	}

	lines = append(lines, st.Heading.Render("Nodes"))
	for _, k := range []graph.Kind{graph.KindGroup, graph.KindPerson, graph.KindProject} {
		row(string(k), s.ByKind[k])
	}
	if len(s.Dangling) > 0 {
		row("dangling", len(s.Dangling))
	}
	row("total", s.Nodes)
	if s.Components > 0 {
		row("components", s.Components)
		row("largest", s.Largest)
	}

	lines = append(lines, "", st.Heading.Render("Edges"))
	for _, r := range graph.Relations {
		if n := s.ByRelation[r]; n > 0 {
			row(string(r), n)
		}
	}
	row("total", s.Edges)

	if len(s.Dangling) > 0 {
		lines = append(lines, "", st.Heading.Render("Dangling"))
		lines = append(lines, st.Dim.Render(strings.Join(s.Dangling, ", ")))
	}

	if len(s.Top) > 0 {
		lines = append(lines, "", st.Heading.Render("Largest nodes"))
		for i, n := range s.Top {
			lines = append(lines, fmt.Sprintf("%2d. %s %s %s",
				i+1, st.Value.Render(fmt.Sprintf("%.1f", n.Size)), n.Label, st.Dim.Render("("+n.ID+", "+string(n.Kind)+")")))
		}
	}

	return strings.Join(lines, "\n")
}
