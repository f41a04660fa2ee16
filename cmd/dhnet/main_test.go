package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/matsen/dhnet/internal/graph"
	"github.com/matsen/dhnet/internal/linkcheck"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(tt.level, "text", &buf)
			if !l.Enabled(context.Background(), tt.want) {
				t.Errorf("level %s not enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && l.Enabled(context.Background(), tt.want-4) {
				t.Errorf("level below %s enabled", tt.want)
			}
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	newLogger("info", "json", &buf).Info("wrote network page", "path", "docs/network.html")

	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"path":"docs/network.html"`) {
		t.Errorf("unexpected JSON log line: %s", buf.String())
	}
}

func TestFormatIssue(t *testing.T) {
	tests := []struct {
		name  string
		issue graph.Issue
		want  string
	}{
		{
			name:  "duplicate",
			issue: graph.Issue{Type: graph.IssueDuplicateID, ID: "G1", Reason: "defined 2 times (group, person)"},
			want:  "[duplicate_id] G1: defined 2 times (group, person)",
		},
		{
			name:  "reference",
			issue: graph.Issue{Type: graph.IssueUnknownReference, SourceID: "P1", TargetID: "G9", Relation: graph.RelEmployedBy, Reason: `no group with id "G9"`},
			want:  `[unknown_reference] P1 -[employed by]-> G9: no group with id "G9"`,
		},
		{
			name:  "self reference without reason",
			issue: graph.Issue{Type: graph.IssueSelfReference, SourceID: "G1", TargetID: "G1", Relation: graph.RelParent},
			want:  "[self_reference] G1 -[parent]-> G1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatIssue(tt.issue); got != tt.want {
				t.Errorf("formatIssue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBrokenLinkIssue(t *testing.T) {
	r := linkcheck.Result{
		Link: linkcheck.Link{OwnerID: "G1", Field: "url", URL: "https://lab.example.org"},
		Err:  "HTTP 404",
	}
	got := brokenLinkIssue(r)
	if got.Type != graph.IssueBrokenLink || got.ID != "G1" {
		t.Errorf("brokenLinkIssue() = %+v", got)
	}
	if want := "[broken_link] G1: url https://lab.example.org: HTTP 404"; formatIssue(got) != want {
		t.Errorf("formatIssue() = %q, want %q", formatIssue(got), want)
	}
}

func TestRenderStats(t *testing.T) {
	s := graph.Stats{
		Nodes:      4,
		Edges:      2,
		ByKind:     map[graph.Kind]int{graph.KindGroup: 1, graph.KindPerson: 2},
		ByRelation: map[graph.Relation]int{graph.RelEmployedBy: 2},
		Dangling:   []string{"G404"},
		Top:        []graph.NodeSummary{{ID: "G1", Label: "Digital Lab", Kind: graph.KindGroup, Size: 32.96}},
	}

	// Plain styles keep the output free of escape sequences.
	plain := statsStyles{
		Heading: lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle().Width(18),
		Value:   lipgloss.NewStyle().Width(8).Align(lipgloss.Right),
		Dim:     lipgloss.NewStyle(),
	}
	out := renderStats(s, plain)

	for _, want := range []string{"Nodes", "person", "employed by", "G404", "Digital Lab", "33.0", "(G1, group)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "led by") {
		t.Errorf("output lists a relation with no edges:\n%s", out)
	}
}
