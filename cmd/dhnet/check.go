package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/matsen/dhnet/internal/config"
	"github.com/matsen/dhnet/internal/graph"
	"github.com/matsen/dhnet/internal/linkcheck"
	"github.com/spf13/cobra"
)

var checkLinks bool

func init() {
	checkCmd.Flags().BoolVar(&checkLinks, "links", false, "Also request every group, project, and ORCID URL")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the source tables",
	Long: `Verify the source tables: duplicate ids, references to unknown ids or to
the wrong kind of entity, and self references. With --links, every URL is
requested (rate-limited) and unreachable ones are reported.

Exits with status 3 when any issue is found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status   string        `json:"status"`
	Groups   int           `json:"groups"`
	People   int           `json:"people"`
	Projects int           `json:"projects"`
	Links    int           `json:"links,omitempty"`
	Issues   []graph.Issue `json:"issues"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	ds, err := newPipeline(cfg).Load()
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	result := CheckResult{
		Groups:   len(ds.Groups),
		People:   len(ds.People),
		Projects: len(ds.Projects),
		Issues:   graph.Check(ds),
	}

	if checkLinks {
		links := linkcheck.Collect(ds)
		result.Links = len(links)
		broken, err := checkLinkIssues(links, cfg)
		if err != nil {
			exitWithError(ExitError, "checking links: %v", err)
		}
		result.Issues = append(result.Issues, broken...)
	}

	if result.Issues == nil {
		result.Issues = []graph.Issue{}
	}
	result.Status = "ok"
	if len(result.Issues) > 0 {
		result.Status = "issues_found"
	}

	if humanOutput {
		printCheckHuman(result)
	} else if err := outputJSON(result); err != nil {
		return err
	}

	if len(result.Issues) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}

// checkLinkIssues requests every link until done or interrupted and reports
// the failures as broken_link issues.
func checkLinkIssues(links []linkcheck.Link, cfg *config.Config) ([]graph.Issue, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	broken, err := newLinkChecker(cfg).CheckAll(ctx, links)
	if err != nil {
		return nil, err
	}
	issues := make([]graph.Issue, 0, len(broken))
	for _, r := range broken {
		issues = append(issues, brokenLinkIssue(r))
	}
	return issues, nil
}

func brokenLinkIssue(r linkcheck.Result) graph.Issue {
	return graph.Issue{
		Type:   graph.IssueBrokenLink,
		ID:     r.OwnerID,
		Reason: fmt.Sprintf("%s %s: %s", r.Field, r.URL, r.Err),
	}
}

// newLinkChecker configures a checker from the check section, falling back to
// the global user agent.
func newLinkChecker(cfg *config.Config) *linkcheck.Checker {
	ua := cfg.Check.UserAgent
	if ua == "" {
		if global, err := config.LoadGlobalConfig(); err == nil {
			ua = global.UserAgent
		} else {
			slog.Warn("ignoring global config", "error", err)
		}
	}

	opts := []linkcheck.Option{
		linkcheck.WithRate(cfg.Check.RatePerSecond),
		linkcheck.WithUserAgent(ua),
	}
	if cfg.Check.TimeoutSeconds > 0 {
		opts = append(opts, linkcheck.WithTimeout(time.Duration(cfg.Check.TimeoutSeconds)*time.Second))
	}
	return linkcheck.New(opts...)
}

func printCheckHuman(r CheckResult) {
	outputHuman("Checked %d groups, %d people, %d projects", r.Groups, r.People, r.Projects)
	if r.Links > 0 {
		outputHuman(", %d links", r.Links)
	}
	outputHuman("\n")

	if len(r.Issues) == 0 {
		outputHuman("No issues found\n")
		return
	}

	outputHuman("\nFound %d issue(s):\n", len(r.Issues))
	for _, issue := range r.Issues {
		outputHuman("  %s\n", formatIssue(issue))
	}
}

// formatIssue renders an issue on one line.
func formatIssue(i graph.Issue) string {
	var line string
	if i.SourceID != "" {
		line = fmt.Sprintf("[%s] %s -[%s]-> %s", i.Type, i.SourceID, i.Relation, i.TargetID)
	} else {
		line = fmt.Sprintf("[%s] %s", i.Type, i.ID)
	}
	if i.Reason != "" {
		line += ": " + i.Reason
	}
	return line
}
