package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	buildDataDir   string
	buildOutputDir string
	buildMultiEdge bool
	buildSQLite    bool
)

func init() {
	buildCmd.Flags().StringVar(&buildDataDir, "data-dir", "", "Directory holding the three source tables (overrides config)")
	buildCmd.Flags().StringVar(&buildOutputDir, "output-dir", "", "Directory for the page and export (overrides config)")
	buildCmd.Flags().BoolVar(&buildMultiEdge, "multi-edge", false, "Keep differently-labeled edges between the same two nodes")
	buildCmd.Flags().BoolVar(&buildSQLite, "sqlite", false, "Also write the combined table to SQLite")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the network page and write the combined export",
	Long: `Load the group, person, and project tables, build the relationship graph,
and write the interactive network page and the combined CSV.

Examples:
  # Use data/ and docs/ (or the paths in dhnet.yml)
  dhnet build

  # Read from another directory and keep parallel edges
  dhnet build --data-dir ./snapshot --multi-edge --human`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if buildDataDir != "" {
		cfg.Data.Dir = buildDataDir
	}
	if buildOutputDir != "" {
		cfg.Output.Dir = buildOutputDir
	}
	if buildMultiEdge {
		cfg.Graph.MultiEdge = true
	}
	if buildSQLite {
		cfg.Export.SQLite = true
	}

	res, err := newPipeline(cfg).Run()
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if !humanOutput {
		return outputJSON(res)
	}

	outputHuman("Graph: %d nodes, %d edges", res.Nodes, res.Edges)
	if res.Dangling > 0 {
		outputHuman(" (%d dangling)", res.Dangling)
	}
	outputHuman("\n")
	outputHuman("Wrote %s (%s)\n", res.HTMLPath, humanize.Bytes(uint64(res.HTMLBytes)))
	outputHuman("Wrote %s (%d rows, %s)\n", res.CSVPath, res.CSVRows, humanize.Bytes(uint64(res.CSVBytes)))
	if res.SQLitePath != "" {
		outputHuman("Wrote %s\n", res.SQLitePath)
	}
	return nil
}
