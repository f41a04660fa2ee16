package main

import (
	"os"
	"path/filepath"

	"github.com/matsen/dhnet/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing dhnet.yml")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default dhnet.yml",
	Long: `Write a dhnet.yml with the default paths, layout physics, and export
settings into dir (default: the current directory).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = config.ExpandPath(args[0])
	}
	path := filepath.Join(dir, config.ConfigFile)

	if _, err := os.Stat(path); err == nil && !initForce {
		exitWithError(ExitConfigError, "%s already exists (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		exitWithError(ExitError, "creating directory: %v", err)
	}
	if err := config.Default().Save(path); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Wrote %s\n", path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "created", Path: path})
}
