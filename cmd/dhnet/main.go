// Package main provides the dhnet CLI entry point.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/dhnet/internal/config"
	"github.com/matsen/dhnet/internal/pipeline"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	configPath  string
	logLevel    string
	logFormat   string
	verbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dhnet",
	Short: "Build the digital humanities landscape network",
	Long: `dhnet turns three semicolon-separated tables (groups, people, projects)
into an interactive network page and a combined CSV export.

Typical layout:
  data/01_group.csv    data/02_person.csv    data/03_project.csv
  docs/network.html    docs/combined_data.csv

Paths, page metadata, and layout physics are read from dhnet.yml.
All commands output JSON by default; pass --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is normal.
		_ = godotenv.Load()

		if verbose {
			logLevel = "debug"
		}
		slog.SetDefault(newLogger(logLevel, logFormat, os.Stderr))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to dhnet.yml (default: nearest dhnet.yml above the working directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level debug")
	rootCmd.Version = Version
}

// newLogger builds the stderr logger. Unknown levels fall back to info.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// mustLoadConfig resolves and loads dhnet.yml with environment overrides
// applied, exits on error.
func mustLoadConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	path, err := config.Resolve(configPath, cwd)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	cfg.ApplyEnv(os.Getenv)
	slog.Debug("using config", "path", path)
	return cfg
}

// newPipeline creates a pipeline logging through the default logger.
func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	return pipeline.New(cfg, pipeline.WithLogger(slog.Default()))
}
