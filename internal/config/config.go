// Package config handles project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the project configuration file name.
const ConfigFile = "dhnet.yml"

// Environment overrides, applied after the config file and before flags.
const (
	EnvDataDir   = "DHNET_DATA_DIR"
	EnvOutputDir = "DHNET_OUTPUT_DIR"
)

// Config represents project configuration stored in dhnet.yml.
type Config struct {
	Data   DataConfig   `yaml:"data"`
	Output OutputConfig `yaml:"output"`
	Graph  GraphConfig  `yaml:"graph"`
	Render RenderConfig `yaml:"render"`
	Export ExportConfig `yaml:"export"`
	Check  CheckConfig  `yaml:"check"`

	// base is the directory relative paths are resolved against.
	base string
}

// DataConfig locates the three source tables.
type DataConfig struct {
	Dir       string `yaml:"dir"`
	Groups    string `yaml:"groups"`
	People    string `yaml:"people"`
	Projects  string `yaml:"projects"`
	Delimiter string `yaml:"delimiter"`
}

// OutputConfig locates the generated files.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	HTML   string `yaml:"html"`
	CSV    string `yaml:"csv"`
	SQLite string `yaml:"sqlite"`
}

// GraphConfig controls graph construction.
type GraphConfig struct {
	MultiEdge bool `yaml:"multi_edge"`
}

// RenderConfig controls the HTML page.
type RenderConfig struct {
	Title                 string         `yaml:"title"`
	Footer                string         `yaml:"footer,omitempty"`
	ScriptURL             string         `yaml:"script_url,omitempty"`
	GravitationalConstant float64        `yaml:"gravitational_constant"`
	SpringLength          float64        `yaml:"spring_length"`
	ScalingMin            float64        `yaml:"scaling_min"`
	ScalingMax            float64        `yaml:"scaling_max"`
	Metadata              MetadataConfig `yaml:"metadata,omitempty"`
}

// MetadataConfig is the structured page metadata.
type MetadataConfig struct {
	Description string        `yaml:"description,omitempty"`
	URL         string        `yaml:"url,omitempty"`
	License     string        `yaml:"license,omitempty"`
	Keywords    []string      `yaml:"keywords,omitempty"`
	Authors     []AgentConfig `yaml:"authors,omitempty"`
	Publisher   *AgentConfig  `yaml:"publisher,omitempty"`
}

// AgentConfig is an author or publisher.
type AgentConfig struct {
	Name         string `yaml:"name"`
	URL          string `yaml:"url,omitempty"`
	Organization bool   `yaml:"organization,omitempty"`
}

// ExportConfig controls the combined export.
type ExportConfig struct {
	Delimiter  string `yaml:"delimiter"`
	KindColumn bool   `yaml:"kind_column"`
	SQLite     bool   `yaml:"sqlite"`
}

// CheckConfig controls the link checker.
type CheckConfig struct {
	RatePerSecond  float64 `yaml:"rate_per_second"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	UserAgent      string  `yaml:"user_agent,omitempty"`
}

// Default returns the configuration matching the standard project layout:
// tables under data/, outputs under docs/.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:       "data",
			Groups:    "01_group.csv",
			People:    "02_person.csv",
			Projects:  "03_project.csv",
			Delimiter: ";",
		},
		Output: OutputConfig{
			Dir:    "docs",
			HTML:   "network.html",
			CSV:    "combined_data.csv",
			SQLite: "combined_data.db",
		},
		Render: RenderConfig{
			Title:                 "Digital Humanities Landscape",
			GravitationalConstant: -20000,
			SpringLength:          150,
			ScalingMin:            10,
			ScalingMax:            30,
		},
		Export: ExportConfig{
			Delimiter: ",",
		},
		Check: CheckConfig{
			RatePerSecond:  2,
			TimeoutSeconds: 15,
		},
	}
}

// Validation errors.
var (
	ErrInvalidDelimiter = errors.New("delimiter must be a single character")
	ErrInvalidScaling   = errors.New("scaling_min must not exceed scaling_max")
	ErrInvalidRate      = errors.New("rate_per_second must be positive")
)

// Load reads configuration from path on top of the defaults. A missing file
// yields the defaults with relative paths resolved against the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.base = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Data.Delimiter) != 1 {
		return fmt.Errorf("data.delimiter %q: %w", c.Data.Delimiter, ErrInvalidDelimiter)
	}
	if utf8.RuneCountInString(c.Export.Delimiter) != 1 {
		return fmt.Errorf("export.delimiter %q: %w", c.Export.Delimiter, ErrInvalidDelimiter)
	}
	if c.Render.ScalingMin > c.Render.ScalingMax {
		return ErrInvalidScaling
	}
	if c.Check.RatePerSecond <= 0 {
		return ErrInvalidRate
	}
	return nil
}

// ApplyEnv overrides the data and output directories from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
	}
	if v := getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
}

// SetBase sets the directory relative paths are resolved against.
func (c *Config) SetBase(dir string) {
	c.base = dir
}

// resolve joins a relative path onto dir and the config base.
func (c *Config) resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	dir = ExpandPath(dir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.base, dir)
	}
	return filepath.Join(dir, name)
}

// GroupsPath returns the path to the group table.
func (c *Config) GroupsPath() string {
	return c.resolve(c.Data.Dir, c.Data.Groups)
}

// PeoplePath returns the path to the person table.
func (c *Config) PeoplePath() string {
	return c.resolve(c.Data.Dir, c.Data.People)
}

// ProjectsPath returns the path to the project table.
func (c *Config) ProjectsPath() string {
	return c.resolve(c.Data.Dir, c.Data.Projects)
}

// HTMLPath returns the path to the rendered network page.
func (c *Config) HTMLPath() string {
	return c.resolve(c.Output.Dir, c.Output.HTML)
}

// CSVPath returns the path to the combined export.
func (c *Config) CSVPath() string {
	return c.resolve(c.Output.Dir, c.Output.CSV)
}

// SQLitePath returns the path to the combined SQLite export.
func (c *Config) SQLitePath() string {
	return c.resolve(c.Output.Dir, c.Output.SQLite)
}

// DataDelimiter returns the source table delimiter.
func (c *Config) DataDelimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Data.Delimiter)
	return r
}

// ExportDelimiter returns the combined export delimiter.
func (c *Config) ExportDelimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Export.Delimiter)
	return r
}

// FindConfig walks up from start looking for dhnet.yml.
// Returns the path and true when found.
func FindConfig(start string) (string, bool) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		path := filepath.Join(abs, ConfigFile)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", false
		}
		abs = parent
	}
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
