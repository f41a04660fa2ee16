// Package pipeline runs the load, build, render, and export stages in order.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/matsen/dhnet/internal/config"
	"github.com/matsen/dhnet/internal/dataset"
	"github.com/matsen/dhnet/internal/export"
	"github.com/matsen/dhnet/internal/graph"
	"github.com/matsen/dhnet/internal/viz"
)

// Result describes the files written by Run.
type Result struct {
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Dangling   int    `json:"dangling"`
	HTMLPath   string `json:"html_path"`
	HTMLBytes  int64  `json:"html_bytes"`
	CSVPath    string `json:"csv_path"`
	CSVRows    int    `json:"csv_rows"`
	CSVBytes   int64  `json:"csv_bytes"`
	SQLitePath string `json:"sqlite_path,omitempty"`
}

// Pipeline holds the configuration shared by every stage.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock sets the time source used for the page's modification date.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a pipeline for cfg.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load reads the three source tables named by the configuration.
func (p *Pipeline) Load() (*dataset.Datasets, error) {
	paths := dataset.Paths{
		Groups:   p.cfg.GroupsPath(),
		People:   p.cfg.PeoplePath(),
		Projects: p.cfg.ProjectsPath(),
	}
	p.logger.Debug("loading tables", "groups", paths.Groups, "people", paths.People, "projects", paths.Projects)

	ds, err := dataset.Load(paths, p.cfg.DataDelimiter())
	if err != nil {
		return nil, err
	}
	p.logger.Info("loaded tables",
		"groups", len(ds.Groups), "people", len(ds.People), "projects", len(ds.Projects))
	return ds, nil
}

// Graph builds and annotates the relationship graph.
func (p *Pipeline) Graph(ds *dataset.Datasets) *graph.Graph {
	g := graph.Build(ds, graph.BuildOptions{
		MultiEdge: p.cfg.Graph.MultiEdge,
		Logger:    p.logger,
	})
	graph.Annotate(g)

	for _, n := range g.Nodes() {
		if n.Dangling() {
			p.logger.Warn("dangling node", "id", n.ID)
		}
	}
	return g
}

// HTMLOptions maps the render configuration onto page options.
func (p *Pipeline) HTMLOptions() viz.HTMLOptions {
	r := p.cfg.Render
	opts := viz.DefaultOptions()
	if r.Title != "" {
		opts.Title = r.Title
	}
	if r.ScriptURL != "" {
		opts.ScriptURL = r.ScriptURL
	}
	opts.Footer = r.Footer
	opts.Physics = viz.Physics{
		GravitationalConstant: r.GravitationalConstant,
		SpringLength:          r.SpringLength,
	}
	opts.ScalingMin = r.ScalingMin
	opts.ScalingMax = r.ScalingMax

	m := r.Metadata
	opts.Metadata = viz.Metadata{
		Name:         opts.Title,
		Description:  m.Description,
		URL:          m.URL,
		License:      m.License,
		Keywords:     m.Keywords,
		DateModified: p.now().Format("2006-01-02"),
	}
	for _, a := range m.Authors {
		opts.Metadata.Authors = append(opts.Metadata.Authors, toAgent(a))
	}
	if m.Publisher != nil {
		pub := toAgent(*m.Publisher)
		opts.Metadata.Publisher = &pub
	}
	return opts
}

func toAgent(a config.AgentConfig) viz.Agent {
	return viz.Agent{Name: a.Name, URL: a.URL, Organization: a.Organization}
}

// Render writes the network page and returns its size in bytes.
func (p *Pipeline) Render(g *graph.Graph) (int64, error) {
	html, err := viz.GenerateHTML(viz.FromGraph(g), p.HTMLOptions())
	if err != nil {
		return 0, fmt.Errorf("generating HTML: %w", err)
	}

	path := p.cfg.HTMLPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}

	size := int64(len(html))
	p.logger.Info("wrote network page", "path", path, "size", humanize.Bytes(uint64(size)))
	return size, nil
}

// Combined concatenates the three source tables, with a leading kind column
// when export.kind_column is set.
func (p *Pipeline) Combined(ds *dataset.Datasets) (*dataset.Table, error) {
	tables := []*dataset.Table{ds.GroupTable, ds.PersonTable, ds.ProjectTable}
	if !p.cfg.Export.KindColumn {
		return export.Combine(tables...), nil
	}
	kinds := []string{string(graph.KindGroup), string(graph.KindPerson), string(graph.KindProject)}
	return export.CombineWithKind(tables, kinds)
}

// ExportCSV writes the combined table to path and returns its size in bytes.
func (p *Pipeline) ExportCSV(t *dataset.Table, path string) (int64, error) {
	if err := export.WriteCSVFile(path, t, p.cfg.ExportDelimiter()); err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	p.logger.Info("wrote combined export",
		"path", path, "rows", t.Len(), "size", humanize.Bytes(uint64(info.Size())))
	return info.Size(), nil
}

// ExportSQLite writes the combined table to a fresh SQLite file at path.
func (p *Pipeline) ExportSQLite(t *dataset.Table, path string) error {
	if err := export.WriteSQLite(path, t); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	p.logger.Info("wrote SQLite export", "path", path, "rows", t.Len())
	return nil
}

// Run executes every stage: load, build, annotate, render, and export.
func (p *Pipeline) Run() (*Result, error) {
	ds, err := p.Load()
	if err != nil {
		return nil, err
	}

	g := p.Graph(ds)
	stats := graph.Summarize(g, 0)

	res := &Result{
		Nodes:    stats.Nodes,
		Edges:    stats.Edges,
		Dangling: len(stats.Dangling),
		HTMLPath: p.cfg.HTMLPath(),
		CSVPath:  p.cfg.CSVPath(),
	}

	if res.HTMLBytes, err = p.Render(g); err != nil {
		return nil, err
	}

	combined, err := p.Combined(ds)
	if err != nil {
		return nil, err
	}
	res.CSVRows = combined.Len()
	if res.CSVBytes, err = p.ExportCSV(combined, res.CSVPath); err != nil {
		return nil, err
	}

	if p.cfg.Export.SQLite {
		res.SQLitePath = p.cfg.SQLitePath()
		if err := p.ExportSQLite(combined, res.SQLitePath); err != nil {
			return nil, err
		}
	}

	return res, nil
}
