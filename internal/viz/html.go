package viz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// DefaultScriptURL is the vis-network build loaded by the page.
const DefaultScriptURL = "https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"

// Physics configures the Barnes-Hut force layout.
type Physics struct {
	GravitationalConstant float64
	SpringLength          float64
}

// DefaultPhysics returns the layout parameters used for the landscape.
func DefaultPhysics() Physics {
	return Physics{
		GravitationalConstant: -20000,
		SpringLength:          150,
	}
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title     string
	Footer    string // trusted HTML
	ScriptURL string
	Physics   Physics
	// ScalingMin and ScalingMax bound the rendered dot size.
	ScalingMin float64
	ScalingMax float64
	Metadata   Metadata
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Title:      "Digital Humanities Landscape",
		ScriptURL:  DefaultScriptURL,
		Physics:    DefaultPhysics(),
		ScalingMin: 10,
		ScalingMax: 30,
	}
}

// networkOptions mirrors the vis-network options object.
type networkOptions struct {
	Nodes struct {
		Shape   string `json:"shape"`
		Scaling struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"scaling"`
	} `json:"nodes"`
	Edges struct {
		Arrows struct {
			To struct {
				Enabled bool `json:"enabled"`
			} `json:"to"`
		} `json:"arrows"`
		Font struct {
			Size  int    `json:"size"`
			Align string `json:"align"`
		} `json:"font"`
	} `json:"edges"`
	Physics struct {
		Enabled   bool `json:"enabled"`
		BarnesHut struct {
			GravitationalConstant float64 `json:"gravitationalConstant"`
			SpringLength          float64 `json:"springLength"`
		} `json:"barnesHut"`
		Stabilization struct {
			Iterations int `json:"iterations"`
		} `json:"stabilization"`
	} `json:"physics"`
	Interaction struct {
		Hover       bool `json:"hover"`
		MultiSelect bool `json:"multiselect"`
		TooltipDelay int `json:"tooltipDelay"`
	} `json:"interaction"`
}

// buildNetworkOptions converts HTMLOptions into the vis-network options JSON.
func buildNetworkOptions(opts HTMLOptions) (string, error) {
	var o networkOptions
	o.Nodes.Shape = "dot"
	o.Nodes.Scaling.Min = opts.ScalingMin
	o.Nodes.Scaling.Max = opts.ScalingMax
	o.Edges.Arrows.To.Enabled = true
	o.Edges.Font.Size = 10
	o.Edges.Font.Align = "middle"
	o.Physics.Enabled = true
	o.Physics.BarnesHut.GravitationalConstant = opts.Physics.GravitationalConstant
	o.Physics.BarnesHut.SpringLength = opts.Physics.SpringLength
	o.Physics.Stabilization.Iterations = 1000
	o.Interaction.Hover = true
	o.Interaction.MultiSelect = true
	o.Interaction.TooltipDelay = 200

	data, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("marshaling network options: %w", err)
	}
	return string(data), nil
}

// GenerateHTML generates a self-contained HTML file for the graph visualization.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := validateOptions(opts); err != nil {
		return "", err
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(opts.Title), nil
	}

	graphJSON, err := graph.ToJSON()
	if err != nil {
		return "", err
	}

	optionsJSON, err := buildNetworkOptions(opts)
	if err != nil {
		return "", err
	}

	meta := opts.Metadata
	if meta.Name == "" {
		meta.Name = opts.Title
	}
	metaJSON, err := meta.JSONLD()
	if err != nil {
		return "", err
	}

	scriptURL := opts.ScriptURL
	if scriptURL == "" {
		scriptURL = DefaultScriptURL
	}

	data := templateData{
		Title:        opts.Title,
		Description:  meta.Description,
		Authors:      strings.Join(meta.AuthorNames(), ", "),
		ScriptURL:    scriptURL,
		Footer:       template.HTML(opts.Footer),
		GraphJSON:    template.JS(graphJSON),
		OptionsJSON:  template.JS(optionsJSON),
		MetadataJSON: template.JS(metaJSON),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// validateOptions checks option values that would produce a broken layout.
func validateOptions(opts HTMLOptions) error {
	if opts.ScalingMin < 0 || opts.ScalingMax < 0 {
		return fmt.Errorf("invalid node scaling %v-%v: must be non-negative", opts.ScalingMin, opts.ScalingMax)
	}
	if opts.ScalingMin > opts.ScalingMax {
		return fmt.Errorf("invalid node scaling: min %v exceeds max %v", opts.ScalingMin, opts.ScalingMax)
	}
	if opts.Physics.SpringLength < 0 {
		return fmt.Errorf("invalid spring length %v: must be non-negative", opts.Physics.SpringLength)
	}
	return nil
}

// templateData holds data for the HTML template.
type templateData struct {
	Title        string
	Description  string
	Authors      string
	ScriptURL    string
	Footer       template.HTML
	GraphJSON    template.JS
	OptionsJSON  template.JS
	MetadataJSON template.JS
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML(title string) string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>` + template.HTMLEscapeString(title) + ` - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>The group, person, and project tables are empty.</p>
    <p>Add rows to <code>data/01_group.csv</code> and run <code>dhnet build</code></p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  {{- if .Description}}
  <meta name="description" content="{{.Description}}">
  {{- end}}
  {{- if .Authors}}
  <meta name="author" content="{{.Authors}}">
  {{- end}}
  <script type="application/ld+json">{{.MetadataJSON}}</script>
  <script src="{{.ScriptURL}}"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    html, body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      height: 100%;
      overflow: hidden;
      background: #ffffff;
    }
    #network {
      position: fixed;
      top: 0;
      left: 0;
      width: 100vw;
      height: 100vh;
    }
    #search {
      position: fixed;
      top: 12px;
      left: 12px;
      width: 320px;
      z-index: 1000;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
    }
    #search input {
      width: 100%;
      border: none;
      padding: 8px 12px;
      font-size: 14px;
      outline: none;
    }
    #results {
      list-style: none;
      margin: 0;
      padding: 0;
      max-height: 50vh;
      overflow-y: auto;
      border-top: 1px solid #eee;
    }
    #results:empty {
      display: none;
    }
    #results li {
      padding: 6px 12px;
      font-size: 13px;
      cursor: pointer;
    }
    #results li:hover {
      background: #f0f0f0;
    }
    #results .kind {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-left: 6px;
    }
    footer {
      position: fixed;
      bottom: 0;
      left: 0;
      right: 0;
      padding: 6px 12px;
      font-size: 12px;
      color: #555;
      background: rgba(255,255,255,0.85);
      z-index: 1000;
    }
    .vis-tooltip {
      max-width: 320px;
      font-size: 13px;
    }
  </style>
</head>
<body>
  <div id="network"></div>
  <div id="search">
    <input id="query" type="search" placeholder="Search groups, people, projects" autocomplete="off">
    <ul id="results"></ul>
  </div>
  {{- if .Footer}}
  <footer>{{.Footer}}</footer>
  {{- end}}
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const options = {{.OptionsJSON}};

      // vis-network renders string titles as text; wrap them so links work.
      function htmlTitle(html) {
        const el = document.createElement('div');
        el.innerHTML = html;
        return el;
      }

      function stripTags(html) {
        const el = document.createElement('div');
        el.innerHTML = html || '';
        return el.textContent || '';
      }

      const searchIndex = graphData.nodes.map(function(n) {
        return {
          id: n.id,
          label: n.label,
          kind: n.kind || '',
          text: (n.label + ' ' + stripTags(n.title)).toLowerCase()
        };
      });

      const nodes = new vis.DataSet(graphData.nodes.map(function(n) {
        const node = Object.assign({}, n);
        if (n.title) node.title = htmlTitle(n.title);
        return node;
      }));
      const edges = new vis.DataSet(graphData.edges);

      const network = new vis.Network(
        document.getElementById('network'),
        { nodes: nodes, edges: edges },
        options
      );

      const query = document.getElementById('query');
      const results = document.getElementById('results');

      function focusNode(id) {
        network.selectNodes([id]);
        network.focus(id, {
          scale: 1.5,
          animation: { duration: 800, easingFunction: 'easeInOutQuad' }
        });
      }

      function render(matches) {
        results.innerHTML = '';
        matches.slice(0, 50).forEach(function(m) {
          const li = document.createElement('li');
          li.textContent = m.label;
          const kind = document.createElement('span');
          kind.className = 'kind';
          kind.textContent = m.kind;
          li.appendChild(kind);
          li.addEventListener('click', function() {
            focusNode(m.id);
          });
          results.appendChild(li);
        });
      }

      query.addEventListener('input', function() {
        const q = query.value.trim().toLowerCase();
        if (!q) {
          render([]);
          return;
        }
        render(searchIndex.filter(function(m) {
          return m.text.indexOf(q) !== -1;
        }));
      });

      query.addEventListener('keydown', function(evt) {
        if (evt.key === 'Enter' && results.firstChild) {
          results.firstChild.click();
        }
      });

      network.on('doubleClick', function(params) {
        if (params.nodes.length !== 1) return;
        const node = nodes.get(params.nodes[0]);
        if (node && node.url) window.open(node.url, '_blank');
      });
    })();
  </script>
</body>
</html>`
