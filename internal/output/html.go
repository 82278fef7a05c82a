package output

import (
	"fmt"
	"html/template"
	"io"

	"github.com/hupe1980/projgrid/internal/aisearch"
	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/project"
)

// HTMLRenderer renders a standalone HTML page with a responsive card grid.
type HTMLRenderer struct {
	opts Options
}

// NewHTMLRenderer creates an HTML renderer.
func NewHTMLRenderer(opts Options) *HTMLRenderer {
	return &HTMLRenderer{opts: opts.withDefaults()}
}

var htmlFuncs = template.FuncMap{
	"chain": chainLabel,
	"tvl":   tvlLabel,
}

var gridTpl = template.Must(template.New("grid").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Projects</title>
<style>
body{font-family:sans-serif;margin:2em;line-height:1.5}
.grid{display:grid;grid-template-columns:repeat({{.Columns}},minmax(0,1fr));gap:1em}
.card{border:1px solid #ddd;border-radius:8px;padding:1em}
.card h3{margin:0 0 .5em}
.chip{display:inline-block;background:#f0f0f0;border-radius:12px;padding:0 .6em;margin:0 .3em .3em 0;font-size:.85em}
.meta{color:#555;font-size:.9em}
.empty{text-align:center;color:#555}
</style>
</head>
<body>
{{if .Projects}}<div class="grid">
{{range .Projects}}<div class="card">
<h3>{{.Name}}</h3>
<p>{{.Description}}</p>
<div>{{range .Tags}}<span class="chip">{{.}}</span>{{end}}</div>
<p class="meta">Chain: {{chain .}} &middot; TVL: {{tvl .}}</p>
</div>
{{end}}</div>
{{else}}<div class="empty">
<h2>{{.EmptyTitle}}</h2>
<p>{{.EmptyHint}}</p>
<p><a href="{{.SubmitURL}}">Submit a Project</a></p>
</div>
{{end}}</body>
</html>
`))

var spotlightTpl = template.Must(template.New("spotlight").Funcs(htmlFuncs).Parse(`<section class="spotlight">
<h2>AI Search Result</h2>
{{if .Description}}<p>{{.Description}}</p>
{{end}}{{with .Project}}<div class="card">
<h3>{{.Name}}</h3>
<p>{{.Description}}</p>
<p class="meta">Chain: {{chain .}} &middot; TVL: {{tvl .}}</p>
</div>
{{end}}</section>
`))

var facetsTpl = template.Must(template.New("facets").Parse(`<section class="facets">
<h2>Tags ({{len .Catalog.Tags}})</h2>
<ul>{{range .Catalog.Tags}}<li>{{.}}</li>{{else}}<li>none</li>{{end}}</ul>
<h2>Blockchains ({{len .Catalog.Blockchains}})</h2>
<ul>{{range .Catalog.Blockchains}}<li>{{.}}</li>{{else}}<li>none</li>{{end}}</ul>
<h2>TVL Range (in millions)</h2>
<p>{{.Bounds}}</p>
</section>
`))

// Grid implements Renderer.
func (h *HTMLRenderer) Grid(w io.Writer, projects []project.Project) error {
	return execute(gridTpl, w, struct {
		Columns    int
		Projects   []project.Project
		EmptyTitle string
		EmptyHint  string
		SubmitURL  string
	}{h.opts.Columns, projects, EmptyTitle, EmptyHint, SubmitURL})
}

// Spotlight implements Renderer.
func (h *HTMLRenderer) Spotlight(w io.Writer, s *aisearch.Spotlight) error {
	if s == nil {
		return nil
	}

	return execute(spotlightTpl, w, s)
}

// Facets implements Renderer.
func (h *HTMLRenderer) Facets(w io.Writer, c *catalog.Catalog) error {
	return execute(facetsTpl, w, struct {
		Catalog *catalog.Catalog
		Bounds  string
	}{c, boundsLabel(c.Bounds)})
}

func execute(t *template.Template, w io.Writer, data any) error {
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("rendering %s: %w", t.Name(), err)
	}

	return nil
}
