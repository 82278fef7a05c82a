package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/projgrid/internal/aisearch"
	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/project"
)

// MarkdownRenderer renders projects as a Markdown table suitable for a
// README-style directory listing.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a Markdown renderer.
func NewMarkdownRenderer(Options) *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Grid implements Renderer.
func (m *MarkdownRenderer) Grid(w io.Writer, projects []project.Project) error {
	var b strings.Builder

	if len(projects) == 0 {
		fmt.Fprintf(&b, "**%s**\n\n%s\n\n[Submit a Project](%s)\n", EmptyTitle, EmptyHint, SubmitURL)
		return writeString(w, b.String())
	}

	b.WriteString("| Project | Description | Blockchain | TVL | Tags |\n")
	b.WriteString("|---------|-------------|------------|-----|------|\n")

	for i := range projects {
		p := &projects[i]

		tags := "-"
		if len(p.Tags) > 0 {
			chips := make([]string, len(p.Tags))
			for j, t := range p.Tags {
				chips[j] = "`" + mdCell(t) + "`"
			}

			tags = strings.Join(chips, " ")
		}

		fmt.Fprintf(&b, "| **%s** | %s | %s | %s | %s |\n",
			mdCell(mdText(p.Name)), mdCell(mdText(p.Description)), mdCell(mdText(chainLabel(p))), mdCell(tvlLabel(p)), tags)
	}

	return writeString(w, b.String())
}

// Spotlight implements Renderer.
func (m *MarkdownRenderer) Spotlight(w io.Writer, s *aisearch.Spotlight) error {
	if s == nil {
		return nil
	}

	var b strings.Builder

	b.WriteString("## AI Search Result\n\n")

	if s.Description != "" {
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(mdText(s.Description), "\n", "\n> "))
	}

	if s.Project != nil {
		fmt.Fprintf(&b, "**%s** (%s, %s)\n\n", mdText(s.Project.Name), mdText(chainLabel(s.Project)), tvlLabel(s.Project))
	}

	return writeString(w, b.String())
}

// Facets implements Renderer.
func (m *MarkdownRenderer) Facets(w io.Writer, c *catalog.Catalog) error {
	var b strings.Builder

	writeList := func(title string, values []string) {
		fmt.Fprintf(&b, "## %s (%d)\n\n", title, len(values))

		if len(values) == 0 {
			b.WriteString("_none_\n\n")
			return
		}

		for _, v := range values {
			fmt.Fprintf(&b, "- %s\n", mdText(v))
		}

		b.WriteString("\n")
	}

	writeList("Tags", c.Tags)
	writeList("Blockchains", c.Blockchains)
	fmt.Fprintf(&b, "## TVL Range (in millions)\n\n%s\n", boundsLabel(c.Bounds))

	return writeString(w, b.String())
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`")

// mdText escapes the characters that would open emphasis or code spans.
func mdText(s string) string { return mdEscaper.Replace(s) }

// mdCell escapes a value for use inside a Markdown table cell.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
