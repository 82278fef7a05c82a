package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hupe1980/projgrid/internal/aisearch"
	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/project"
)

// TableRenderer renders projects as a tab-aligned table, one row per project.
type TableRenderer struct {
	opts Options
}

// NewTableRenderer creates a table renderer.
func NewTableRenderer(opts Options) *TableRenderer {
	return &TableRenderer{opts: opts.withDefaults()}
}

// Grid implements Renderer.
func (t *TableRenderer) Grid(w io.Writer, projects []project.Project) error {
	if len(projects) == 0 {
		return writeString(w, fmt.Sprintf("%s\n%s\nSubmit a Project: %s\n", EmptyTitle, EmptyHint, SubmitURL))
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "NAME\tBLOCKCHAIN\tTVL\tTAGS")

	for i := range projects {
		p := &projects[i]

		tags := "-"
		if len(p.Tags) > 0 {
			tags = strings.Join(p.Tags, ",")
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, chainLabel(p), tvlLabel(p), tags)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	return nil
}

// Spotlight implements Renderer.
func (t *TableRenderer) Spotlight(w io.Writer, s *aisearch.Spotlight) error {
	if s == nil {
		return nil
	}

	var b strings.Builder

	b.WriteString("AI Search Result:\n")

	if s.Description != "" {
		b.WriteString("  " + s.Description + "\n")
	}

	if s.Project != nil {
		fmt.Fprintf(&b, "  -> %s (%s, %s)\n", s.Project.Name, chainLabel(s.Project), tvlLabel(s.Project))
	}

	b.WriteString("\n")

	return writeString(w, b.String())
}

// Facets implements Renderer.
func (t *TableRenderer) Facets(w io.Writer, c *catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "FACET\tVALUES")
	fmt.Fprintf(tw, "tags\t%s\n", joinOrNone(c.Tags))
	fmt.Fprintf(tw, "blockchains\t%s\n", joinOrNone(c.Blockchains))
	fmt.Fprintf(tw, "tvl\t%s\n", boundsLabel(c.Bounds))

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	return nil
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}

	return strings.Join(values, ", ")
}
