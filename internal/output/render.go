package output

import (
	"fmt"
	"io"

	"github.com/hupe1980/projgrid/internal/aisearch"
	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/project"
)

// SubmitURL is where users propose projects missing from the directory.
const SubmitURL = "https://github.com/PotLock/awesome-pump"

// Empty-state texts.
const (
	EmptyTitle = "No projects found"
	EmptyHint  = "Try adjusting your filters or search terms to find more results."
)

// Renderer turns projects, spotlights, and facets into one output format.
type Renderer interface {
	// Grid renders the filtered projects in dataset order.
	Grid(w io.Writer, projects []project.Project) error
	// Spotlight renders an AI search result. A nil spotlight renders nothing.
	Spotlight(w io.Writer, s *aisearch.Spotlight) error
	// Facets renders the derived tags, blockchains, and TVL bounds.
	Facets(w io.Writer, c *catalog.Catalog) error
}

// Options configures the text renderers.
type Options struct {
	// NoColor forces plain ASCII output.
	NoColor bool
	// Columns is the number of cards per grid row (default 3).
	Columns int
	// CardWidth is the outer width of a card (default 34).
	CardWidth int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Columns:   3,
		CardWidth: 34,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()

	if o.Columns < 1 {
		o.Columns = d.Columns
	}

	if o.CardWidth < 12 {
		o.CardWidth = d.CardWidth
	}

	return o
}

// boundsLabel formats TVL bounds for the facet listings.
func boundsLabel(b catalog.Bounds) string {
	switch {
	case b.Empty():
		return "none"
	case b.Fixed():
		return project.FormatTVL(b.Min) + " (fixed)"
	default:
		return fmt.Sprintf("%s - %s", project.FormatTVL(b.Min), project.FormatTVL(b.Max))
	}
}

// tvlLabel returns the project's TVL as written, or "-" when absent.
func tvlLabel(p *project.Project) string {
	if p.TVL == "" {
		return "-"
	}

	return p.TVL
}

func chainLabel(p *project.Project) string {
	if p.Blockchain == "" {
		return "-"
	}

	return p.Blockchain
}
