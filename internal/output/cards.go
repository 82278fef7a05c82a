package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/hupe1980/projgrid/internal/aisearch"
	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/project"
)

// Palette.
var (
	accentColor = lipgloss.Color("#1FD978")
	panelColor  = lipgloss.Color("#2A2D3A")
	subtleColor = lipgloss.Color("#888888")
	titleColor  = lipgloss.Color("#FFFFFF")
)

type cardStyles struct {
	card    lipgloss.Style
	title   lipgloss.Style
	desc    lipgloss.Style
	chip    lipgloss.Style
	meta    lipgloss.Style
	heading lipgloss.Style
	subtle  lipgloss.Style
	link    lipgloss.Style
}

func newCardStyles(r *lipgloss.Renderer, width int) cardStyles {
	return cardStyles{
		card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1).
			Width(width - 2),
		title: r.NewStyle().
			Bold(true).
			Foreground(titleColor),
		desc: r.NewStyle().
			Foreground(subtleColor),
		chip: r.NewStyle().
			Foreground(accentColor),
		meta: r.NewStyle().
			Foreground(subtleColor).
			Italic(true),
		heading: r.NewStyle().
			Bold(true).
			Foreground(accentColor),
		subtle: r.NewStyle().
			Foreground(subtleColor),
		link: r.NewStyle().
			Foreground(panelColor).
			Background(accentColor).
			Padding(0, 1),
	}
}

// CardRenderer renders projects as bordered cards laid out in a grid.
type CardRenderer struct {
	opts Options
}

// NewCardRenderer creates a card renderer.
func NewCardRenderer(opts Options) *CardRenderer {
	return &CardRenderer{opts: opts.withDefaults()}
}

func (c *CardRenderer) styles(w io.Writer) cardStyles {
	r := lipgloss.NewRenderer(w)
	if c.opts.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return newCardStyles(r, c.opts.CardWidth)
}

// Grid implements Renderer.
func (c *CardRenderer) Grid(w io.Writer, projects []project.Project) error {
	st := c.styles(w)

	if len(projects) == 0 {
		return writeString(w, emptyState(st))
	}

	rows := make([]string, 0, (len(projects)+c.opts.Columns-1)/c.opts.Columns)

	for start := 0; start < len(projects); start += c.opts.Columns {
		end := min(start+c.opts.Columns, len(projects))

		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, card(st, &projects[i]))
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, spaced(cards)...))
	}

	return writeString(w, strings.Join(rows, "\n")+"\n")
}

// Spotlight implements Renderer.
func (c *CardRenderer) Spotlight(w io.Writer, s *aisearch.Spotlight) error {
	if s == nil {
		return nil
	}

	st := c.styles(w)

	var b strings.Builder

	b.WriteString(st.heading.Render("AI Search Result:"))
	b.WriteString("\n")

	if s.Description != "" {
		b.WriteString(st.desc.Width(c.opts.CardWidth * c.opts.Columns).Render(s.Description))
		b.WriteString("\n")
	}

	if s.Project != nil {
		b.WriteString(card(st, s.Project))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	return writeString(w, b.String())
}

// Facets implements Renderer.
func (c *CardRenderer) Facets(w io.Writer, cat *catalog.Catalog) error {
	st := c.styles(w)

	var b strings.Builder

	section := func(title string, values []string) {
		b.WriteString(st.heading.Render(title))
		b.WriteString("\n")

		if len(values) == 0 {
			b.WriteString(st.subtle.Render("  none"))
			b.WriteString("\n")

			return
		}

		for _, v := range values {
			b.WriteString("  " + st.chip.Render(v) + "\n")
		}
	}

	section(fmt.Sprintf("Tags (%d)", len(cat.Tags)), cat.Tags)
	section(fmt.Sprintf("Blockchains (%d)", len(cat.Blockchains)), cat.Blockchains)

	b.WriteString(st.heading.Render("TVL Range (in millions)"))
	b.WriteString("\n  " + boundsLabel(cat.Bounds) + "\n")

	return writeString(w, b.String())
}

// card renders a single project card.
func card(st cardStyles, p *project.Project) string {
	lines := []string{st.title.Render(p.Name)}

	if p.Description != "" {
		lines = append(lines, st.desc.Render(p.Description))
	}

	if len(p.Tags) > 0 {
		chips := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			chips = append(chips, st.chip.Render("#"+t))
		}

		lines = append(lines, "", strings.Join(chips, " "))
	}

	lines = append(lines, st.meta.Render(fmt.Sprintf("Chain: %s  TVL: %s", chainLabel(p), tvlLabel(p))))

	return st.card.Render(strings.Join(lines, "\n"))
}

// spaced puts a one-column gutter between cards.
func spaced(cards []string) []string {
	if len(cards) < 2 {
		return cards
	}

	out := make([]string, 0, len(cards)*2-1)
	for i, c := range cards {
		if i > 0 {
			out = append(out, " ")
		}

		out = append(out, c)
	}

	return out
}

func emptyState(st cardStyles) string {
	return strings.Join([]string{
		st.heading.Render(EmptyTitle),
		st.subtle.Render(EmptyHint),
		st.link.Render("Submit a Project: " + SubmitURL),
	}, "\n") + "\n"
}

func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
