package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/projgrid/internal/project"
)

// Predicate decides whether a single project passes one filter category.
type Predicate interface {
	// Match reports whether p passes.
	Match(p *project.Project) bool
	// Reason explains why p did not pass.
	Reason(p *project.Project) string
}

// Filter is the interface for composable project filters. Filters are
// stateless: they receive projects and return a result without modifying
// shared state.
type Filter interface {
	// Apply runs the filter on projects, preserving their order.
	Apply(ctx context.Context, projects []project.Project) (*Result, error)
}

// ExcludedProject records a project removed by a filter.
type ExcludedProject struct {
	Project project.Project
	// Reason is a human-readable explanation for the exclusion.
	Reason string
}

// Result holds the outcome of a filter application.
type Result struct {
	// Included are the projects that passed, in input order.
	Included []project.Project
	// Excluded are the projects removed, in the order they were removed.
	Excluded []ExcludedProject
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{Included: []project.Project{}}
}

// Apply returns the projects matching every active predicate of s, in the
// original order. It never fails.
func Apply(projects []project.Project, s State) []project.Project {
	preds := s.Predicates()
	out := make([]project.Project, 0, len(projects))

	for i := range projects {
		if matchAll(preds, &projects[i]) {
			out = append(out, projects[i])
		}
	}

	return out
}

// Match reports whether p passes every active predicate of s.
func Match(p *project.Project, s State) bool {
	return matchAll(s.Predicates(), p)
}

func matchAll(preds []Predicate, p *project.Project) bool {
	for _, pred := range preds {
		if !pred.Match(p) {
			return false
		}
	}

	return true
}

// Predicates returns the active predicates of s. Inactive categories are
// omitted, so the zero State yields none.
func (s *State) Predicates() []Predicate {
	var preds []Predicate

	if s.Query != "" {
		preds = append(preds, NewTextFilter(s.Query))
	}

	if len(s.Tags) > 0 {
		preds = append(preds, NewTagFilter(s.Tags, s.Mode))
	}

	if len(s.Blockchains) > 0 {
		preds = append(preds, NewBlockchainFilter(s.Blockchains, s.Mode))
	}

	if s.TVL != nil {
		preds = append(preds, NewTVLFilter(*s.TVL))
	}

	return preds
}

// Chain applies multiple filters sequentially, passing the included
// projects of each filter as input to the next.
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain from the given filters.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Apply runs all filters in order, accumulating excluded projects.
func (c *Chain) Apply(ctx context.Context, projects []project.Project) (*Result, error) {
	combined := NewResult()
	current := projects

	for _, f := range c.filters {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		r, err := f.Apply(ctx, current)
		if err != nil {
			return nil, err
		}

		current = r.Included
		combined.Excluded = append(combined.Excluded, r.Excluded...)
	}

	combined.Included = append(combined.Included, current...)

	return combined, nil
}

// Explain runs the predicates of s as a chain and reports, for each
// excluded project, the first category that rejected it. Its Included list
// equals Apply(projects, s).
func Explain(ctx context.Context, projects []project.Project, s State) (*Result, error) {
	preds := s.Predicates()
	filters := make([]Filter, 0, len(preds))

	for _, p := range preds {
		filters = append(filters, predicateFilter{p})
	}

	return NewChain(filters...).Apply(ctx, projects)
}

// predicateFilter adapts a Predicate to the Filter interface.
type predicateFilter struct {
	Predicate
}

func (f predicateFilter) Apply(_ context.Context, projects []project.Project) (*Result, error) {
	r := NewResult()

	for i := range projects {
		p := &projects[i]

		if f.Match(p) {
			r.Included = append(r.Included, *p)
		} else {
			r.Excluded = append(r.Excluded, ExcludedProject{Project: *p, Reason: f.Reason(p)})
		}
	}

	return r, nil
}

// ---------------------------------------------------------------------------
// Predicates
// ---------------------------------------------------------------------------

// TextFilter keeps projects whose name or description contains the query,
// case-insensitively.
type TextFilter struct {
	query string
}

// NewTextFilter creates a text filter. An empty query matches everything.
func NewTextFilter(query string) *TextFilter {
	return &TextFilter{query: strings.ToLower(query)}
}

// Match implements Predicate.
func (f *TextFilter) Match(p *project.Project) bool {
	return f.query == "" ||
		strings.Contains(strings.ToLower(p.Name), f.query) ||
		strings.Contains(strings.ToLower(p.Description), f.query)
}

// Reason implements Predicate.
func (f *TextFilter) Reason(*project.Project) string {
	return fmt.Sprintf("name and description do not contain %q", f.query)
}

// Apply implements Filter.
func (f *TextFilter) Apply(ctx context.Context, projects []project.Project) (*Result, error) {
	return predicateFilter{f}.Apply(ctx, projects)
}

// TagFilter keeps projects carrying all (AND) or any (OR) selected tags.
type TagFilter struct {
	tags []string
	mode CombineMode
}

// NewTagFilter creates a tag filter. No tags match everything.
func NewTagFilter(tags []string, mode CombineMode) *TagFilter {
	return &TagFilter{tags: tags, mode: mode}
}

// Match implements Predicate.
func (f *TagFilter) Match(p *project.Project) bool {
	if len(f.tags) == 0 {
		return true
	}

	return combine(f.mode, f.tags, p.HasTag)
}

// Reason implements Predicate.
func (f *TagFilter) Reason(*project.Project) string {
	return fmt.Sprintf("tags do not match %s of [%s]", quantifier(f.mode), strings.Join(f.tags, ", "))
}

// Apply implements Filter.
func (f *TagFilter) Apply(ctx context.Context, projects []project.Project) (*Result, error) {
	return predicateFilter{f}.Apply(ctx, projects)
}

// BlockchainFilter keeps projects whose blockchain equals all (AND) or any
// (OR) selected blockchains. A project has a single blockchain, so AND with
// more than one distinct selection matches nothing.
type BlockchainFilter struct {
	chains []string
	mode   CombineMode
}

// NewBlockchainFilter creates a blockchain filter. No chains match everything.
func NewBlockchainFilter(chains []string, mode CombineMode) *BlockchainFilter {
	return &BlockchainFilter{chains: chains, mode: mode}
}

// Match implements Predicate.
func (f *BlockchainFilter) Match(p *project.Project) bool {
	if len(f.chains) == 0 {
		return true
	}

	return combine(f.mode, f.chains, func(c string) bool { return p.Blockchain == c })
}

// Reason implements Predicate.
func (f *BlockchainFilter) Reason(p *project.Project) string {
	chain := p.Blockchain
	if chain == "" {
		chain = "none"
	}

	return fmt.Sprintf("blockchain %s does not match %s of [%s]", chain, quantifier(f.mode), strings.Join(f.chains, ", "))
}

// Apply implements Filter.
func (f *BlockchainFilter) Apply(ctx context.Context, projects []project.Project) (*Result, error) {
	return predicateFilter{f}.Apply(ctx, projects)
}

// TVLFilter keeps projects whose TVL lies in an inclusive range. Projects
// without a usable TVL always pass.
type TVLFilter struct {
	r Range
}

// NewTVLFilter creates a TVL range filter.
func NewTVLFilter(r Range) *TVLFilter {
	return &TVLFilter{r: r}
}

// Match implements Predicate.
func (f *TVLFilter) Match(p *project.Project) bool {
	v, ok := p.TVLValue()
	if !ok {
		return true
	}

	return f.r.Contains(v)
}

// Reason implements Predicate.
func (f *TVLFilter) Reason(p *project.Project) string {
	return fmt.Sprintf("tvl %s outside [%s, %s]", p.TVL, project.FormatTVL(f.r.Min), project.FormatTVL(f.r.Max))
}

// Apply implements Filter.
func (f *TVLFilter) Apply(ctx context.Context, projects []project.Project) (*Result, error) {
	return predicateFilter{f}.Apply(ctx, projects)
}

func combine(mode CombineMode, selected []string, has func(string) bool) bool {
	if mode == ModeOr {
		for _, s := range selected {
			if has(s) {
				return true
			}
		}

		return false
	}

	for _, s := range selected {
		if !has(s) {
			return false
		}
	}

	return true
}

func quantifier(m CombineMode) string {
	if m == ModeOr {
		return "any"
	}

	return "all"
}
