// Package projgrid provides a public Go API for loading a DeFi and crypto
// project directory and narrowing it with the same filters as the CLI.
//
// Basic usage:
//
//	res, err := projgrid.Filter(ctx,
//	    projgrid.WithFiles("projects.json"),
//	    projgrid.WithTags("DEX"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range res.Matches {
//	    fmt.Println(p.Name)
//	}
//
// A [Searcher] adds an AI spotlight:
//
//	res, err := projgrid.Filter(ctx,
//	    projgrid.WithFiles("projects.json"),
//	    projgrid.WithSearch(mySearcher, "best lending on NEAR?"),
//	)
package projgrid

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/hupe1980/projgrid/internal/aisearch"
	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/filter"
	"github.com/hupe1980/projgrid/internal/logging"
	"github.com/hupe1980/projgrid/internal/project"
)

type (
	// Project is a single directory entry.
	Project = project.Project
	// Issue is a dataset quality warning.
	Issue = project.Issue
	// Catalog holds the selectable tags, blockchains, and TVL bounds.
	Catalog = catalog.Catalog
	// Mode combines tag and blockchain selections.
	Mode = filter.CombineMode
	// Searcher answers a free-text question with a single project.
	Searcher = aisearch.Searcher
	// SearcherFunc adapts a function to [Searcher].
	SearcherFunc = aisearch.SearcherFunc
	// SearchResult is the answer of a [Searcher].
	SearchResult = aisearch.Result
	// Spotlight is a search answer resolved against the dataset.
	Spotlight = aisearch.Spotlight
)

// Combine modes.
const (
	ModeAnd = filter.ModeAnd
	ModeOr  = filter.ModeOr
)

// Option configures Filter.
type Option func(*options)

type options struct {
	files      []string
	url        string
	httpClient *http.Client
	logger     *slog.Logger

	query  string
	tags   []string
	chains []string
	mode   Mode

	tvlMin *float64
	tvlMax *float64

	searcher    Searcher
	searchQuery string
}

// WithFiles adds dataset files, concatenated in order.
func WithFiles(files ...string) Option {
	return func(o *options) { o.files = append(o.files, files...) }
}

// WithURL adds a dataset URL, appended after the files.
func WithURL(url string) Option { return func(o *options) { o.url = url } }

// WithHTTPClient sets the client used to fetch the dataset URL.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.httpClient = c } }

// WithLogger sets the logger. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithQuery sets the case-insensitive text filter.
func WithQuery(q string) Option { return func(o *options) { o.query = q } }

// WithTags selects tags.
func WithTags(tags ...string) Option {
	return func(o *options) { o.tags = append(o.tags, tags...) }
}

// WithBlockchains selects blockchains.
func WithBlockchains(chains ...string) Option {
	return func(o *options) { o.chains = append(o.chains, chains...) }
}

// WithMode sets how tag and blockchain selections combine.
func WithMode(m Mode) Option { return func(o *options) { o.mode = m } }

// WithTVLMin sets the lower TVL bound in millions.
func WithTVLMin(v float64) Option { return func(o *options) { o.tvlMin = &v } }

// WithTVLMax sets the upper TVL bound in millions.
func WithTVLMax(v float64) Option { return func(o *options) { o.tvlMax = &v } }

// WithSearch runs query through s and resolves the answer into
// [Result.Spotlight].
func WithSearch(s Searcher, query string) Option {
	return func(o *options) {
		o.searcher = s
		o.searchQuery = query
	}
}

// Result holds the output of a Filter call.
type Result struct {
	// Projects is the whole dataset in order.
	Projects []Project
	// Matches are the projects passing every active filter, in order.
	Matches []Project
	// Catalog is derived from Projects.
	Catalog *Catalog
	// Issues are the dataset quality warnings.
	Issues []Issue
	// Spotlight is nil without a searcher, or when the search failed or
	// found nothing.
	Spotlight *Spotlight
}

// Filter loads the dataset and applies the configured filters. A failing
// search is logged and leaves Spotlight nil.
func Filter(ctx context.Context, opts ...Option) (*Result, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}

	if (o.tvlMin != nil && *o.tvlMin < 0) || (o.tvlMax != nil && *o.tvlMax < 0) {
		return nil, errors.New("tvl bounds must not be negative")
	}

	ds, err := project.Load(ctx, project.Source{
		Files:      o.files,
		URL:        o.url,
		HTTPClient: o.httpClient,
		Logger:     o.logger,
	})
	if err != nil {
		return nil, err
	}

	cat := catalog.Build(ds.Projects)

	res := &Result{
		Projects: ds.Projects,
		Matches:  filter.Apply(ds.Projects, o.state(cat.Bounds)),
		Catalog:  cat,
		Issues:   project.Validate(ds),
	}

	if o.searcher != nil && o.searchQuery != "" {
		answer, err := o.searcher.Search(ctx, o.searchQuery)
		if err != nil {
			o.logger.Warn("ai search failed", slog.String("query", o.searchQuery), slog.String("error", err.Error()))
		} else {
			res.Spotlight = aisearch.Resolve(o.searchQuery, ds.Projects, answer)
		}
	}

	return res, nil
}

func (o *options) state(b catalog.Bounds) filter.State {
	var s filter.State

	s.ResetRange(b)
	s.SetQuery(o.query)
	s.SetMode(o.mode)

	for _, t := range o.tags {
		if !slices.Contains(s.Tags, t) {
			s.ToggleTag(t)
		}
	}

	for _, ch := range o.chains {
		if !slices.Contains(s.Blockchains, ch) {
			s.ToggleBlockchain(ch)
		}
	}

	if o.tvlMin != nil || o.tvlMax != nil {
		lo, hi := b.Min, b.Max
		if o.tvlMin != nil {
			lo = *o.tvlMin
		}

		if o.tvlMax != nil {
			hi = *o.tvlMax
		}

		s.SetRange(lo, hi)
	}

	return s
}
