package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/config"
	"github.com/hupe1980/projgrid/internal/filter"
	"github.com/hupe1980/projgrid/internal/logging"
	"github.com/hupe1980/projgrid/internal/project"
)

// fetchTimeout bounds a remote dataset download.
const fetchTimeout = 30 * time.Second

// pipelineResult holds the outputs of one load-and-filter pass.
type pipelineResult struct {
	Dataset *project.Dataset
	Catalog *catalog.Catalog
	State   filter.State
	Matches []project.Project
}

// loadDataset reads the configured dataset sources. A missing source is a
// usage error; anything else is a runtime error.
func loadDataset(ctx context.Context) (*project.Dataset, error) {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	src := project.Source{
		Files:      cfg.Data,
		URL:        cfg.DataURL,
		HTTPClient: &http.Client{Timeout: fetchTimeout},
		Logger:     logger,
	}

	ds, err := project.Load(ctx, src)
	if err != nil {
		if errors.Is(err, project.ErrNoSource) {
			return nil, usageError(err)
		}

		return nil, runtimeError(err)
	}

	logger.Debug("dataset loaded",
		slog.Int("projects", ds.Len()),
		slog.Any("sources", ds.Sources),
		slog.String("schemaVersion", ds.SchemaVersion),
	)

	return ds, nil
}

// runPipeline loads the dataset, derives its catalog through cache, builds
// the filter state from opts, and applies it. It is the shared core of the
// list, search, and watch commands.
func runPipeline(ctx context.Context, cache *catalog.Cache, opts *filterOptions, changed flagChecker) (*pipelineResult, error) {
	ds, err := loadDataset(ctx)
	if err != nil {
		return nil, err
	}

	cat := cache.Get(ds)

	state, err := opts.state(config.FromContext(ctx), cat.Bounds, changed)
	if err != nil {
		return nil, err
	}

	matches := filter.Apply(ds.Projects, state)

	logging.FromContext(ctx).Debug("filter applied",
		slog.String("query", state.Query),
		slog.Any("tags", state.Tags),
		slog.Any("blockchains", state.Blockchains),
		slog.String("mode", state.Mode.String()),
		slog.Int("matches", len(matches)),
	)

	return &pipelineResult{
		Dataset: ds,
		Catalog: cat,
		State:   state,
		Matches: matches,
	}, nil
}

// names returns the project names in order.
func names(projects []project.Project) []string {
	out := make([]string, len(projects))
	for i := range projects {
		out[i] = projects[i].Name
	}

	return out
}

// describeState summarises the active filters for --explain.
func describeState(s filter.State) string {
	if s.IsEmpty() {
		return "no filters"
	}

	desc := fmt.Sprintf("mode=%s", s.Mode)

	if s.Query != "" {
		desc += fmt.Sprintf(" search=%q", s.Query)
	}

	if len(s.Tags) > 0 {
		desc += fmt.Sprintf(" tags=%v", s.Tags)
	}

	if len(s.Blockchains) > 0 {
		desc += fmt.Sprintf(" chains=%v", s.Blockchains)
	}

	if s.TVL != nil {
		desc += fmt.Sprintf(" tvl=[%s, %s]", project.FormatTVL(s.TVL.Min), project.FormatTVL(s.TVL.Max))
	}

	return desc
}
