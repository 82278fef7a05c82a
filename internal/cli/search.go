package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/projgrid/internal/aisearch"
	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/config"
	"github.com/hupe1980/projgrid/internal/logging"
	"github.com/hupe1980/projgrid/internal/project"
)

type searchOptions struct {
	filterOptions
	outputOptions

	provider string
	noGrid   bool
}

// newSearcher builds the AI search collaborator. Tests replace it.
var newSearcher = aisearch.New

func newSearchCommand() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Ask the AI search which project fits a question",
		Long: `Search sends a free-text question to the configured AI search provider
and spotlights the project it names above the regular results. The grid
below is filtered by the same flags as list.

Providers:
  genai  Google Gemini via google.golang.org/genai (needs ai-api-key)
  http   POST {"query": "..."} to ai-endpoint, expects
         {"description": "...", "itemName": "..."}

A search that fails or finds nothing leaves the grid unchanged.`,
		Example: `  PROJGRID_AI_API_KEY=... projgrid search --data projects.json "best lending on NEAR?"
  projgrid search --provider http --data projects.json "cheapest DEX"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, strings.Join(args, " "), opts)
		},
	}

	registerFilterFlags(cmd, &opts.filterOptions)
	registerOutputFlags(cmd, &opts.outputOptions)

	f := cmd.Flags()
	f.StringVar(&opts.provider, "provider", "", "override ai-provider: genai, http")
	f.BoolVar(&opts.noGrid, "no-grid", false, "render only the spotlight")

	_ = cmd.RegisterFlagCompletionFunc("provider", cobra.FixedCompletions(
		[]string{config.AIProviderGenAI, config.AIProviderHTTP}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts *searchOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	provider := cfg.AIProvider
	if opts.provider != "" {
		provider = opts.provider
	}

	if provider == "" || provider == config.AIProviderNone {
		return usageError(errors.New("ai search is disabled: set --provider or ai-provider to genai or http"))
	}

	r, err := opts.renderer(cfg)
	if err != nil {
		return err
	}

	res, err := runPipeline(ctx, catalog.NewCache(logger), &opts.filterOptions, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	searcher, err := newSearcher(ctx, aisearch.Options{
		Provider: provider,
		Model:    cfg.AIModel,
		Endpoint: cfg.AIEndpoint,
		APIKey:   cfg.AIAPIKey,
		Timeout:  cfg.AITimeout,
		Projects: res.Dataset.Projects,
		Logger:   logger,
	})
	if err != nil {
		return usageError(err)
	}

	spot := spotlight(ctx, searcher, query, res.Dataset.Projects, cfg.AITimeout, logger)

	warnAmbiguousChainAnd(cmd, res.State)

	return opts.emit(cmd, logger, func(w io.Writer) error {
		if err := r.Spotlight(w, spot); err != nil {
			return err
		}

		if opts.noGrid {
			return nil
		}

		return r.Grid(w, res.Matches)
	})
}

// spotlight runs the search and resolves its answer against the dataset.
// Failures are logged and yield no spotlight.
func spotlight(ctx context.Context, s aisearch.Searcher, query string, projects []project.Project, timeout time.Duration, logger *slog.Logger) *aisearch.Spotlight {
	if s == nil {
		return nil
	}

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := s.Search(ctx, query)
	if err != nil {
		logger.Warn("ai search failed", slog.String("query", query), slog.String("error", err.Error()))
		return nil
	}

	spot := aisearch.Resolve(query, projects, result)

	switch {
	case spot == nil:
		logger.Info("ai search found nothing", slog.String("query", query))
	case spot.Project == nil:
		logger.Warn("ai search named a project that is not in the dataset", slog.String("itemName", spot.ItemName))
	}

	return spot
}
