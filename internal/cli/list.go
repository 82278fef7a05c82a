package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/config"
	"github.com/hupe1980/projgrid/internal/filter"
	"github.com/hupe1980/projgrid/internal/logging"
)

type listOptions struct {
	filterOptions
	outputOptions

	explain bool
}

func newListCommand() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Filter the project directory and render the results",
		Long: `List loads the dataset and renders every project that passes all active
filters, in dataset order.

  --search   matches name or description, case-insensitively
  --tag      selected tags; --mode and requires all, or requires any
  --chain    selected blockchains; same mode as tags
  --tvl-min  TVL range in millions; defaults to the dataset bounds
  --tvl-max

Projects without a TVL always pass the range filter. An empty result prints
the "No projects found" hint. Use --explain to see why each excluded project
was removed.`,
		Example: `  projgrid list --data projects.json
  projgrid list --data projects.json -t DEX -t Lending --mode or
  projgrid list --data projects.json -b Ethereum --tvl-min 50 -o table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd, opts)
		},
	}

	registerFilterFlags(cmd, &opts.filterOptions)
	registerOutputFlags(cmd, &opts.outputOptions)
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "print excluded projects with reasons to stderr")

	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, opts *listOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	r, err := opts.renderer(cfg)
	if err != nil {
		return err
	}

	res, err := runPipeline(ctx, catalog.NewCache(logger), &opts.filterOptions, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	warnAmbiguousChainAnd(cmd, res.State)

	if opts.explain {
		if err := explain(ctx, cmd.ErrOrStderr(), res); err != nil {
			return runtimeError(err)
		}
	}

	return opts.emit(cmd, logger, func(w io.Writer) error {
		return r.Grid(w, res.Matches)
	})
}

// warnAmbiguousChainAnd tells the user that several blockchains in AND mode
// can never match, since a project has a single blockchain.
func warnAmbiguousChainAnd(cmd *cobra.Command, s filter.State) {
	if !s.HasAmbiguousChainAnd() || config.FromContext(cmd.Context()).Quiet {
		return
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(),
		"warning: %d blockchains selected in AND mode; a project has one blockchain, so none can match (use --mode or)\n",
		len(s.Blockchains))
}

// explain prints the active filters and every excluded project with the
// reason of the first filter that removed it.
func explain(ctx context.Context, w io.Writer, res *pipelineResult) error {
	result, err := filter.Explain(ctx, res.Dataset.Projects, res.State)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "filters: %s\n", describeState(res.State))
	_, _ = fmt.Fprintf(w, "included %d of %d projects\n", len(result.Included), res.Dataset.Len())

	for _, ex := range result.Excluded {
		_, _ = fmt.Fprintf(w, "  excluded %s: %s\n", ex.Project.Name, ex.Reason)
	}

	return nil
}
