package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/config"
	"github.com/hupe1980/projgrid/internal/logging"
	"github.com/hupe1980/projgrid/internal/watch"
)

type watchOptions struct {
	filterOptions
	outputOptions

	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the filter whenever a dataset file changes",
		Long: `Watch renders the filtered grid, then monitors the --data files and
renders it again after every change. Rapid saves are debounced into a
single reload.

Each reload prints a status line to stderr with the project and match
counts, followed by a diff of the matched project names against the
previous run. A reload that fails is reported and the watcher keeps going.

Only local files can be watched; --data-url is fetched on each reload but
changes to it do not trigger one.`,
		Example: `  projgrid watch --data projects.json -t DEX
  projgrid watch --data projects.json --out-file grid.txt --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), cmd, opts)
		},
	}

	registerFilterFlags(cmd, &opts.filterOptions)
	registerOutputFlags(cmd, &opts.outputOptions)
	cmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultOptions().Debounce, "quiet period before a change triggers a reload")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts *watchOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	if len(cfg.Data) == 0 {
		return usageError(errors.New("watch needs at least one --data file"))
	}

	if opts.debounce <= 0 {
		return usageError(errors.New("--debounce must be positive"))
	}

	r, err := opts.renderer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The catalog is rebuilt only when a reload changes the dataset.
	cache := catalog.NewCache(logger)
	changed := cmd.Flags().Changed

	runFn := func(runCtx context.Context) (*watch.RunResult, error) {
		res, err := runPipeline(runCtx, cache, &opts.filterOptions, changed)
		if err != nil {
			return nil, err
		}

		err = opts.emit(cmd, logger, func(w io.Writer) error {
			return r.Grid(w, res.Matches)
		})
		if err != nil {
			return nil, err
		}

		return &watch.RunResult{
			ProjectCount: res.Dataset.Len(),
			Matches:      names(res.Matches),
		}, nil
	}

	status := cmd.ErrOrStderr()
	if cfg.Quiet {
		status = io.Discard
	}

	return watch.Run(ctx, watch.Options{
		Files:    cfg.Data,
		Debounce: opts.debounce,
		Logger:   logger,
		Out:      status,
	}, runFn)
}
