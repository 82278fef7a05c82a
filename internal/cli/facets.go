package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/config"
	"github.com/hupe1980/projgrid/internal/logging"
	"github.com/hupe1980/projgrid/internal/output"
)

type facetsOptions struct {
	outputOptions

	jsonOutput bool
}

func newFacetsCommand() *cobra.Command {
	opts := &facetsOptions{}

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Print the tags, blockchains, and TVL bounds of the dataset",
		Long: `Facets prints what the filters can select: the distinct tags and
blockchains in first-seen order, and the TVL bounds of the range filter.

The bounds are "none" when no project has a usable TVL, and "(fixed)" when
exactly one does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.jsonOutput {
				opts.format = output.FormatJSON
			}

			cfg := config.FromContext(cmd.Context())
			logger := logging.FromContext(cmd.Context())

			r, err := opts.renderer(cfg)
			if err != nil {
				return err
			}

			ds, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}

			cat := catalog.NewCache(logger).Get(ds)

			return opts.emit(cmd, logger, func(w io.Writer) error {
				return r.Facets(w, cat)
			})
		},
	}

	registerOutputFlags(cmd, &opts.outputOptions)
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "shorthand for --output json")

	return cmd
}
