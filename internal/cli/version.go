package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/projgrid/internal/version"
)

func newVersionCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display the projgrid version, git commit, build date, Go version, and platform.",
		Args:  cobra.NoArgs,
		// version runs without a config file or dataset.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()

			if !jsonOutput {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return err
			}

			j, err := info.JSON()
			if err != nil {
				return runtimeError(err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), j)

			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print version info as JSON")

	return cmd
}
