package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/projgrid/internal/project"
)

type validateOptions struct {
	strict     bool
	jsonOutput bool
}

func newValidateCommand() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the dataset for quality issues",
		Long: `Validate loads the dataset and reports empty or duplicate names,
TVL values that are not positive amounts, and empty or repeated tags.

Issues never change filtering: a project with a malformed TVL is treated as
having no TVL. With --strict, any issue fails with exit code 3.`,
		Example: `  projgrid validate --data projects.json
  projgrid validate --data a.json --data b.yaml --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail with exit code 3 when any issue is found")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "print issues as JSON")

	return cmd
}

// issueJSON is the machine-readable form of a project.Issue.
type issueJSON struct {
	Index   int    `json:"index"`
	Project string `json:"project"`
	Source  string `json:"source,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

func runValidate(cmd *cobra.Command, opts *validateOptions) error {
	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}

	issues := project.Validate(ds)
	w := cmd.OutOrStdout()

	if opts.jsonOutput {
		out := make([]issueJSON, 0, len(issues))
		for _, is := range issues {
			out = append(out, issueJSON{
				Index:   is.Index,
				Project: is.Project,
				Source:  is.Origin.Source,
				Line:    is.Origin.Line,
				Message: is.Message,
			})
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return runtimeError(fmt.Errorf("encoding issues: %w", err))
		}

		_, _ = fmt.Fprintln(w, string(data))
	} else {
		for _, is := range issues {
			_, _ = fmt.Fprintln(w, is.String())
		}

		if len(issues) == 0 {
			_, _ = fmt.Fprintf(w, "Dataset is valid (%d projects).\n", ds.Len())
		} else {
			_, _ = fmt.Fprintf(w, "%d issue(s) in %d projects.\n", len(issues), ds.Len())
		}
	}

	if opts.strict && len(issues) > 0 {
		return &ExitError{Code: exitValidation, Err: fmt.Errorf("validation failed with %d issue(s) (strict mode)", len(issues))}
	}

	return nil
}
