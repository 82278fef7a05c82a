package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/config"
	"github.com/hupe1980/projgrid/internal/filter"
	"github.com/hupe1980/projgrid/internal/logging"
	"github.com/hupe1980/projgrid/internal/output"
	"github.com/hupe1980/projgrid/internal/project"
)

// flagChecker reports whether a flag was set on the command line.
type flagChecker func(name string) bool

// filterOptions are the flags that build a filter.State.
type filterOptions struct {
	search string
	tags   []string
	chains []string
	mode   string
	tvlMin float64
	tvlMax float64
	preset string
}

// registerFilterFlags adds the search, tag, blockchain, mode, and TVL flags
// to a cobra command.
func registerFilterFlags(cmd *cobra.Command, opts *filterOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "case-insensitive text matched against name and description")
	f.StringArrayVarP(&opts.tags, "tag", "t", nil, "select a tag; repeat to select more")
	f.StringArrayVarP(&opts.chains, "chain", "b", nil, "select a blockchain; repeat to select more")
	f.StringVar(&opts.mode, "mode", filter.ModeAnd.String(), "combine tag and blockchain selections: and, or")
	f.Float64Var(&opts.tvlMin, "tvl-min", 0, "lower TVL bound in millions (default: dataset minimum)")
	f.Float64Var(&opts.tvlMax, "tvl-max", 0, "upper TVL bound in millions (default: dataset maximum)")
	f.StringVar(&opts.preset, "preset", "", "apply a named filter preset from the config file")

	_ = cmd.RegisterFlagCompletionFunc("tag", completeFacet(func(c *catalog.Catalog) []string { return c.Tags }))
	_ = cmd.RegisterFlagCompletionFunc("chain", completeFacet(func(c *catalog.Catalog) []string { return c.Blockchains }))
	_ = cmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions(
		[]string{filter.ModeAnd.String(), filter.ModeOr.String()}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("preset", completePreset)
}

// state builds the filter state. The range starts at the catalog bounds, a
// preset is merged next, and explicit flags are applied last.
func (o *filterOptions) state(cfg *config.Config, b catalog.Bounds, changed flagChecker) (filter.State, error) {
	if changed == nil {
		changed = func(string) bool { return false }
	}

	var s filter.State

	s.ResetRange(b)

	if o.preset != "" {
		p, err := cfg.Preset(o.preset)
		if err != nil {
			return s, usageError(err)
		}

		p.Apply(&s, b)
	}

	if o.search != "" {
		s.SetQuery(o.search)
	}

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

	if changed("mode") {
		m, err := filter.ParseMode(o.mode)
		if err != nil {
			return s, usageError(err)
		}

		s.SetMode(m)
	}

	if changed("tvl-min") || changed("tvl-max") {
		lo, hi := b.Min, b.Max
		if s.TVL != nil {
			lo, hi = s.TVL.Min, s.TVL.Max
		}

		if changed("tvl-min") {
			lo = o.tvlMin
		}

		if changed("tvl-max") {
			hi = o.tvlMax
		}

		if lo < 0 || hi < 0 {
			return s, usageError(errors.New("--tvl-min and --tvl-max must not be negative"))
		}

		s.SetRange(lo, hi)
	}

	return s, nil
}

// outputOptions are the flags that select a renderer and a destination.
type outputOptions struct {
	format  string
	outFile string
}

// registerOutputFlags adds --output, --out-file, and --columns to a cobra
// command.
func registerOutputFlags(cmd *cobra.Command, opts *outputOptions) {
	formats := output.DefaultRegistry().Formats()

	f := cmd.Flags()
	f.StringVarP(&opts.format, "output", "o", output.FormatCards, "output format: "+strings.Join(formats, ", "))
	f.StringVar(&opts.outFile, "out-file", "", "write output to a file instead of stdout")
	f.Int("columns", config.DefaultColumns, "cards per grid row")

	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp))
}

// renderer builds the renderer selected by --output.
func (o *outputOptions) renderer(cfg *config.Config) (output.Renderer, error) {
	r, err := output.DefaultRegistry().Renderer(o.format, output.Options{
		NoColor: cfg.NoColor || o.outFile != "",
		Columns: cfg.Columns,
	})
	if err != nil {
		return nil, usageError(err)
	}

	return r, nil
}

// emit runs render against stdout, or against a buffer that is then written
// to --out-file.
func (o *outputOptions) emit(cmd *cobra.Command, logger *slog.Logger, render func(w io.Writer) error) error {
	if o.outFile == "" {
		return render(cmd.OutOrStdout())
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	if err := output.NewFileWriter(o.outFile, output.WithLogger(logger)).Write(buf.Bytes()); err != nil {
		return runtimeError(err)
	}

	if !config.FromContext(cmd.Context()).Quiet {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", o.outFile)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Shell completion
// ---------------------------------------------------------------------------

// completionConfig loads configuration for completion requests, which skip
// PersistentPreRunE.
func completionConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfgFile string
	if f := cmd.Flag("config"); f != nil {
		cfgFile = f.Value.String()
	}

	return config.Load(cmd, cfgFile)
}

// completeFacet completes flag values from the dataset catalog.
func completeFacet(pick func(*catalog.Catalog) []string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := completionConfig(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		ds, err := project.Load(ctx, project.Source{Files: cfg.Data, URL: cfg.DataURL, Logger: logging.Discard()})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		return matchPrefix(pick(catalog.Build(ds.Projects)), toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// completePreset completes --preset from the config file.
func completePreset(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := completionConfig(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	presets := make([]string, 0, len(cfg.Presets))
	for name := range cfg.Presets {
		presets = append(presets, name)
	}

	slices.Sort(presets)

	return matchPrefix(presets, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// matchPrefix keeps the values starting with prefix, ignoring case.
func matchPrefix(values []string, prefix string) []string {
	prefix = strings.ToLower(prefix)

	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), prefix) {
			out = append(out, v)
		}
	}

	return out
}
