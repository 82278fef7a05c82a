package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a reload. It re-reads
// the dataset, re-applies the filter, renders the grid, and reports what
// matched.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the outcome of a single reload.
type RunResult struct {
	// ProjectCount is the size of the reloaded dataset.
	ProjectCount int
	// Matches are the names of the filtered projects in dataset order.
	Matches []string
}

// Options configures the watch behaviour.
type Options struct {
	// Files are the dataset files to watch.
	Files []string

	// Debounce is the quiet period before triggering a reload.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until ctx is cancelled. Signal
// handling is left to the caller.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if len(opts.Files) == 0 {
		return errors.New("no dataset files to watch")
	}

	targets, dirs, err := resolveTargets(opts.Files)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so the parent directories are watched
	// and events are filtered down to the dataset files.
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %q: %w", dir, err)
		}
	}

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", strings.Join(opts.Files, ", "), opts.Debounce)

	s := &session{opts: opts, runFn: runFn}
	s.run(ctx, "(initial)")

	reloads := make(chan string, 1)

	debouncer := NewDebouncer(opts.Debounce, func(path string) {
		select {
		case reloads <- path:
		default: // a reload is already queued
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, targets) {
				continue
			}

			opts.Logger.Debug("dataset changed", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			debouncer.Trigger(event.Name)

		case path := <-reloads:
			s.run(ctx, filepath.Base(path))

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// session carries the previous generation between reloads.
type session struct {
	opts  Options
	runFn RunFunc
	prev  []string
	seen  bool
}

// run executes a single reload and prints the status line and result diff.
func (s *session) run(ctx context.Context, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := s.runFn(ctx)
	if err != nil {
		fmt.Fprintf(s.opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(s.opts.Out, "[%s] %s → OK (%d projects, %d matches)\n",
		now, trigger, result.ProjectCount, len(result.Matches))

	if s.seen {
		s.report(result.Matches)
	}

	s.prev = result.Matches
	s.seen = true
}

func (s *session) report(curr []string) {
	diff, err := ResultDiff(s.prev, curr)
	if err != nil {
		s.opts.Logger.Warn("computing result diff", slog.String("error", err.Error()))
		return
	}

	if diff == "" {
		fmt.Fprintln(s.opts.Out, "  no result changes")
		return
	}

	fmt.Fprintf(s.opts.Out, "  results: %s\n", DiffSummary(s.prev, curr))

	for line := range strings.SplitSeq(strings.TrimRight(diff, "\n"), "\n") {
		fmt.Fprintln(s.opts.Out, "  "+line)
	}
}

// resolveTargets returns the absolute dataset paths and their distinct
// parent directories in first-seen order.
func resolveTargets(files []string) (map[string]struct{}, []string, error) {
	targets := make(map[string]struct{}, len(files))
	seen := make(map[string]struct{})

	var dirs []string

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving dataset file %q: %w", f, err)
		}

		targets[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}

	return targets, dirs, nil
}

// isRelevant keeps content changes to one of the dataset files.
func isRelevant(event fsnotify.Event, targets map[string]struct{}) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	_, ok := targets[abs]

	return ok
}
