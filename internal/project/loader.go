package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/projgrid/internal/version"
)

// SupportedSchema is the semver constraint a dataset envelope's
// schemaVersion must satisfy.
const SupportedSchema = ">= 1.0.0, < 2.0.0"

// ErrNoSource is returned by Load when neither files nor a URL are given.
var ErrNoSource = errors.New("no dataset source: set --data or --data-url")

// Source describes where a dataset is loaded from. Files are read first, in
// order; the URL, when set, is appended last.
type Source struct {
	Files []string
	URL   string

	// HTTPClient is used for URL sources. Defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// IsZero reports whether no source is configured.
func (s Source) IsZero() bool {
	return len(s.Files) == 0 && s.URL == ""
}

// envelope is the versioned dataset document.
type envelope struct {
	SchemaVersion string    `json:"schemaVersion"`
	Projects      []Project `json:"projects"`
}

// document is one parsed source.
type document struct {
	projects      []Project
	lines         []int
	schemaVersion string
}

// Load reads every configured source and concatenates the projects in
// source order. Files are read concurrently.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	if src.IsZero() {
		return nil, ErrNoSource
	}

	logger := src.Logger
	if logger == nil {
		logger = slog.Default()
	}

	names := append([]string{}, src.Files...)
	if src.URL != "" {
		names = append(names, src.URL)
	}

	docs := make([]*document, len(names))

	g, gctx := errgroup.WithContext(ctx)

	for i, name := range names {
		isURL := src.URL != "" && i == len(names)-1

		g.Go(func() error {
			var (
				raw []byte
				err error
			)

			if isURL {
				raw, err = fetch(gctx, src.HTTPClient, name)
			} else {
				raw, err = os.ReadFile(name) //nolint:gosec // path is user-provided dataset file
			}

			if err != nil {
				return fmt.Errorf("loading dataset %q: %w", name, err)
			}

			doc, err := parse(raw)
			if err != nil {
				return fmt.Errorf("parsing dataset %q: %w", name, err)
			}

			docs[i] = doc

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := &Dataset{Sources: names}

	for i, doc := range docs {
		if doc.schemaVersion != "" {
			if ds.SchemaVersion != "" && ds.SchemaVersion != doc.schemaVersion {
				logger.Warn("dataset sources disagree on schemaVersion",
					slog.String("source", names[i]),
					slog.String("schemaVersion", doc.schemaVersion),
					slog.String("first", ds.SchemaVersion),
				)
			}

			if ds.SchemaVersion == "" {
				ds.SchemaVersion = doc.schemaVersion
			}
		}

		for j, p := range doc.projects {
			ds.Projects = append(ds.Projects, p)
			ds.Origins = append(ds.Origins, Origin{Source: names[i], Line: doc.lines[j]})
		}

		logger.Debug("dataset source loaded",
			slog.String("source", names[i]),
			slog.Int("projects", len(doc.projects)),
		)
	}

	return ds, nil
}

// Parse decodes a single dataset document. It accepts a bare array of
// projects or a {schemaVersion, projects} envelope, in JSON or YAML.
func Parse(data []byte, source string) (*Dataset, error) {
	doc, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset %q: %w", source, err)
	}

	ds := &Dataset{
		Projects:      doc.projects,
		Sources:       []string{source},
		SchemaVersion: doc.schemaVersion,
	}

	for _, line := range doc.lines {
		ds.Origins = append(ds.Origins, Origin{Source: source, Line: line})
	}

	return ds, nil
}

func parse(data []byte) (*document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	// Empty document.
	if len(root.Content) == 0 {
		return &document{}, nil
	}

	top := root.Content[0]

	switch top.Kind {
	case yaml.SequenceNode:
		var projects []Project
		if err := sigsyaml.Unmarshal(data, &projects); err != nil {
			return nil, err
		}

		return &document{projects: projects, lines: itemLines(top, len(projects))}, nil

	case yaml.MappingNode:
		var env envelope
		if err := sigsyaml.Unmarshal(data, &env); err != nil {
			return nil, err
		}

		if env.SchemaVersion != "" {
			if err := checkSchemaVersion(env.SchemaVersion); err != nil {
				return nil, err
			}
		}

		return &document{
			projects:      env.Projects,
			lines:         itemLines(mappingValue(top, "projects"), len(env.Projects)),
			schemaVersion: env.SchemaVersion,
		}, nil

	default:
		return nil, fmt.Errorf("expected a list of projects or a mapping with a projects key, got %s", kindName(top.Kind))
	}
}

// checkSchemaVersion validates v against SupportedSchema.
func checkSchemaVersion(v string) error {
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid schemaVersion %q: %w", v, err)
	}

	c, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("invalid schema constraint: %w", err)
	}

	if !c.Check(version) {
		return fmt.Errorf("unsupported schemaVersion %s (supported: %s)", v, SupportedSchema)
	}

	return nil
}

// itemLines returns the line of each sequence item, padded with zeros so the
// result always has n entries.
func itemLines(seq *yaml.Node, n int) []int {
	lines := make([]int, n)

	if seq == nil || seq.Kind != yaml.SequenceNode {
		return lines
	}

	for i, item := range seq.Content {
		if i >= n {
			break
		}

		lines[i] = item.Line
	}

	return lines
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}

	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "unknown node"
	}
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
