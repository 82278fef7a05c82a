// Package aisearch defines the pluggable "AI search" collaborator that turns
// a free-text question into a spotlighted project, and the providers that
// implement it.
package aisearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/projgrid/internal/project"
)

// Supported providers.
const (
	ProviderNone  = "none"
	ProviderGenAI = "genai"
	ProviderHTTP  = "http"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Result is the answer of a search: a free-text description and the name of
// the project it refers to.
type Result struct {
	Description string `json:"description"`
	ItemName    string `json:"itemName"`
}

// IsZero reports whether the result carries nothing to show.
func (r *Result) IsZero() bool {
	return r == nil || (strings.TrimSpace(r.Description) == "" && strings.TrimSpace(r.ItemName) == "")
}

// Searcher answers a free-text query. A nil Result with a nil error means
// nothing was found.
type Searcher interface {
	Search(ctx context.Context, query string) (*Result, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string) (*Result, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, query string) (*Result, error) {
	return f(ctx, query)
}

// Options selects and configures a provider.
type Options struct {
	Provider string
	Model    string
	Endpoint string
	APIKey   string
	Timeout  time.Duration

	// Projects are offered to the model as the searchable catalog.
	Projects []project.Project

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// New returns the Searcher for opts.Provider. The "none" provider and an
// empty provider return a nil Searcher, meaning AI search is disabled.
func New(ctx context.Context, opts Options) (Searcher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Provider {
	case "", ProviderNone:
		logger.Debug("ai search disabled")
		return nil, nil

	case ProviderGenAI:
		logger.Debug("ai search provider selected",
			slog.String("provider", ProviderGenAI),
			slog.String("model", opts.Model),
		)

		s, err := NewGenAISearcher(ctx, opts.APIKey, opts.Model, opts.Projects)
		if err != nil {
			return nil, err
		}

		return s, nil

	case ProviderHTTP:
		logger.Debug("ai search provider selected",
			slog.String("provider", ProviderHTTP),
			slog.String("endpoint", opts.Endpoint),
		)

		client := opts.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: opts.Timeout}
		}

		s, err := NewHTTPSearcher(opts.Endpoint, client)
		if err != nil {
			return nil, err
		}

		return s, nil

	default:
		return nil, fmt.Errorf("unknown ai provider %q: must be one of none, genai, http", opts.Provider)
	}
}

// Spotlight is a search result resolved against the dataset. Project is nil
// when the named item is not in the dataset; the description is still shown.
type Spotlight struct {
	Query       string           `json:"query"`
	Description string           `json:"description"`
	ItemName    string           `json:"itemName"`
	Project     *project.Project `json:"project,omitempty"`
}

// Resolve looks up r.ItemName in projects by exact name; the first match
// wins. It returns nil when r carries nothing.
func Resolve(query string, projects []project.Project, r *Result) *Spotlight {
	if r.IsZero() {
		return nil
	}

	s := &Spotlight{Query: query, Description: r.Description, ItemName: r.ItemName}

	for i := range projects {
		if projects[i].Name == r.ItemName {
			p := projects[i]
			s.Project = &p

			break
		}
	}

	return s
}
