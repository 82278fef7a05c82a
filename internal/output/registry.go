package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Built-in format names.
const (
	FormatCards = "cards"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatMD    = "markdown"
	FormatHTML  = "html"
)

// RendererFactory creates a Renderer configured with opts.
type RendererFactory func(opts Options) Renderer

// Registry maps format names to renderer factories, enabling pluggable
// output formats for the list, facets, and search commands.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]RendererFactory
}

// NewRegistry creates an empty renderer registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]RendererFactory),
	}
}

// Register adds a renderer factory under the given format name.
// Existing entries for the same name are overwritten.
func (r *Registry) Register(name string, factory RendererFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.renderers[name] = factory
}

// Renderer builds the renderer for the given format, or returns an error if
// the format is not registered.
func (r *Registry) Renderer(name string, opts Options) (Renderer, error) {
	r.mu.RLock()
	f, ok := r.renderers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, r.AvailableFormats())
	}

	return f(opts), nil
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	formats := r.Formats()
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// DefaultRegistry returns a registry pre-populated with the built-in
// formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(FormatCards, func(opts Options) Renderer { return NewCardRenderer(opts) })
	r.Register(FormatTable, func(opts Options) Renderer { return NewTableRenderer(opts) })
	r.Register(FormatJSON, func(opts Options) Renderer { return NewJSONRenderer(opts) })
	r.Register(FormatYAML, func(opts Options) Renderer { return NewYAMLRenderer(opts) })
	r.Register(FormatMD, func(opts Options) Renderer { return NewMarkdownRenderer(opts) })
	r.Register(FormatHTML, func(opts Options) Renderer { return NewHTMLRenderer(opts) })

	return r
}
