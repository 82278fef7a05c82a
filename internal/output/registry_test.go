package output

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/projgrid/internal/aisearch"
	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/project"
)

// countingRenderer records how many projects it was asked to render.
type countingRenderer struct {
	opts Options
	n    int
}

func (c *countingRenderer) Grid(_ io.Writer, projects []project.Project) error {
	c.n = len(projects)
	return nil
}

func (c *countingRenderer) Spotlight(io.Writer, *aisearch.Spotlight) error { return nil }
func (c *countingRenderer) Facets(io.Writer, *catalog.Catalog) error       { return nil }

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

func TestRegistry_Register_And_Lookup(t *testing.T) {
	r := NewRegistry()

	rec := &countingRenderer{}
	r.Register("test", func(opts Options) Renderer {
		rec.opts = opts
		return rec
	})

	got, err := r.Renderer("test", Options{Columns: 2})
	require.NoError(t, err)
	require.NoError(t, got.Grid(io.Discard, make([]project.Project, 4)))

	assert.Equal(t, 4, rec.n)
	assert.Equal(t, 2, rec.opts.Columns)
}

func TestRegistry_UnknownFormat(t *testing.T) {
	_, err := NewRegistry().Renderer("xml", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
	assert.Contains(t, err.Error(), "xml")
	assert.Contains(t, err.Error(), "available: none")
}

func TestRegistry_Formats(t *testing.T) {
	r := NewRegistry()
	r.Register("json", func(Options) Renderer { return &countingRenderer{} })
	r.Register("yaml", func(Options) Renderer { return &countingRenderer{} })
	r.Register("csv", func(Options) Renderer { return &countingRenderer{} })

	assert.Equal(t, []string{"csv", "json", "yaml"}, r.Formats())
}

func TestRegistry_Overwrite(t *testing.T) {
	r := NewRegistry()

	first, second := &countingRenderer{}, &countingRenderer{}
	r.Register("fmt", func(Options) Renderer { return first })
	r.Register("fmt", func(Options) Renderer { return second })

	got, err := r.Renderer("fmt", Options{})
	require.NoError(t, err)
	require.NoError(t, got.Grid(io.Discard, make([]project.Project, 1)))

	assert.Zero(t, first.n, "old renderer should NOT be used")
	assert.Equal(t, 1, second.n, "new renderer should be used")
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{FormatCards, FormatHTML, FormatJSON, FormatMD, FormatTable, FormatYAML}, r.Formats())

	for format, want := range map[string]Renderer{
		FormatCards: &CardRenderer{},
		FormatTable: &TableRenderer{},
		FormatJSON:  &DataRenderer{},
		FormatYAML:  &DataRenderer{},
		FormatMD:    &MarkdownRenderer{},
		FormatHTML:  &HTMLRenderer{},
	} {
		got, err := r.Renderer(format, DefaultOptions())
		require.NoError(t, err, format)
		assert.IsType(t, want, got, format)
	}
}

func TestRegistry_ErrorMessage_ListsFormats(t *testing.T) {
	r := NewRegistry()
	r.Register("a", func(Options) Renderer { return &countingRenderer{} })
	r.Register("b", func(Options) Renderer { return &countingRenderer{} })

	_, err := r.Renderer("c", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a, b")
}

func TestRegistry_RendersThroughFileWriter(t *testing.T) {
	r, err := DefaultRegistry().Renderer(FormatJSON, Options{})
	require.NoError(t, err)

	var doc bytes.Buffer
	require.NoError(t, r.Grid(&doc, nil))

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, NewFileWriter(path).Write(doc.Bytes()))

	got, err := os.ReadFile(path) //nolint:gosec // test
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(got))
}
