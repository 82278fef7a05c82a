package output

import (
	"encoding/json"
	"fmt"
	"io"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/projgrid/internal/aisearch"
	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/project"
)

// Marshaler encodes a value into a document.
type Marshaler func(v any) ([]byte, error)

// JSONMarshal encodes v as indented JSON.
func JSONMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// YAMLMarshal encodes v as YAML using its JSON field names.
func YAMLMarshal(v any) ([]byte, error) {
	return sigsyaml.Marshal(v)
}

// DataRenderer renders machine-readable documents. Field names follow the
// JSON tags of the project, spotlight, and catalog types.
type DataRenderer struct {
	marshal Marshaler
}

// NewJSONRenderer creates a JSON renderer.
func NewJSONRenderer(Options) *DataRenderer {
	return &DataRenderer{marshal: JSONMarshal}
}

// NewYAMLRenderer creates a YAML renderer.
func NewYAMLRenderer(Options) *DataRenderer {
	return &DataRenderer{marshal: YAMLMarshal}
}

// Grid implements Renderer. An empty grid renders an empty list.
func (d *DataRenderer) Grid(w io.Writer, projects []project.Project) error {
	if projects == nil {
		projects = []project.Project{}
	}

	return d.write(w, projects)
}

// Spotlight implements Renderer.
func (d *DataRenderer) Spotlight(w io.Writer, s *aisearch.Spotlight) error {
	if s == nil {
		return nil
	}

	return d.write(w, s)
}

// Facets implements Renderer.
func (d *DataRenderer) Facets(w io.Writer, c *catalog.Catalog) error {
	return d.write(w, c)
}

func (d *DataRenderer) write(w io.Writer, v any) error {
	data, err := d.marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
