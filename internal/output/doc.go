// Package output renders filtered project grids, AI search spotlights, and
// dataset facets, and writes the result to stdout or a file.
//
// The package is organized around three concerns:
//
//   - Renderers (cards.go, table.go, data.go, markdown.go, html.go): the
//     [Renderer] interface with lipgloss card grids, tab-aligned tables,
//     JSON/YAML documents, Markdown tables, and standalone HTML pages.
//
//   - Registry (registry.go): format names mapped to renderer factories, so
//     commands accept --output with any registered format.
//
//   - Writers (writer.go): file destinations via the [Writer] interface and
//     [FileWriter].
//
// An empty grid is a normal result: text formats print the "No projects
// found" affordance, data formats print an empty list.
package output
