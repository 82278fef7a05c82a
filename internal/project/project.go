// Package project defines the project directory data model, TVL parsing,
// and dataset loading from local files or a URL.
package project

import (
	"math"
	"strconv"
	"strings"
)

// Project is a single entry of the project directory.
type Project struct {
	// Name is the display name, also used to resolve AI search results.
	Name string `json:"name"`
	// Description is free text matched by the text query.
	Description string `json:"description"`
	// Tags is the ordered tag list of the project.
	Tags []string `json:"tags"`
	// Blockchain is the chain the project runs on. Empty means absent.
	Blockchain string `json:"blockchain,omitempty"`
	// TVL is the total value locked formatted as "$<number>M". Empty means absent.
	TVL string `json:"tvl,omitempty"`
}

// HasTag reports whether the project carries tag (exact match).
func (p *Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

// TVLValue returns the parsed TVL in millions.
func (p *Project) TVLValue() (float64, bool) {
	return ParseTVL(p.TVL)
}

// ParseTVL parses a "$<number>M" string into its magnitude in millions.
// It returns false for absent, malformed, and non-positive values; such a
// value never constrains a project.
func ParseTVL(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "M"), "m")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}

	return v, true
}

// FormatTVL renders a magnitude in millions the way the range labels do.
func FormatTVL(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 1, 64) + "M"
}

// Origin records where a project was read from.
type Origin struct {
	Source string
	// Line is the 1-based line of the entry, 0 when unknown.
	Line int
}

// Dataset is an immutable, loaded project directory. The pointer identity of
// a Dataset is what derived caches key on.
type Dataset struct {
	Projects []Project
	// Origins is parallel to Projects.
	Origins []Origin
	// Sources lists the files or URL the dataset was loaded from, in order.
	Sources []string
	// SchemaVersion is the envelope schemaVersion, empty for bare arrays.
	SchemaVersion string
}

// Len returns the number of projects.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}

	return len(d.Projects)
}

// Find returns the first project whose name equals name exactly.
func (d *Dataset) Find(name string) *Project {
	if d == nil {
		return nil
	}

	for i := range d.Projects {
		if d.Projects[i].Name == name {
			return &d.Projects[i]
		}
	}

	return nil
}
