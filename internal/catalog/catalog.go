// Package catalog derives the read-only lookup aids of a dataset: the
// distinct tags and blockchains that populate selection widgets, and the TVL
// bounds of the range control.
package catalog

import (
	"log/slog"
	"sync"

	"github.com/hupe1980/projgrid/internal/project"
)

// Bounds is the TVL range derived from every positive TVL in a dataset.
type Bounds struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Empty reports whether no project has a usable TVL. The range control is
// hidden in that case.
func (b Bounds) Empty() bool { return b.Count == 0 }

// Fixed reports whether exactly one project has a usable TVL. The range
// collapses to [Min, Min] and cannot be changed.
func (b Bounds) Fixed() bool { return b.Count == 1 }

// Catalog holds the aggregates derived from one dataset.
type Catalog struct {
	// Tags are the distinct tags in first-seen order.
	Tags []string `json:"tags"`
	// Blockchains are the distinct non-empty blockchains in first-seen order.
	Blockchains []string `json:"blockchains"`
	// TVLValues are the positive TVLs in dataset order.
	TVLValues []float64 `json:"-"`
	Bounds    Bounds    `json:"tvl"`
}

// Build computes the catalog of projects.
func Build(projects []project.Project) *Catalog {
	c := &Catalog{
		Tags:        []string{},
		Blockchains: []string{},
	}

	tags := make(map[string]struct{})
	chains := make(map[string]struct{})

	for i := range projects {
		p := &projects[i]

		for _, t := range p.Tags {
			if _, ok := tags[t]; !ok {
				tags[t] = struct{}{}
				c.Tags = append(c.Tags, t)
			}
		}

		if p.Blockchain != "" {
			if _, ok := chains[p.Blockchain]; !ok {
				chains[p.Blockchain] = struct{}{}
				c.Blockchains = append(c.Blockchains, p.Blockchain)
			}
		}

		if v, ok := p.TVLValue(); ok {
			c.TVLValues = append(c.TVLValues, v)

			if c.Bounds.Count == 0 || v < c.Bounds.Min {
				c.Bounds.Min = v
			}

			if c.Bounds.Count == 0 || v > c.Bounds.Max {
				c.Bounds.Max = v
			}

			c.Bounds.Count++
		}
	}

	return c
}

// Cache memoises the catalog of the most recent dataset. A different
// *project.Dataset invalidates it.
type Cache struct {
	mu      sync.Mutex
	dataset *project.Dataset
	catalog *Catalog
	logger  *slog.Logger
	builds  int
}

// NewCache returns an empty cache. A nil logger means slog.Default().
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{logger: logger}
}

// Get returns the catalog of ds, rebuilding it only when ds is not the
// dataset of the previous call.
func (c *Cache) Get(ds *project.Dataset) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.catalog != nil && c.dataset == ds {
		return c.catalog
	}

	var projects []project.Project
	if ds != nil {
		projects = ds.Projects
	}

	c.dataset = ds
	c.catalog = Build(projects)
	c.builds++

	c.logger.Debug("catalog rebuilt",
		slog.Int("projects", len(projects)),
		slog.Int("tags", len(c.catalog.Tags)),
		slog.Int("blockchains", len(c.catalog.Blockchains)),
	)

	return c.catalog
}

// Builds returns how many times the catalog was computed.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.builds
}
