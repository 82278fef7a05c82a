package catalog

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/projgrid/internal/project"
)

func sampleProjects() []project.Project {
	return []project.Project{
		{Name: "Foo", Tags: []string{"DEX", "AMM"}, Blockchain: "Ethereum", TVL: "$10M"},
		{Name: "Bar", Tags: []string{"Lending"}, Blockchain: "Solana", TVL: "$90.5M"},
		{Name: "Baz", Tags: []string{"AMM", "Bridge"}, Blockchain: "Ethereum"},
		{Name: "Qux", Tags: nil, TVL: "unknown"},
		{Name: "Zed", Tags: []string{"DEX"}, Blockchain: "Near", TVL: "$0M"},
	}
}

func TestBuild(t *testing.T) {
	c := Build(sampleProjects())

	assert.Equal(t, []string{"DEX", "AMM", "Lending", "Bridge"}, c.Tags)
	assert.Equal(t, []string{"Ethereum", "Solana", "Near"}, c.Blockchains)
	assert.Equal(t, []float64{10, 90.5}, c.TVLValues)
	assert.Equal(t, Bounds{Min: 10, Max: 90.5, Count: 2}, c.Bounds)
	assert.False(t, c.Bounds.Empty())
	assert.False(t, c.Bounds.Fixed())
}

func TestBuild_Empty(t *testing.T) {
	c := Build(nil)

	assert.Empty(t, c.Tags)
	assert.NotNil(t, c.Tags, "empty slices serialise as []")
	assert.Empty(t, c.Blockchains)
	assert.True(t, c.Bounds.Empty())
}

func TestBuild_SingleTVLIsFixed(t *testing.T) {
	c := Build([]project.Project{{Name: "Only", TVL: "$42M"}, {Name: "None"}})

	assert.True(t, c.Bounds.Fixed())
	assert.Equal(t, 42.0, c.Bounds.Min)
	assert.Equal(t, 42.0, c.Bounds.Max)
}

func TestCache_KeyedOnDatasetIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cache := NewCache(logger)
	ds := &project.Dataset{Projects: sampleProjects()}

	first := cache.Get(ds)
	second := cache.Get(ds)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Builds())
	assert.Contains(t, buf.String(), "catalog rebuilt")

	reloaded := &project.Dataset{Projects: sampleProjects()[:1]}
	third := cache.Get(reloaded)
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, cache.Builds())
	assert.Equal(t, []string{"DEX", "AMM"}, third.Tags)
}

func TestCache_NilDataset(t *testing.T) {
	cache := NewCache(nil)

	c := cache.Get(nil)
	require.NotNil(t, c)
	assert.True(t, c.Bounds.Empty())
	assert.Same(t, c, cache.Get(nil))
}

func TestCache_Concurrent(t *testing.T) {
	cache := NewCache(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	ds := &project.Dataset{Projects: sampleProjects()}

	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			c := cache.Get(ds)
			assert.Len(t, c.Tags, 4)
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, cache.Builds())
}
