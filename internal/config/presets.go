package config

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/hupe1980/projgrid/internal/catalog"
	"github.com/hupe1980/projgrid/internal/filter"
)

// Preset is a named filter selection declared in the config file:
//
//	presets:
//	  eth-dex:
//	    tags: [DEX]
//	    chains: [Ethereum]
//	    mode: or
//	    tvl-min: 10
type Preset struct {
	Search string   `mapstructure:"search" json:"search,omitempty"`
	Tags   []string `mapstructure:"tags" json:"tags,omitempty"`
	Chains []string `mapstructure:"chains" json:"chains,omitempty"`
	Mode   string   `mapstructure:"mode" json:"mode,omitempty"`

	// TVLMin and TVLMax default to the catalog bounds when unset.
	TVLMin *float64 `mapstructure:"tvl-min" json:"tvlMin,omitempty"`
	TVLMax *float64 `mapstructure:"tvl-max" json:"tvlMax,omitempty"`
}

// presetNamePattern validates preset names. Viper lower-cases map keys, so
// names are matched case-insensitively.
var presetNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// validatePresets checks every preset for correctness.
func validatePresets(presets map[string]Preset) error {
	for _, name := range sortedKeys(presets) {
		p := presets[name]

		if !presetNamePattern.MatchString(name) {
			return fmt.Errorf("presets[%s]: name is invalid (must match %s)", name, presetNamePattern.String())
		}

		if p.Mode != "" {
			if _, err := filter.ParseMode(p.Mode); err != nil {
				return fmt.Errorf("presets[%s]: %w", name, err)
			}
		}

		if p.TVLMin != nil && *p.TVLMin < 0 {
			return fmt.Errorf("presets[%s]: tvl-min must not be negative", name)
		}

		if p.TVLMin != nil && p.TVLMax != nil && *p.TVLMin > *p.TVLMax {
			return fmt.Errorf("presets[%s]: tvl-min %g is greater than tvl-max %g", name, *p.TVLMin, *p.TVLMax)
		}

		if slices.Contains(p.Tags, "") {
			return fmt.Errorf("presets[%s]: tags must not be empty", name)
		}

		if slices.Contains(p.Chains, "") {
			return fmt.Errorf("presets[%s]: chains must not be empty", name)
		}
	}

	return nil
}

// Preset returns the preset called name.
func (c *Config) Preset(name string) (Preset, error) {
	p, ok := c.Presets[strings.ToLower(name)]
	if !ok {
		available := "none"
		if len(c.Presets) > 0 {
			available = strings.Join(sortedKeys(c.Presets), ", ")
		}

		return Preset{}, fmt.Errorf("unknown preset %q (available: %s)", name, available)
	}

	return p, nil
}

// Apply merges the preset into s. Tags and chains are added to the existing
// selection, the query and mode replace it when set, and a TVL bound replaces
// its side of the range. The unset side comes from b.
func (p Preset) Apply(s *filter.State, b catalog.Bounds) {
	if p.Search != "" {
		s.SetQuery(p.Search)
	}

	for _, t := range p.Tags {
		if !slices.Contains(s.Tags, t) {
			s.ToggleTag(t)
		}
	}

	for _, ch := range p.Chains {
		if !slices.Contains(s.Blockchains, ch) {
			s.ToggleBlockchain(ch)
		}
	}

	if p.Mode != "" {
		if m, err := filter.ParseMode(p.Mode); err == nil {
			s.SetMode(m)
		}
	}

	if p.TVLMin == nil && p.TVLMax == nil {
		return
	}

	lo, hi := b.Min, b.Max
	if p.TVLMin != nil {
		lo = *p.TVLMin
	}

	if p.TVLMax != nil {
		hi = *p.TVLMax
	}

	s.SetRange(lo, hi)
}

// IsEmpty returns true if the preset selects nothing.
func (p Preset) IsEmpty() bool {
	return p.Search == "" && len(p.Tags) == 0 && len(p.Chains) == 0 &&
		p.Mode == "" && p.TVLMin == nil && p.TVLMax == nil
}

func sortedKeys(m map[string]Preset) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
