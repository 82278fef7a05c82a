package filter

import (
	"fmt"
	"strings"

	"github.com/hupe1980/projgrid/internal/catalog"
)

// CombineMode controls how multiple selections within the tag category and
// within the blockchain category combine.
type CombineMode int

const (
	// ModeAnd requires every selection to match. It is the default.
	ModeAnd CombineMode = iota
	// ModeOr requires at least one selection to match.
	ModeOr
)

// String returns "and" or "or".
func (m CombineMode) String() string {
	if m == ModeOr {
		return "or"
	}

	return "and"
}

// ParseMode parses "and" or "or", case-insensitively.
func ParseMode(s string) (CombineMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "and", "":
		return ModeAnd, nil
	case "or":
		return ModeOr, nil
	default:
		return ModeAnd, fmt.Errorf("invalid combine mode %q: must be one of and, or", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m CombineMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *CombineMode) UnmarshalText(b []byte) error {
	mode, err := ParseMode(string(b))
	if err != nil {
		return err
	}

	*m = mode

	return nil
}

// Range is an inclusive TVL range in millions.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// State is the user's filter selection. The zero State filters nothing.
type State struct {
	// Query is matched case-insensitively against name and description.
	Query string `json:"query,omitempty"`
	// Tags are the selected tags in selection order.
	Tags []string `json:"tags,omitempty"`
	// Blockchains are the selected blockchains in selection order.
	Blockchains []string `json:"blockchains,omitempty"`
	// TVL is the selected range; nil means no TVL constraint.
	TVL *Range `json:"tvl,omitempty"`
	// Mode applies within tags and within blockchains.
	Mode CombineMode `json:"mode"`
}

// IsEmpty reports whether no filter is active.
func (s *State) IsEmpty() bool {
	return s.Query == "" && len(s.Tags) == 0 && len(s.Blockchains) == 0 && s.TVL == nil
}

// SetQuery replaces the text query.
func (s *State) SetQuery(q string) { s.Query = q }

// SetMode replaces the combine mode.
func (s *State) SetMode(m CombineMode) { s.Mode = m }

// ToggleTag selects tag, or deselects it when already selected.
func (s *State) ToggleTag(tag string) { s.Tags = toggle(s.Tags, tag) }

// RemoveTag deselects tag.
func (s *State) RemoveTag(tag string) { s.Tags = remove(s.Tags, tag) }

// ToggleBlockchain selects chain, or deselects it when already selected.
func (s *State) ToggleBlockchain(chain string) { s.Blockchains = toggle(s.Blockchains, chain) }

// RemoveBlockchain deselects chain.
func (s *State) RemoveBlockchain(chain string) { s.Blockchains = remove(s.Blockchains, chain) }

// SetRange selects [lo, hi] as given; a reversed pair is swapped. The range
// is not limited to the dataset bounds, so a range outside them matches only
// projects without a usable TVL.
func (s *State) SetRange(lo, hi float64) {
	if lo > hi {
		lo, hi = hi, lo
	}

	s.TVL = &Range{Min: lo, Max: hi}
}

// ResetRange selects the full bounds, or clears the range when b is empty.
func (s *State) ResetRange(b catalog.Bounds) {
	if b.Empty() {
		s.TVL = nil
		return
	}

	s.SetRange(b.Min, b.Max)
}

// HasAmbiguousChainAnd reports whether the state combines more than one
// distinct blockchain in AND mode. Blockchain is single-valued, so such a
// selection matches nothing.
func (s *State) HasAmbiguousChainAnd() bool {
	return s.Mode == ModeAnd && len(s.Blockchains) > 1
}

func toggle(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return remove(list, v)
		}
	}

	return append(append([]string{}, list...), v)
}

func remove(list []string, v string) []string {
	out := make([]string, 0, len(list))

	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}

	return out
}
