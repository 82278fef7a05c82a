package watch

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ResultDiff returns a unified diff of the matched project names of two
// consecutive generations, or "" when they are identical.
func ResultDiff(prev, curr []string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        lines(prev),
		B:        lines(curr),
		FromFile: "previous",
		ToFile:   "current",
		Context:  1,
	}

	unified, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("computing result diff: %w", err)
	}

	return unified, nil
}

// DiffSummary returns a one-line count of the names that entered and left
// the result.
func DiffSummary(prev, curr []string) string {
	before := make(map[string]int, len(prev))
	for _, n := range prev {
		before[n]++
	}

	var added, removed int

	for _, n := range curr {
		if before[n] > 0 {
			before[n]--
			continue
		}

		added++
	}

	for _, left := range before {
		removed += left
	}

	if added == 0 && removed == 0 {
		return "order changed"
	}

	parts := make([]string, 0, 2)

	if added > 0 {
		parts = append(parts, fmt.Sprintf("+%d project(s)", added))
	}

	if removed > 0 {
		parts = append(parts, fmt.Sprintf("-%d project(s)", removed))
	}

	return strings.Join(parts, ", ")
}

// lines terminates each name with a newline for difflib.
func lines(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n + "\n"
	}

	return out
}
