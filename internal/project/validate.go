package project

import (
	"fmt"
	"strings"
)

// Issue is a dataset quality warning. Issues never change filtering.
type Issue struct {
	// Index is the position of the project in the dataset.
	Index   int
	Project string
	Origin  Origin
	Message string
}

// String formats the issue as "source:line: project: message".
func (i Issue) String() string {
	loc := i.Origin.Source
	if loc == "" {
		loc = fmt.Sprintf("#%d", i.Index)
	} else if i.Origin.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, i.Origin.Line)
	}

	name := i.Project
	if name == "" {
		name = "<unnamed>"
	}

	return fmt.Sprintf("%s: %s: %s", loc, name, i.Message)
}

// Validate reports empty or duplicate names, malformed TVL strings, and
// empty or repeated tags.
func Validate(ds *Dataset) []Issue {
	if ds == nil {
		return nil
	}

	var issues []Issue

	seen := make(map[string]int, len(ds.Projects))

	for i := range ds.Projects {
		p := &ds.Projects[i]

		var origin Origin
		if i < len(ds.Origins) {
			origin = ds.Origins[i]
		}

		add := func(format string, args ...any) {
			issues = append(issues, Issue{
				Index:   i,
				Project: p.Name,
				Origin:  origin,
				Message: fmt.Sprintf(format, args...),
			})
		}

		name := strings.TrimSpace(p.Name)

		switch prev, dup := seen[name]; {
		case name == "":
			add("empty name")
		case dup:
			add("duplicate name (first at #%d); AI search resolves to the first", prev)
		default:
			seen[name] = i
		}

		if strings.TrimSpace(p.TVL) != "" {
			if _, ok := p.TVLValue(); !ok {
				add("tvl %q is not a positive amount, treated as absent", p.TVL)
			}
		}

		tags := make(map[string]struct{}, len(p.Tags))

		for _, t := range p.Tags {
			if strings.TrimSpace(t) == "" {
				add("empty tag")
				continue
			}

			if _, ok := tags[t]; ok {
				add("repeated tag %q", t)
			}

			tags[t] = struct{}{}
		}
	}

	return issues
}
