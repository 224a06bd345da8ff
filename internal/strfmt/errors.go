package strfmt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// UnknownFieldSyntaxError reports a malformed template: unbalanced braces,
// a bad conversion, or a format spec that cannot be applied to a string.
type UnknownFieldSyntaxError struct {
	Template string
	Pos      int
	Reason   string
}

func (e *UnknownFieldSyntaxError) Error() string {
	return fmt.Sprintf("malformed template %q at offset %d: %s", e.Template, e.Pos, e.Reason)
}

// RecursionLimitError is returned when format specs nest deeper than the
// formatter allows.
type RecursionLimitError struct {
	Template string
	Limit    int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("max string recursion exceeded (limit %d) in template %q", e.Limit, e.Template)
}

// UnresolvedFieldError names a field that no scope could resolve. It is only
// produced in strict mode.
type UnresolvedFieldError struct {
	Field       string
	Template    string
	Suggestions []string
}

func (e *UnresolvedFieldError) Error() string {
	msg := fmt.Sprintf("unresolved field %q in template %q", e.Field, e.Template)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

const maxSuggestions = 3

// suggest ranks known names that look like field: either field is a fuzzy
// subsequence of the name, or the two are a few edits apart.
func suggest(field string, known []string) []string {
	type candidate struct {
		name string
		dist int
	}
	var cands []candidate
	seen := make(map[string]struct{})

	for _, r := range fuzzy.RankFindFold(field, known) {
		if r.Target == field {
			continue
		}
		seen[r.Target] = struct{}{}
		cands = append(cands, candidate{name: r.Target, dist: r.Distance})
	}

	maxDist := len(field) / 3
	if maxDist < 1 {
		maxDist = 1
	}
	for _, name := range known {
		if _, ok := seen[name]; ok || name == field {
			continue
		}
		if d := fuzzy.LevenshteinDistance(strings.ToLower(field), strings.ToLower(name)); d <= maxDist {
			cands = append(cands, candidate{name: name, dist: d})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].name < cands[j].name
	})
	if len(cands) > maxSuggestions {
		cands = cands[:maxSuggestions]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.name
	}
	return out
}
