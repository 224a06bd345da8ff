package strfmt

import (
	"strings"

	"github.com/vk/ymp/internal/scope"
)

// Joiner assembles the expanded pieces of a template into the result. It
// is the join strategy of a Formatter.
type Joiner interface {
	Join(pieces []scope.Value) scope.Value
}

// ConcatJoiner concatenates pieces into one scalar. A collection piece is
// rendered as its items separated by single spaces.
type ConcatJoiner struct{}

// Join implements Joiner.
func (ConcatJoiner) Join(pieces []scope.Value) scope.Value {
	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(p.Scalar())
	}
	return scope.String(b.String())
}

// ProductJoiner expands collection pieces into the cartesian product of
// their items, one output string per combination, in row-major order (the
// rightmost collection varies fastest).
//
// An empty product yields the empty scalar, and a product of exactly one
// combination collapses to a scalar. Callers that need to tell a single
// expansion apart from a one-element list have to check Len, not IsList.
type ProductJoiner struct{}

// Join implements Joiner.
func (ProductJoiner) Join(pieces []scope.Value) scope.Value {
	axes := make([][]string, len(pieces))
	total := 1
	for i, p := range pieces {
		axes[i] = p.Strings()
		total *= len(axes[i])
	}
	if total == 0 {
		return scope.String("")
	}

	out := make([]string, 0, total)
	idx := make([]int, len(axes))
	var b strings.Builder
	for {
		b.Reset()
		for i, axis := range axes {
			b.WriteString(axis[idx[i]])
		}
		out = append(out, b.String())

		k := len(axes) - 1
		for ; k >= 0; k-- {
			idx[k]++
			if idx[k] < len(axes[k]) {
				break
			}
			idx[k] = 0
		}
		if k < 0 {
			break
		}
	}

	if len(out) == 1 {
		return scope.String(out[0])
	}
	return scope.List(out...)
}
