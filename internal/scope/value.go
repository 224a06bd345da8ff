package scope

import "strings"

// Value is the outcome of resolving a name: either a scalar string or an
// ordered collection of strings. The zero Value is the empty scalar.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// String returns a scalar Value.
func String(s string) Value {
	return Value{scalar: s}
}

// List returns a collection Value. A List with one element is still a
// collection; only the product join collapses singletons.
func List(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{list: cp, isList: true}
}

// IsList reports whether v is a collection.
func (v Value) IsList() bool {
	return v.isList
}

// Scalar returns the scalar content of v. For a collection it returns the
// items joined by a single space.
func (v Value) Scalar() string {
	if v.isList {
		return strings.Join(v.list, " ")
	}
	return v.scalar
}

// Strings returns v as a slice: the items of a collection, or a
// one-element slice holding a scalar.
func (v Value) Strings() []string {
	if !v.isList {
		return []string{v.scalar}
	}
	cp := make([]string, len(v.list))
	copy(cp, v.list)
	return cp
}

// Len is 1 for a scalar and the item count for a collection.
func (v Value) Len() int {
	if !v.isList {
		return 1
	}
	return len(v.list)
}

// Equal reports whether two values have the same shape and content.
func (v Value) Equal(o Value) bool {
	if v.isList != o.isList {
		return false
	}
	if !v.isList {
		return v.scalar == o.scalar
	}
	if len(v.list) != len(o.list) {
		return false
	}
	for i := range v.list {
		if v.list[i] != o.list[i] {
			return false
		}
	}
	return true
}

// GoString makes test failure output readable.
func (v Value) GoString() string {
	if v.isList {
		return "scope.List(" + quoteAll(v.list) + ")"
	}
	return "scope.String(" + quote(v.scalar) + ")"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func quoteAll(items []string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = quote(it)
	}
	return strings.Join(parts, ", ")
}
