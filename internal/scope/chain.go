package scope

import "sort"

// Chain is an ordered list of scopes. Earlier scopes shadow later ones.
// A Chain is built per request and must not be shared between goroutines
// when it contains Lazy scopes.
type Chain []Scope

// NewChain returns a chain over the given scopes, skipping nil entries.
func NewChain(scopes ...Scope) Chain {
	c := make(Chain, 0, len(scopes))
	for _, s := range scopes {
		if s != nil {
			c = append(c, s)
		}
	}
	return c
}

// Resolve asks each scope in order and returns the first hit. When no scope
// carries name it returns ok=false and a nil error: the name is unresolved,
// and the caller decides whether that is fatal.
func (c Chain) Resolve(name string) (Value, bool, error) {
	for _, s := range c {
		v, ok, err := s.Lookup(name)
		if err != nil {
			return Value{}, false, err
		}
		if ok {
			return v, true, nil
		}
	}
	return Value{}, false, nil
}

// Lookup makes a Chain usable wherever a single Scope is expected.
func (c Chain) Lookup(name string) (Value, bool, error) {
	return c.Resolve(name)
}

// Names returns the sorted union of the names every Namer scope carries.
func (c Chain) Names() []string {
	seen := make(map[string]struct{})
	for _, s := range c {
		n, ok := s.(Namer)
		if !ok {
			continue
		}
		for _, name := range n.Names() {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
