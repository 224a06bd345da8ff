package scope

import "sort"

// Scope is anything that can be asked for a named value.
//
// Lookup returns ok=false when the scope does not carry the name; the chain
// then moves on to the next scope. A non-nil error is reserved for defects
// that must stop the request, such as a configured accessor whose backing
// setting is missing.
type Scope interface {
	Lookup(name string) (v Value, ok bool, err error)
}

// Namer is implemented by scopes that can enumerate the names they carry.
// It only feeds diagnostics; resolution never depends on it.
type Namer interface {
	Names() []string
}

// Func adapts a plain function to the Scope interface.
type Func func(name string) (Value, bool, error)

// Lookup calls f.
func (f Func) Lookup(name string) (Value, bool, error) {
	return f(name)
}

// Map is a fixed set of named values.
type Map map[string]Value

// Lookup implements Scope.
func (m Map) Lookup(name string) (Value, bool, error) {
	v, ok := m[name]
	return v, ok, nil
}

// Names implements Namer.
func (m Map) Names() []string {
	return sortedKeys(m)
}

// Wildcards is the binding supplied by the workflow engine for one job:
// wildcard name to the matched text.
type Wildcards map[string]string

// Get returns the binding for name.
func (w Wildcards) Get(name string) (string, bool) {
	v, ok := w[name]
	return v, ok
}

// Lookup implements Scope.
func (w Wildcards) Lookup(name string) (Value, bool, error) {
	v, ok := w[name]
	if !ok {
		return Value{}, false, nil
	}
	return String(v), true, nil
}

// Names implements Namer.
func (w Wildcards) Names() []string {
	return sortedKeys(w)
}

// Lazy defers building a scope until the first lookup. If build fails the
// scope declines every name, so a missing dataset never aborts the chain.
func Lazy(build func() (Scope, error)) Scope {
	return &lazy{build: build}
}

type lazy struct {
	build func() (Scope, error)
	done  bool
	inner Scope
}

func (l *lazy) get() Scope {
	if !l.done {
		l.done = true
		if s, err := l.build(); err == nil {
			l.inner = s
		}
	}
	return l.inner
}

// Lookup implements Scope.
func (l *lazy) Lookup(name string) (Value, bool, error) {
	s := l.get()
	if s == nil {
		return Value{}, false, nil
	}
	return s.Lookup(name)
}

// Names implements Namer.
func (l *lazy) Names() []string {
	if n, ok := l.get().(Namer); ok {
		return n.Names()
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
