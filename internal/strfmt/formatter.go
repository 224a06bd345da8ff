package strfmt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/ymp/internal/scope"
)

// DefaultMaxDepth is the number of nested format-spec levels a template may
// use before RecursionLimitError.
const DefaultMaxDepth = 2

// Resolver supplies field values. Any scope.Scope works, including a
// whole scope.Chain.
type Resolver = scope.Scope

// Options selects the strategies a Formatter is assembled from.
type Options struct {
	// Product expands collection-valued fields into the cartesian product
	// of all pieces instead of concatenating them into one string.
	Product bool
	// Regex, when set, replaces the brace grammar with a tag grammar. The
	// pattern must define a (?P<name>...) group.
	Regex string
	// Partial leaves unresolved fields in the output verbatim instead of
	// failing, so a later pass can expand them.
	Partial bool
	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int
}

// Formatter expands templates. It holds no per-call state and is safe for
// concurrent use.
type Formatter struct {
	parser   Parser
	joiner   Joiner
	partial  bool
	maxDepth int
}

// New assembles a Formatter from opts.
func New(opts Options) (*Formatter, error) {
	f := &Formatter{
		parser:   BraceParser{},
		joiner:   ConcatJoiner{},
		partial:  opts.Partial,
		maxDepth: DefaultMaxDepth,
	}
	if opts.Product {
		f.joiner = ProductJoiner{}
	}
	if opts.Regex != "" {
		p, err := NewRegexParser(opts.Regex)
		if err != nil {
			return nil, err
		}
		f.parser = p
	}
	if opts.MaxDepth > 0 {
		f.maxDepth = opts.MaxDepth
	}
	return f, nil
}

// MustNew is New for options known to be valid, such as package-level
// formatters.
func MustNew(opts Options) *Formatter {
	f, err := New(opts)
	if err != nil {
		panic(err)
	}
	return f
}

// WithStrategies builds a Formatter from explicit strategy objects.
func WithStrategies(p Parser, j Joiner, partial bool) *Formatter {
	return &Formatter{parser: p, joiner: j, partial: partial, maxDepth: DefaultMaxDepth}
}

// Format expands template against r.
func (f *Formatter) Format(template string, r Resolver) (scope.Value, error) {
	v, _, err := f.vformat(template, template, r, f.maxDepth)
	return v, err
}

// FormatMap is Format over a fixed set of scalar values.
func (f *Formatter) FormatMap(template string, values map[string]string) (scope.Value, error) {
	m := make(scope.Map, len(values))
	for k, v := range values {
		m[k] = scope.String(v)
	}
	return f.Format(template, m)
}

// FieldNames returns the sorted, de-duplicated names of every field in
// template, including fields nested in format specs.
func (f *Formatter) FieldNames(template string) ([]string, error) {
	seen := make(map[string]struct{})
	if err := f.collectNames(template, template, f.maxDepth, seen); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (f *Formatter) collectNames(root, template string, depth int, seen map[string]struct{}) error {
	if depth < 0 {
		return &RecursionLimitError{Template: root, Limit: f.maxDepth}
	}
	pieces, err := f.parser.Parse(template)
	if err != nil {
		return err
	}
	for _, p := range pieces {
		if p.Field == nil {
			continue
		}
		seen[p.Field.Name] = struct{}{}
		if err := f.collectNames(root, p.Field.Spec, depth-1, seen); err != nil {
			return err
		}
	}
	return nil
}

// vformat expands one level. The returned flag is false when partial mode
// left at least one field unresolved.
func (f *Formatter) vformat(root, template string, r Resolver, depth int) (scope.Value, bool, error) {
	if depth < 0 {
		return scope.Value{}, false, &RecursionLimitError{Template: root, Limit: f.maxDepth}
	}
	pieces, err := f.parser.Parse(template)
	if err != nil {
		return scope.Value{}, false, err
	}

	complete := true
	out := make([]scope.Value, 0, len(pieces))
	kept := make([]bool, 0, len(pieces))
	for _, p := range pieces {
		if p.Field == nil {
			out = append(out, scope.String(p.Literal))
			kept = append(kept, false)
			continue
		}
		v, ok, err := f.formatField(root, p.Field, r, depth)
		if err != nil {
			return scope.Value{}, false, err
		}
		if !ok {
			complete = false
			v = scope.String(p.Field.Raw)
		}
		out = append(out, v)
		kept = append(kept, !ok)
	}

	// Output that still holds placeholders will be parsed again, so any
	// brace that is not part of a placeholder must be escaped.
	if _, brace := f.parser.(BraceParser); brace && !complete {
		for i, v := range out {
			if !kept[i] {
				out[i] = escapeBraces(v)
			}
		}
	}
	return f.joiner.Join(out), complete, nil
}

func escapeBraces(v scope.Value) scope.Value {
	r := strings.NewReplacer("{", "{{", "}", "}}")
	if !v.IsList() {
		return scope.String(r.Replace(v.Scalar()))
	}
	items := v.Strings()
	for i, it := range items {
		items[i] = r.Replace(it)
	}
	return scope.List(items...)
}

// formatField resolves and renders a single field. ok is false when the
// field (or a field inside its spec) was left unresolved in partial mode.
func (f *Formatter) formatField(root string, field *Field, r Resolver, depth int) (scope.Value, bool, error) {
	v, found, err := r.Lookup(field.Name)
	if err != nil {
		return scope.Value{}, false, fmt.Errorf("resolving field %q: %w", field.Name, err)
	}
	if !found {
		if f.partial {
			return scope.Value{}, false, nil
		}
		return scope.Value{}, false, f.unresolved(root, field.Name, r)
	}

	spec, ok, err := f.expandSpec(root, field.Spec, r, depth-1)
	if err != nil || !ok {
		return scope.Value{}, ok, err
	}
	ss, err := parseStringSpec(spec)
	if err != nil {
		return scope.Value{}, false, &UnknownFieldSyntaxError{Template: root, Reason: fmt.Sprintf("field %q: %v", field.Name, err)}
	}

	if !v.IsList() {
		return scope.String(ss.apply(convert(v.Scalar(), field.Conversion))), true, nil
	}
	items := v.Strings()
	for i, it := range items {
		items[i] = ss.apply(convert(it, field.Conversion))
	}
	return scope.List(items...), true, nil
}

// expandSpec expands fields nested in a format spec. Specs are always
// concatenated: a spec must come out as a single string.
func (f *Formatter) expandSpec(root, spec string, r Resolver, depth int) (string, bool, error) {
	if depth < 0 {
		return "", false, &RecursionLimitError{Template: root, Limit: f.maxDepth}
	}
	if spec == "" {
		return "", true, nil
	}
	inner := &Formatter{parser: f.parser, joiner: ConcatJoiner{}, partial: f.partial, maxDepth: f.maxDepth}
	v, complete, err := inner.vformat(root, spec, r, depth)
	if err != nil {
		return "", false, err
	}
	return v.Scalar(), complete, nil
}

func (f *Formatter) unresolved(root, name string, r Resolver) error {
	e := &UnresolvedFieldError{Field: name, Template: root}
	if n, ok := r.(scope.Namer); ok {
		e.Suggestions = suggest(name, n.Names())
	}
	return e
}
