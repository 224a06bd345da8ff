package app

import (
	"context"
	"fmt"

	"github.com/vk/ymp/internal/scope"
	"github.com/vk/ymp/internal/strfmt"
	"golang.org/x/sync/errgroup"
)

// ExpandOptions tunes an Expansion.
type ExpandOptions struct {
	// Strict fails on fields no scope resolves instead of keeping them as
	// placeholders.
	Strict bool
	// Regex replaces the brace grammar with a tag grammar; see
	// strfmt.Options.
	Regex string
}

// Expansion resolves its templates under one wildcard binding. A single
// template yields whatever the product expansion yields, a scalar or a
// list; several templates yield the concatenation of their results as a
// list.
type Expansion func(wc scope.Wildcards) (scope.Value, error)

// Expand prepares templates for best-effort expansion: collection-valued
// fields multiply, unresolved fields stay in the output as placeholders.
func (a *App) Expand(templates ...string) (Expansion, error) {
	return a.ExpandWith(ExpandOptions{}, templates...)
}

// ExpandWith is Expand with explicit options.
func (a *App) ExpandWith(opts ExpandOptions, templates ...string) (Expansion, error) {
	f, err := strfmt.New(strfmt.Options{Product: true, Partial: !opts.Strict, Regex: opts.Regex})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var names []string
	for _, tmpl := range templates {
		fields, err := f.FieldNames(tmpl)
		if err != nil {
			return nil, err
		}
		for _, name := range fields {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	tmpls := append([]string(nil), templates...)

	return func(wc scope.Wildcards) (scope.Value, error) {
		chain := a.Chain(wc)
		values := resolvedFields{Map: make(scope.Map, len(names)), chain: chain}
		for _, name := range names {
			v, ok, err := chain.Resolve(name)
			if err != nil {
				return scope.Value{}, fmt.Errorf("resolving %q: %w", name, err)
			}
			if ok {
				values.Map[name] = v
			}
		}
		a.logger.Debug("Expanding templates.", "templates", len(tmpls), "fields", len(names), "resolved", len(values.Map))

		if len(tmpls) == 1 {
			return f.Format(tmpls[0], values)
		}
		var out []string
		for _, tmpl := range tmpls {
			v, err := f.Format(tmpl, values)
			if err != nil {
				return scope.Value{}, err
			}
			out = append(out, v.Strings()...)
		}
		return scope.List(out...), nil
	}, nil
}

// resolvedFields answers lookups from the values resolved up front and
// reports the names of the whole chain, so unresolved-field errors can
// suggest anything the chain knows.
type resolvedFields struct {
	scope.Map
	chain scope.Chain
}

func (r resolvedFields) Names() []string {
	return r.chain.Names()
}

// ExpandAll runs exp once per binding, at most a.workers at a time, and
// returns the results in binding order. The first failure cancels the rest.
func (a *App) ExpandAll(ctx context.Context, exp Expansion, bindings []scope.Wildcards) ([]scope.Value, error) {
	results := make([]scope.Value, len(bindings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, wc := range bindings {
		i, wc := i, wc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := exp(wc)
			if err != nil {
				return fmt.Errorf("binding %d: %w", i, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
