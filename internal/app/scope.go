package app

import (
	"github.com/vk/ymp/internal/grouping"
	"github.com/vk/ymp/internal/scope"
)

// Lookup makes the App the last scope of every chain: the aggregate names
// "datasets", "allruns" and "allprops", then every registry setting.
func (a *App) Lookup(name string) (scope.Value, bool, error) {
	switch name {
	case "datasets":
		return scope.List(a.Datasets()...), true, nil
	case "allruns":
		runs, err := a.Runs()
		if err != nil {
			return scope.Value{}, false, err
		}
		return scope.List(runs...), true, nil
	case "allprops":
		props, err := a.Props()
		if err != nil {
			return scope.Value{}, false, err
		}
		return scope.List(props...), true, nil
	}
	return a.registry.Lookup(name)
}

// Names implements scope.Namer.
func (a *App) Names() []string {
	return append([]string{"allprops", "allruns", "datasets"}, a.registry.Names()...)
}

// Chain returns the scope chain for one wildcard binding: the binding
// itself, the dataset named by its "dir" wildcard, the grouping context of
// that dataset, and finally the App. When "dir" is absent or names no
// dataset the two dataset scopes decline.
func (a *App) Chain(wc scope.Wildcards) scope.Chain {
	ds := scope.Lazy(func() (scope.Scope, error) {
		src, err := a.DatasetFromDir(wc[grouping.DirWildcard])
		if err != nil {
			return nil, err
		}
		return src, nil
	})
	ctx := scope.Lazy(func() (scope.Scope, error) {
		src, err := a.DatasetFromDir(wc[grouping.DirWildcard])
		if err != nil {
			return nil, err
		}
		return grouping.New(src.Data(), wc), nil
	})
	return scope.NewChain(wc, ds, ctx, a)
}
