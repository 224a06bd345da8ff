package cli

import (
	"context"

	"github.com/vk/ymp/internal/app"
	"github.com/vk/ymp/internal/scope"
)

func runExpand(ctx context.Context, s *session, templates, wildcards []string, bindingsPath string, opts app.ExpandOptions) error {
	wc, err := parseWildcards(wildcards)
	if err != nil {
		return usageError(err)
	}
	bindings := []scope.Wildcards{wc}
	if bindingsPath != "" {
		if bindings, err = readBindings(bindingsPath, wc); err != nil {
			return err
		}
	}

	a, err := s.loadApp()
	if err != nil {
		return err
	}
	exp, err := a.ExpandWith(opts, templates...)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := a.ExpandAll(ctx, exp, bindings)
	if err != nil {
		return err
	}
	for _, v := range results {
		if err := printLines(s.outW, v.Strings()); err != nil {
			return err
		}
	}
	return nil
}
