package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/ymp/internal/app"
	"github.com/vk/ymp/internal/dataset"
	"github.com/vk/ymp/internal/scope"
)

func addCommands(root *cobra.Command, s *session) {
	var (
		wildcards []string
		bindings  string
		regex     string
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "expand TEMPLATE...",
		Short: "Expand templates under one or more wildcard bindings",
		Long: `Expand resolves every field of the templates against the wildcard binding,
the dataset named by the "dir" wildcard, its grouping context and the global
settings, and prints one result per line.

A binding is given with repeated -w key=value flags, or as a table file
(--bindings) whose header names the wildcards and whose rows are bindings.
-w values then apply to every row that does not set them.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(cmd.Context(), s, args, wildcards, bindings, app.ExpandOptions{Strict: strict, Regex: regex})
		},
	}
	cmd.Flags().StringArrayVarP(&wildcards, "wildcard", "w", nil, "Wildcard binding as key=value. Repeatable.")
	cmd.Flags().StringVar(&bindings, "bindings", "", "Table file with one binding per row.")
	cmd.Flags().StringVar(&regex, "regex", "", "Tag pattern with a (?P<name>...) group, replacing the {field} syntax.")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on fields no scope resolves instead of keeping them.")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "datasets",
		Short: "List the configured datasets",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.loadApp()
			if err != nil {
				return err
			}
			return printLines(s.outW, a.Datasets())
		},
	}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "runs [DATASET...]",
		Short: "List the runs of the given datasets, or of all datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.loadApp()
			if err != nil {
				return err
			}
			runs, err := a.Runs(args...)
			if err != nil {
				return err
			}
			return printLines(s.outW, runs)
		},
	}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "props [DATASET...]",
		Short: "List the informative columns of the given datasets, or of all datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.loadApp()
			if err != nil {
				return err
			}
			props, err := a.Props(args...)
			if err != nil {
				return err
			}
			return printLines(s.outW, props)
		},
	}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "print-runs DATASET",
		Short: "Print the informative columns of every run as CSV",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.loadApp()
			if err != nil {
				return err
			}
			return a.PrintRuns(s.outW, args[0])
		},
	}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "fqpath DATASET RUN PAIR",
		Short: "Print the read file of a run for the given pair suffix",
		Args:  usageArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.loadApp()
			if err != nil {
				return err
			}
			path, err := a.FQPath(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return printLines(s.outW, []string{path})
		},
	}
	root.AddCommand(cmd)

	var format string
	cmd = &cobra.Command{
		Use:   "show-config",
		Short: "Print the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, ok := app.WriterFor(format)
			if !ok {
				return usageError(fmt.Errorf("invalid format %q: must be 'hcl' or 'yaml'", format))
			}
			a, err := s.loadApp()
			if err != nil {
				return err
			}
			return w.Write(s.outW, a.Registry().Model())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "hcl", "Output format. Options: 'hcl' or 'yaml'.")
	root.AddCommand(cmd)
}

// parseWildcards turns key=value pairs into a binding.
func parseWildcards(pairs []string) (scope.Wildcards, error) {
	wc := make(scope.Wildcards, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid wildcard %q: want key=value", p)
		}
		wc[k] = v
	}
	return wc, nil
}

// readBindings reads one binding per table row. Defaults fill in wildcards
// a row does not set.
func readBindings(path string, defaults scope.Wildcards) ([]scope.Wildcards, error) {
	tbl, err := dataset.ReadTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]scope.Wildcards, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		if len(row) != len(tbl.Header) {
			return nil, fmt.Errorf("%s: row %d has %d fields, header has %d", path, i+1, len(row), len(tbl.Header))
		}
		wc := make(scope.Wildcards, len(tbl.Header)+len(defaults))
		for k, v := range defaults {
			wc[k] = v
		}
		for j, name := range tbl.Header {
			wc[name] = row[j]
		}
		out = append(out, wc)
	}
	return out, nil
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
