package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/ymp/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks err as a command-line mistake (exit code 2).
func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: 2, Message: err.Error()}
}

// usageArgs wraps a cobra argument validator so that its failures are usage
// errors.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(v(cmd, args))
	}
}

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	workers    int
}

// session carries what the persistent pre-run built to the command bodies.
type session struct {
	opts options
	app  *app.App
	outW io.Writer
	logW io.Writer
}

// loadApp builds the App on first use.
func (s *session) loadApp() (*app.App, error) {
	if s.app != nil {
		return s.app, nil
	}
	cfg, err := app.NewConfig(app.Config{
		ConfigPath:  s.opts.configPath,
		LogLevel:    s.opts.logLevel,
		LogFormat:   s.opts.logFormat,
		WorkerCount: s.opts.workers,
	})
	if err != nil {
		return nil, usageError(err)
	}
	slog.Debug("CLI configuration validated.", "config", cfg.ConfigPath)

	a, err := app.NewApp(s.logW, cfg, app.LoaderFor(cfg.ConfigPath))
	if err != nil {
		return nil, err
	}
	s.app = a
	return a, nil
}

// NewRootCommand builds the command tree. Command output goes to outW, logs
// and diagnostics to logW.
func NewRootCommand(outW, logW io.Writer) *cobra.Command {
	s := &session{outW: outW, logW: logW}

	root := &cobra.Command{
		Use:   "ymp",
		Short: "Resolve pipeline templates against configured datasets",
		Long: `ymp loads a pipeline configuration (HCL or YAML), builds its datasets and
expands path templates against wildcard bindings, the datasets, their
grouping contexts and the global settings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(logW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&s.opts.configPath, "config", "c", "config.hcl", "Path to the configuration: a .hcl file or directory, or a .yaml file.")
	pf.StringVar(&s.opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&s.opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.IntVar(&s.opts.workers, "workers", app.DefaultWorkerCount, "Number of datasets loaded and bindings expanded concurrently.")

	addCommands(root, s)
	return root
}

// Run executes the command line args and maps failures to ExitError: code 2
// for usage mistakes, 1 for everything else.
func Run(args []string, outW, logW io.Writer) error {
	root := NewRootCommand(outW, logW)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return usageError(err)
	}
	return &ExitError{Code: 1, Message: fmt.Sprintf("Error: %v", err)}
}
