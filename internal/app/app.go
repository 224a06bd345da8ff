package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/ymp/internal/config"
	"github.com/vk/ymp/internal/ctxlog"
	"github.com/vk/ymp/internal/dataset"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownDataset is returned, wrapped, when a dataset name or directory
// does not name a configured dataset.
var ErrUnknownDataset = errors.New("unknown dataset")

// App encapsulates the loaded configuration and every built dataset. It is
// immutable after construction and safe for concurrent use.
type App struct {
	logger   *slog.Logger
	registry *config.Registry
	datasets map[string]*dataset.Source
	names    []string
	workers  int
}

// NewApp loads the configuration named by cfg with loader and builds every
// dataset. Log output goes to outW.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	return FromModel(ctx, model, cfg.WorkerCount)
}

// FromModel builds every dataset of model, at most workers at a time, and
// returns the ready App. The logger is taken from ctx.
func FromModel(ctx context.Context, model *config.Model, workers int) (*App, error) {
	logger := ctxlog.FromContext(ctx)
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	reg := config.NewRegistry(model)

	names := model.DatasetNames()
	sources := make([]*dataset.Source, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := dataset.Open(gctx, model.Datasets[name], reg)
			if err != nil {
				return err
			}
			sources[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a := &App{
		logger:   logger,
		registry: reg,
		datasets: make(map[string]*dataset.Source, len(names)),
		names:    names,
		workers:  workers,
	}
	for i, name := range names {
		a.datasets[name] = sources[i]
	}
	logger.Info("Datasets loaded.", "count", len(names))
	return a, nil
}

// Registry returns the global settings registry.
func (a *App) Registry() *config.Registry {
	return a.registry
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Datasets returns the configured dataset names in sorted order.
func (a *App) Datasets() []string {
	return append([]string(nil), a.names...)
}

// Dataset returns the named dataset.
func (a *App) Dataset(name string) (*dataset.Source, error) {
	ds, ok := a.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDataset, name)
	}
	return ds, nil
}

// DatasetFromDir returns the dataset named by the part of dir before its
// first ".", e.g. "toy" for "toy.by_host/assembly".
func (a *App) DatasetFromDir(dir string) (*dataset.Source, error) {
	name, _, _ := strings.Cut(dir, ".")
	ds, ok := a.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: no dataset found matching %q", ErrUnknownDataset, dir)
	}
	return ds, nil
}

// Runs returns the run ids of the named datasets, or of every dataset when
// none is named, dataset by dataset.
func (a *App) Runs(datasets ...string) ([]string, error) {
	return a.collect(datasets, (*dataset.Source).Runs)
}

// Props returns the informative column names of the named datasets, or of
// every dataset when none is named.
func (a *App) Props(datasets ...string) ([]string, error) {
	return a.collect(datasets, (*dataset.Source).Props)
}

func (a *App) collect(datasets []string, get func(*dataset.Source) []string) ([]string, error) {
	if len(datasets) == 0 {
		datasets = a.names
	}
	var out []string
	for _, name := range datasets {
		ds, err := a.Dataset(name)
		if err != nil {
			return nil, err
		}
		out = append(out, get(ds)...)
	}
	return out, nil
}

// FQPath returns the read file of run in the named dataset for the pair
// whose suffix (one of the configured pairnames) is pairSuffix.
func (a *App) FQPath(datasetName, run, pairSuffix string) (string, error) {
	ds, err := a.Dataset(datasetName)
	if err != nil {
		return "", err
	}
	pairs, err := a.registry.PairNames()
	if err != nil {
		return "", err
	}
	for i, p := range pairs {
		if p == pairSuffix {
			return ds.FQPath(run, i)
		}
	}
	return "", fmt.Errorf("pair suffix %q not in pairnames %v", pairSuffix, pairs)
}

// PrintRuns writes the informative columns of every run of the named
// dataset as CSV.
func (a *App) PrintRuns(w io.Writer, name string) error {
	ds, err := a.Dataset(name)
	if err != nil {
		return err
	}
	return ds.Data().WriteCSV(w)
}
