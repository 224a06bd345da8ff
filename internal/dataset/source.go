package dataset

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/ymp/internal/config"
	"github.com/vk/ymp/internal/ctxlog"
	"github.com/vk/ymp/internal/scope"
)

// DefaultSraNameCol is the id column of an SraRunTable when none is
// configured.
const DefaultSraNameCol = "Libary_Name_s"

// sraPairs is the number of read files per run in an SraRunTable.
const sraPairs = 2

// Source is one configured dataset: its definition, its cleaned records and
// the way its read files are located.
type Source struct {
	name     string
	kind     string
	file     string
	nameCol  string
	fqCols   []string
	data     *Dataset
	registry *config.Registry
}

// Open reads, merges and prunes the dataset described by def. Relative file
// paths are resolved against the configuration file.
func Open(ctx context.Context, def *config.DatasetDefinition, reg *config.Registry) (*Source, error) {
	logger := ctxlog.FromContext(ctx).With("dataset", def.Name)

	s := &Source{
		name:     def.Name,
		kind:     def.Type,
		file:     reg.Model().Resolve(def.File),
		nameCol:  def.NameCol,
		registry: reg,
	}
	switch def.Type {
	case config.DatasetTypeCSV:
		if def.NameCol == "" {
			return nil, &config.MissingKeyError{Path: fmt.Sprintf("datasets/%s/name_col", def.Name)}
		}
		if len(def.FqCols) == 0 {
			return nil, &config.MissingKeyError{Path: fmt.Sprintf("datasets/%s/fq_cols", def.Name)}
		}
		s.fqCols = append([]string(nil), def.FqCols...)
	case config.DatasetTypeSraRunTable:
		if s.nameCol == "" {
			s.nameCol = DefaultSraNameCol
		}
	default:
		return nil, fmt.Errorf("unable to parse configuration for %s: unknown dataset type %q", def.Name, def.Type)
	}

	logger.Debug("Reading primary table.", "file", s.file)
	primary, err := ReadTable(s.file)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", def.Name, err)
	}
	data, err := Load(primary, s.nameCol)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", def.Name, err)
	}

	if def.ExtraFile != "" {
		extraPath := reg.Model().Resolve(def.ExtraFile)
		logger.Debug("Merging extra table.", "file", extraPath, "key", def.ExtraNameCol)
		extra, err := ReadTable(extraPath)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", def.Name, err)
		}
		var stats MergeStats
		data, stats, err = data.MergeExtra(extra, def.ExtraNameCol)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", def.Name, err)
		}
		if len(stats.Dropped) > 0 {
			logger.Warn("Ignoring extra rows that match no record.", "count", len(stats.Dropped), "keys", stats.Dropped)
		}
	}

	data, err = data.PruneUninformative()
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", def.Name, err)
	}
	s.data = data
	logger.Debug("Dataset ready.", "records", data.Len(), "columns", len(data.Columns()))
	return s, nil
}

// NewSource wraps an already built dataset. It is used where records come
// from somewhere other than a table file.
func NewSource(name, kind string, data *Dataset, fqCols []string, reg *config.Registry) *Source {
	return &Source{
		name:     name,
		kind:     kind,
		nameCol:  data.IDColumn(),
		fqCols:   append([]string(nil), fqCols...),
		data:     data,
		registry: reg,
	}
}

// Name returns the dataset name as declared in the configuration.
func (s *Source) Name() string { return s.name }

// Type returns the dataset kind, CSV or SraRunTable.
func (s *Source) Type() string { return s.kind }

// File returns the absolute path of the primary table.
func (s *Source) File() string { return s.file }

// NameCol returns the column holding record ids.
func (s *Source) NameCol() string { return s.nameCol }

// Data returns the merged and pruned record store.
func (s *Source) Data() *Dataset { return s.data }

// Runs returns the record ids in load order.
func (s *Source) Runs() []string { return s.data.IDs() }

// Props returns the informative column names.
func (s *Source) Props() []string { return s.data.Columns() }

// Pairs returns the number of read files per run.
func (s *Source) Pairs() int {
	if s.kind == config.DatasetTypeSraRunTable {
		return sraPairs
	}
	return len(s.fqCols)
}

// FQPath returns the path of read file pair (zero based) of run.
func (s *Source) FQPath(run string, pair int) (string, error) {
	if pair < 0 || pair >= s.Pairs() {
		return "", fmt.Errorf("dataset %s: pair index %d out of range [0,%d)", s.name, pair, s.Pairs())
	}
	if s.kind == config.DatasetTypeSraRunTable {
		acc, err := s.data.Value(run, "Run_s")
		if err != nil {
			return "", fmt.Errorf("dataset %s: %w", s.name, err)
		}
		scratch, err := s.registry.ScratchDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(scratch, "SRR", fmt.Sprintf("%s_%d.fastq.gz", acc, pair+1)), nil
	}
	fq, err := s.data.Value(run, s.fqCols[pair])
	if err != nil {
		return "", fmt.Errorf("dataset %s: %w", s.name, err)
	}
	return filepath.Join(filepath.Dir(s.file), fq), nil
}

// FastqBasenames returns "<run>.<pairname>" for every run and pair.
func (s *Source) FastqBasenames() ([]string, error) {
	pairnames, err := s.registry.PairNames()
	if err != nil {
		return nil, err
	}
	n := s.Pairs()
	if n > len(pairnames) {
		return nil, fmt.Errorf("dataset %s: %d read files per run but only %d pairnames configured", s.name, n, len(pairnames))
	}
	out := make([]string, 0, s.data.Len()*n)
	for _, run := range s.data.IDs() {
		for pair := 0; pair < n; pair++ {
			out = append(out, run+"."+pairnames[pair])
		}
	}
	return out, nil
}

// sourceAttrs are the names a Source answers as a scope.
var sourceAttrs = []string{"fastq_basenames", "fieldnames", "file", "name_col", "props", "runs"}

// Lookup implements scope.Scope.
func (s *Source) Lookup(name string) (scope.Value, bool, error) {
	switch name {
	case "runs":
		return scope.List(s.Runs()...), true, nil
	case "props", "fieldnames":
		return scope.List(s.Props()...), true, nil
	case "name_col":
		return scope.String(s.nameCol), true, nil
	case "file":
		return scope.String(s.file), true, nil
	case "fastq_basenames":
		names, err := s.FastqBasenames()
		if err != nil {
			return scope.Value{}, false, err
		}
		return scope.List(names...), true, nil
	}
	return scope.Value{}, false, nil
}

// Names implements scope.Namer.
func (s *Source) Names() []string {
	return append([]string(nil), sourceAttrs...)
}
