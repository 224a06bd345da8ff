// Package yamlcfg loads and writes configurations in the YAML layout where
// datasets live under a "mapfiles" key and every other top-level key is a
// setting.
package yamlcfg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/ymp/internal/config"
	"github.com/vk/ymp/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// DatasetsKey is the top-level key holding dataset definitions.
const DatasetsKey = "mapfiles"

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// mapfile is the YAML schema of one dataset definition.
type mapfile struct {
	Type         string   `yaml:"type"`
	File         string   `yaml:"file"`
	NameCol      string   `yaml:"name_col,omitempty"`
	FqCols       []string `yaml:"fq_cols,omitempty"`
	ExtraFile    string   `yaml:"extra_file,omitempty"`
	ExtraNameCol string   `yaml:"extra_name_col,omitempty"`
}

type document struct {
	Mapfiles map[string]mapfile `yaml:"mapfiles"`
}

// Load reads the YAML file at path. Relative dataset paths are resolved
// against the directory of path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path", path)

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	model, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	model.Path = path

	logger.Debug("YAML loading complete.", "settings", len(model.Settings), "datasets", len(model.Datasets))
	return model, nil
}

// Parse decodes a YAML document into a model. Relative dataset paths are
// joined to baseDir when it is not empty.
func Parse(data []byte, baseDir string) (*config.Model, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	model := config.NewModel()
	for name, value := range raw {
		if name == DatasetsKey {
			continue
		}
		v, err := toCty(value)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", name, err)
		}
		model.Settings[name] = v
	}
	for name, mf := range doc.Mapfiles {
		model.Datasets[name] = &config.DatasetDefinition{
			Name:         name,
			Type:         mf.Type,
			File:         join(baseDir, mf.File),
			NameCol:      mf.NameCol,
			FqCols:       mf.FqCols,
			ExtraFile:    join(baseDir, mf.ExtraFile),
			ExtraNameCol: mf.ExtraNameCol,
		}
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

func join(base, p string) string {
	if p == "" || base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
