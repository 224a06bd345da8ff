package config

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Dataset types understood by the dataset package.
const (
	DatasetTypeCSV         = "CSV"
	DatasetTypeSraRunTable = "SraRunTable"
)

// Model is the unified, format-agnostic representation of a pipeline
// configuration file.
type Model struct {
	// Path is the file the model was loaded from, if any.
	Path string
	// Settings holds every top-level setting that is not a dataset, e.g.
	// "pairnames" or the "directories" object.
	Settings map[string]cty.Value
	// Datasets holds the dataset definitions by name.
	Datasets map[string]*DatasetDefinition
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Settings: make(map[string]cty.Value),
		Datasets: make(map[string]*DatasetDefinition),
	}
}

// DatasetDefinition is the format-agnostic representation of one dataset.
type DatasetDefinition struct {
	Name string
	Type string
	// File is the primary table. Relative paths are resolved against the
	// directory of the configuration file.
	File    string
	NameCol string
	// FqCols names the read-file columns of a CSV mapfile, one per pair.
	FqCols []string
	// ExtraFile is an optional secondary table merged on ExtraNameCol.
	ExtraFile    string
	ExtraNameCol string
}

// DatasetNames returns the dataset names in sorted order.
func (m *Model) DatasetNames() []string {
	names := make([]string, 0, len(m.Datasets))
	for name := range m.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SettingNames returns the setting names in sorted order.
func (m *Model) SettingNames() []string {
	names := make([]string, 0, len(m.Settings))
	for name := range m.Settings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve makes a dataset file path absolute relative to the model's file.
func (m *Model) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || m.Path == "" {
		return path
	}
	return filepath.Join(filepath.Dir(m.Path), path)
}

// Validate checks the dataset definitions for missing required fields.
func (m *Model) Validate() error {
	for _, name := range m.DatasetNames() {
		def := m.Datasets[name]
		if def.File == "" {
			return &MissingKeyError{Path: fmt.Sprintf("datasets/%s/file", name)}
		}
		if def.Type == "" {
			return &MissingKeyError{Path: fmt.Sprintf("datasets/%s/type", name)}
		}
		if (def.ExtraFile == "") != (def.ExtraNameCol == "") {
			return fmt.Errorf("dataset %q: extra_file and extra_name_col must be set together", name)
		}
	}
	return nil
}
