package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/ymp/internal/config"
	"github.com/vk/ymp/internal/ctxlog"
	"github.com/vk/ymp/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// datasetBlock is the HCL schema of one dataset definition.
type datasetBlock struct {
	Name         string   `hcl:"name,label"`
	Type         string   `hcl:"type"`
	File         string   `hcl:"file"`
	NameCol      string   `hcl:"name_col,optional"`
	FqCols       []string `hcl:"fq_cols,optional"`
	ExtraFile    string   `hcl:"extra_file,optional"`
	ExtraNameCol string   `hcl:"extra_name_col,optional"`
}

// fileRoot decodes the dataset blocks of a file and leaves everything else
// for the settings pass.
type fileRoot struct {
	Datasets []*datasetBlock `hcl:"dataset,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

// Load reads the HCL file at path, or every .hcl file below path when it is
// a directory, into one model. Dataset file paths are made absolute relative
// to the file that declares them, so Model.Path is informational only.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	hclFiles, err := fsutil.ExpandPath(path, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found at %s", path)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := config.NewModel()
	model.Path = path
	settingOrigin := make(map[string]string)
	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Datasets {
			if _, dup := model.Datasets[block.Name]; dup {
				return nil, fmt.Errorf("%s: dataset %q declared more than once", file, block.Name)
			}
			model.Datasets[block.Name] = translateDataset(file, block)
		}

		attrs, diags := root.Remain.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode settings in %s: %w", file, diags)
		}
		for name, attr := range attrs {
			if prev, dup := settingOrigin[name]; dup {
				return nil, fmt.Errorf("%s: setting %q already defined in %s", file, name, prev)
			}
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to evaluate setting %q in %s: %w", name, file, diags)
			}
			model.Settings[name] = val
			settingOrigin[name] = file
		}
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "settings", len(model.Settings), "datasets", len(model.Datasets))
	return model, nil
}

func translateDataset(file string, b *datasetBlock) *config.DatasetDefinition {
	return &config.DatasetDefinition{
		Name:         b.Name,
		Type:         b.Type,
		File:         relativeTo(file, b.File),
		NameCol:      b.NameCol,
		FqCols:       b.FqCols,
		ExtraFile:    relativeTo(file, b.ExtraFile),
		ExtraNameCol: b.ExtraNameCol,
	}
}

func relativeTo(file, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(file), p)
}
