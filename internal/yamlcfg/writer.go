package yamlcfg

import (
	"fmt"
	"io"

	"github.com/vk/ymp/internal/config"
	"gopkg.in/yaml.v3"
)

// Writer renders a model in the YAML layout. It implements config.Writer.
type Writer struct{}

// NewWriter creates a new YAML writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write emits every setting and a "mapfiles" mapping of the datasets.
func (wr *Writer) Write(w io.Writer, m *config.Model) error {
	doc := make(map[string]any, len(m.Settings)+1)
	for name, v := range m.Settings {
		gv, err := fromCty(v)
		if err != nil {
			return fmt.Errorf("setting %q: %w", name, err)
		}
		doc[name] = gv
	}
	if len(m.Datasets) > 0 {
		files := make(map[string]mapfile, len(m.Datasets))
		for name, def := range m.Datasets {
			files[name] = mapfile{
				Type:         def.Type,
				File:         def.File,
				NameCol:      def.NameCol,
				FqCols:       def.FqCols,
				ExtraFile:    def.ExtraFile,
				ExtraNameCol: def.ExtraNameCol,
			}
		}
		doc[DatasetsKey] = files
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode config YAML: %w", err)
	}
	return enc.Close()
}
