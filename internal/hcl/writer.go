package hcl

import (
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/ymp/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Writer renders a model as HCL. It implements config.Writer.
type Writer struct{}

// NewWriter creates a new HCL writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write emits the settings in name order followed by one dataset block per
// dataset. Optional dataset attributes are omitted when empty.
func (wr *Writer) Write(w io.Writer, m *config.Model) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for _, name := range m.SettingNames() {
		body.SetAttributeValue(name, m.Settings[name])
	}

	for _, name := range m.DatasetNames() {
		def := m.Datasets[name]
		body.AppendNewline()
		block := body.AppendNewBlock("dataset", []string{name}).Body()
		block.SetAttributeValue("type", cty.StringVal(def.Type))
		block.SetAttributeValue("file", cty.StringVal(def.File))
		if def.NameCol != "" {
			block.SetAttributeValue("name_col", cty.StringVal(def.NameCol))
		}
		if len(def.FqCols) > 0 {
			cols := make([]cty.Value, len(def.FqCols))
			for i, c := range def.FqCols {
				cols[i] = cty.StringVal(c)
			}
			block.SetAttributeValue("fq_cols", cty.ListVal(cols))
		}
		if def.ExtraFile != "" {
			block.SetAttributeValue("extra_file", cty.StringVal(def.ExtraFile))
			block.SetAttributeValue("extra_name_col", cty.StringVal(def.ExtraNameCol))
		}
	}

	_, err := w.Write(f.Bytes())
	return err
}
