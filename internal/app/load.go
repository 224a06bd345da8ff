package app

import (
	"path/filepath"
	"strings"

	"github.com/vk/ymp/internal/config"
	"github.com/vk/ymp/internal/hcl"
	"github.com/vk/ymp/internal/yamlcfg"
)

// LoaderFor picks the configuration loader by file extension: YAML for
// .yaml and .yml, HCL for everything else, directories included.
func LoaderFor(path string) config.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlcfg.NewLoader()
	default:
		return hcl.NewLoader()
	}
}

// WriterFor returns the configuration writer for format "hcl" or "yaml".
func WriterFor(format string) (config.Writer, bool) {
	switch strings.ToLower(format) {
	case "hcl":
		return hcl.NewWriter(), true
	case "yaml", "yml":
		return yamlcfg.NewWriter(), true
	}
	return nil, false
}
