package config

import (
	"context"
	"io"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration file at path and translates it into the
	// format-agnostic model.
	Load(ctx context.Context, path string) (*Model, error)
}

// Writer renders a model back into a concrete format.
type Writer interface {
	Write(w io.Writer, m *Model) error
}
