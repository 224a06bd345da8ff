// Package config defines the format-agnostic configuration model of the
// pipeline, the Loader interface implemented per file format, and the
// Registry: the read-only view of global settings that templates resolve
// against.
//
// The Registry is constructed once at startup from a loaded Model and is
// passed explicitly to every component that needs it. Concrete loaders
// live in separate packages (internal/hcl, internal/yamlcfg).
package config
