package config

import (
	"fmt"
	"strings"

	"github.com/vk/ymp/internal/scope"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// MissingKeyError reports a required setting that is absent. Path uses "/"
// between levels, e.g. "directories/scratch".
type MissingKeyError struct {
	Path string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing %s in config", e.Path)
}

// Registry is the read-only accessor over global settings.
type Registry struct {
	model *Model
}

// NewRegistry wraps a loaded model. The model must not be modified
// afterwards.
func NewRegistry(m *Model) *Registry {
	if m == nil {
		m = NewModel()
	}
	return &Registry{model: m}
}

// Model returns the underlying model.
func (r *Registry) Model() *Model {
	return r.model
}

// Get walks path through nested objects and maps.
func (r *Registry) Get(path string) (cty.Value, error) {
	parts := strings.Split(path, "/")
	v, ok := r.model.Settings[parts[0]]
	if !ok || v.IsNull() {
		return cty.NilVal, &MissingKeyError{Path: path}
	}
	for _, key := range parts[1:] {
		ty := v.Type()
		switch {
		case ty.IsObjectType():
			if !ty.HasAttribute(key) {
				return cty.NilVal, &MissingKeyError{Path: path}
			}
			v = v.GetAttr(key)
		case ty.IsMapType():
			k := cty.StringVal(key)
			if !v.HasIndex(k).True() {
				return cty.NilVal, &MissingKeyError{Path: path}
			}
			v = v.Index(k)
		default:
			return cty.NilVal, &MissingKeyError{Path: path}
		}
		if v.IsNull() {
			return cty.NilVal, &MissingKeyError{Path: path}
		}
	}
	return v, nil
}

// String returns the setting at path as a string.
func (r *Registry) String(path string) (string, error) {
	v, err := r.Get(path)
	if err != nil {
		return "", err
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("setting %s: %w", path, err)
	}
	return sv.AsString(), nil
}

// Strings returns the setting at path as a list of strings. A scalar
// setting becomes a one-element list.
func (r *Registry) Strings(path string) ([]string, error) {
	v, err := r.Get(path)
	if err != nil {
		return nil, err
	}
	return toStrings(path, v)
}

// Value returns the setting at path as a resolved value: collections stay
// collections, primitives become scalars.
func (r *Registry) Value(path string) (scope.Value, error) {
	v, err := r.Get(path)
	if err != nil {
		return scope.Value{}, err
	}
	ty := v.Type()
	if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
		items, err := toStrings(path, v)
		if err != nil {
			return scope.Value{}, err
		}
		return scope.List(items...), nil
	}
	if !ty.IsPrimitiveType() {
		return scope.Value{}, fmt.Errorf("setting %s is a %s, not a string or list", path, ty.FriendlyName())
	}
	s, err := r.String(path)
	if err != nil {
		return scope.Value{}, err
	}
	return scope.String(s), nil
}

func toStrings(path string, v cty.Value) ([]string, error) {
	if v.Type().IsPrimitiveType() {
		sv, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", path, err)
		}
		return []string{sv.AsString()}, nil
	}
	lv, err := convert.Convert(v, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", path, err)
	}
	var out []string
	if err := gocty.FromCtyValue(lv, &out); err != nil {
		return nil, fmt.Errorf("setting %s: %w", path, err)
	}
	return out, nil
}

// PairNames returns the read-pair suffixes, e.g. ["R1", "R2"].
func (r *Registry) PairNames() ([]string, error) {
	return r.Strings("pairnames")
}

// Directory returns directories/<name>.
func (r *Registry) Directory(name string) (string, error) {
	return r.String("directories/" + name)
}

// ScratchDir returns directories/scratch.
func (r *Registry) ScratchDir() (string, error) { return r.Directory("scratch") }

// ReportsDir returns directories/reports.
func (r *Registry) ReportsDir() (string, error) { return r.Directory("reports") }

// SRADir returns directories/sra.
func (r *Registry) SRADir() (string, error) { return r.Directory("sra") }

// aliases are the computed names the registry answers besides its
// top-level settings.
var aliases = map[string]string{
	"scratchdir": "directories/scratch",
	"scratch":    "directories/scratch",
	"reportsdir": "directories/reports",
	"sra":        "directories/sra",
}

// Lookup implements scope.Scope. Aliased directory names must be present:
// asking for one that is not configured is an error, not a miss.
func (r *Registry) Lookup(name string) (scope.Value, bool, error) {
	if path, ok := aliases[name]; ok {
		v, err := r.Value(path)
		if err != nil {
			return scope.Value{}, false, err
		}
		return v, true, nil
	}
	if _, ok := r.model.Settings[name]; !ok {
		return scope.Value{}, false, nil
	}
	v, err := r.Value(name)
	if err != nil {
		return scope.Value{}, false, err
	}
	return v, true, nil
}

// Names implements scope.Namer.
func (r *Registry) Names() []string {
	names := r.model.SettingNames()
	for alias := range aliases {
		names = append(names, alias)
	}
	return names
}
