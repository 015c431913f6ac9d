package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/collabmap/collab"
)

//go:embed overrides.yaml
var embeddedOverrides []byte

// OverrideEntry is one manually corrected institution location.
type OverrideEntry struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type overrideFile struct {
	Locations []OverrideEntry `yaml:"locations"`
}

// Overrides maps institution names to manually corrected coordinates.
type Overrides map[string]collab.Coordinates

// Lookup returns the override for name, if any.
func (o Overrides) Lookup(name string) (collab.Coordinates, bool) {
	c, ok := o[name]
	return c, ok
}

// Names returns the overridden institution names, sorted.
func (o Overrides) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseOverrides parses override YAML content.
func ParseOverrides(data []byte) (Overrides, error) {
	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing overrides YAML: %w", err)
	}

	o := make(Overrides, len(f.Locations))
	for i, e := range f.Locations {
		if e.Name == "" {
			return nil, fmt.Errorf("override %d: missing name", i+1)
		}
		o[e.Name] = collab.At(e.Latitude, e.Longitude)
	}
	return o, nil
}

// DefaultOverrides returns the overrides shipped with collabmap.
func DefaultOverrides() (Overrides, error) {
	return ParseOverrides(embeddedOverrides)
}

// LoadOverridesFile reads overrides from a YAML file.
func LoadOverridesFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overrides file: %w", err)
	}
	return ParseOverrides(data)
}

// OverridesPath returns the path of the user overrides file.
func OverridesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "overrides.yaml"), nil
}

// LoadOverrides returns the embedded overrides merged with the user file
// (and extra, when non-empty). Later sources replace earlier ones by name.
func LoadOverrides(extra string) (Overrides, error) {
	merged, err := DefaultOverrides()
	if err != nil {
		return nil, err
	}

	path, err := OverridesPath()
	if err != nil {
		return nil, err
	}

	paths := []string{path}
	if extra != "" {
		paths = append(paths, extra)
	}

	for i, p := range paths {
		o, err := LoadOverridesFile(p)
		if i == 0 && errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		merged = MergeOverrides(merged, o)
	}

	return merged, nil
}

// MergeOverrides returns base with custom entries layered on top.
func MergeOverrides(base, custom Overrides) Overrides {
	merged := make(Overrides, len(base)+len(custom))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range custom {
		merged[k] = v
	}
	return merged
}
