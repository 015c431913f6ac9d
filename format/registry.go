package format

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// Registry holds registered formats.
type Registry struct {
	formats map[string]Format
}

// DefaultRegistry is the global format registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format to the registry.
func (r *Registry) Register(f Format) {
	r.formats[f.Name()] = f
}

// Get retrieves a format by name.
func (r *Registry) Get(name string) (Format, bool) {
	f, ok := r.formats[strings.ToLower(name)]
	return f, ok
}

// List returns all registered format names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectFormat attempts to detect the format from the header row and then
// from the conventional file name.
func (r *Registry) DetectFormat(filename string, peek []byte) (Format, error) {
	if len(peek) > 0 {
		for _, name := range r.List() {
			f := r.formats[name]
			if CanParse(f, peek) {
				return f, nil
			}
		}
	}

	base := filepath.Base(filename)
	for _, name := range r.List() {
		f := r.formats[name]
		if ok, _ := filepath.Match(f.FilePattern(), base); ok {
			return f, nil
		}
	}

	return nil, fmt.Errorf("could not detect format for %s", filename)
}

// Validate reads a whole table in format f and returns its data row count.
func Validate(f Format, r io.Reader) (int, error) {
	rows, err := ReadTable(r, f.Header())
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Register adds a format to the default registry.
func Register(f Format) {
	DefaultRegistry.Register(f)
}

// Get retrieves a format from the default registry.
func Get(name string) (Format, bool) {
	return DefaultRegistry.Get(name)
}

// DetectFormat detects format using the default registry.
func DetectFormat(filename string, peek []byte) (Format, error) {
	return DefaultRegistry.DetectFormat(filename, peek)
}
