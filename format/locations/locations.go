// Package locations provides the University,Latitude,Longitude table.
package locations

import (
	"encoding/csv"
	"io"

	"github.com/lehigh-university-libraries/collabmap/collab"
	"github.com/lehigh-university-libraries/collabmap/format"
)

// Header is the locations header row.
var Header = []string{"University", "Latitude", "Longitude"}

// Format implements the locations format.
type Format struct{}

var _ format.Format = (*Format)(nil)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "locations"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Institution coordinates (N/A when unresolved)"
}

// Header returns the header row.
func (f *Format) Header() []string {
	return Header
}

// FilePattern returns the conventional file name.
func (f *Format) FilePattern() string {
	return "university_locations.csv"
}

func init() {
	format.Register(&Format{})
}

// Read parses a locations table. Coordinates that are not numbers are
// coerced to unknown rather than rejected.
func Read(r io.Reader) ([]collab.Institution, error) {
	rows, err := format.ReadTable(r, Header)
	if err != nil {
		return nil, err
	}
	return toInstitutions(rows), nil
}

// ReadFile parses the locations table at path.
func ReadFile(path string) ([]collab.Institution, error) {
	rows, err := format.ReadFile(path, Header)
	if err != nil {
		return nil, err
	}
	return toInstitutions(rows), nil
}

// Known returns the institutions with resolved coordinates, in order.
func Known(insts []collab.Institution) []collab.Institution {
	out := make([]collab.Institution, 0, len(insts))
	for _, inst := range insts {
		if inst.Coordinates.Known {
			out = append(out, inst)
		}
	}
	return out
}

func toInstitutions(rows [][]string) []collab.Institution {
	out := make([]collab.Institution, 0, len(rows))
	for _, row := range rows {
		out = append(out, collab.Institution{
			Name:        row[0],
			Coordinates: collab.ParseCoordinates(row[1], row[2]),
		})
	}
	return out
}

// Writer streams location rows so each one is on disk as soon as it is resolved.
type Writer struct {
	w *csv.Writer
}

// NewWriter writes the header row and returns a Writer.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, err
	}
	cw.Flush()
	return &Writer{w: cw}, cw.Error()
}

// Write writes one institution row and flushes it.
func (lw *Writer) Write(inst collab.Institution) error {
	lat, lon := inst.Coordinates.Strings()
	if err := lw.w.Write([]string{inst.Name, lat, lon}); err != nil {
		return err
	}
	lw.w.Flush()
	return lw.w.Error()
}
