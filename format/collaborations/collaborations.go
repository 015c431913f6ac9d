// Package collaborations provides the Author1,Author2,Collaboration_Count table.
package collaborations

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/collabmap/collab"
	"github.com/lehigh-university-libraries/collabmap/format"
)

// Header is the collaborations header row.
var Header = []string{"Author1", "Author2", "Collaboration_Count"}

// Format implements the collaborations format.
type Format struct{}

var _ format.Format = (*Format)(nil)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "collaborations"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Weighted author co-authorship counts"
}

// Header returns the header row.
func (f *Format) Header() []string {
	return Header
}

// FilePattern returns the conventional file name.
func (f *Format) FilePattern() string {
	return "collaborations.csv"
}

func init() {
	format.Register(&Format{})
}

// Read parses a collaborations table. A non-numeric count is an error.
func Read(r io.Reader) ([]collab.Collaboration, error) {
	rows, err := format.ReadTable(r, Header)
	if err != nil {
		return nil, err
	}

	out := make([]collab.Collaboration, 0, len(rows))
	for i, row := range rows {
		count, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: collaboration count %q: %w", i+1, row[2], err)
		}
		out = append(out, collab.Collaboration{Author1: row[0], Author2: row[1], Count: count})
	}
	return out, nil
}

// Write writes collaborations with a header row.
func Write(w io.Writer, cs []collab.Collaboration) error {
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{c.Author1, c.Author2, strconv.FormatFloat(c.Count, 'f', -1, 64)})
	}
	return format.WriteTable(w, Header, rows, true)
}
