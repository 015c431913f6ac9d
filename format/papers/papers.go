// Package papers provides the Title,Authors,Collaborating Universities table.
package papers

import (
	"io"
	"strings"

	"github.com/lehigh-university-libraries/collabmap/collab"
	"github.com/lehigh-university-libraries/collabmap/format"
	"github.com/lehigh-university-libraries/collabmap/helpers"
)

// Separator joins multiple authors or institutions inside one cell.
const Separator = ", "

// Header is the papers header row.
var Header = []string{"Title", "Authors", "Collaborating Universities"}

// Format implements the papers format.
type Format struct{}

var _ format.Format = (*Format)(nil)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "papers"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Research papers with authors and collaborating universities"
}

// Header returns the header row.
func (f *Format) Header() []string {
	return Header
}

// FilePattern returns the conventional file name.
func (f *Format) FilePattern() string {
	return "research_paper_collab.csv"
}

func init() {
	format.Register(&Format{})
}

// Read parses a papers table.
func Read(r io.Reader) ([]collab.Paper, error) {
	rows, err := format.ReadTable(r, Header)
	if err != nil {
		return nil, err
	}

	out := make([]collab.Paper, 0, len(rows))
	for _, row := range rows {
		out = append(out, collab.Paper{
			Title:        row[0],
			Authors:      helpers.SplitNames(row[1], Separator),
			Institutions: helpers.SplitNames(row[2], Separator),
		})
	}
	return out, nil
}

// Write writes papers with a header row.
func Write(w io.Writer, ps []collab.Paper) error {
	return format.WriteTable(w, Header, toRows(ps), true)
}

// AppendFile appends papers to path, adding the header when the file is new.
func AppendFile(path string, ps ...collab.Paper) error {
	return format.AppendFile(path, Header, toRows(ps))
}

func toRows(ps []collab.Paper) [][]string {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{
			p.Title,
			strings.Join(p.Authors, Separator),
			strings.Join(p.Institutions, Separator),
		})
	}
	return rows
}
