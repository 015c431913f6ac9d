// Package edgelist provides the Source,Target,Conference edge table.
package edgelist

import (
	"io"

	"github.com/lehigh-university-libraries/collabmap/collab"
	"github.com/lehigh-university-libraries/collabmap/format"
)

// Header is the edgelist header row.
var Header = []string{"Source", "Target", "Conference"}

// Format implements the edgelist format.
type Format struct{}

var _ format.Format = (*Format)(nil)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "edgelist"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Conference co-authorship edge list (Source, Target, Conference)"
}

// Header returns the header row.
func (f *Format) Header() []string {
	return Header
}

// FilePattern returns the conventional file name glob.
func (f *Format) FilePattern() string {
	return "graph*_edgelist.csv"
}

func init() {
	format.Register(&Format{})
}

// Read parses an edgelist, preserving row order.
func Read(r io.Reader) ([]collab.Edge, error) {
	rows, err := format.ReadTable(r, Header)
	if err != nil {
		return nil, err
	}
	return toEdges(rows), nil
}

// ReadFile parses the edgelist at path.
func ReadFile(path string) ([]collab.Edge, error) {
	rows, err := format.ReadFile(path, Header)
	if err != nil {
		return nil, err
	}
	return toEdges(rows), nil
}

// Write writes edges with a header row.
func Write(w io.Writer, edges []collab.Edge) error {
	return format.WriteTable(w, Header, toRows(edges), true)
}

// WriteFile truncates path and writes edges to it.
func WriteFile(path string, edges []collab.Edge) error {
	return format.CreateFile(path, Header, toRows(edges))
}

func toEdges(rows [][]string) []collab.Edge {
	edges := make([]collab.Edge, 0, len(rows))
	for _, row := range rows {
		edges = append(edges, collab.Edge{Source: row[0], Target: row[1], Label: row[2]})
	}
	return edges
}

func toRows(edges []collab.Edge) [][]string {
	rows := make([][]string, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, []string{e.Source, e.Target, e.Label})
	}
	return rows
}
