// Package format defines the CSV tables collabmap commands exchange and a
// registry used to recognise them.
package format

import (
	"errors"
)

// ErrHeaderMismatch is returned when a table's first row is not the expected header.
var ErrHeaderMismatch = errors.New("header mismatch")

// Format describes one of the CSV tables written and read by collabmap.
type Format interface {
	// Name returns the format identifier (e.g., "edgelist", "papers")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Header returns the exact column names of the header row
	Header() []string

	// FilePattern returns the conventional file name or glob (e.g., "graph*_edgelist.csv")
	FilePattern() string
}

// CanParse reports whether peek starts with the format's header row.
func CanParse(f Format, peek []byte) bool {
	got, err := firstRow(peek)
	if err != nil {
		return false
	}
	return headerEqual(got, f.Header())
}
