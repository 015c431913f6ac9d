// Package collab defines the records passed between collabmap commands.
package collab

import (
	"math"
	"strconv"
	"strings"
)

const (
	// Unknown is used for author names the API did not provide.
	Unknown = "Unknown"

	// UnknownInstitution is returned when an author's affiliation cannot be found.
	UnknownInstitution = "Unknown Institution"

	// NotAvailable marks a coordinate that could not be resolved.
	NotAvailable = "N/A"
)

// Paper is a single research paper and the people and places behind it.
type Paper struct {
	Title        string
	Authors      []string
	Institutions []string
}

// Empty reports whether the paper has no authors or no institutions.
func (p Paper) Empty() bool {
	return len(p.Authors) == 0 || len(p.Institutions) == 0
}

// Coordinates is an optional WGS-84 position.
type Coordinates struct {
	Lat   float64
	Lon   float64
	Known bool
}

// At returns known coordinates.
func At(lat, lon float64) Coordinates {
	return Coordinates{Lat: lat, Lon: lon, Known: true}
}

// Strings formats the coordinates for a CSV row, using NotAvailable when unknown.
func (c Coordinates) Strings() (string, string) {
	if !c.Known {
		return NotAvailable, NotAvailable
	}
	return strconv.FormatFloat(c.Lat, 'f', -1, 64), strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// ParseCoordinates coerces two strings into coordinates.
// Anything that is not a finite number yields unknown coordinates.
func ParseCoordinates(lat, lon string) Coordinates {
	la, ok := parseFinite(lat)
	if !ok {
		return Coordinates{}
	}
	lo, ok := parseFinite(lon)
	if !ok {
		return Coordinates{}
	}
	return At(la, lo)
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Institution is a university or research organisation keyed by exact name.
type Institution struct {
	Name        string
	Coordinates Coordinates
}

// Edge is a (source, target, label) triple.
type Edge struct {
	Source string
	Target string
	Label  string
}

// Collaboration is a weighted co-authorship between two authors.
type Collaboration struct {
	Author1 string
	Author2 string
	Count   float64
}

// UniqueStrings returns values with blanks and repeats removed, in first-seen order.
func UniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
