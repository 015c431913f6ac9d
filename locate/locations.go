package locate

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/collabmap/collab"
	"github.com/lehigh-university-libraries/collabmap/format/locations"
	"github.com/lehigh-university-libraries/collabmap/format/papers"
)

// ReadInstitutionNames returns the unique collaborating institutions listed
// in a papers table, in first-seen order.
func ReadInstitutionNames(r io.Reader) ([]string, error) {
	ps, err := papers.Read(r)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, p := range ps {
		names = append(names, p.Institutions...)
	}
	return collab.UniqueStrings(names), nil
}

// Duplicate records two institutions that resolved to the same known coordinates.
type Duplicate struct {
	Institution string
	SameAs      string
	Coordinates collab.Coordinates
}

// Report summarises a WriteLocations run.
type Report struct {
	Institutions []collab.Institution
	Duplicates   []Duplicate
}

// Resolved returns how many institutions have known coordinates.
func (r *Report) Resolved() int {
	n := 0
	for _, inst := range r.Institutions {
		if inst.Coordinates.Known {
			n++
		}
	}
	return n
}

// WriteLocations resolves every name and writes a locations table to w, one
// row per name and in order. Institutions sharing known coordinates are
// logged as possible duplicates and written anyway.
func WriteLocations(ctx context.Context, w io.Writer, r *Resolver, names []string) (*Report, error) {
	lw, err := locations.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("writing locations header: %w", err)
	}

	report := &Report{}
	seen := make(map[collab.Coordinates]string)
	firstUnknown := ""

	for _, name := range names {
		coords, err := r.Resolve(ctx, name)
		if err != nil {
			return report, err
		}

		if coords.Known {
			if first, ok := seen[coords]; ok {
				lat, lon := coords.Strings()
				slog.Warn("possible duplicate location", "institution", name, "lat", lat, "lon", lon, "same_as", first)
				report.Duplicates = append(report.Duplicates, Duplicate{Institution: name, SameAs: first, Coordinates: coords})
			} else {
				seen[coords] = name
			}
		} else if firstUnknown == "" {
			firstUnknown = name
		} else {
			slog.Debug("another unresolved location", "institution", name, "same_as", firstUnknown)
		}

		inst := collab.Institution{Name: name, Coordinates: coords}
		if err := lw.Write(inst); err != nil {
			return report, fmt.Errorf("writing location for %s: %w", name, err)
		}
		report.Institutions = append(report.Institutions, inst)

		lat, lon := coords.Strings()
		slog.Info("fetched location", "institution", name, "lat", lat, "lon", lon)
	}

	return report, nil
}
