package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/collabmap/collab"
	"github.com/lehigh-university-libraries/collabmap/network"
)

const (
	// DefaultZoom is the initial zoom level of the map.
	DefaultZoom = 3
	// DefaultTileURL is the OpenStreetMap tile layer URL template.
	DefaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	// DefaultAttribution credits the tile provider.
	DefaultAttribution = "&copy; OpenStreetMap contributors"
)

//go:embed map.html.tmpl
var mapTemplate string

var mapTmpl = template.Must(template.New("map").Parse(mapTemplate))

// MapOptions controls Map.
type MapOptions struct {
	Title       string
	Zoom        int
	TileURL     string
	Attribution string
}

type marker struct {
	Name     string
	Lat, Lon float64

	// Popup is Name escaped for Leaflet, which renders popup strings as HTML
	Popup string
}

type polyline struct {
	From, To marker
}

type mapData struct {
	MapOptions
	Center  marker
	Markers []marker
	Lines   []polyline
}

// Map writes a standalone Leaflet page with one marker per institution and
// one line per edge. The view is centred on the first institution.
// Institutions without known coordinates or with a name already drawn are
// skipped, as are edges whose endpoints are not among the drawn institutions.
func Map(w io.Writer, insts []collab.Institution, edges []network.Edge, opts MapOptions) error {
	if opts.Title == "" {
		opts.Title = "University Collaboration Map"
	}
	if opts.Zoom == 0 {
		opts.Zoom = DefaultZoom
	}
	if opts.TileURL == "" {
		opts.TileURL = DefaultTileURL
	}
	if opts.Attribution == "" {
		opts.Attribution = DefaultAttribution
	}

	data := mapData{MapOptions: opts}
	placed := make(map[string]marker, len(insts))
	for _, inst := range insts {
		if !inst.Coordinates.Known {
			continue
		}
		if _, dup := placed[inst.Name]; dup {
			continue
		}
		m := marker{
			Name:  inst.Name,
			Lat:   inst.Coordinates.Lat,
			Lon:   inst.Coordinates.Lon,
			Popup: template.HTMLEscapeString(inst.Name),
		}
		placed[inst.Name] = m
		data.Markers = append(data.Markers, m)
	}
	if len(data.Markers) == 0 {
		return fmt.Errorf("rendering map: %w", network.ErrNoNodes)
	}
	data.Center = data.Markers[0]

	for _, e := range edges {
		from, ok1 := placed[e.Source]
		to, ok2 := placed[e.Target]
		if !ok1 || !ok2 {
			slog.Warn("skipping map link without coordinates", "source", e.Source, "target", e.Target)
			continue
		}
		data.Lines = append(data.Lines, polyline{From: from, To: to})
	}

	if err := mapTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering map: %w", err)
	}
	return nil
}
