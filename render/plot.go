// Package render draws collaboration graphs as images and geographic maps.
package render

import (
	"fmt"
	"image/color"
	"log/slog"

	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/lehigh-university-libraries/collabmap/network"
)

// DefaultLabelMinDegree is the degree a node must exceed to be labelled.
const DefaultLabelMinDegree = 2

var (
	nodeColor = color.RGBA{R: 0, G: 0, B: 255, A: 180}
	edgeColor = color.RGBA{R: 128, G: 128, B: 128, A: 80}
)

// PlotOptions controls Plot.
type PlotOptions struct {
	Path  string
	Title string

	Width  vg.Length
	Height vg.Length

	// LabelMinDegree labels nodes with degree strictly greater than this.
	LabelMinDegree int
	// EdgeLabels draws each edge's label at its midpoint.
	EdgeLabels bool
	// Updates is the number of layout iterations.
	Updates int
}

// DefaultPlotOptions returns the options used for collaboration networks.
func DefaultPlotOptions(path string) PlotOptions {
	return PlotOptions{
		Path:           path,
		Title:          "Research Collaboration Network",
		Width:          12 * vg.Inch,
		Height:         8 * vg.Inch,
		LabelMinDegree: DefaultLabelMinDegree,
		Updates:        60,
	}
}

// Plot lays out g with a force-directed layout and saves it to opts.Path.
// The image format follows the file extension. Isolated nodes are removed
// from g before drawing.
func Plot(g *network.Graph, opts PlotOptions) error {
	if opts.Width == 0 {
		opts.Width = 12 * vg.Inch
	}
	if opts.Height == 0 {
		opts.Height = 8 * vg.Inch
	}
	if opts.Updates <= 0 {
		opts.Updates = 60
	}

	if removed := g.RemoveIsolates(); len(removed) > 0 {
		slog.Debug("removed isolated nodes", "count", len(removed))
	}
	if g.NodeCount() == 0 {
		return fmt.Errorf("plotting %s: %w", opts.Path, network.ErrNoNodes)
	}

	pos := Layout(g, opts.Updates)

	p := plot.New()
	p.Title.Text = opts.Title
	p.HideAxes()

	for _, e := range g.Edges() {
		line, err := plotter.NewLine(plotter.XYs{pos[e.Source], pos[e.Target]})
		if err != nil {
			return fmt.Errorf("drawing edge %s-%s: %w", e.Source, e.Target, err)
		}
		line.LineStyle.Color = edgeColor
		line.LineStyle.Width = vg.Points(0.5)
		p.Add(line)
	}

	nodes := g.Nodes()
	xys := make(plotter.XYs, 0, len(nodes))
	for _, n := range nodes {
		xys = append(xys, pos[n])
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("drawing nodes: %w", err)
	}
	scatter.GlyphStyle.Color = nodeColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)

	var labels plotter.XYLabels
	for _, n := range g.HighDegree(opts.LabelMinDegree) {
		labels.XYs = append(labels.XYs, pos[n])
		labels.Labels = append(labels.Labels, n)
	}
	if opts.EdgeLabels {
		for _, e := range g.Edges() {
			if e.Label == "" {
				continue
			}
			a, b := pos[e.Source], pos[e.Target]
			labels.XYs = append(labels.XYs, plotter.XY{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2})
			labels.Labels = append(labels.Labels, e.Label)
		}
	}
	if len(labels.Labels) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return fmt.Errorf("drawing labels: %w", err)
		}
		p.Add(l)
	}

	if err := p.Save(opts.Width, opts.Height, opts.Path); err != nil {
		return fmt.Errorf("saving %s: %w", opts.Path, err)
	}
	slog.Debug("saved plot", "path", opts.Path, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}

// Layout computes 2D positions for every node of g.
func Layout(g *network.Graph, updates int) map[string]plotter.XY {
	eades := layout.EadesR2{Repulsion: 1, Rate: 0.05, Updates: updates, Theta: 0.2}
	o := layout.NewOptimizerR2(g.Underlying(), eades.Update)
	for o.Update() {
	}

	pos := make(map[string]plotter.XY, g.NodeCount())
	for _, n := range g.Nodes() {
		id, _ := g.ID(n)
		v := o.Coord2(id)
		pos[n] = plotter.XY{X: v.X, Y: v.Y}
	}
	return pos
}
