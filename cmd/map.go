package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/collabmap/format/locations"
	"github.com/lehigh-university-libraries/collabmap/network"
	"github.com/lehigh-university-libraries/collabmap/render"
)

var (
	mapInput  string
	mapOutput string
	mapZoom   int
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Draw geocoded institutions and their links on an interactive map",
	Long: `Read the locations table, connect every pair of geocoded institutions by
geodesic distance, reduce the result to a minimum spanning tree, and write a
standalone Leaflet HTML map with a marker per institution and a line per
tree edge.

Rows with missing or non-numeric coordinates are dropped.

Examples:
  collabmap map
  collabmap map -i locations.csv -o map.html --zoom 4`,
	Args: cobra.NoArgs,
	RunE: runMap,
}

func init() {
	mapCmd.Flags().StringVarP(&mapInput, "input", "i", "", "Locations table (default: university_locations.csv)")
	mapCmd.Flags().StringVarP(&mapOutput, "output", "o", "", "HTML map file (default: university_collab_map.html)")
	mapCmd.Flags().IntVar(&mapZoom, "zoom", render.DefaultZoom, "Initial map zoom level")
}

func runMap(cmd *cobra.Command, args []string) (err error) {
	out := cmd.OutOrStdout()
	input := orDefault(mapInput, cfg.Files.Locations)
	output := orDefault(mapOutput, cfg.Files.Map)

	insts, err := locations.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}
	insts = locations.Known(insts)

	g, err := network.Complete(insts)
	if errors.Is(err, network.ErrNoNodes) {
		fmt.Fprintln(out, "No valid university locations found. Please check your CSV file.")
		return nil
	}
	if err != nil {
		return err
	}

	tree := network.SpanningTree(g)

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating map file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing map file: %w", cerr)
		}
	}()

	if err := render.Map(f, insts, tree.Edges(), render.MapOptions{Zoom: mapZoom}); err != nil {
		return err
	}

	fmt.Fprintf(out, "Linked %d institutions with %d links spanning %s km\n",
		tree.NodeCount(), tree.EdgeCount(), humanize.CommafWithDigits(tree.TotalWeight(), 0))
	fmt.Fprintf(out, "Map saved as %s. Open this file in a browser to view the interactive map.\n", output)
	return nil
}
