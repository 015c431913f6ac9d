package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/collabmap/format/edgelist"
	"github.com/lehigh-university-libraries/collabmap/network"
	"github.com/lehigh-university-libraries/collabmap/render"
)

var (
	edgelistDir    string
	edgelistOutDir string
)

var edgelistCmd = &cobra.Command{
	Use:   "edgelist",
	Short: "Generate and plot conference edgelists",
	Long:  `Work with Source,Target,Conference edgelist tables.`,
}

var edgelistGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the sample graph*_edgelist.csv files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, 0, len(edgelist.Samples))
		for name := range edgelist.Samples {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(edgelistDir, name)
			if err := edgelist.WriteFile(path, edgelist.Samples[name]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		}
		return nil
	},
}

var edgelistPlotCmd = &cobra.Command{
	Use:   "plot <file>...",
	Short: "Plot each edgelist with its conference labels",
	Long: `Draw one image per edgelist file. Every node is labelled and each edge
carries its conference name. Images are written next to the input (or to
--out-dir) with the extension replaced by .png.

Examples:
  collabmap edgelist plot graph1_edgelist.csv graph2_edgelist.csv
  collabmap edgelist plot --out-dir plots graph*_edgelist.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			edges, err := edgelist.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			g := network.FromEdges(edges)
			output := plotPath(path, edgelistOutDir)

			opts := render.DefaultPlotOptions(output)
			opts.Title = "Network for " + filepath.Base(path)
			opts.LabelMinDegree = 0
			opts.EdgeLabels = true
			if err := render.Plot(g, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plotted %s to %s\n", path, output)
		}
		return nil
	},
}

func plotPath(input, dir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".png"
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}

func init() {
	edgelistGenerateCmd.Flags().StringVarP(&edgelistDir, "dir", "d", ".", "Directory to write the edgelists to")
	edgelistPlotCmd.Flags().StringVar(&edgelistOutDir, "out-dir", "", "Directory for the images (default: next to each input)")

	edgelistCmd.AddCommand(edgelistGenerateCmd)
	edgelistCmd.AddCommand(edgelistPlotCmd)
}
