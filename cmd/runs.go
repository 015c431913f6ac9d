package cmd

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List the runs recorded in the --db archive",
	Long: `List every paper and locate run archived with --db, oldest first,
with the number of papers and locations each one stored.

Examples:
  collabmap runs --db collabmap.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		if archive == nil {
			return errors.New("no archive given, use --db")
		}
		defer archive.Close()

		ctx := cmd.Context()
		runs, err := archive.Runs(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-8s  %-16s  %6s  %9s\n", "Run", "Command", "Started", "Papers", "Locations")
		for _, r := range runs {
			ps, err := archive.Papers(ctx, r.ID)
			if err != nil {
				return err
			}
			locs, err := archive.Locations(ctx, r.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-36s  %-8s  %-16s  %6d  %9d\n", r.ID, r.Command, humanize.Time(r.StartedAt), len(ps), len(locs))
		}
		return nil
	},
}
