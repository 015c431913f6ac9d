package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/collabmap/config"
	"github.com/lehigh-university-libraries/collabmap/locate"
	"github.com/lehigh-university-libraries/collabmap/openalex"
)

var (
	locateInput     string
	locateOutput    string
	locateOverrides string
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Geocode every institution in the papers table",
	Long: `Read the unique institution names from the papers table and resolve
each one to latitude and longitude.

Names in the override table are answered without a network call; everything
else is searched on OpenAlex, waiting between requests. Results are cached
for the run. Unresolved institutions are written with N/A coordinates. The
locations table is always rewritten.

Examples:
  collabmap locate
  collabmap locate -i papers.csv -o locations.csv --overrides extra.yaml`,
	Args: cobra.NoArgs,
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().StringVarP(&locateInput, "input", "i", "", "Papers table (default: research_paper_collab.csv)")
	locateCmd.Flags().StringVarP(&locateOutput, "output", "o", "", "Locations table (default: university_locations.csv)")
	locateCmd.Flags().StringVar(&locateOverrides, "overrides", "", "Extra manual coordinate overrides (YAML)")
}

func runLocate(cmd *cobra.Command, args []string) (err error) {
	out := cmd.OutOrStdout()
	input := orDefault(locateInput, cfg.Files.Papers)
	output := orDefault(locateOutput, cfg.Files.Locations)

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening papers table: %w", err)
	}
	names, err := locate.ReadInstitutionNames(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}
	if len(names) == 0 {
		fmt.Fprintf(out, "No institutions found in %s\n", input)
		return nil
	}

	overrides, err := config.LoadOverrides(locateOverrides)
	if err != nil {
		return fmt.Errorf("loading overrides: %w", err)
	}

	client := openalex.NewClient(cfg.OpenAlexURL,
		openalex.WithTimeout(cfg.LookupTimeout),
		openalex.WithMailto(cfg.Mailto),
	)
	resolver := locate.NewResolver(client, overrides, cfg.RequestDelay)

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating locations table: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing locations table: %w", cerr)
		}
	}()

	report, err := locate.WriteLocations(cmd.Context(), f, resolver, names)
	if err != nil {
		return fmt.Errorf("resolving locations: %w", err)
	}

	fmt.Fprintf(out, "Resolved %s of %s institutions (%s lookups, %d possible duplicates)\n",
		humanize.Comma(int64(report.Resolved())),
		humanize.Comma(int64(len(report.Institutions))),
		humanize.Comma(int64(resolver.Lookups())),
		len(report.Duplicates))
	fmt.Fprintf(out, "Saved to %s\n", output)

	archive, err := openArchive()
	if err != nil || archive == nil {
		return err
	}
	defer archive.Close()

	run, err := archive.BeginRun(cmd.Context(), cmd.Name())
	if err != nil {
		return err
	}
	return archive.SaveLocations(cmd.Context(), run.ID, report.Institutions)
}
