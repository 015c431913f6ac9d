package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/collabmap/orcid"
)

var affiliationCmd = &cobra.Command{
	Use:   "affiliation <author>",
	Short: "Look up an author's current employer on ORCID",
	Long: `Search the ORCID public registry for an author and print the
organisation of the first employment record found.

"Unknown Institution" is printed when the author cannot be found or the
registry is unreachable.

Examples:
  collabmap affiliation "Jane Doe"
  collabmap affiliation "Doe, Jane"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		author := strings.Join(args, " ")

		client := orcid.NewClient(cfg.ORCIDURL, cfg.RequestTimeout)
		affiliation := client.Affiliation(cmd.Context(), author)

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", author, affiliation)
		return nil
	},
}
