package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/collabmap/format"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Check that a table has the expected header and rows",
	Long: `Detect which collabmap table a CSV file holds and read it completely,
reporting the first malformed row if there is one.

The format is detected from the header row, then from the file name.

Available formats: ` + strings.Join(format.DefaultRegistry.List(), ", ") + `

Examples:
  collabmap inspect research_paper_collab.csv
  collabmap inspect --format edgelist my_edges.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "", "Table format (default: detect)")
}

func runInspect(cmd *cobra.Command, args []string) (err error) {
	path := args[0]

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing input file: %w", cerr)
		}
	}()

	br := bufio.NewReader(file)

	var f format.Format
	if inspectFormat != "" {
		var ok bool
		f, ok = format.Get(inspectFormat)
		if !ok {
			return fmt.Errorf("unknown format: %s", inspectFormat)
		}
	} else {
		peek, _ := br.Peek(4096)
		f, err = format.DetectFormat(path, peek)
		if err != nil {
			return err
		}
	}

	n, err := format.Validate(f, br)
	if err != nil {
		return fmt.Errorf("%s is not a valid %s table: %w", path, f.Name(), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Valid: %d rows of %s (%s) in %s\n", n, f.Name(), f.Description(), path)
	return nil
}
