package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/collabmap/collab"
	"github.com/lehigh-university-libraries/collabmap/format/papers"
	"github.com/lehigh-university-libraries/collabmap/openalex"
)

var paperOutput string

var paperCmd = &cobra.Command{
	Use:   "paper [title]",
	Short: "Look up a paper's authors and their institutions",
	Long: `Find the OpenAlex work whose title matches exactly (ignoring case,
whitespace and HTML markup) and list its authors and their institutions.

When both lists are non-empty the paper is appended to the papers table,
which is created with a header if it does not exist yet. Without a title
argument the title is read from standard input.

Examples:
  collabmap paper "Reliability Criteria in Information Theory and in Statistical Hypothesis Testing"
  echo "Some Title" | collabmap paper -o papers.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPaper,
}

func init() {
	paperCmd.Flags().StringVarP(&paperOutput, "output", "o", "", "Papers table to append to (default: research_paper_collab.csv)")
}

func runPaper(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var title string
	if len(args) == 1 {
		title = args[0]
	} else {
		t, err := promptTitle(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		title = t
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("no paper title given")
	}

	client := openalex.NewClient(cfg.OpenAlexURL,
		openalex.WithTimeout(cfg.RequestTimeout),
		openalex.WithMailto(cfg.Mailto),
	)
	paper := client.PaperAffiliation(cmd.Context(), title)

	fmt.Fprintln(out, "\n===== Research Paper Details =====")
	fmt.Fprintf(out, "Title: %s\n", paper.Title)
	fmt.Fprintf(out, "Authors: %s\n", joinOrUnknown(paper.Authors))
	fmt.Fprintf(out, "Collaborating Universities: %s\n", joinOrUnknown(paper.Institutions))

	if paper.Empty() {
		fmt.Fprintln(out, "No data to save.")
		return nil
	}

	path := orDefault(paperOutput, cfg.Files.Papers)
	if err := papers.AppendFile(path, paper); err != nil {
		return fmt.Errorf("saving paper: %w", err)
	}
	fmt.Fprintf(out, "Saved to %s\n", path)

	return archivePaper(cmd, paper)
}

func archivePaper(cmd *cobra.Command, paper collab.Paper) error {
	archive, err := openArchive()
	if err != nil || archive == nil {
		return err
	}
	defer archive.Close()

	run, err := archive.BeginRun(cmd.Context(), cmd.Name())
	if err != nil {
		return err
	}
	return archive.SavePaper(cmd.Context(), run.ID, paper)
}

func promptTitle(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Please enter the title of the research paper: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading title: %w", err)
	}
	return line, nil
}

func joinOrUnknown(items []string) string {
	if len(items) == 0 {
		return collab.Unknown
	}
	return strings.Join(items, papers.Separator)
}
