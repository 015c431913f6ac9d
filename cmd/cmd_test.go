package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/collabmap/format/locations"
	"github.com/lehigh-university-libraries/collabmap/format/papers"
)

const title = "Reliability Criteria in Information Theory and in Statistical Hypothesis Testing"

const worksBody = `{"results": [{
  "title": "Reliability Criteria in Information Theory and in Statistical Hypothesis Testing",
  "authorships": [
    {"author": {"display_name": "Evgueni Haroutunian"},
     "institutions": [{"display_name": "Institute for Informatics and Automation Problems"},
                      {"display_name": "National Academy of Sciences of Armenia"}]},
    {"author": {"display_name": "Mariam Haroutunian"},
     "institutions": [{"display_name": "Institute for Informatics and Automation Problems"}]}
  ]}]}`

// useConfigDir points the configuration at an empty directory with no
// request delay.
func useConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("COLLABMAP_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("request_delay: 1ms\n"), 0644))
	return dir
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPipeline(t *testing.T) {
	useConfigDir(t)
	dir := t.TempDir()
	papersFile := filepath.Join(dir, "papers.csv")
	locationsFile := filepath.Join(dir, "locations.csv")
	mapFile := filepath.Join(dir, "map.html")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works" {
			t.Errorf("unexpected request %s", r.URL)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(worksBody))
	}))
	defer srv.Close()
	t.Setenv("COLLABMAP_OPENALEX_URL", srv.URL)

	out, err := execute(t, title+"\n", "paper", "-o", papersFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Authors: Evgueni Haroutunian, Mariam Haroutunian")

	_, err = execute(t, "", "paper", title, "-o", papersFile)
	require.NoError(t, err)

	f, err := os.Open(papersFile)
	require.NoError(t, err)
	ps, err := papers.Read(f)
	f.Close()
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, title, ps[1].Title)

	// both institutions are in the built-in overrides, so no lookup is made
	out, err = execute(t, "", "locate", "-i", papersFile, "-o", locationsFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Resolved 2 of 2 institutions (0 lookups, 0 possible duplicates)")

	insts, err := locations.ReadFile(locationsFile)
	require.NoError(t, err)
	require.Len(t, locations.Known(insts), 2)

	out, err = execute(t, "", "map", "-i", locationsFile, "-o", mapFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Linked 2 institutions with 1 links")

	html, err := os.ReadFile(mapFile)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(html), "L.marker("))
	assert.Equal(t, 1, strings.Count(string(html), "L.polyline("))
}

func TestPaperNotFoundIsNotSaved(t *testing.T) {
	useConfigDir(t)
	papersFile := filepath.Join(t.TempDir(), "papers.csv")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()
	t.Setenv("COLLABMAP_OPENALEX_URL", srv.URL)

	out, err := execute(t, "", "paper", "Missing Paper", "-o", papersFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Authors: Unknown")
	assert.Contains(t, out, "No data to save.")
	assert.NoFileExists(t, papersFile)
}

func TestPaperRequiresTitle(t *testing.T) {
	useConfigDir(t)
	_, err := execute(t, "   \n", "paper")
	assert.ErrorContains(t, err, "no paper title given")
}

func TestPaperArchive(t *testing.T) {
	useConfigDir(t)
	dir := t.TempDir()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(worksBody))
	}))
	defer srv.Close()
	t.Setenv("COLLABMAP_OPENALEX_URL", srv.URL)

	db := filepath.Join(dir, "archive.db")
	_, err := execute(t, "", "paper", title, "-o", filepath.Join(dir, "papers.csv"), "--db", db)
	require.NoError(t, err)
	assert.FileExists(t, db)

	out, err := execute(t, "", "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "paper")
	assert.Contains(t, out, "now")

	_, err = execute(t, "", "runs")
	assert.ErrorContains(t, err, "no archive given")
}

func TestConfig(t *testing.T) {
	dir := useConfigDir(t)
	t.Setenv("COLLABMAP_MAILTO", "librarian@example.edu")

	out, err := execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "mailto: librarian@example.edu")
	assert.Contains(t, out, "request_delay: 1ms")

	out, err = execute(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "config.yaml"))

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "openalex_url: https://api.openalex.org")
}

func TestMapWithoutLocations(t *testing.T) {
	useConfigDir(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "locations.csv")
	require.NoError(t, os.WriteFile(input, []byte("University,Latitude,Longitude\nNowhere,N/A,N/A\nSomewhere,abc,1\n"), 0644))

	out, err := execute(t, "", "map", "-i", input, "-o", filepath.Join(dir, "map.html"))
	require.NoError(t, err)
	assert.Contains(t, out, "No valid university locations found")
	assert.NoFileExists(t, filepath.Join(dir, "map.html"))
}

func TestAffiliation(t *testing.T) {
	useConfigDir(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/":
			assert.Equal(t, `given-names:Jane AND family-name:Doe`, r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`{"result": [{"orcid-identifier": {"path": "0000-0001-2345-6789"}}]}`))
		case "/0000-0001-2345-6789":
			_, _ = w.Write([]byte(`{"activities-summary": {"employments": {"affiliation-group": [
				{"summaries": [{"employment-summary": {"organization": {"name": "Lehigh University"}}}]}]}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	t.Setenv("COLLABMAP_ORCID_URL", srv.URL)

	out, err := execute(t, "", "affiliation", "Jane", "Doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe: Lehigh University\n", out)
}

func TestEdgelist(t *testing.T) {
	useConfigDir(t)
	dir := t.TempDir()

	out, err := execute(t, "", "edgelist", "generate", "-d", dir)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "Wrote "))

	out, err = execute(t, "", "inspect", filepath.Join(dir, "graph1_edgelist.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "Valid: 2 rows of edgelist")

	plots := filepath.Join(dir, "plots")
	require.NoError(t, os.Mkdir(plots, 0755))
	_, err = execute(t, "", "edgelist", "plot", "--out-dir", plots,
		filepath.Join(dir, "graph2_edgelist.csv"), filepath.Join(dir, "graph3_edgelist.csv"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(plots, "graph2_edgelist.png"))
	assert.FileExists(t, filepath.Join(plots, "graph3_edgelist.png"))
}

func TestNetwork(t *testing.T) {
	useConfigDir(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "collaborations.csv")
	output := filepath.Join(dir, "network.png")
	require.NoError(t, os.WriteFile(input, []byte(
		"Author1,Author2,Collaboration_Count\nA,B,3\nA,C,1\nA,D,2\nB,C,1\n"), 0644))

	out, err := execute(t, "", "network", "-i", input, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Plotted 4 authors and 4 collaborations from 4 sampled rows")
	assert.FileExists(t, output)
}

func TestInspectRejectsUnknownTable(t *testing.T) {
	useConfigDir(t)
	input := filepath.Join(t.TempDir(), "mystery.csv")
	require.NoError(t, os.WriteFile(input, []byte("a,b\n1,2\n"), 0644))

	_, err := execute(t, "", "inspect", input)
	assert.ErrorContains(t, err, "could not detect format")

	_, err = execute(t, "", "inspect", "--format", "papers", input)
	assert.ErrorContains(t, err, "not a valid papers table")
}

func TestOverrides(t *testing.T) {
	dir := useConfigDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overrides.yaml"), []byte(
		"locations:\n  - name: Lehigh University\n    latitude: 40.6084\n    longitude: -75.378\n"), 0644))

	out, err := execute(t, "", "overrides")
	require.NoError(t, err)
	assert.Contains(t, out, "Institute for Informatics and Automation Problems")
	assert.Contains(t, out, "Lehigh University")
	assert.Contains(t, out, "40.6084")

	out, err = execute(t, "", "overrides", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "locations:")
	assert.Contains(t, out, "- name: Lehigh University")
}
