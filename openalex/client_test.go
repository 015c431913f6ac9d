package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/collabmap/collab"
)

const worksBody = `{
  "meta": {"count": 2, "page": 1, "per_page": 25},
  "results": [
    {
      "id": "https://openalex.org/W1",
      "title": "Reliability criteria in information theory and in statistical hypothesis testing (survey)",
      "authorships": []
    },
    {
      "id": "https://openalex.org/W2",
      "title": "Reliability Criteria in Information Theory and in  Statistical Hypothesis Testing",
      "authorships": [
        {
          "author_position": "first",
          "author": {"id": "https://openalex.org/A1", "display_name": "Evgueni Haroutunian"},
          "institutions": [
            {"id": "https://openalex.org/I1", "display_name": "Institute for Informatics and Automation Problems"},
            {"id": "https://openalex.org/I2", "display_name": "National Academy of Sciences of Armenia"}
          ]
        },
        {
          "author_position": "last",
          "author": {"id": "https://openalex.org/A2"},
          "institutions": [
            null,
            {"id": "https://openalex.org/I1", "display_name": "Institute for Informatics and Automation Problems"}
          ]
        }
      ]
    }
  ]
}`

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithHTTPClient(srv.Client()))
}

func TestPaperAffiliation(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works", r.URL.Path)
		assert.Equal(t, "Reliability Criteria in Information Theory and in Statistical Hypothesis Testing", r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(worksBody))
	})

	got := c.PaperAffiliation(context.Background(), "Reliability Criteria in Information Theory and in Statistical Hypothesis Testing")

	assert.Equal(t, []string{"Evgueni Haroutunian", collab.Unknown}, got.Authors)
	assert.Equal(t, []string{
		"Institute for Informatics and Automation Problems",
		"National Academy of Sciences of Armenia",
	}, got.Institutions)
}

func TestAffiliationsWithoutAuthorships(t *testing.T) {
	authors, institutions := Affiliations(&Work{Title: "Lonely"})
	assert.Empty(t, authors)
	assert.Empty(t, institutions)
}

func TestPaperAffiliationDegrades(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results": [`))
		}},
		{"no exact match", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(worksBody))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, tt.handler)
			got := c.PaperAffiliation(context.Background(), "Some Other Paper")
			assert.Equal(t, "Some Other Paper", got.Title)
			assert.Empty(t, got.Authors)
			assert.Empty(t, got.Institutions)
			assert.True(t, got.Empty())
		})
	}
}

func TestExactWorkStripsMarkup(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [{"id": "W9", "title": "Growth of <i>E. coli</i>"}]}`))
	})

	work, err := c.ExactWork(context.Background(), "growth of e. coli")
	require.NoError(t, err)
	require.NotNil(t, work)
	assert.Equal(t, "W9", work.ID)
}

func TestGeocode(t *testing.T) {
	var calls atomic.Int32
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/institutions", r.URL.Path)
		assert.Equal(t, "someone@example.org", r.URL.Query().Get("mailto"))

		switch r.URL.Query().Get("filter") {
		case "display_name.search:Lehigh University":
			_, _ = w.Write([]byte(`{"results": [{"display_name": "Lehigh University", "geo": {"city": "Bethlehem", "latitude": 40.6069, "longitude": -75.3783}}]}`))
		case "display_name.search:Ghost Institute":
			_, _ = w.Write([]byte(`{"results": [{"display_name": "Ghost Institute", "geo": {"latitude": null, "longitude": null}}]}`))
		default:
			_, _ = w.Write([]byte(`{"results": []}`))
		}
	})
	c.Mailto = "someone@example.org"

	got, err := c.Geocode(context.Background(), "Lehigh University")
	require.NoError(t, err)
	assert.Equal(t, collab.At(40.6069, -75.3783), got)

	got, err = c.Geocode(context.Background(), "Ghost Institute")
	require.NoError(t, err)
	assert.False(t, got.Known)

	_, err = c.Geocode(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrNoResults)

	assert.Equal(t, int32(3), calls.Load())
}
