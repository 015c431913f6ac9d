package orcid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/collabmap/collab"
)

const searchBody = `{
  "num-found": 2,
  "result": [
    {"orcid-identifier": {"uri": "https://orcid.org/0000-0001-0000-0001", "path": "0000-0001-0000-0001", "host": "orcid.org"}},
    {"orcid-identifier": {"uri": "https://orcid.org/0000-0001-0000-0002", "path": "0000-0001-0000-0002", "host": "orcid.org"}}
  ]
}`

const v3Record = `{
  "orcid-identifier": {"path": "0000-0001-0000-0002"},
  "activities-summary": {
    "employments": {
      "affiliation-group": [
        {"summaries": [{"employment-summary": {"organization": {"name": "University of Trier"}}}]}
      ]
    }
  }
}`

const v2Record = `{
  "activities-summary": {
    "employments": {
      "employment-summary": [{"organization": {"name": "Schloss Dagstuhl"}}]
    }
  }
}`

func TestAffiliation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "given-names:Michael AND family-name:Ley", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(searchBody))
	})
	mux.HandleFunc("/0000-0001-0000-0001", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"activities-summary": {"employments": {"affiliation-group": []}}}`))
	})
	mux.HandleFunc("/0000-0001-0000-0002", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(v3Record))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	assert.Equal(t, "University of Trier", c.Affiliation(context.Background(), "Michael Ley"))
}

func TestAffiliationUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	assert.Equal(t, collab.UnknownInstitution, c.Affiliation(context.Background(), "Michael Ley"))
}

func TestLookupNoEmployment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"num-found": 0, "result": null}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 5*time.Second).Lookup(context.Background(), "Nobody")
	assert.ErrorIs(t, err, ErrNoEmployment)
}

func TestFirstEmployment(t *testing.T) {
	assert.Equal(t, "University of Trier", FirstEmployment([]byte(v3Record)))
	assert.Equal(t, "Schloss Dagstuhl", FirstEmployment([]byte(v2Record)))
	assert.Equal(t, "", FirstEmployment([]byte(`{}`)))
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "given-names:Michael", Query("Michael"))
	assert.Equal(t, `given-names:Jan AND family-name:"van Dijk"`, Query("Jan van Dijk"))
	assert.Equal(t, "", Query(" "))
}

func TestSearchCapsCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("rows"))
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	c.MaxCandidates = 1
	ids, err := c.Search(context.Background(), "Michael Ley")
	require.NoError(t, err)
	assert.Equal(t, []string{"0000-0001-0000-0001"}, ids)
}
