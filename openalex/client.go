// Package openalex is a small client for the OpenAlex works and institutions APIs.
package openalex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/collabmap/collab"
	"github.com/lehigh-university-libraries/collabmap/helpers"
)

// ErrNoResults is returned when a search matched nothing.
var ErrNoResults = errors.New("no results")

// Client queries the OpenAlex API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Mailto is sent as the mailto parameter to join the polite pool
	Mailto string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.HTTPClient = &http.Client{Timeout: d}
	}
}

// WithMailto sets the polite-pool contact address.
func WithMailto(mailto string) Option {
	return func(c *Client) {
		c.Mailto = mailto
	}
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchWorks runs a full-text works search.
func (c *Client) SearchWorks(ctx context.Context, query string) ([]*Work, error) {
	var page Page[*Work]
	if err := c.get(ctx, "/works", url.Values{"search": {query}}, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// ExactWork returns the first search result whose title equals title after
// normalisation, or nil when none matches.
func (c *Client) ExactWork(ctx context.Context, title string) (*Work, error) {
	works, err := c.SearchWorks(ctx, title)
	if err != nil {
		return nil, err
	}

	want := helpers.NormalizeTitle(title)
	for _, w := range works {
		if w == nil || w.Title == "" {
			continue
		}
		if helpers.NormalizeTitle(w.Title) == want {
			return w, nil
		}
	}

	slog.Info("no exact title match", "title", title, "results", len(works))
	return nil, nil
}

// PaperAffiliation looks up a paper by exact title and returns its authors and
// collaborating institutions. Lookup failures are logged and yield a Paper
// with empty author and institution lists.
func (c *Client) PaperAffiliation(ctx context.Context, title string) collab.Paper {
	paper := collab.Paper{Title: title}

	work, err := c.ExactWork(ctx, title)
	if err != nil {
		slog.Warn("OpenAlex works lookup failed", "title", title, "error", err)
		return paper
	}
	if work == nil {
		return paper
	}

	paper.Authors, paper.Institutions = Affiliations(work)
	return paper
}

// Affiliations extracts author names in authorship order and the unique
// institution names in first-seen order.
func Affiliations(w *Work) (authors, institutions []string) {
	authors = []string{}
	var names []string
	for _, a := range w.Authorships {
		if a == nil {
			continue
		}
		name := collab.Unknown
		if a.Author != nil && a.Author.DisplayName != "" {
			name = a.Author.DisplayName
		}
		authors = append(authors, name)

		for _, inst := range a.Institutions {
			if inst != nil && inst.DisplayName != "" {
				names = append(names, inst.DisplayName)
			}
		}
	}
	return authors, collab.UniqueStrings(names)
}

// SearchInstitution returns the first institution whose display name matches
// name, or ErrNoResults.
func (c *Client) SearchInstitution(ctx context.Context, name string) (*Institution, error) {
	params := url.Values{"filter": {"display_name.search:" + name}}

	var page Page[*Institution]
	if err := c.get(ctx, "/institutions", params, &page); err != nil {
		return nil, err
	}
	if len(page.Results) == 0 || page.Results[0] == nil {
		return nil, fmt.Errorf("institution %q: %w", name, ErrNoResults)
	}
	return page.Results[0], nil
}

// Geocode returns the coordinates of the first institution matching name.
// A match without geo fields yields unknown coordinates and no error.
func (c *Client) Geocode(ctx context.Context, name string) (collab.Coordinates, error) {
	inst, err := c.SearchInstitution(ctx, name)
	if err != nil {
		return collab.Coordinates{}, err
	}
	if inst.Geo == nil || inst.Geo.Latitude == nil || inst.Geo.Longitude == nil {
		return collab.Coordinates{}, nil
	}
	return collab.At(*inst.Geo.Latitude, *inst.Geo.Longitude), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.Mailto != "" {
		params.Set("mailto", c.Mailto)
	}
	u := c.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		slog.Debug("network request failed", "url", u, "error", err, "duration", time.Since(start))
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	slog.Debug("network request complete", "url", u, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("fetching %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
