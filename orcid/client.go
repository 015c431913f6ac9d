// Package orcid looks up an author's institution through the public ORCID API.
package orcid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/lehigh-university-libraries/collabmap/collab"
	"github.com/lehigh-university-libraries/collabmap/helpers"
)

// ErrNoEmployment is returned when no candidate record lists an employment.
var ErrNoEmployment = errors.New("no employment found")

// Employment paths in an ORCID record, v3 layout first.
var employmentPaths = []string{
	"activities-summary.employments.affiliation-group.0.summaries.0.employment-summary.organization.name",
	"activities-summary.employments.employment-summary.0.organization.name",
}

// Client queries the ORCID public API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// MaxCandidates caps how many search hits are fetched (default 10)
	MaxCandidates int
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:       strings.TrimSuffix(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: timeout},
		MaxCandidates: 10,
	}
}

// Affiliation returns the organisation of the first employment found among
// the search hits for author, or collab.UnknownInstitution.
func (c *Client) Affiliation(ctx context.Context, author string) string {
	org, err := c.Lookup(ctx, author)
	if err != nil {
		slog.Warn("ORCID affiliation lookup failed", "author", author, "error", err)
		return collab.UnknownInstitution
	}
	return org
}

// Lookup is Affiliation with errors reported instead of degraded.
func (c *Client) Lookup(ctx context.Context, author string) (string, error) {
	ids, err := c.Search(ctx, author)
	if err != nil {
		return "", err
	}

	for _, id := range ids {
		record, err := c.fetch(ctx, "/"+url.PathEscape(id), nil)
		if err != nil {
			slog.Debug("skipping ORCID record", "orcid", id, "error", err)
			continue
		}
		if org := FirstEmployment(record); org != "" {
			return org, nil
		}
	}

	return "", fmt.Errorf("%s: %w", author, ErrNoEmployment)
}

// Search returns the ORCID iDs matching author, in result order.
func (c *Client) Search(ctx context.Context, author string) ([]string, error) {
	q := Query(author)
	if q == "" {
		return nil, fmt.Errorf("empty author name")
	}

	params := url.Values{"q": {q}}
	if c.MaxCandidates > 0 {
		params.Set("rows", strconv.Itoa(c.MaxCandidates))
	}

	body, err := c.fetch(ctx, "/search/", params)
	if err != nil {
		return nil, err
	}

	var ids []string
	gjson.GetBytes(body, "result.#.orcid-identifier.path").ForEach(func(_, v gjson.Result) bool {
		if id := v.String(); id != "" {
			ids = append(ids, id)
		}
		return c.MaxCandidates <= 0 || len(ids) < c.MaxCandidates
	})
	return ids, nil
}

// Query builds the ORCID search query for a personal name.
func Query(author string) string {
	name := helpers.ParseName(author)
	if name == nil {
		return ""
	}
	if !name.HasFamily() {
		return "given-names:" + quote(name.Full)
	}
	return "given-names:" + quote(name.Given) + " AND family-name:" + quote(name.Family)
}

func quote(term string) string {
	if strings.ContainsAny(term, " \t") {
		return strconv.Quote(term)
	}
	return term
}

// FirstEmployment returns the first employment organisation name in an
// ORCID record, accepting both the v3 and v2 JSON layouts.
func FirstEmployment(record []byte) string {
	for _, path := range employmentPaths {
		if name := gjson.GetBytes(record, path).String(); name != "" {
			return name
		}
	}
	return ""
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", u, resp.StatusCode)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("fetching %s: invalid JSON", u)
	}
	return data, nil
}
