// Package search finds candidate manufacturer websites for a specialty via
// the Brave Search API.
package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/gulfbridge/medscout/internal/utils"
	"github.com/gulfbridge/medscout/pkg/record"
	"github.com/gulfbridge/medscout/pkg/whttp"
)

const braveSearchEndpoint = "https://api.search.brave.com/res/v1/web/search"

// DefaultQueryTemplates mirror the queries the research team uses manually.
// {specialty} is substituted before each request.
var DefaultQueryTemplates = []string{
	"{specialty} equipment manufacturers",
	"{specialty} medical devices companies",
	"top {specialty} manufacturers medical",
	"{specialty} equipment CE marked",
	"{specialty} devices FDA cleared",
}

type Client struct {
	apiKey     string
	endpoint   string
	maxResults int
	client     *retryablehttp.Client
}

func NewClient(apiKey string, maxResults int) *Client {
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Client{
		apiKey:     apiKey,
		endpoint:   braveSearchEndpoint,
		maxResults: maxResults,
		client:     whttp.GetDefaultClient(),
	}
}

// SetEndpoint overrides the Brave endpoint. Used by tests.
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// Search issues one request per query template and merges the results in
// template order, dropping duplicate domains. A failed template is skipped;
// an error is returned only when every template failed.
func (c *Client) Search(ctx context.Context, specialty string, templates []string) ([]record.CompanyCandidate, error) {
	if len(templates) == 0 {
		templates = DefaultQueryTemplates
	}

	var batches [][]record.CompanyCandidate
	failures := 0
	for _, tpl := range templates {
		query := strings.ReplaceAll(tpl, "{specialty}", specialty)
		results, err := c.searchQuery(ctx, query)
		if err != nil {
			utils.Log.Warnf("search query %q failed: %s", query, err)
			failures++
			continue
		}
		batches = append(batches, results)
	}

	if failures == len(templates) {
		return nil, fmt.Errorf("all %d search queries failed for %q", len(templates), specialty)
	}

	return MergeCandidates(batches), nil
}

func (c *Client) searchQuery(ctx context.Context, query string) ([]record.CompanyCandidate, error) {
	reqURL := fmt.Sprintf("%s?q=%s&count=%d", c.endpoint, url.QueryEscape(query), c.maxResults)

	res, err := whttp.SendHTTPRequest(&whttp.WHTTPReq{
		URL:    reqURL,
		Method: "GET",
		Headers: []whttp.WHTTPHeader{
			{Name: "Accept", Value: "application/json"},
			{Name: "X-Subscription-Token", Value: c.apiKey},
		},
	}, c.client)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("brave search returned status %d", res.StatusCode)
	}

	var out []record.CompanyCandidate
	for _, r := range gjson.Get(res.BodyString, "web.results").Array() {
		pageURL := gjson.Get(r.Raw, "url").Str
		if !strings.HasPrefix(pageURL, "http") {
			continue
		}
		out = append(out, record.CompanyCandidate{
			Name:    utils.CleanTitle(gjson.Get(r.Raw, "title").Str),
			URL:     pageURL,
			Snippet: utils.Truncate(gjson.Get(r.Raw, "description").Str, 300),
		})
		if len(out) >= c.maxResults {
			break
		}
	}
	return out, nil
}

// MergeCandidates flattens per-template result batches preserving order,
// keeping only the first candidate seen for each normalized domain.
func MergeCandidates(batches [][]record.CompanyCandidate) []record.CompanyCandidate {
	seen := make(map[string]bool)
	var merged []record.CompanyCandidate
	for _, batch := range batches {
		for _, cand := range batch {
			key := NormalizeDomain(cand.URL)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, cand)
		}
	}
	return merged
}
