// Package search defines the web-search capability interface with two
// implementations behind it: a deterministic simulated provider used when no
// API key is configured, and a Serper-backed network provider.
package search

import (
	"context"
	"fmt"
)

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Response is an ordered set of results for a query. Note is set by the
// simulated provider so downstream consumers can tell canned results from
// live ones.
type Response struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
	Note    string   `json:"note,omitempty"`
}

// Provider is the abstract search capability the web_search tool depends on.
type Provider interface {
	Search(ctx context.Context, query string) (*Response, error)
}

// Simulated returns fixed results derived from the query. It never fails and
// makes no network calls.
type Simulated struct{}

// NewSimulated constructs a Simulated provider.
func NewSimulated() *Simulated { return &Simulated{} }

// Search implements Provider.
func (s *Simulated) Search(ctx context.Context, query string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Response{
		Query: query,
		Results: []Result{
			{
				Title:   fmt.Sprintf("Search result for: %s", query),
				Snippet: fmt.Sprintf("Information about %s", query),
				URL:     "https://example.com",
			},
			{
				Title:   fmt.Sprintf("Related to: %s", query),
				Snippet: fmt.Sprintf("More details on %s", query),
				URL:     "https://example2.com",
			},
		},
		Note: "simulated results - configure a search API key for live search",
	}, nil
}
