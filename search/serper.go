package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultSerperEndpoint = "https://google.serper.dev/search"

// maxSerperResults caps how many organic hits are returned per query.
const maxSerperResults = 5

// SerperOptions configure the Serper provider.
type SerperOptions struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Serper is a Provider backed by the serper.dev Google search API.
type Serper struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewSerper constructs a Serper provider with the given API key.
func NewSerper(apiKey string, optFns ...func(o *SerperOptions)) *Serper {
	opts := SerperOptions{
		Endpoint: defaultSerperEndpoint,
		Timeout:  10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Serper{apiKey: apiKey, endpoint: opts.Endpoint, client: client}
}

type serperRequest struct {
	Q string `json:"q"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search implements Provider.
func (s *Serper) Search(ctx context.Context, query string) (*Response, error) {
	payload, err := json.Marshal(serperRequest{Q: query})
	if err != nil {
		return nil, fmt.Errorf("marshal serper request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build serper request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper api error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper api status %d", resp.StatusCode)
	}

	var body serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode serper response: %w", err)
	}

	results := make([]Result, 0, maxSerperResults)
	for _, item := range body.Organic {
		if len(results) >= maxSerperResults {
			break
		}
		results = append(results, Result{Title: item.Title, Snippet: item.Snippet, URL: item.Link})
	}

	return &Response{Query: query, Results: results}, nil
}
