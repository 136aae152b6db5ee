package tool

import (
	"context"

	"github.com/agentfold/agentfold/search"
)

// WebSearch runs a query through a search.Provider.
type WebSearch struct {
	provider search.Provider
}

// NewWebSearch constructs the web_search tool over the given provider.
func NewWebSearch(provider search.Provider) *WebSearch {
	return &WebSearch{provider: provider}
}

// Name implements Tool.
func (w *WebSearch) Name() string { return "web_search" }

// Description implements Tool.
func (w *WebSearch) Description() string { return "Search the web for information" }

// Parameters implements Tool.
func (w *WebSearch) Parameters() map[string]any {
	return stringParameters("query", "Search query text")
}

// Call implements Tool.
func (w *WebSearch) Call(ctx context.Context, input string) (any, error) {
	return w.provider.Search(ctx, input)
}
