package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Provider = (*Simulated)(nil)
	_ Provider = (*Serper)(nil)
)

func TestSimulatedSearch(t *testing.T) {
	p := NewSimulated()
	resp, err := p.Search(context.Background(), "AI news")
	require.NoError(t, err)

	assert.Len(t, resp.Results, 2)
	assert.NotEmpty(t, resp.Note)
	assert.Contains(t, resp.Results[0].Title, "AI news")
	assert.Equal(t, "AI news", resp.Query)
}

func TestSimulatedSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulated().Search(ctx, "x")
	assert.Error(t, err)
}

func TestSerperSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organic":[
			{"title":"First","link":"https://a.example","snippet":"one"},
			{"title":"Second","link":"https://b.example","snippet":"two"},
			{"title":"Third","link":"https://c.example","snippet":"three"},
			{"title":"Fourth","link":"https://d.example","snippet":"four"},
			{"title":"Fifth","link":"https://e.example","snippet":"five"},
			{"title":"Sixth","link":"https://f.example","snippet":"six"}
		]}`))
	}))
	defer srv.Close()

	p := NewSerper("test-key", func(o *SerperOptions) { o.Endpoint = srv.URL })
	resp, err := p.Search(context.Background(), "golang")
	require.NoError(t, err)

	// Capped at five organic hits.
	assert.Len(t, resp.Results, 5)
	assert.Equal(t, "First", resp.Results[0].Title)
	assert.Equal(t, "https://a.example", resp.Results[0].URL)
	assert.Empty(t, resp.Note)
}

func TestSerperSearchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewSerper("bad-key", func(o *SerperOptions) { o.Endpoint = srv.URL })
	_, err := p.Search(context.Background(), "golang")
	assert.Error(t, err)
}
